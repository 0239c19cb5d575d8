package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"healthmon-backend/config"
	"healthmon-backend/internal/delivery/dto"
	"healthmon-backend/pkg/jwt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAdminNotConfigured = errors.New("admin credential is not configured")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenRevoked       = errors.New("token has been revoked")
)

const adminRole = "admin"

type AuthUsecase interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, tokenID string) error
	// Authenticate accepts a bearer token only while its id is still whitelisted.
	Authenticate(ctx context.Context, token string) (*jwt.Claims, error)
	GetCurrentAdmin(ctx context.Context, username string) (*dto.AdminResponse, error)
}

type authUsecase struct {
	log          *logrus.Logger
	username     string
	passwordHash []byte
	jwtService   *jwt.JWTService
	redisClient  *redis.Client
}

// NewAuthUsecase hashes a plaintext admin password once at startup when no
// precomputed hash is configured.
func NewAuthUsecase(
	log *logrus.Logger,
	cfg config.AdminConfig,
	jwtService *jwt.JWTService,
	redisClient *redis.Client,
) (AuthUsecase, error) {
	hash := []byte(cfg.PasswordHash)
	if len(hash) == 0 {
		if cfg.Password == "" {
			return nil, ErrAdminNotConfigured
		}
		generated, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
		hash = generated
	}

	return &authUsecase{
		log:          log,
		username:     cfg.Username,
		passwordHash: hash,
		jwtService:   jwtService,
		redisClient:  redisClient,
	}, nil
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	if subtle.ConstantTimeCompare([]byte(req.Username), []byte(u.username)) != 1 {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(u.passwordHash, []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, tokenID, err := u.jwtService.GenerateAccessToken(u.username)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	// Store token in Redis
	if err := u.redisClient.Set(ctx, jwt.WhitelistKey(tokenID), u.username, u.jwtService.GetAccessExpiry()).Err(); err != nil {
		u.log.Warnf("Failed to store access token in Redis: %+v", err)
		return nil, err
	}

	u.log.Infof("Admin %s logged in", u.username)

	return &dto.TokenResponse{
		AccessToken: accessToken,
		ExpiresIn:   int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

func (u *authUsecase) Logout(ctx context.Context, tokenID string) error {
	if err := u.redisClient.Del(ctx, jwt.WhitelistKey(tokenID)).Err(); err != nil {
		u.log.Warnf("Failed to revoke access token: %+v", err)
		return err
	}
	return nil
}

func (u *authUsecase) Authenticate(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := u.jwtService.ValidateToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	exists, err := u.redisClient.Exists(ctx, jwt.WhitelistKey(claims.TokenID)).Result()
	if err != nil {
		u.log.Warnf("Failed to check token whitelist: %+v", err)
		return nil, err
	}
	if exists == 0 {
		return nil, ErrTokenRevoked
	}

	return claims, nil
}

func (u *authUsecase) GetCurrentAdmin(ctx context.Context, username string) (*dto.AdminResponse, error) {
	if username != u.username {
		return nil, ErrInvalidCredentials
	}
	return &dto.AdminResponse{Username: username, Role: adminRole}, nil
}
