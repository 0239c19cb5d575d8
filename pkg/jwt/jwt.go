package jwt

import (
	"errors"
	"fmt"
	"time"

	"healthmon-backend/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "healthmon"

var ErrMissingSecret = errors.New("jwt secret is not configured")

// Claims identify the dashboard admin. TokenID is whitelisted in Redis so a
// logout can revoke a token before it expires.
type Claims struct {
	Username string `json:"username"`
	TokenID  string `json:"token_id"`
	jwt.RegisteredClaims
}

type JWTService struct {
	secret []byte
	expiry time.Duration
	parser *jwt.Parser
	now    func() time.Time
}

func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{
		secret: []byte(cfg.Secret),
		expiry: cfg.AccessExpiry,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(issuer),
			jwt.WithExpirationRequired(),
		),
		now: time.Now,
	}
}

// GenerateAccessToken returns the signed token and its id.
func (s *JWTService) GenerateAccessToken(username string) (string, string, error) {
	if len(s.secret) == 0 {
		return "", "", ErrMissingSecret
	}

	tokenID := uuid.NewString()
	now := s.now()
	claims := Claims{
		Username: username,
		TokenID:  tokenID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Issuer:    issuer,
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, tokenID, nil
}

func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	if len(s.secret) == 0 {
		return nil, ErrMissingSecret
	}

	claims := &Claims{}
	token, err := s.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.TokenID == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func (s *JWTService) GetAccessExpiry() time.Duration {
	return s.expiry
}

// WhitelistKey is the Redis key that marks an issued token as still valid.
func WhitelistKey(tokenID string) string {
	return "healthmon:admin_token:" + tokenID
}
