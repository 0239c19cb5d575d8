package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"healthmon-backend/config"
	"healthmon-backend/internal/delivery/dto"
	"healthmon-backend/internal/testutil"
	"healthmon-backend/pkg/jwt"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newAuth(t *testing.T) (AuthUsecase, *jwt.JWTService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "test-secret", AccessExpiry: time.Hour})
	uc, err := NewAuthUsecase(testutil.NewLogger(), config.AdminConfig{Username: "admin", Password: "rahasia"}, jwtService, client)
	if err != nil {
		t.Fatalf("NewAuthUsecase: %v", err)
	}
	return uc, jwtService, mr
}

func TestLoginAndLogout(t *testing.T) {
	uc, jwtService, mr := newAuth(t)
	ctx := context.Background()

	token, err := uc.Login(ctx, &dto.LoginRequest{Username: "admin", Password: "rahasia"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token.ExpiresIn != 3600 {
		t.Fatalf("expected 3600s expiry, got %d", token.ExpiresIn)
	}

	claims, err := jwtService.ValidateToken(token.AccessToken)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if !mr.Exists(jwt.WhitelistKey(claims.TokenID)) {
		t.Fatalf("expected token to be whitelisted")
	}

	if _, err := uc.Authenticate(ctx, token.AccessToken); err != nil {
		t.Fatalf("Authenticate before logout: %v", err)
	}

	if err := uc.Logout(ctx, claims.TokenID); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if mr.Exists(jwt.WhitelistKey(claims.TokenID)) {
		t.Fatalf("expected token to be revoked")
	}
	if _, err := uc.Authenticate(ctx, token.AccessToken); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked, got %v", err)
	}
}

func TestAuthenticateRejectsForeignToken(t *testing.T) {
	uc, _, _ := newAuth(t)

	other := jwt.NewJWTService(config.JWTConfig{Secret: "other-secret", AccessExpiry: time.Hour})
	forged, _, err := other.GenerateAccessToken("admin")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	for _, token := range []string{forged, "not-a-jwt", ""} {
		if _, err := uc.Authenticate(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", token, err)
		}
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	uc, _, _ := newAuth(t)
	ctx := context.Background()

	cases := []dto.LoginRequest{
		{Username: "admin", Password: "salah"},
		{Username: "root", Password: "rahasia"},
	}
	for _, c := range cases {
		if _, err := uc.Login(ctx, &c); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials for %s, got %v", c.Username, err)
		}
	}
}

func TestNewAuthUsecaseRequiresCredential(t *testing.T) {
	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "s", AccessExpiry: time.Minute})
	if _, err := NewAuthUsecase(testutil.NewLogger(), config.AdminConfig{Username: "admin"}, jwtService, nil); !errors.Is(err, ErrAdminNotConfigured) {
		t.Fatalf("expected ErrAdminNotConfigured, got %v", err)
	}
}
