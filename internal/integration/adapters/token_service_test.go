package adapters

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/BlvckBrry/finance-tracker/internal/integration/persistence"
)

func newTokenService(t *testing.T) *tokenService {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	repo := persistence.NewTokenRepository(client)
	return NewTokenService("test-secret", repo).(*tokenService)
}

func TestTokenService(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("generated pair validates back to the same claims", func(t *testing.T) {
		service := newTokenService(t)

		pair, err := service.GenerateTokenPair(ctx, userID, "user@example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if pair.AccessToken == "" || pair.RefreshToken == "" {
			t.Fatal("expected both tokens")
		}

		claims, err := service.ValidateAccessToken(ctx, pair.AccessToken)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if claims.UserID != userID || claims.Email != "user@example.com" {
			t.Errorf("unexpected claims: %+v", claims)
		}

		if _, err := service.ValidateRefreshToken(ctx, pair.RefreshToken); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("a refresh token does not pass as an access token", func(t *testing.T) {
		service := newTokenService(t)

		pair, err := service.GenerateTokenPair(ctx, userID, "user@example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := service.ValidateAccessToken(ctx, pair.RefreshToken); err == nil {
			t.Error("expected a token type error")
		}
		if _, err := service.ValidateRefreshToken(ctx, pair.AccessToken); err == nil {
			t.Error("expected a token type error")
		}
	})

	t.Run("garbage tokens are rejected", func(t *testing.T) {
		service := newTokenService(t)

		if _, err := service.ValidateAccessToken(ctx, "not-a-jwt"); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("a token signed with another secret is rejected", func(t *testing.T) {
		service := newTokenService(t)
		other := newTokenService(t)
		other.secret = []byte("different-secret")

		pair, err := other.GenerateTokenPair(ctx, userID, "user@example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := service.ValidateAccessToken(ctx, pair.AccessToken); err == nil {
			t.Error("expected a signature error")
		}
	})

	t.Run("invalidated refresh tokens are reported as invalid", func(t *testing.T) {
		service := newTokenService(t)

		pair, err := service.GenerateTokenPair(ctx, userID, "user@example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		valid, err := service.IsRefreshTokenValid(ctx, pair.RefreshToken)
		if err != nil || !valid {
			t.Fatalf("expected a valid token, got valid=%v err=%v", valid, err)
		}

		if err := service.InvalidateRefreshToken(ctx, pair.RefreshToken); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		valid, err = service.IsRefreshTokenValid(ctx, pair.RefreshToken)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if valid {
			t.Error("expected the token to be invalid after logout")
		}
	})
}

func TestPasswordService(t *testing.T) {
	service := NewPasswordService()

	t.Run("hash verifies against the original password", func(t *testing.T) {
		hash, err := service.HashPassword("s3cure-Password!")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if hash == "s3cure-Password!" {
			t.Fatal("expected the hash to differ from the password")
		}
		if err := service.VerifyPassword(hash, "s3cure-Password!"); err != nil {
			t.Errorf("expected the password to verify, got %v", err)
		}
	})

	t.Run("wrong password fails verification", func(t *testing.T) {
		hash, err := service.HashPassword("s3cure-Password!")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := service.VerifyPassword(hash, "wrong"); err == nil {
			t.Error("expected verification to fail")
		}
	})

	t.Run("hashing is salted", func(t *testing.T) {
		first, err := service.HashPassword("same-password")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := service.HashPassword("same-password")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if first == second {
			t.Error("expected different hashes for the same password")
		}
	})

	t.Run("short passwords fail the strength check", func(t *testing.T) {
		if err := service.ValidatePasswordStrength("short"); err == nil {
			t.Error("expected a strength error")
		}
		if err := service.ValidatePasswordStrength("long enough password"); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
