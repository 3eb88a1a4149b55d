// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const refreshTokenKeyPrefix = "refresh_token:"

// TokenRepository tracks which refresh tokens are still valid. Tokens live
// in Redis with a TTL matching their expiry, so revocation is a delete and
// expiry needs no sweeper.
type TokenRepository interface {
	// SaveRefreshToken stores a refresh token until expiresAt.
	SaveRefreshToken(ctx context.Context, token string, userID uuid.UUID, expiresAt time.Time) error

	// IsRefreshTokenValid checks if a refresh token exists and has not been revoked.
	IsRefreshTokenValid(ctx context.Context, token string) (bool, error)

	// InvalidateRefreshToken revokes a refresh token.
	InvalidateRefreshToken(ctx context.Context, token string) error
}

// tokenRepository implements the TokenRepository interface on Redis.
type tokenRepository struct {
	client *redis.Client
}

// NewTokenRepository creates a new token repository instance.
func NewTokenRepository(client *redis.Client) TokenRepository {
	return &tokenRepository{
		client: client,
	}
}

// SaveRefreshToken stores the token keyed by its digest with a TTL matching
// the expiry.
func (r *tokenRepository) SaveRefreshToken(ctx context.Context, token string, userID uuid.UUID, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, refreshTokenKey(token), userID.String(), ttl).Err()
}

// IsRefreshTokenValid checks if a refresh token exists and has not been revoked.
func (r *tokenRepository) IsRefreshTokenValid(ctx context.Context, token string) (bool, error) {
	err := r.client.Get(ctx, refreshTokenKey(token)).Err()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// InvalidateRefreshToken revokes a refresh token.
func (r *tokenRepository) InvalidateRefreshToken(ctx context.Context, token string) error {
	return r.client.Del(ctx, refreshTokenKey(token)).Err()
}

// refreshTokenKey hashes the token so raw JWTs never appear as Redis keys.
func refreshTokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return refreshTokenKeyPrefix + hex.EncodeToString(sum[:])
}
