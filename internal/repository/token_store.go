package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenStore keeps revoked access-token ids in Redis so logout takes effect
// before the JWT itself expires. A nil client disables the blacklist, which
// leaves tokens valid until their natural expiry.
type TokenStore struct {
	client *redis.Client
	prefix string
}

// NewTokenStore constructs a token store.
func NewTokenStore(client *redis.Client, prefix string) *TokenStore {
	if prefix == "" {
		prefix = "auth:revoked"
	}
	return &TokenStore{client: client, prefix: prefix}
}

func (s *TokenStore) key(jti string) string {
	return fmt.Sprintf("%s:%s", s.prefix, jti)
}

// Revoke blacklists a token id until the token would have expired anyway.
func (s *TokenStore) Revoke(ctx context.Context, jti string, until time.Time) error {
	if s.client == nil || jti == "" {
		return nil
	}
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, s.key(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token %s: %w", jti, err)
	}
	return nil
}

// IsRevoked reports whether a token id has been blacklisted.
func (s *TokenStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if s.client == nil || jti == "" {
		return false, nil
	}
	if err := s.client.Get(ctx, s.key(jti)).Err(); err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("check revoked token %s: %w", jti, err)
	}
	return true, nil
}
