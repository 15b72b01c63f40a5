package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/reparto-api/internal/application/auth"
)

const revokedPrefix = "auth:revoked:"

var _ auth.TokenRevoker = (*TokenRevoker)(nil)

// TokenRevoker lista de jti revocados en Redis; cada clave expira junto con el token.
type TokenRevoker struct {
	client goredis.Cmdable
}

// NewTokenRevoker construye el adaptador.
func NewTokenRevoker(client goredis.Cmdable) *TokenRevoker {
	return &TokenRevoker{client: client}
}

// Revoke marca el token como revocado durante ttl. Un ttl no positivo no hace nada (ya expiró).
func (r *TokenRevoker) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" || ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, revokedPrefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked informa si el token fue revocado.
func (r *TokenRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	err := r.client.Get(ctx, revokedPrefix+tokenID).Err()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return true, nil
}
