package auth

import (
	"context"
	"time"

	"github.com/jhoicas/reparto-api/internal/domain/repository"
)

// SignupTxRunner crea negocio, catálogo, inventario y admin en una sola transacción.
type SignupTxRunner interface {
	RunSignup(ctx context.Context, fn func(
		businessRepo repository.BusinessRepository,
		catalogRepo repository.CatalogRepository,
		inventoryRepo repository.InventoryRepository,
		userRepo repository.UserRepository,
	) error) error
}

// TokenRevoker lista de tokens revocados (logout). Cada entrada vive hasta que el token expira.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// NopRevoker revocación deshabilitada (sin Redis): el logout solo descarta el token en el cliente.
type NopRevoker struct{}

func (NopRevoker) Revoke(context.Context, string, time.Duration) error { return nil }
func (NopRevoker) IsRevoked(context.Context, string) (bool, error)     { return false, nil }
