package repository

import (
	"context"

	"github.com/jhoicas/reparto-api/internal/domain/entity"
)

// BusinessRepository define el puerto de persistencia para Business (DIP).
// La implementación vive en infrastructure.
type BusinessRepository interface {
	Create(ctx context.Context, business *entity.Business) error
	GetByID(ctx context.Context, id string) (*entity.Business, error)
	// GetByLinkCode resuelve el negocio cuyo código vigente es code. (nil, nil) si no existe.
	GetByLinkCode(ctx context.Context, code string) (*entity.Business, error)
	// LinkCodeTaken informa si code es el código vigente de un negocio distinto de excludeID.
	LinkCodeTaken(ctx context.Context, code, excludeID string) (bool, error)
	Update(ctx context.Context, business *entity.Business) error
	List(ctx context.Context, limit, offset int) ([]*entity.Business, error)
}

// CatalogRepository catálogo de productos por negocio (baja lógica).
type CatalogRepository interface {
	Create(ctx context.Context, product *entity.CatalogProduct) error
	GetByID(ctx context.Context, businessID, id string) (*entity.CatalogProduct, error)
	GetByKey(ctx context.Context, businessID, key string) (*entity.CatalogProduct, error)
	List(ctx context.Context, businessID string, includeInactive bool) ([]*entity.CatalogProduct, error)
	Update(ctx context.Context, product *entity.CatalogProduct) error
}

// InventoryRepository activos propios por categoría.
type InventoryRepository interface {
	List(ctx context.Context, businessID string) ([]*entity.InventoryAsset, error)
	Upsert(ctx context.Context, asset *entity.InventoryAsset) error
}
