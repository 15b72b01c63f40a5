package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// BusinessResponse datos del negocio con su catálogo activo.
type BusinessResponse struct {
	ID             string           `json:"id"`
	Name           string           `json:"nombre"`
	LinkCode       string           `json:"codigo_vinculacion,omitempty"`
	Suspended      bool             `json:"suspendido"`
	Phone          string           `json:"telefono"`
	Email          string           `json:"email"`
	Address        string           `json:"direccion"`
	OnboardingDone bool             `json:"onboarding_completo"`
	Catalog        []CatalogItemDTO `json:"catalogo,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

// UpdateBusinessRequest actualización parcial del negocio.
type UpdateBusinessRequest struct {
	Name    *string `json:"nombre" validate:"omitempty,min=1,max=200"`
	Phone   *string `json:"telefono" validate:"omitempty,max=50"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Address *string `json:"direccion" validate:"omitempty,max=300"`
}

// SuspendRequest kill-switch del superadmin.
type SuspendRequest struct {
	Suspended bool `json:"suspendido"`
}

// CatalogItemDTO producto del catálogo (forma {key, label, precioDefault}).
type CatalogItemDTO struct {
	ID           string          `json:"id"`
	Key          string          `json:"key"`
	Label        string          `json:"label"`
	DefaultPrice decimal.Decimal `json:"precioDefault"`
	Active       bool            `json:"activo"`
}

// CreateCatalogItemRequest alta de producto en el catálogo.
type CreateCatalogItemRequest struct {
	Key          string          `json:"key" validate:"required,max=60"`
	Label        string          `json:"label" validate:"required,max=120"`
	DefaultPrice decimal.Decimal `json:"precioDefault" validate:"gte=0"`
}

// UpdateCatalogItemRequest actualización parcial de un producto.
type UpdateCatalogItemRequest struct {
	Label        *string          `json:"label" validate:"omitempty,min=1,max=120"`
	DefaultPrice *decimal.Decimal `json:"precioDefault"`
}

// InventoryCategoryDTO estado de una categoría en el dashboard de inventario.
type InventoryCategoryDTO struct {
	Total           int             `json:"total"`
	EnCalle         int             `json:"enCalle"`
	EnDeposito      int             `json:"enDeposito"`
	CostoReposicion decimal.Decimal `json:"costoReposicion"`
	Valorizacion    decimal.Decimal `json:"valorizacion"`
}

// InventoryDashboard clave = categoría (bidones_20L, bidones_12L, sodas, dispensers).
type InventoryDashboard map[string]InventoryCategoryDTO

// InventoryPatchDTO actualización parcial de una categoría.
type InventoryPatchDTO struct {
	CantidadTotal   *int             `json:"cantidadTotal" validate:"omitempty,min=0"`
	CostoReposicion *decimal.Decimal `json:"costoReposicion"`
}

// UpdateInventoryRequest clave = categoría; las categorías omitidas no cambian.
type UpdateInventoryRequest map[string]InventoryPatchDTO
