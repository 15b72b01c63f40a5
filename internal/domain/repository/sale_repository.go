package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/reparto-api/internal/domain/entity"
)

// SaleFilter filtros del listado de ventas. Fechas inclusivas; nil = sin límite.
type SaleFilter struct {
	BusinessID string
	CustomerID string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// SaleRepository define el puerto de persistencia para Sale y sus asignaciones de cobro.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, businessID, id string) (*entity.Sale, error)
	// Update reemplaza cabecera y líneas.
	Update(ctx context.Context, sale *entity.Sale) error
	// Delete borra la venta, sus líneas y las asignaciones en las que participa.
	Delete(ctx context.Context, businessID, id string) error
	List(ctx context.Context, filter SaleFilter) ([]*entity.Sale, error)
	// ListPendingByCustomer ventas (no cobros) del cliente con saldo pendiente, más antiguas primero.
	ListPendingByCustomer(ctx context.Context, businessID, customerID string) ([]*entity.Sale, error)
	// PendingBalances saldo pendiente por cliente, en una sola agregación agrupada.
	// customerIDs vacío = todos los clientes del negocio. Los clientes sin saldo no aparecen.
	PendingBalances(ctx context.Context, businessID string, customerIDs []string) (map[string]decimal.Decimal, error)

	// AddCollected suma delta (puede ser negativo) al monto cobrado de una venta.
	AddCollected(ctx context.Context, saleID string, delta decimal.Decimal) error
	CreateAllocations(ctx context.Context, allocations []entity.PaymentAllocation) error
	AllocationsByCollection(ctx context.Context, collectionID string) ([]entity.PaymentAllocation, error)
	AllocationsBySale(ctx context.Context, saleID string) ([]entity.PaymentAllocation, error)
	DeleteAllocationsByCollection(ctx context.Context, collectionID string) error
	DeleteAllocationsBySale(ctx context.Context, saleID string) error
}
