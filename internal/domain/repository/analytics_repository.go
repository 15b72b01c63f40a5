package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/reparto-api/internal/domain/entity"
)

// SalesMetrics resultado crudo de ventas en un período.
type SalesMetrics struct {
	SalesTotal    decimal.Decimal // suma de totales de ventas (sin cobros)
	CashCollected decimal.Decimal // suma de montos pagados (ventas y cobros)
	SalesCount    int
	Collections   int
	ByMethod      map[string]int // cantidad de operaciones por método de pago
}

// DebtMetrics foto actual de deuda del negocio (no depende del período).
type DebtMetrics struct {
	PendingTotal      decimal.Decimal
	CustomersWithDebt int
	Containers        entity.ContainerDebt
}

// AnalyticsRepository consultas de lectura para el dashboard.
// Las implementaciones son read-only (no modifican datos).
type AnalyticsRepository interface {
	GetSalesMetrics(ctx context.Context, businessID string, from, to time.Time) (*SalesMetrics, error)
	GetExpensesTotal(ctx context.Context, businessID string, from, to time.Time) (decimal.Decimal, error)
	GetDebtMetrics(ctx context.Context, businessID string) (*DebtMetrics, error)
}
