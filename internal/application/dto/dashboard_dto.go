package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	// Período consultado
	From      time.Time `json:"desde"`
	To        time.Time `json:"hasta"`
	DateLabel string    `json:"periodo"`

	// Flujo de caja del período
	SalesTotal    decimal.Decimal `json:"ventas_total"`
	CashCollected decimal.Decimal `json:"cobrado"`
	Expenses      decimal.Decimal `json:"gastos"`
	NetCashFlow   decimal.Decimal `json:"flujo_neto"` // cobrado - gastos

	SalesCount       int            `json:"cantidad_ventas"`
	CollectionsCount int            `json:"cantidad_cobros"`
	ByPaymentMethod  map[string]int `json:"por_metodo_pago"`

	// Foto actual (no depende del período)
	PendingTotal       decimal.Decimal    `json:"saldo_pendiente_total"`
	CustomersWithDebt  int                `json:"clientes_con_deuda"`
	ContainerDebt      DebtDTO            `json:"deuda_envases"`
	Inventory          InventoryDashboard `json:"inventario"`
	InventoryValuation decimal.Decimal    `json:"valorizacion_total"`
}
