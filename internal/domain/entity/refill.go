package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RefillItem línea de un llenado (reposición de stock).
type RefillItem struct {
	Product  string
	Quantity int
	UnitCost decimal.Decimal
	Subtotal decimal.Decimal
}

// Refill llenado del camión/depósito. Con Total > 0 tiene exactamente un gasto asociado.
type Refill struct {
	ID         string
	BusinessID string
	Date       time.Time
	Items      []RefillItem
	Total      decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
