package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense (gasto) asiento de egreso. RefillID no vacío indica que lo generó un llenado
// y que su monto/fecha se sincronizan desde él.
type Expense struct {
	ID         string
	BusinessID string
	Date       time.Time
	Concept    string
	Amount     decimal.Decimal
	RefillID   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
