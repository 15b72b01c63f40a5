package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateExpenseRequest alta de gasto.
type CreateExpenseRequest struct {
	Date    string          `json:"fecha"`
	Concept string          `json:"concepto" validate:"required,max=200"`
	Amount  decimal.Decimal `json:"monto" validate:"gt=0"`
}

// UpdateExpenseRequest actualización parcial de gasto.
type UpdateExpenseRequest struct {
	Date    *string          `json:"fecha"`
	Concept *string          `json:"concepto" validate:"omitempty,min=1,max=200"`
	Amount  *decimal.Decimal `json:"monto"`
}

// DateRangeRequest filtro desde/hasta (query string).
type DateRangeRequest struct {
	From string `query:"desde"`
	To   string `query:"hasta"`
}

// ExpenseResponse gasto.
type ExpenseResponse struct {
	ID        string          `json:"id"`
	Date      time.Time       `json:"fecha"`
	Concept   string          `json:"concepto"`
	Amount    decimal.Decimal `json:"monto"`
	RefillID  string          `json:"llenado_id,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// RefillItemRequest línea de llenado.
type RefillItemRequest struct {
	Product  string          `json:"producto" validate:"required,max=120"`
	Quantity int             `json:"cantidad" validate:"required,min=1"`
	UnitCost decimal.Decimal `json:"costo_unitario" validate:"gte=0"`
}

// CreateRefillRequest alta de llenado.
type CreateRefillRequest struct {
	Date  string              `json:"fecha"`
	Items []RefillItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateRefillRequest edición de llenado. Items nil conserva las líneas.
type UpdateRefillRequest struct {
	Date  *string             `json:"fecha"`
	Items []RefillItemRequest `json:"items" validate:"omitempty,dive"`
}

// RefillItemDTO línea de llenado en respuestas.
type RefillItemDTO struct {
	Product  string          `json:"producto"`
	Quantity int             `json:"cantidad"`
	UnitCost decimal.Decimal `json:"costo_unitario"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// RefillResponse llenado con el id del gasto asociado si lo tiene.
type RefillResponse struct {
	ID        string          `json:"id"`
	Date      time.Time       `json:"fecha"`
	Items     []RefillItemDTO `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ExpenseID string          `json:"gasto_id,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
