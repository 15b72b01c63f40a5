package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento en el historial del cliente.
const (
	SaleTypeSale       = "venta"
	SaleTypeCollection = "cobro"
)

// SaleItemRequest línea de venta; el precio se congela al guardar.
type SaleItemRequest struct {
	Product   string          `json:"producto" validate:"required,max=120"`
	Quantity  int             `json:"cantidad" validate:"required,min=1"`
	UnitPrice decimal.Decimal `json:"precio_unitario" validate:"gte=0"`
}

// CreateSaleRequest alta de venta. items vacío = cobro (pago contra deuda anterior).
type CreateSaleRequest struct {
	CustomerID    string            `json:"cliente_id" validate:"required,uuid"`
	Date          string            `json:"fecha"`
	Items         []SaleItemRequest `json:"items" validate:"dive"`
	Discount      decimal.Decimal   `json:"descuento" validate:"gte=0"`
	PaymentMethod string            `json:"metodo_pago" validate:"omitempty,oneof=efectivo fiado transferencia"`
	AmountPaid    *decimal.Decimal  `json:"monto_pagado"`
}

// UpdateSaleRequest edición de venta. Items nil conserva las líneas; [] no es válido para una venta.
type UpdateSaleRequest struct {
	Date          *string           `json:"fecha"`
	Items         []SaleItemRequest `json:"items" validate:"omitempty,dive"`
	Discount      *decimal.Decimal  `json:"descuento"`
	PaymentMethod *string           `json:"metodo_pago" validate:"omitempty,oneof=efectivo fiado transferencia"`
	AmountPaid    *decimal.Decimal  `json:"monto_pagado"`
}

// SaleListRequest filtros del listado (query string).
type SaleListRequest struct {
	PageRequest
	CustomerID string `query:"cliente_id" validate:"omitempty,uuid"`
	From       string `query:"desde"`
	To         string `query:"hasta"`
}

// SaleItemDTO línea de venta en respuestas.
type SaleItemDTO struct {
	Product   string          `json:"producto"`
	Quantity  int             `json:"cantidad"`
	UnitPrice decimal.Decimal `json:"precio_unitario"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// SaleResponse venta o cobro con su saldo pendiente derivado.
type SaleResponse struct {
	ID              string          `json:"id"`
	CustomerID      string          `json:"cliente_id"`
	Date            time.Time       `json:"fecha"`
	Type            string          `json:"tipo"`
	Items           []SaleItemDTO   `json:"items"`
	Discount        decimal.Decimal `json:"descuento"`
	Total           decimal.Decimal `json:"total"`
	PaymentMethod   string          `json:"metodo_pago"`
	AmountPaid      decimal.Decimal `json:"monto_pagado"`
	AmountCollected decimal.Decimal `json:"monto_cobrado"`
	PendingBalance  decimal.Decimal `json:"saldo_pendiente"`
	CreatedBy       string          `json:"creado_por,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// SaleResultResponse venta guardada más la deuda de envases resultante del cliente.
type SaleResultResponse struct {
	Sale         SaleResponse `json:"venta"`
	CustomerDebt DebtDTO      `json:"deuda_cliente"`
}
