package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago admitidos.
const (
	PaymentCash     = "efectivo"
	PaymentCredit   = "fiado"
	PaymentTransfer = "transferencia"
)

// IsPaymentMethod informa si m es un método de pago válido.
func IsPaymentMethod(m string) bool {
	return m == PaymentCash || m == PaymentCredit || m == PaymentTransfer
}

// SaleItem línea de venta; UnitPrice queda congelado al momento de la venta.
type SaleItem struct {
	Product   string
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// Sale venta (o cobro, si no tiene líneas) de un cliente.
type Sale struct {
	ID              string
	BusinessID      string
	CustomerID      string
	Date            time.Time
	Items           []SaleItem
	Discount        decimal.Decimal
	Total           decimal.Decimal
	PaymentMethod   string
	AmountPaid      decimal.Decimal // pagado al registrar la venta
	AmountCollected decimal.Decimal // aplicado después desde cobros
	CreatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsCollection es verdadero para un cobro puro: un pago sin líneas de producto.
func (s *Sale) IsCollection() bool {
	return len(s.Items) == 0
}

// PendingBalance saldo pendiente de esta venta: max(0, total - pagado - cobrado).
// Nunca se persiste.
func (s *Sale) PendingBalance() decimal.Decimal {
	pending := s.Total.Sub(s.AmountPaid).Sub(s.AmountCollected)
	if pending.IsNegative() {
		return decimal.Zero
	}
	return pending
}

// PaymentAllocation porción de un cobro aplicada a una venta con saldo.
type PaymentAllocation struct {
	CollectionID string
	SaleID       string
	Amount       decimal.Decimal
	CreatedAt    time.Time
}
