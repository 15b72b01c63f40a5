package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/reparto-api/internal/domain"
	"github.com/jhoicas/reparto-api/internal/domain/entity"
)

// LineInput línea cruda antes de calcular subtotales.
type LineInput struct {
	Product   string
	Quantity  int
	UnitPrice decimal.Decimal
}

// BuildItems valida las líneas y calcula subtotales, total (subtotales - descuento).
// Una lista vacía es válida (cobro) y devuelve total 0.
func BuildItems(lines []LineInput, discount decimal.Decimal) ([]entity.SaleItem, decimal.Decimal, error) {
	if discount.IsNegative() {
		return nil, decimal.Zero, domain.Invalid("descuento", "no puede ser negativo")
	}
	items := make([]entity.SaleItem, 0, len(lines))
	sum := decimal.Zero
	for _, l := range lines {
		if l.Product == "" {
			return nil, decimal.Zero, domain.Invalid("producto", "es obligatorio")
		}
		if l.Quantity < 1 {
			return nil, decimal.Zero, domain.Invalid("cantidad", "debe ser al menos 1")
		}
		if l.UnitPrice.IsNegative() {
			return nil, decimal.Zero, domain.Invalid("precio_unitario", "no puede ser negativo")
		}
		sub := l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
		items = append(items, entity.SaleItem{
			Product:   l.Product,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  sub,
		})
		sum = sum.Add(sub)
	}
	if len(items) == 0 && discount.IsPositive() {
		return nil, decimal.Zero, domain.Invalid("descuento", "un cobro no admite descuento")
	}
	total := sum.Sub(discount)
	if total.IsNegative() {
		return nil, decimal.Zero, domain.Invalid("total", "el descuento supera el importe de la venta")
	}
	return items, total, nil
}

// DefaultAmountPaid monto pagado por defecto: total para efectivo/transferencia, 0 para fiado.
func DefaultAmountPaid(method string, total decimal.Decimal) decimal.Decimal {
	if method == entity.PaymentCredit {
		return decimal.Zero
	}
	return total
}

// PendingBalance suma de saldos pendientes de una lista de ventas (cada una con piso en cero).
func PendingBalance(sales []*entity.Sale) decimal.Decimal {
	total := decimal.Zero
	for _, s := range sales {
		total = total.Add(s.PendingBalance())
	}
	return total
}

// Allocation porción de un cobro asignada a una venta.
type Allocation struct {
	SaleID string
	Amount decimal.Decimal
}

// Allocate reparte amount entre las ventas con saldo, de la más antigua a la más nueva.
// Devuelve las asignaciones y el sobrante que no encontró saldo (se descarta: no hay saldo a favor).
func Allocate(amount decimal.Decimal, sales []*entity.Sale) ([]Allocation, decimal.Decimal) {
	ordered := make([]*entity.Sale, 0, len(sales))
	for _, s := range sales {
		if s.PendingBalance().IsPositive() {
			ordered = append(ordered, s)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Date.Equal(ordered[j].Date) {
			return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
		}
		return ordered[i].Date.Before(ordered[j].Date)
	})

	remaining := amount
	var out []Allocation
	for _, s := range ordered {
		if !remaining.IsPositive() {
			break
		}
		part := decimal.Min(remaining, s.PendingBalance())
		out = append(out, Allocation{SaleID: s.ID, Amount: part})
		remaining = remaining.Sub(part)
	}
	return out, remaining
}
