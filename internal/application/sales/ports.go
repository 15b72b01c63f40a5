package sales

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/reparto-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con los repos de clientes y ventas.
// La escritura de la venta y el ajuste de deuda del cliente se confirman juntos o no se confirman.
type TxRunner interface {
	RunSales(ctx context.Context, fn func(
		customerRepo repository.CustomerRepository,
		saleRepo repository.SaleRepository,
	) error) error
}

// Observer recibe los eventos de ventas ya confirmadas (métricas).
type Observer interface {
	SaleRecorded(kind string, total, paid decimal.Decimal)
	SaleVoided(kind string)
}

type noopObserver struct{}

func (noopObserver) SaleRecorded(string, decimal.Decimal, decimal.Decimal) {}
func (noopObserver) SaleVoided(string)                                     {}
