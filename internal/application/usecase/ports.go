package usecase

import (
	"context"

	"github.com/jhoicas/reparto-api/internal/domain/repository"
)

// RefillTxRunner ejecuta una función dentro de una transacción con llenados y gastos,
// para que un llenado y su gasto asociado cambien juntos.
type RefillTxRunner interface {
	RunRefill(ctx context.Context, fn func(
		refillRepo repository.RefillRepository,
		expenseRepo repository.ExpenseRepository,
	) error) error
}
