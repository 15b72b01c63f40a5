package memory

import (
	"context"

	"github.com/jhoicas/reparto-api/internal/application/auth"
	"github.com/jhoicas/reparto-api/internal/application/sales"
	"github.com/jhoicas/reparto-api/internal/application/usecase"
	"github.com/jhoicas/reparto-api/internal/domain/repository"
)

var (
	_ sales.TxRunner         = (*TxRunner)(nil)
	_ auth.SignupTxRunner    = (*TxRunner)(nil)
	_ usecase.RefillTxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks de forma serializada; si fn falla el estado vuelve a la copia previa.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

func (r *TxRunner) run(fn func(b base) error) error {
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()

	r.s.mu.RLock()
	saved := r.s.data.snapshot()
	r.s.mu.RUnlock()

	if err := fn(base{s: r.s, inTx: true}); err != nil {
		r.s.mu.Lock()
		r.s.data = saved
		r.s.mu.Unlock()
		return err
	}
	return nil
}

// RunSales transacción de ventas: clientes + ventas.
func (r *TxRunner) RunSales(ctx context.Context, fn func(
	customerRepo repository.CustomerRepository,
	saleRepo repository.SaleRepository,
) error) error {
	return r.run(func(b base) error {
		return fn(&CustomerRepo{b}, &SaleRepo{b})
	})
}

// RunSignup transacción de alta de negocio.
func (r *TxRunner) RunSignup(ctx context.Context, fn func(
	businessRepo repository.BusinessRepository,
	catalogRepo repository.CatalogRepository,
	inventoryRepo repository.InventoryRepository,
	userRepo repository.UserRepository,
) error) error {
	return r.run(func(b base) error {
		return fn(&BusinessRepo{b}, &CatalogRepo{b}, &InventoryRepo{b}, &UserRepo{b})
	})
}

// RunRefill transacción de llenado + gasto asociado.
func (r *TxRunner) RunRefill(ctx context.Context, fn func(
	refillRepo repository.RefillRepository,
	expenseRepo repository.ExpenseRepository,
) error) error {
	return r.run(func(b base) error {
		return fn(&RefillRepo{b}, &ExpenseRepo{b})
	})
}
