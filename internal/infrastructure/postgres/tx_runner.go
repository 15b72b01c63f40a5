package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

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

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// run inicia una transacción, ejecuta fn con la tx y hace Commit o Rollback.
func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunSales transacción de ventas: escritura de la venta y ajuste de deuda del cliente juntos.
func (r *TxRunner) RunSales(ctx context.Context, fn func(
	customerRepo repository.CustomerRepository,
	saleRepo repository.SaleRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewCustomerRepository(tx), NewSaleRepository(tx))
	})
}

// RunSignup transacción de alta de negocio con catálogo, inventario y admin.
func (r *TxRunner) RunSignup(ctx context.Context, fn func(
	businessRepo repository.BusinessRepository,
	catalogRepo repository.CatalogRepository,
	inventoryRepo repository.InventoryRepository,
	userRepo repository.UserRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewBusinessRepository(tx), NewCatalogRepository(tx), NewInventoryRepository(tx), NewUserRepository(tx))
	})
}

// RunRefill transacción de llenado + gasto asociado.
func (r *TxRunner) RunRefill(ctx context.Context, fn func(
	refillRepo repository.RefillRepository,
	expenseRepo repository.ExpenseRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewRefillRepository(tx), NewExpenseRepository(tx))
	})
}
