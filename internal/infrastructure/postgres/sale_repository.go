package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/reparto-api/internal/domain"
	"github.com/jhoicas/reparto-api/internal/domain/entity"
	"github.com/jhoicas/reparto-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, business_id, customer_id, date, discount, total, payment_method,
	amount_paid, amount_collected, COALESCE(created_by::text, ''), created_at, updated_at`

// pendingExpr saldo pendiente de una venta, nunca negativo.
const pendingExpr = `GREATEST(0, total - amount_paid - amount_collected)`

// SaleRepo implementación de SaleRepository (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(&s.ID, &s.BusinessID, &s.CustomerID, &s.Date, &s.Discount, &s.Total, &s.PaymentMethod,
		&s.AmountPaid, &s.AmountCollected, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserta cabecera y líneas.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query := `
		INSERT INTO sales (id, business_id, customer_id, date, is_collection, discount, total, payment_method,
		                   amount_paid, amount_collected, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11, '')::uuid, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.BusinessID, s.CustomerID, s.Date, s.IsCollection(), s.Discount, s.Total, s.PaymentMethod,
		s.AmountPaid, s.AmountCollected, s.CreatedBy, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return r.insertItems(ctx, s.ID, s.Items)
}

func (r *SaleRepo) insertItems(ctx context.Context, saleID string, items []entity.SaleItem) error {
	if len(items) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for i, it := range items {
		batch.Queue(`
			INSERT INTO sale_items (sale_id, position, product, quantity, unit_price, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			saleID, i, it.Product, it.Quantity, it.UnitPrice, it.Subtotal)
	}
	if err := r.q.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert sale items: %w", err)
	}
	return nil
}

// loadItems completa las líneas de las ventas en una sola consulta.
func (r *SaleRepo) loadItems(ctx context.Context, sales []*entity.Sale) error {
	if len(sales) == 0 {
		return nil
	}
	ids := make([]string, 0, len(sales))
	byID := make(map[string]*entity.Sale, len(sales))
	for _, s := range sales {
		ids = append(ids, s.ID)
		byID[s.ID] = s
	}
	rows, err := r.q.Query(ctx, `
		SELECT sale_id, product, quantity, unit_price, subtotal
		FROM sale_items WHERE sale_id = ANY($1::uuid[])
		ORDER BY sale_id, position`, ids)
	if err != nil {
		return fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var saleID string
		var it entity.SaleItem
		if err := rows.Scan(&saleID, &it.Product, &it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return fmt.Errorf("scan sale item: %w", err)
		}
		if s, ok := byID[saleID]; ok {
			s.Items = append(s.Items, it)
		}
	}
	return rows.Err()
}

func (r *SaleRepo) queryMany(ctx context.Context, query string, args ...any) ([]*entity.Sale, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetByID obtiene una venta del negocio con sus líneas.
func (r *SaleRepo) GetByID(ctx context.Context, businessID, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx,
		`SELECT `+saleColumns+` FROM sales WHERE business_id = $1 AND id = $2`, businessID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if err := r.loadItems(ctx, []*entity.Sale{s}); err != nil {
		return nil, err
	}
	return s, nil
}

// Update reemplaza cabecera y líneas.
func (r *SaleRepo) Update(ctx context.Context, s *entity.Sale) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE sales
		SET date = $3, is_collection = $4, discount = $5, total = $6, payment_method = $7,
		    amount_paid = $8, amount_collected = $9, updated_at = $10
		WHERE business_id = $1 AND id = $2`,
		s.BusinessID, s.ID, s.Date, s.IsCollection(), s.Discount, s.Total, s.PaymentMethod,
		s.AmountPaid, s.AmountCollected, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM sale_items WHERE sale_id = $1`, s.ID); err != nil {
		return fmt.Errorf("delete sale items: %w", err)
	}
	return r.insertItems(ctx, s.ID, s.Items)
}

// Delete borra la venta; líneas y asignaciones caen por ON DELETE CASCADE.
func (r *SaleRepo) Delete(ctx context.Context, businessID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM sales WHERE business_id = $1 AND id = $2`, businessID, id)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List ventas y cobros, más recientes primero.
func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	var w whereBuilder
	w.add("business_id = ?", f.BusinessID)
	if f.CustomerID != "" {
		w.add("customer_id = ?", f.CustomerID)
	}
	if f.From != nil {
		w.add("date >= ?", *f.From)
	}
	if f.To != nil {
		w.add("date <= ?", *f.To)
	}
	query := `SELECT ` + saleColumns + ` FROM sales` + w.sql() +
		` ORDER BY date DESC, created_at DESC LIMIT ` + w.next(limitArg(f.Limit)) + ` OFFSET ` + w.next(f.Offset)
	return r.queryMany(ctx, query, w.args...)
}

// ListPendingByCustomer ventas con saldo del cliente, más antiguas primero.
// Bloquea las filas (FOR UPDATE) para que dos cobros simultáneos no asignen el mismo saldo.
func (r *SaleRepo) ListPendingByCustomer(ctx context.Context, businessID, customerID string) ([]*entity.Sale, error) {
	return r.queryMany(ctx, `
		SELECT `+saleColumns+` FROM sales
		WHERE business_id = $1 AND customer_id = $2 AND NOT is_collection
		  AND total - amount_paid - amount_collected > 0
		ORDER BY date, created_at
		FOR UPDATE`, businessID, customerID)
}

// PendingBalances saldo por cliente en una sola agregación agrupada.
func (r *SaleRepo) PendingBalances(ctx context.Context, businessID string, customerIDs []string) (map[string]decimal.Decimal, error) {
	var w whereBuilder
	w.add("business_id = ?", businessID)
	w.add("NOT is_collection")
	if len(customerIDs) > 0 {
		w.add("customer_id = ANY(?::uuid[])", customerIDs)
	}
	query := `SELECT customer_id, SUM(` + pendingExpr + `) FROM sales` + w.sql() +
		` GROUP BY customer_id HAVING SUM(` + pendingExpr + `) > 0`
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("pending balances: %w", err)
	}
	defer rows.Close()
	out := map[string]decimal.Decimal{}
	for rows.Next() {
		var id string
		var pending decimal.Decimal
		if err := rows.Scan(&id, &pending); err != nil {
			return nil, fmt.Errorf("scan pending balance: %w", err)
		}
		out[id] = pending
	}
	return out, rows.Err()
}

// ─── Asignaciones de cobros ─────────────────────────────────────────────────

// AddCollected suma delta al monto cobrado de la venta.
func (r *SaleRepo) AddCollected(ctx context.Context, saleID string, delta decimal.Decimal) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE sales SET amount_collected = amount_collected + $2, updated_at = NOW() WHERE id = $1`,
		saleID, delta)
	if err != nil {
		return fmt.Errorf("add collected: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CreateAllocations inserta asignaciones; si el par (cobro, venta) ya existe suma el monto.
func (r *SaleRepo) CreateAllocations(ctx context.Context, allocations []entity.PaymentAllocation) error {
	if len(allocations) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, a := range allocations {
		batch.Queue(`
			INSERT INTO payment_allocations (collection_id, sale_id, amount, created_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (collection_id, sale_id)
			DO UPDATE SET amount = payment_allocations.amount + EXCLUDED.amount`,
			a.CollectionID, a.SaleID, a.Amount, a.CreatedAt)
	}
	if err := r.q.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert payment allocations: %w", err)
	}
	return nil
}

func (r *SaleRepo) listAllocations(ctx context.Context, column, id string) ([]entity.PaymentAllocation, error) {
	rows, err := r.q.Query(ctx, `
		SELECT collection_id, sale_id, amount, created_at
		FROM payment_allocations WHERE `+column+` = $1
		ORDER BY created_at`, id)
	if err != nil {
		return nil, fmt.Errorf("list payment allocations: %w", err)
	}
	defer rows.Close()
	var out []entity.PaymentAllocation
	for rows.Next() {
		var a entity.PaymentAllocation
		if err := rows.Scan(&a.CollectionID, &a.SaleID, &a.Amount, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment allocation: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// AllocationsByCollection cómo se repartió un cobro.
func (r *SaleRepo) AllocationsByCollection(ctx context.Context, collectionID string) ([]entity.PaymentAllocation, error) {
	return r.listAllocations(ctx, "collection_id", collectionID)
}

// AllocationsBySale qué cobros se aplicaron a una venta.
func (r *SaleRepo) AllocationsBySale(ctx context.Context, saleID string) ([]entity.PaymentAllocation, error) {
	return r.listAllocations(ctx, "sale_id", saleID)
}

// DeleteAllocationsByCollection borra las asignaciones de un cobro.
func (r *SaleRepo) DeleteAllocationsByCollection(ctx context.Context, collectionID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM payment_allocations WHERE collection_id = $1`, collectionID); err != nil {
		return fmt.Errorf("delete payment allocations: %w", err)
	}
	return nil
}

// DeleteAllocationsBySale borra las asignaciones recibidas por una venta.
func (r *SaleRepo) DeleteAllocationsBySale(ctx context.Context, saleID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM payment_allocations WHERE sale_id = $1`, saleID); err != nil {
		return fmt.Errorf("delete payment allocations: %w", err)
	}
	return nil
}
