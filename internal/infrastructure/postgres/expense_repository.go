package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/reparto-api/internal/domain"
	"github.com/jhoicas/reparto-api/internal/domain/entity"
	"github.com/jhoicas/reparto-api/internal/domain/repository"
)

var (
	_ repository.ExpenseRepository = (*ExpenseRepo)(nil)
	_ repository.RefillRepository  = (*RefillRepo)(nil)
)

const expenseColumns = `id, business_id, date, concept, amount, COALESCE(refill_id::text, ''), created_at, updated_at`

// ExpenseRepo implementación de ExpenseRepository (usable con pool o tx).
type ExpenseRepo struct {
	q Querier
}

// NewExpenseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewExpenseRepository(q Querier) *ExpenseRepo {
	return &ExpenseRepo{q: q}
}

func scanExpense(row pgx.Row) (*entity.Expense, error) {
	var e entity.Expense
	if err := row.Scan(&e.ID, &e.BusinessID, &e.Date, &e.Concept, &e.Amount, &e.RefillID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

// Create persiste un gasto. Un llenado tiene a lo sumo un gasto (índice único parcial).
func (r *ExpenseRepo) Create(ctx context.Context, e *entity.Expense) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO expenses (id, business_id, date, concept, amount, refill_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, '')::uuid, $7, $8)`,
		e.ID, e.BusinessID, e.Date, e.Concept, e.Amount, e.RefillID, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

func (r *ExpenseRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Expense, error) {
	e, err := scanExpense(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

// GetByID gasto del negocio por ID.
func (r *ExpenseRepo) GetByID(ctx context.Context, businessID, id string) (*entity.Expense, error) {
	return r.getOne(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE business_id = $1 AND id = $2`, businessID, id)
}

// GetByRefill gasto generado por el llenado.
func (r *ExpenseRepo) GetByRefill(ctx context.Context, businessID, refillID string) (*entity.Expense, error) {
	return r.getOne(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE business_id = $1 AND refill_id = $2`, businessID, refillID)
}

// ExpenseIDsByRefill gastos generados por los llenados indicados.
func (r *ExpenseRepo) ExpenseIDsByRefill(ctx context.Context, businessID string, refillIDs []string) (map[string]string, error) {
	out := make(map[string]string, len(refillIDs))
	if len(refillIDs) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT refill_id, id FROM expenses
		WHERE business_id = $1 AND refill_id = ANY($2::uuid[])`,
		businessID, refillIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("expenses by refill: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var refillID, expenseID string
		if err := rows.Scan(&refillID, &expenseID); err != nil {
			return nil, fmt.Errorf("scan expense by refill: %w", err)
		}
		out[refillID] = expenseID
	}
	return out, rows.Err()
}

// List gastos del rango, más recientes primero.
func (r *ExpenseRepo) List(ctx context.Context, businessID string, rng repository.DateRange) ([]*entity.Expense, error) {
	var w whereBuilder
	w.add("business_id = ?", businessID)
	if rng.From != nil {
		w.add("date >= ?", *rng.From)
	}
	if rng.To != nil {
		w.add("date <= ?", *rng.To)
	}
	rows, err := r.q.Query(ctx, `SELECT `+expenseColumns+` FROM expenses`+w.sql()+` ORDER BY date DESC`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()
	var list []*entity.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// Update actualiza fecha, concepto y monto.
func (r *ExpenseRepo) Update(ctx context.Context, e *entity.Expense) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE expenses SET date = $3, concept = $4, amount = $5, updated_at = $6
		WHERE business_id = $1 AND id = $2`,
		e.BusinessID, e.ID, e.Date, e.Concept, e.Amount, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un gasto del negocio.
func (r *ExpenseRepo) Delete(ctx context.Context, businessID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM expenses WHERE business_id = $1 AND id = $2`, businessID, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ─── Llenados ───────────────────────────────────────────────────────────────

// RefillRepo implementación de RefillRepository.
type RefillRepo struct {
	q Querier
}

// NewRefillRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRefillRepository(q Querier) *RefillRepo {
	return &RefillRepo{q: q}
}

// Create inserta cabecera y líneas.
func (r *RefillRepo) Create(ctx context.Context, f *entity.Refill) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO refills (id, business_id, date, total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		f.ID, f.BusinessID, f.Date, f.Total, f.CreatedAt, f.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert refill: %w", err)
	}
	return r.insertItems(ctx, f.ID, f.Items)
}

func (r *RefillRepo) insertItems(ctx context.Context, refillID string, items []entity.RefillItem) error {
	if len(items) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for i, it := range items {
		batch.Queue(`
			INSERT INTO refill_items (refill_id, position, product, quantity, unit_cost, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			refillID, i, it.Product, it.Quantity, it.UnitCost, it.Subtotal)
	}
	if err := r.q.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert refill items: %w", err)
	}
	return nil
}

func (r *RefillRepo) loadItems(ctx context.Context, refills []*entity.Refill) error {
	if len(refills) == 0 {
		return nil
	}
	ids := make([]string, 0, len(refills))
	byID := make(map[string]*entity.Refill, len(refills))
	for _, f := range refills {
		ids = append(ids, f.ID)
		byID[f.ID] = f
	}
	rows, err := r.q.Query(ctx, `
		SELECT refill_id, product, quantity, unit_cost, subtotal
		FROM refill_items WHERE refill_id = ANY($1::uuid[])
		ORDER BY refill_id, position`, ids)
	if err != nil {
		return fmt.Errorf("list refill items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var refillID string
		var it entity.RefillItem
		if err := rows.Scan(&refillID, &it.Product, &it.Quantity, &it.UnitCost, &it.Subtotal); err != nil {
			return fmt.Errorf("scan refill item: %w", err)
		}
		if f, ok := byID[refillID]; ok {
			f.Items = append(f.Items, it)
		}
	}
	return rows.Err()
}

// GetByID llenado del negocio con sus líneas.
func (r *RefillRepo) GetByID(ctx context.Context, businessID, id string) (*entity.Refill, error) {
	var f entity.Refill
	err := r.q.QueryRow(ctx, `
		SELECT id, business_id, date, total, created_at, updated_at
		FROM refills WHERE business_id = $1 AND id = $2`, businessID, id,
	).Scan(&f.ID, &f.BusinessID, &f.Date, &f.Total, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get refill: %w", err)
	}
	if err := r.loadItems(ctx, []*entity.Refill{&f}); err != nil {
		return nil, err
	}
	return &f, nil
}

// List llenados del rango, más recientes primero.
func (r *RefillRepo) List(ctx context.Context, businessID string, rng repository.DateRange) ([]*entity.Refill, error) {
	var w whereBuilder
	w.add("business_id = ?", businessID)
	if rng.From != nil {
		w.add("date >= ?", *rng.From)
	}
	if rng.To != nil {
		w.add("date <= ?", *rng.To)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, business_id, date, total, created_at, updated_at
		FROM refills`+w.sql()+` ORDER BY date DESC`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list refills: %w", err)
	}
	var list []*entity.Refill
	for rows.Next() {
		var f entity.Refill
		if err := rows.Scan(&f.ID, &f.BusinessID, &f.Date, &f.Total, &f.CreatedAt, &f.UpdatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan refill: %w", err)
		}
		list = append(list, &f)
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

// Update reemplaza cabecera y líneas.
func (r *RefillRepo) Update(ctx context.Context, f *entity.Refill) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE refills SET date = $3, total = $4, updated_at = $5
		WHERE business_id = $1 AND id = $2`,
		f.BusinessID, f.ID, f.Date, f.Total, f.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update refill: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM refill_items WHERE refill_id = $1`, f.ID); err != nil {
		return fmt.Errorf("delete refill items: %w", err)
	}
	return r.insertItems(ctx, f.ID, f.Items)
}

// Delete borra el llenado y sus líneas.
func (r *RefillRepo) Delete(ctx context.Context, businessID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM refills WHERE business_id = $1 AND id = $2`, businessID, id)
	if err != nil {
		return fmt.Errorf("delete refill: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
