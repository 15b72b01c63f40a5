package repository

import (
	"context"
	"time"

	"github.com/jhoicas/reparto-api/internal/domain/entity"
)

// DateRange filtro de fechas inclusivo; nil = sin límite.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// Contains informa si t cae dentro del rango.
func (r DateRange) Contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && t.After(*r.To) {
		return false
	}
	return true
}

// ExpenseRepository define el puerto de persistencia para Expense (gastos).
type ExpenseRepository interface {
	Create(ctx context.Context, expense *entity.Expense) error
	GetByID(ctx context.Context, businessID, id string) (*entity.Expense, error)
	// GetByRefill gasto generado por un llenado. (nil, nil) si no tiene.
	GetByRefill(ctx context.Context, businessID, refillID string) (*entity.Expense, error)
	// ExpenseIDsByRefill id del gasto de cada llenado indicado que tenga uno (refillID → expenseID).
	ExpenseIDsByRefill(ctx context.Context, businessID string, refillIDs []string) (map[string]string, error)
	List(ctx context.Context, businessID string, r DateRange) ([]*entity.Expense, error)
	Update(ctx context.Context, expense *entity.Expense) error
	Delete(ctx context.Context, businessID, id string) error
}

// RefillRepository define el puerto de persistencia para Refill (llenados).
type RefillRepository interface {
	Create(ctx context.Context, refill *entity.Refill) error
	GetByID(ctx context.Context, businessID, id string) (*entity.Refill, error)
	List(ctx context.Context, businessID string, r DateRange) ([]*entity.Refill, error)
	Update(ctx context.Context, refill *entity.Refill) error
	Delete(ctx context.Context, businessID, id string) error
}
