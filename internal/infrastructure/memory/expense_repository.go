package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/reparto-api/internal/domain"
	"github.com/jhoicas/reparto-api/internal/domain/entity"
	"github.com/jhoicas/reparto-api/internal/domain/repository"
)

var (
	_ repository.ExpenseRepository = (*ExpenseRepo)(nil)
	_ repository.RefillRepository  = (*RefillRepo)(nil)
)

// ExpenseRepo gastos en memoria.
type ExpenseRepo struct{ base }

// NewExpenseRepository construye el repo.
func NewExpenseRepository(s *Store) *ExpenseRepo { return &ExpenseRepo{base{s: s}} }

func (r *ExpenseRepo) Create(_ context.Context, e *entity.Expense) error {
	return r.write(func(d *state) error {
		if e.RefillID != "" {
			for _, o := range d.expenses {
				if o.RefillID == e.RefillID {
					return domain.ErrDuplicate
				}
			}
		}
		c := *e
		d.expenses[e.ID] = &c
		return nil
	})
}

func (r *ExpenseRepo) GetByID(_ context.Context, businessID, id string) (*entity.Expense, error) {
	var out *entity.Expense
	r.read(func(d *state) {
		if e, ok := d.expenses[id]; ok && e.BusinessID == businessID {
			c := *e
			out = &c
		}
	})
	return out, nil
}

func (r *ExpenseRepo) GetByRefill(_ context.Context, businessID, refillID string) (*entity.Expense, error) {
	var out *entity.Expense
	r.read(func(d *state) {
		for _, e := range d.expenses {
			if e.BusinessID == businessID && e.RefillID == refillID {
				c := *e
				out = &c
				return
			}
		}
	})
	return out, nil
}

func (r *ExpenseRepo) ExpenseIDsByRefill(_ context.Context, businessID string, refillIDs []string) (map[string]string, error) {
	out := make(map[string]string, len(refillIDs))
	wanted := make(map[string]bool, len(refillIDs))
	for _, id := range refillIDs {
		wanted[id] = true
	}
	r.read(func(d *state) {
		for _, e := range d.expenses {
			if e.BusinessID == businessID && e.RefillID != "" && wanted[e.RefillID] {
				out[e.RefillID] = e.ID
			}
		}
	})
	return out, nil
}

func (r *ExpenseRepo) List(_ context.Context, businessID string, rng repository.DateRange) ([]*entity.Expense, error) {
	var list []*entity.Expense
	r.read(func(d *state) {
		for _, e := range d.expenses {
			if e.BusinessID == businessID && rng.Contains(e.Date) {
				c := *e
				list = append(list, &c)
			}
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Date.After(list[j].Date) })
	return list, nil
}

func (r *ExpenseRepo) Update(_ context.Context, e *entity.Expense) error {
	return r.write(func(d *state) error {
		cur, ok := d.expenses[e.ID]
		if !ok || cur.BusinessID != e.BusinessID {
			return domain.ErrNotFound
		}
		c := *e
		d.expenses[e.ID] = &c
		return nil
	})
}

func (r *ExpenseRepo) Delete(_ context.Context, businessID, id string) error {
	return r.write(func(d *state) error {
		e, ok := d.expenses[id]
		if !ok || e.BusinessID != businessID {
			return domain.ErrNotFound
		}
		delete(d.expenses, id)
		return nil
	})
}

// RefillRepo llenados en memoria.
type RefillRepo struct{ base }

// NewRefillRepository construye el repo.
func NewRefillRepository(s *Store) *RefillRepo { return &RefillRepo{base{s: s}} }

func (r *RefillRepo) Create(_ context.Context, f *entity.Refill) error {
	return r.write(func(d *state) error {
		d.refills[f.ID] = copyRefill(f)
		return nil
	})
}

func (r *RefillRepo) GetByID(_ context.Context, businessID, id string) (*entity.Refill, error) {
	var out *entity.Refill
	r.read(func(d *state) {
		if f, ok := d.refills[id]; ok && f.BusinessID == businessID {
			out = copyRefill(f)
		}
	})
	return out, nil
}

func (r *RefillRepo) List(_ context.Context, businessID string, rng repository.DateRange) ([]*entity.Refill, error) {
	var list []*entity.Refill
	r.read(func(d *state) {
		for _, f := range d.refills {
			if f.BusinessID == businessID && rng.Contains(f.Date) {
				list = append(list, copyRefill(f))
			}
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Date.After(list[j].Date) })
	return list, nil
}

func (r *RefillRepo) Update(_ context.Context, f *entity.Refill) error {
	return r.write(func(d *state) error {
		cur, ok := d.refills[f.ID]
		if !ok || cur.BusinessID != f.BusinessID {
			return domain.ErrNotFound
		}
		d.refills[f.ID] = copyRefill(f)
		return nil
	})
}

func (r *RefillRepo) Delete(_ context.Context, businessID, id string) error {
	return r.write(func(d *state) error {
		f, ok := d.refills[id]
		if !ok || f.BusinessID != businessID {
			return domain.ErrNotFound
		}
		delete(d.refills, id)
		return nil
	})
}
