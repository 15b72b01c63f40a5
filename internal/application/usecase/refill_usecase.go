package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/reparto-api/internal/application/dto"
	"github.com/jhoicas/reparto-api/internal/domain"
	"github.com/jhoicas/reparto-api/internal/domain/entity"
	"github.com/jhoicas/reparto-api/internal/domain/repository"
)

// RefillUseCase llenados. Un llenado con costo > 0 tiene exactamente un gasto asociado
// cuyo monto y fecha se mantienen sincronizados.
type RefillUseCase struct {
	tx          RefillTxRunner
	repo        repository.RefillRepository
	expenseRepo repository.ExpenseRepository
	now         func() time.Time
}

// NewRefillUseCase construye el caso de uso.
func NewRefillUseCase(tx RefillTxRunner, repo repository.RefillRepository, expenseRepo repository.ExpenseRepository) *RefillUseCase {
	return &RefillUseCase{tx: tx, repo: repo, expenseRepo: expenseRepo, now: time.Now}
}

func buildRefillItems(in []dto.RefillItemRequest) ([]entity.RefillItem, decimal.Decimal, error) {
	items := make([]entity.RefillItem, 0, len(in))
	total := decimal.Zero
	for _, it := range in {
		if it.Product == "" {
			return nil, decimal.Zero, domain.Invalid("producto", "es obligatorio")
		}
		if it.Quantity < 1 {
			return nil, decimal.Zero, domain.Invalid("cantidad", "debe ser al menos 1")
		}
		if it.UnitCost.IsNegative() {
			return nil, decimal.Zero, domain.Invalid("costo_unitario", "no puede ser negativo")
		}
		sub := it.UnitCost.Mul(decimal.NewFromInt(int64(it.Quantity)))
		items = append(items, entity.RefillItem{Product: it.Product, Quantity: it.Quantity, UnitCost: it.UnitCost, Subtotal: sub})
		total = total.Add(sub)
	}
	return items, total, nil
}

func refillConcept(r *entity.Refill) string {
	units := 0
	for _, it := range r.Items {
		units += it.Quantity
	}
	return fmt.Sprintf("Llenado %s (%d u.)", r.Date.Format("02/01/2006"), units)
}

// syncExpense deja el gasto asociado acorde al total del llenado: lo crea, lo actualiza o lo borra.
func syncExpense(ctx context.Context, expenseRepo repository.ExpenseRepository, r *entity.Refill, now time.Time) (string, error) {
	paired, err := expenseRepo.GetByRefill(ctx, r.BusinessID, r.ID)
	if err != nil {
		return "", err
	}
	if !r.Total.IsPositive() {
		if paired != nil {
			return "", expenseRepo.Delete(ctx, r.BusinessID, paired.ID)
		}
		return "", nil
	}
	if paired == nil {
		e := &entity.Expense{
			ID:         uuid.New().String(),
			BusinessID: r.BusinessID,
			Date:       r.Date,
			Concept:    refillConcept(r),
			Amount:     r.Total,
			RefillID:   r.ID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		return e.ID, expenseRepo.Create(ctx, e)
	}
	paired.Amount = r.Total
	paired.Date = r.Date
	paired.UpdatedAt = now
	return paired.ID, expenseRepo.Update(ctx, paired)
}

// Create registra un llenado y, si tiene costo, su gasto.
func (uc *RefillUseCase) Create(ctx context.Context, actor dto.Actor, in dto.CreateRefillRequest) (*dto.RefillResponse, error) {
	now := uc.now()
	date, err := dto.ParseDate("fecha", in.Date)
	if err != nil {
		return nil, err
	}
	if date == nil {
		date = &now
	}
	if len(in.Items) == 0 {
		return nil, domain.Invalid("items", "un llenado necesita al menos un producto")
	}
	items, total, err := buildRefillItems(in.Items)
	if err != nil {
		return nil, err
	}
	r := &entity.Refill{
		ID:         uuid.New().String(),
		BusinessID: actor.BusinessID,
		Date:       *date,
		Items:      items,
		Total:      total,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	var expenseID string
	err = uc.tx.RunRefill(ctx, func(refillRepo repository.RefillRepository, expenseRepo repository.ExpenseRepository) error {
		if err := refillRepo.Create(ctx, r); err != nil {
			return err
		}
		expenseID, err = syncExpense(ctx, expenseRepo, r, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return dto.ToRefillResponse(r, expenseID), nil
}

// Update edita fecha y/o líneas; el gasto asociado sigue al nuevo total y fecha.
func (uc *RefillUseCase) Update(ctx context.Context, actor dto.Actor, id string, in dto.UpdateRefillRequest) (*dto.RefillResponse, error) {
	now := uc.now()
	var date *time.Time
	if in.Date != nil {
		d, err := dto.ParseDate("fecha", *in.Date)
		if err != nil {
			return nil, err
		}
		date = d
	}
	var (
		items []entity.RefillItem
		total decimal.Decimal
	)
	if in.Items != nil {
		if len(in.Items) == 0 {
			return nil, domain.Invalid("items", "un llenado necesita al menos un producto")
		}
		var err error
		items, total, err = buildRefillItems(in.Items)
		if err != nil {
			return nil, err
		}
	}

	var (
		r         *entity.Refill
		expenseID string
	)
	err := uc.tx.RunRefill(ctx, func(refillRepo repository.RefillRepository, expenseRepo repository.ExpenseRepository) error {
		cur, err := refillRepo.GetByID(ctx, actor.BusinessID, id)
		if err != nil {
			return err
		}
		if cur == nil {
			return domain.ErrNotFound
		}
		if date != nil {
			cur.Date = *date
		}
		if items != nil {
			cur.Items = items
			cur.Total = total
		}
		cur.UpdatedAt = now
		if err := refillRepo.Update(ctx, cur); err != nil {
			return err
		}
		r = cur
		expenseID, err = syncExpense(ctx, expenseRepo, cur, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return dto.ToRefillResponse(r, expenseID), nil
}

// Delete borra el llenado y su gasto asociado.
func (uc *RefillUseCase) Delete(ctx context.Context, actor dto.Actor, id string) error {
	return uc.tx.RunRefill(ctx, func(refillRepo repository.RefillRepository, expenseRepo repository.ExpenseRepository) error {
		r, err := refillRepo.GetByID(ctx, actor.BusinessID, id)
		if err != nil {
			return err
		}
		if r == nil {
			return domain.ErrNotFound
		}
		paired, err := expenseRepo.GetByRefill(ctx, actor.BusinessID, id)
		if err != nil {
			return err
		}
		if paired != nil {
			if err := expenseRepo.Delete(ctx, actor.BusinessID, paired.ID); err != nil {
				return err
			}
		}
		return refillRepo.Delete(ctx, actor.BusinessID, id)
	})
}

// Get obtiene un llenado con el id de su gasto.
func (uc *RefillUseCase) Get(ctx context.Context, actor dto.Actor, id string) (*dto.RefillResponse, error) {
	r, err := uc.repo.GetByID(ctx, actor.BusinessID, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	paired, err := uc.expenseRepo.GetByRefill(ctx, actor.BusinessID, id)
	if err != nil {
		return nil, err
	}
	expenseID := ""
	if paired != nil {
		expenseID = paired.ID
	}
	return dto.ToRefillResponse(r, expenseID), nil
}

// List llenados del negocio en el rango, con el id de su gasto.
func (uc *RefillUseCase) List(ctx context.Context, actor dto.Actor, in dto.DateRangeRequest) ([]*dto.RefillResponse, error) {
	rng, err := parseRange(in)
	if err != nil {
		return nil, err
	}
	list, err := uc.repo.List(ctx, actor.BusinessID, rng)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(list))
	for _, r := range list {
		ids = append(ids, r.ID)
	}
	byRefill, err := uc.expenseRepo.ExpenseIDsByRefill(ctx, actor.BusinessID, ids)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.RefillResponse, 0, len(list))
	for _, r := range list {
		out = append(out, dto.ToRefillResponse(r, byRefill[r.ID]))
	}
	return out, nil
}
