package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/reparto-api/internal/application/dto"
	"github.com/jhoicas/reparto-api/internal/domain"
	"github.com/jhoicas/reparto-api/internal/domain/entity"
	"github.com/jhoicas/reparto-api/internal/domain/repository"
)

// ExpenseUseCase gastos cargados a mano (los de llenados los mantiene RefillUseCase).
type ExpenseUseCase struct {
	repo repository.ExpenseRepository
	now  func() time.Time
}

// NewExpenseUseCase construye el caso de uso.
func NewExpenseUseCase(repo repository.ExpenseRepository) *ExpenseUseCase {
	return &ExpenseUseCase{repo: repo, now: time.Now}
}

// Create registra un gasto.
func (uc *ExpenseUseCase) Create(ctx context.Context, actor dto.Actor, in dto.CreateExpenseRequest) (*dto.ExpenseResponse, error) {
	now := uc.now()
	date, err := dto.ParseDate("fecha", in.Date)
	if err != nil {
		return nil, err
	}
	if date == nil {
		date = &now
	}
	concept := strings.TrimSpace(in.Concept)
	if concept == "" {
		return nil, domain.Invalid("concepto", "es obligatorio")
	}
	if !in.Amount.IsPositive() {
		return nil, domain.Invalid("monto", "debe ser mayor a cero")
	}
	e := &entity.Expense{
		ID:         uuid.New().String(),
		BusinessID: actor.BusinessID,
		Date:       *date,
		Concept:    concept,
		Amount:     in.Amount,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return dto.ToExpenseResponse(e), nil
}

// Get obtiene un gasto del negocio.
func (uc *ExpenseUseCase) Get(ctx context.Context, actor dto.Actor, id string) (*dto.ExpenseResponse, error) {
	e, err := uc.repo.GetByID(ctx, actor.BusinessID, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	return dto.ToExpenseResponse(e), nil
}

// List gastos del negocio en el rango (inclusivo).
func (uc *ExpenseUseCase) List(ctx context.Context, actor dto.Actor, in dto.DateRangeRequest) ([]*dto.ExpenseResponse, error) {
	rng, err := parseRange(in)
	if err != nil {
		return nil, err
	}
	list, err := uc.repo.List(ctx, actor.BusinessID, rng)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ExpenseResponse, 0, len(list))
	for _, e := range list {
		out = append(out, dto.ToExpenseResponse(e))
	}
	return out, nil
}

// Update actualización parcial.
func (uc *ExpenseUseCase) Update(ctx context.Context, actor dto.Actor, id string, in dto.UpdateExpenseRequest) (*dto.ExpenseResponse, error) {
	e, err := uc.repo.GetByID(ctx, actor.BusinessID, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	if in.Date != nil {
		d, err := dto.ParseDate("fecha", *in.Date)
		if err != nil {
			return nil, err
		}
		if d != nil {
			e.Date = *d
		}
	}
	if in.Concept != nil {
		c := strings.TrimSpace(*in.Concept)
		if c == "" {
			return nil, domain.Invalid("concepto", "es obligatorio")
		}
		e.Concept = c
	}
	if in.Amount != nil {
		if !in.Amount.IsPositive() {
			return nil, domain.Invalid("monto", "debe ser mayor a cero")
		}
		e.Amount = *in.Amount
	}
	e.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return dto.ToExpenseResponse(e), nil
}

// Delete borra un gasto.
func (uc *ExpenseUseCase) Delete(ctx context.Context, actor dto.Actor, id string) error {
	e, err := uc.repo.GetByID(ctx, actor.BusinessID, id)
	if err != nil {
		return err
	}
	if e == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(ctx, actor.BusinessID, id)
}

func parseRange(in dto.DateRangeRequest) (repository.DateRange, error) {
	from, err := dto.ParseDate("desde", in.From)
	if err != nil {
		return repository.DateRange{}, err
	}
	to, err := dto.ParseDate("hasta", in.To)
	if err != nil {
		return repository.DateRange{}, err
	}
	if to != nil {
		end := dto.EndOfDay(*to)
		to = &end
	}
	return repository.DateRange{From: from, To: to}, nil
}
