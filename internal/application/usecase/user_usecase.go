package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/reparto-api/internal/application/dto"
	"github.com/jhoicas/reparto-api/internal/domain"
	"github.com/jhoicas/reparto-api/internal/domain/entity"
	"github.com/jhoicas/reparto-api/internal/domain/repository"
)

// UserUseCase gestión de usuarios del negocio por parte de un admin.
type UserUseCase struct {
	repo repository.UserRepository
	now  func() time.Time
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo, now: time.Now}
}

// List usuarios del negocio del actor.
func (uc *UserUseCase) List(ctx context.Context, actor dto.Actor) ([]*dto.UserResponse, error) {
	list, err := uc.repo.ListByBusiness(ctx, actor.BusinessID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, dto.ToUserResponse(u))
	}
	return out, nil
}

// sameBusiness carga un usuario del negocio del actor; otro negocio se trata como inexistente.
func (uc *UserUseCase) sameBusiness(ctx context.Context, actor dto.Actor, id string) (*entity.User, error) {
	u, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil || u.BusinessID == "" || u.BusinessID != actor.BusinessID {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

// SetActive activa o desactiva a un usuario del mismo negocio. Un admin no puede desactivarse a sí mismo.
func (uc *UserUseCase) SetActive(ctx context.Context, actor dto.Actor, id string, active bool) (*dto.UserResponse, error) {
	u, err := uc.sameBusiness(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if u.ID == actor.UserID && !active {
		return nil, domain.Invalid("activo", "no podés desactivar tu propia cuenta")
	}
	if u.Active != active {
		u.Active = active
		u.UpdatedAt = uc.now()
		if err := uc.repo.Update(ctx, u); err != nil {
			return nil, err
		}
	}
	return dto.ToUserResponse(u), nil
}

// Delete borra (físicamente) a un usuario del mismo negocio; nunca la propia cuenta.
func (uc *UserUseCase) Delete(ctx context.Context, actor dto.Actor, id string) error {
	if id == actor.UserID {
		return domain.ErrForbidden
	}
	u, err := uc.sameBusiness(ctx, actor, id)
	if err != nil {
		return err
	}
	return uc.repo.Delete(ctx, u.ID)
}
