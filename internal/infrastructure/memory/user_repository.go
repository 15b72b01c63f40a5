package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/reparto-api/internal/domain"
	"github.com/jhoicas/reparto-api/internal/domain/entity"
	"github.com/jhoicas/reparto-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo usuarios en memoria. El email es único sin distinguir mayúsculas.
type UserRepo struct{ base }

// NewUserRepository construye el repo.
func NewUserRepository(s *Store) *UserRepo { return &UserRepo{base{s: s}} }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	return r.write(func(d *state) error {
		for _, o := range d.users {
			if strings.EqualFold(o.Email, u.Email) {
				return domain.ErrEmailAlreadyExists
			}
		}
		c := *u
		d.users[u.ID] = &c
		return nil
	})
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	r.read(func(d *state) {
		if u, ok := d.users[id]; ok {
			c := *u
			out = &c
		}
	})
	return out, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	r.read(func(d *state) {
		for _, u := range d.users {
			if strings.EqualFold(u.Email, email) {
				c := *u
				out = &c
				return
			}
		}
	})
	return out, nil
}

func (r *UserRepo) ListByBusiness(_ context.Context, businessID string) ([]*entity.User, error) {
	var list []*entity.User
	r.read(func(d *state) {
		for _, u := range d.users {
			if u.BusinessID == businessID {
				c := *u
				list = append(list, &c)
			}
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

func (r *UserRepo) Update(_ context.Context, u *entity.User) error {
	return r.write(func(d *state) error {
		if _, ok := d.users[u.ID]; !ok {
			return domain.ErrNotFound
		}
		c := *u
		d.users[u.ID] = &c
		return nil
	})
}

func (r *UserRepo) Delete(_ context.Context, id string) error {
	return r.write(func(d *state) error {
		delete(d.users, id)
		return nil
	})
}
