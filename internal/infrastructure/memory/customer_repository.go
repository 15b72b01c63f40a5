package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/reparto-api/internal/domain"
	"github.com/jhoicas/reparto-api/internal/domain/entity"
	"github.com/jhoicas/reparto-api/internal/domain/ledger"
	"github.com/jhoicas/reparto-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo clientes en memoria, con las mismas restricciones únicas que el esquema SQL.
type CustomerRepo struct{ base }

// NewCustomerRepository construye el repo.
func NewCustomerRepository(s *Store) *CustomerRepo { return &CustomerRepo{base{s: s}} }

func violatesUnique(d *state, c *entity.Customer) bool {
	for _, o := range d.customers {
		if o.ID == c.ID || o.BusinessID != c.BusinessID {
			continue
		}
		if c.PhoneNormalized != "" && o.PhoneNormalized == c.PhoneNormalized {
			return true
		}
		if o.Name == c.Name && o.Address == c.Address {
			return true
		}
	}
	return false
}

func (r *CustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	return r.write(func(d *state) error {
		if violatesUnique(d, c) {
			return domain.ErrDuplicate
		}
		cp := *c
		d.customers[c.ID] = &cp
		return nil
	})
}

func (r *CustomerRepo) GetByID(_ context.Context, businessID, id string) (*entity.Customer, error) {
	var out *entity.Customer
	r.read(func(d *state) {
		if c, ok := d.customers[id]; ok && c.BusinessID == businessID {
			cp := *c
			out = &cp
		}
	})
	return out, nil
}

func (r *CustomerRepo) FindDuplicates(_ context.Context, businessID, phoneNormalized, name, address, excludeID string) ([]*entity.Customer, error) {
	var list []*entity.Customer
	r.read(func(d *state) {
		for _, c := range d.customers {
			if c.BusinessID != businessID || c.ID == excludeID {
				continue
			}
			if (phoneNormalized != "" && c.PhoneNormalized == phoneNormalized) || (c.Name == name && c.Address == address) {
				cp := *c
				list = append(list, &cp)
			}
		}
	})
	return list, nil
}

func (r *CustomerRepo) List(_ context.Context, f repository.CustomerFilter) ([]*entity.Customer, error) {
	var list []*entity.Customer
	search := strings.TrimSpace(f.Search)
	r.read(func(d *state) {
		for _, c := range d.customers {
			if c.BusinessID != f.BusinessID {
				continue
			}
			if f.Active != nil && c.Active != *f.Active {
				continue
			}
			if search != "" && !containsFold(c.Name, search) && !containsFold(c.Address, search) && !containsFold(c.Phone, search) {
				continue
			}
			cp := *c
			list = append(list, &cp)
		}
	})
	sort.Slice(list, func(i, j int) bool { return strings.ToLower(list[i].Name) < strings.ToLower(list[j].Name) })
	return page(list, f.Limit, f.Offset), nil
}

func (r *CustomerRepo) Update(_ context.Context, c *entity.Customer) error {
	return r.write(func(d *state) error {
		cur, ok := d.customers[c.ID]
		if !ok || cur.BusinessID != c.BusinessID {
			return domain.ErrNotFound
		}
		if violatesUnique(d, c) {
			return domain.ErrDuplicate
		}
		cp := *c
		cp.Debt = cur.Debt
		cp.CreatedAt = cur.CreatedAt
		d.customers[c.ID] = &cp
		return nil
	})
}

func (r *CustomerRepo) SetDebt(_ context.Context, businessID, id string, debt entity.ContainerDebt) error {
	return r.write(func(d *state) error {
		c, ok := d.customers[id]
		if !ok || c.BusinessID != businessID {
			return domain.ErrNotFound
		}
		c.Debt = debt
		return nil
	})
}

func (r *CustomerRepo) AdjustDebt(_ context.Context, businessID, id string, delta entity.ContainerDebt) (*entity.ContainerDebt, error) {
	var out *entity.ContainerDebt
	err := r.write(func(d *state) error {
		c, ok := d.customers[id]
		if !ok || c.BusinessID != businessID {
			return nil
		}
		c.Debt = ledger.Apply(c.Debt, delta)
		debt := c.Debt
		out = &debt
		return nil
	})
	return out, err
}

func (r *CustomerRepo) SumDispensersAssigned(_ context.Context, businessID string) (int, error) {
	total := 0
	r.read(func(d *state) {
		for _, c := range d.customers {
			if c.BusinessID == businessID {
				total += c.DispensersAssigned
			}
		}
	})
	return total, nil
}
