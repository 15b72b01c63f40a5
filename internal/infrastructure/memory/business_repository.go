package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/reparto-api/internal/domain"
	"github.com/jhoicas/reparto-api/internal/domain/entity"
	"github.com/jhoicas/reparto-api/internal/domain/repository"
)

var (
	_ repository.BusinessRepository  = (*BusinessRepo)(nil)
	_ repository.CatalogRepository   = (*CatalogRepo)(nil)
	_ repository.InventoryRepository = (*InventoryRepo)(nil)
)

// BusinessRepo negocios en memoria.
type BusinessRepo struct{ base }

// NewBusinessRepository construye el repo.
func NewBusinessRepository(s *Store) *BusinessRepo { return &BusinessRepo{base{s: s}} }

func (r *BusinessRepo) Create(_ context.Context, b *entity.Business) error {
	return r.write(func(d *state) error {
		for _, o := range d.businesses {
			if b.LinkCode != "" && o.LinkCode == b.LinkCode {
				return domain.ErrDuplicate
			}
		}
		c := *b
		d.businesses[b.ID] = &c
		return nil
	})
}

func (r *BusinessRepo) GetByID(_ context.Context, id string) (*entity.Business, error) {
	var out *entity.Business
	r.read(func(d *state) {
		if b, ok := d.businesses[id]; ok {
			c := *b
			out = &c
		}
	})
	return out, nil
}

func (r *BusinessRepo) GetByLinkCode(_ context.Context, code string) (*entity.Business, error) {
	var out *entity.Business
	r.read(func(d *state) {
		for _, b := range d.businesses {
			if code != "" && b.LinkCode == code {
				c := *b
				out = &c
				return
			}
		}
	})
	return out, nil
}

func (r *BusinessRepo) LinkCodeTaken(_ context.Context, code, excludeID string) (bool, error) {
	taken := false
	r.read(func(d *state) {
		for _, b := range d.businesses {
			if b.LinkCode == code && b.ID != excludeID {
				taken = true
				return
			}
		}
	})
	return taken, nil
}

func (r *BusinessRepo) Update(_ context.Context, b *entity.Business) error {
	return r.write(func(d *state) error {
		if _, ok := d.businesses[b.ID]; !ok {
			return domain.ErrNotFound
		}
		for _, o := range d.businesses {
			if o.ID != b.ID && b.LinkCode != "" && o.LinkCode == b.LinkCode {
				return domain.ErrDuplicate
			}
		}
		c := *b
		d.businesses[b.ID] = &c
		return nil
	})
}

func (r *BusinessRepo) List(_ context.Context, limit, offset int) ([]*entity.Business, error) {
	var list []*entity.Business
	r.read(func(d *state) {
		for _, b := range d.businesses {
			c := *b
			list = append(list, &c)
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return page(list, limit, offset), nil
}

// CatalogRepo catálogo en memoria.
type CatalogRepo struct{ base }

// NewCatalogRepository construye el repo.
func NewCatalogRepository(s *Store) *CatalogRepo { return &CatalogRepo{base{s: s}} }

func (r *CatalogRepo) Create(_ context.Context, p *entity.CatalogProduct) error {
	return r.write(func(d *state) error {
		for _, o := range d.catalog {
			if o.BusinessID == p.BusinessID && o.Key == p.Key {
				return domain.ErrDuplicate
			}
		}
		c := *p
		d.catalog[p.ID] = &c
		return nil
	})
}

func (r *CatalogRepo) GetByID(_ context.Context, businessID, id string) (*entity.CatalogProduct, error) {
	var out *entity.CatalogProduct
	r.read(func(d *state) {
		if p, ok := d.catalog[id]; ok && p.BusinessID == businessID {
			c := *p
			out = &c
		}
	})
	return out, nil
}

func (r *CatalogRepo) GetByKey(_ context.Context, businessID, key string) (*entity.CatalogProduct, error) {
	var out *entity.CatalogProduct
	r.read(func(d *state) {
		for _, p := range d.catalog {
			if p.BusinessID == businessID && p.Key == key {
				c := *p
				out = &c
				return
			}
		}
	})
	return out, nil
}

func (r *CatalogRepo) List(_ context.Context, businessID string, includeInactive bool) ([]*entity.CatalogProduct, error) {
	var list []*entity.CatalogProduct
	r.read(func(d *state) {
		for _, p := range d.catalog {
			if p.BusinessID != businessID || (!includeInactive && !p.Active) {
				continue
			}
			c := *p
			list = append(list, &c)
		}
	})
	sort.Slice(list, func(i, j int) bool {
		if list[i].Position == list[j].Position {
			return list[i].Key < list[j].Key
		}
		return list[i].Position < list[j].Position
	})
	return list, nil
}

func (r *CatalogRepo) Update(_ context.Context, p *entity.CatalogProduct) error {
	return r.write(func(d *state) error {
		cur, ok := d.catalog[p.ID]
		if !ok || cur.BusinessID != p.BusinessID {
			return domain.ErrNotFound
		}
		c := *p
		d.catalog[p.ID] = &c
		return nil
	})
}

// InventoryRepo inventario de activos en memoria.
type InventoryRepo struct{ base }

// NewInventoryRepository construye el repo.
func NewInventoryRepository(s *Store) *InventoryRepo { return &InventoryRepo{base{s: s}} }

func (r *InventoryRepo) List(_ context.Context, businessID string) ([]*entity.InventoryAsset, error) {
	var list []*entity.InventoryAsset
	r.read(func(d *state) {
		for _, a := range d.inventory {
			if a.BusinessID == businessID {
				c := *a
				list = append(list, &c)
			}
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Category < list[j].Category })
	return list, nil
}

func (r *InventoryRepo) Upsert(_ context.Context, a *entity.InventoryAsset) error {
	return r.write(func(d *state) error {
		c := *a
		d.inventory[a.BusinessID+"|"+a.Category] = &c
		return nil
	})
}
