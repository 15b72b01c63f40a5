package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/reparto-api/internal/domain"
	"github.com/jhoicas/reparto-api/internal/domain/entity"
	"github.com/jhoicas/reparto-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas y asignaciones de cobro en memoria.
type SaleRepo struct{ base }

// NewSaleRepository construye el repo.
func NewSaleRepository(s *Store) *SaleRepo { return &SaleRepo{base{s: s}} }

func (r *SaleRepo) Create(_ context.Context, s *entity.Sale) error {
	return r.write(func(d *state) error {
		if _, ok := d.sales[s.ID]; ok {
			return domain.ErrDuplicate
		}
		d.sales[s.ID] = copySale(s)
		return nil
	})
}

func (r *SaleRepo) GetByID(_ context.Context, businessID, id string) (*entity.Sale, error) {
	var out *entity.Sale
	r.read(func(d *state) {
		if s, ok := d.sales[id]; ok && s.BusinessID == businessID {
			out = copySale(s)
		}
	})
	return out, nil
}

func (r *SaleRepo) Update(_ context.Context, s *entity.Sale) error {
	return r.write(func(d *state) error {
		cur, ok := d.sales[s.ID]
		if !ok || cur.BusinessID != s.BusinessID {
			return domain.ErrNotFound
		}
		d.sales[s.ID] = copySale(s)
		return nil
	})
}

func (r *SaleRepo) Delete(_ context.Context, businessID, id string) error {
	return r.write(func(d *state) error {
		s, ok := d.sales[id]
		if !ok || s.BusinessID != businessID {
			return domain.ErrNotFound
		}
		delete(d.sales, id)
		kept := d.allocations[:0]
		for _, a := range d.allocations {
			if a.SaleID != id && a.CollectionID != id {
				kept = append(kept, a)
			}
		}
		d.allocations = kept
		return nil
	})
}

func (r *SaleRepo) List(_ context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	rng := repository.DateRange{From: f.From, To: f.To}
	var list []*entity.Sale
	r.read(func(d *state) {
		for _, s := range d.sales {
			if s.BusinessID != f.BusinessID {
				continue
			}
			if f.CustomerID != "" && s.CustomerID != f.CustomerID {
				continue
			}
			if !rng.Contains(s.Date) {
				continue
			}
			list = append(list, copySale(s))
		}
	})
	sort.Slice(list, func(i, j int) bool {
		if list[i].Date.Equal(list[j].Date) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].Date.After(list[j].Date)
	})
	return page(list, f.Limit, f.Offset), nil
}

func (r *SaleRepo) ListPendingByCustomer(_ context.Context, businessID, customerID string) ([]*entity.Sale, error) {
	var list []*entity.Sale
	r.read(func(d *state) {
		for _, s := range d.sales {
			if s.BusinessID == businessID && s.CustomerID == customerID && !s.IsCollection() && s.PendingBalance().IsPositive() {
				list = append(list, copySale(s))
			}
		}
	})
	sort.Slice(list, func(i, j int) bool {
		if list[i].Date.Equal(list[j].Date) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].Date.Before(list[j].Date)
	})
	return list, nil
}

func (r *SaleRepo) PendingBalances(_ context.Context, businessID string, customerIDs []string) (map[string]decimal.Decimal, error) {
	want := make(map[string]bool, len(customerIDs))
	for _, id := range customerIDs {
		want[id] = true
	}
	out := map[string]decimal.Decimal{}
	r.read(func(d *state) {
		for _, s := range d.sales {
			if s.BusinessID != businessID || s.IsCollection() {
				continue
			}
			if len(want) > 0 && !want[s.CustomerID] {
				continue
			}
			p := s.PendingBalance()
			if p.IsPositive() {
				out[s.CustomerID] = out[s.CustomerID].Add(p)
			}
		}
	})
	return out, nil
}

func (r *SaleRepo) AddCollected(_ context.Context, saleID string, delta decimal.Decimal) error {
	return r.write(func(d *state) error {
		s, ok := d.sales[saleID]
		if !ok {
			return domain.ErrNotFound
		}
		s.AmountCollected = s.AmountCollected.Add(delta)
		return nil
	})
}

func (r *SaleRepo) CreateAllocations(_ context.Context, allocations []entity.PaymentAllocation) error {
	return r.write(func(d *state) error {
	next:
		for _, a := range allocations {
			for i := range d.allocations {
				if d.allocations[i].CollectionID == a.CollectionID && d.allocations[i].SaleID == a.SaleID {
					d.allocations[i].Amount = d.allocations[i].Amount.Add(a.Amount)
					continue next
				}
			}
			d.allocations = append(d.allocations, a)
		}
		return nil
	})
}

func (r *SaleRepo) AllocationsByCollection(_ context.Context, collectionID string) ([]entity.PaymentAllocation, error) {
	return r.allocationsWhere(func(a entity.PaymentAllocation) bool { return a.CollectionID == collectionID }), nil
}

func (r *SaleRepo) AllocationsBySale(_ context.Context, saleID string) ([]entity.PaymentAllocation, error) {
	return r.allocationsWhere(func(a entity.PaymentAllocation) bool { return a.SaleID == saleID }), nil
}

func (r *SaleRepo) allocationsWhere(match func(entity.PaymentAllocation) bool) []entity.PaymentAllocation {
	var out []entity.PaymentAllocation
	r.read(func(d *state) {
		for _, a := range d.allocations {
			if match(a) {
				out = append(out, a)
			}
		}
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (r *SaleRepo) DeleteAllocationsByCollection(_ context.Context, collectionID string) error {
	return r.deleteAllocationsWhere(func(a entity.PaymentAllocation) bool { return a.CollectionID == collectionID })
}

func (r *SaleRepo) DeleteAllocationsBySale(_ context.Context, saleID string) error {
	return r.deleteAllocationsWhere(func(a entity.PaymentAllocation) bool { return a.SaleID == saleID })
}

func (r *SaleRepo) deleteAllocationsWhere(match func(entity.PaymentAllocation) bool) error {
	return r.write(func(d *state) error {
		kept := d.allocations[:0]
		for _, a := range d.allocations {
			if !match(a) {
				kept = append(kept, a)
			}
		}
		d.allocations = kept
		return nil
	})
}
