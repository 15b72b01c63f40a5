package memory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/reparto-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo agregaciones del dashboard calculadas recorriendo el store.
type AnalyticsRepo struct{ base }

// NewAnalyticsRepository construye el repo.
func NewAnalyticsRepository(s *Store) *AnalyticsRepo { return &AnalyticsRepo{base{s: s}} }

func (r *AnalyticsRepo) GetSalesMetrics(_ context.Context, businessID string, from, to time.Time) (*repository.SalesMetrics, error) {
	out := &repository.SalesMetrics{
		SalesTotal:    decimal.Zero,
		CashCollected: decimal.Zero,
		ByMethod:      map[string]int{},
	}
	rng := repository.DateRange{From: &from, To: &to}
	r.read(func(d *state) {
		for _, s := range d.sales {
			if s.BusinessID != businessID || !rng.Contains(s.Date) {
				continue
			}
			out.CashCollected = out.CashCollected.Add(s.AmountPaid)
			out.ByMethod[s.PaymentMethod]++
			if s.IsCollection() {
				out.Collections++
				continue
			}
			out.SalesCount++
			out.SalesTotal = out.SalesTotal.Add(s.Total)
		}
	})
	return out, nil
}

func (r *AnalyticsRepo) GetExpensesTotal(_ context.Context, businessID string, from, to time.Time) (decimal.Decimal, error) {
	sum := decimal.Zero
	rng := repository.DateRange{From: &from, To: &to}
	r.read(func(d *state) {
		for _, e := range d.expenses {
			if e.BusinessID == businessID && rng.Contains(e.Date) {
				sum = sum.Add(e.Amount)
			}
		}
	})
	return sum, nil
}

func (r *AnalyticsRepo) GetDebtMetrics(_ context.Context, businessID string) (*repository.DebtMetrics, error) {
	out := &repository.DebtMetrics{PendingTotal: decimal.Zero}
	perCustomer := map[string]decimal.Decimal{}
	r.read(func(d *state) {
		for _, s := range d.sales {
			if s.BusinessID == businessID && !s.IsCollection() {
				if p := s.PendingBalance(); p.IsPositive() {
					perCustomer[s.CustomerID] = perCustomer[s.CustomerID].Add(p)
				}
			}
		}
		for _, c := range d.customers {
			if c.BusinessID == businessID {
				out.Containers = out.Containers.Add(c.Debt)
			}
		}
	})
	for _, p := range perCustomer {
		out.PendingTotal = out.PendingTotal.Add(p)
		out.CustomersWithDebt++
	}
	return out, nil
}
