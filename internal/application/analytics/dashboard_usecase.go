// Package analytics contiene los casos de uso para reportes del negocio:
// el resumen del dashboard y la exportación del flujo de caja.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/reparto-api/internal/application/dto"
	"github.com/jhoicas/reparto-api/internal/domain"
	"github.com/jhoicas/reparto-api/internal/domain/inventory"
	"github.com/jhoicas/reparto-api/internal/domain/repository"
)

// DashboardUseCase genera el resumen financiero de un período más la foto actual de deuda e inventario.
//
// Fuente de datos: AnalyticsRepository (consultas read-only) e inventario.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	inventoryRepo repository.InventoryRepository
	customerRepo  repository.CustomerRepository
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	analyticsRepo repository.AnalyticsRepository,
	inventoryRepo repository.InventoryRepository,
	customerRepo repository.CustomerRepository,
) *DashboardUseCase {
	return &DashboardUseCase{
		analyticsRepo: analyticsRepo,
		inventoryRepo: inventoryRepo,
		customerRepo:  customerRepo,
		now:           time.Now,
	}
}

// GetSummary construye el DashboardSummaryDTO del negocio del actor.
// Sin desde/hasta el período es el mes en curso hasta hoy.
//
// Cuatro consultas en paralelo:
//  1. GetSalesMetrics(período)  → ventas, cobrado, cantidades, por método
//  2. GetExpensesTotal(período) → gastos
//  3. GetDebtMetrics()          → saldo pendiente y deuda de envases
//  4. inventario + dispensers asignados → estado por categoría
func (uc *DashboardUseCase) GetSummary(ctx context.Context, actor dto.Actor, in dto.DateRangeRequest) (*dto.DashboardSummaryDTO, error) {
	from, to, err := uc.period(in)
	if err != nil {
		return nil, err
	}
	businessID := actor.BusinessID

	// ── Goroutines para paralelizar las consultas DB ──────────────────────────
	type salesResult struct {
		m   *repository.SalesMetrics
		err error
	}
	type expensesResult struct {
		total decimal.Decimal
		err   error
	}
	type debtResult struct {
		m   *repository.DebtMetrics
		err error
	}
	type inventoryResult struct {
		statuses map[string]inventory.CategoryStatus
		err      error
	}

	salesCh := make(chan salesResult, 1)
	expensesCh := make(chan expensesResult, 1)
	debtCh := make(chan debtResult, 1)
	invCh := make(chan inventoryResult, 1)

	go func() {
		m, err := uc.analyticsRepo.GetSalesMetrics(ctx, businessID, from, to)
		salesCh <- salesResult{m, err}
	}()
	go func() {
		total, err := uc.analyticsRepo.GetExpensesTotal(ctx, businessID, from, to)
		expensesCh <- expensesResult{total, err}
	}()
	go func() {
		m, err := uc.analyticsRepo.GetDebtMetrics(ctx, businessID)
		debtCh <- debtResult{m, err}
	}()
	go func() {
		statuses, err := uc.inventoryStatus(ctx, businessID)
		invCh <- inventoryResult{statuses, err}
	}()

	sales := <-salesCh
	expenses := <-expensesCh
	debt := <-debtCh
	inv := <-invCh

	if sales.err != nil {
		return nil, fmt.Errorf("dashboard: métricas de ventas: %w", sales.err)
	}
	if expenses.err != nil {
		return nil, fmt.Errorf("dashboard: gastos: %w", expenses.err)
	}
	if debt.err != nil {
		return nil, fmt.Errorf("dashboard: deuda: %w", debt.err)
	}
	if inv.err != nil {
		return nil, fmt.Errorf("dashboard: inventario: %w", inv.err)
	}

	byMethod := sales.m.ByMethod
	if byMethod == nil {
		byMethod = map[string]int{}
	}
	return &dto.DashboardSummaryDTO{
		From:               from,
		To:                 to,
		DateLabel:          periodLabel(from, to),
		SalesTotal:         sales.m.SalesTotal.Round(2),
		CashCollected:      sales.m.CashCollected.Round(2),
		Expenses:           expenses.total.Round(2),
		NetCashFlow:        sales.m.CashCollected.Sub(expenses.total).Round(2),
		SalesCount:         sales.m.SalesCount,
		CollectionsCount:   sales.m.Collections,
		ByPaymentMethod:    byMethod,
		PendingTotal:       debt.m.PendingTotal.Round(2),
		CustomersWithDebt:  debt.m.CustomersWithDebt,
		ContainerDebt:      dto.ToDebtDTO(debt.m.Containers),
		Inventory:          dto.ToInventoryDashboard(inv.statuses),
		InventoryValuation: inventory.TotalValuation(inv.statuses).Round(2),
	}, nil
}

func (uc *DashboardUseCase) inventoryStatus(ctx context.Context, businessID string) (map[string]inventory.CategoryStatus, error) {
	assets, err := uc.inventoryRepo.List(ctx, businessID)
	if err != nil {
		return nil, err
	}
	assigned, err := uc.customerRepo.SumDispensersAssigned(ctx, businessID)
	if err != nil {
		return nil, err
	}
	return inventory.Valuate(assets, assigned), nil
}

// period resuelve el rango pedido. Mes en curso: día 1 a las 00:00 hasta hoy 23:59:59.
func (uc *DashboardUseCase) period(in dto.DateRangeRequest) (time.Time, time.Time, error) {
	now := uc.now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := todayStart.Add(24*time.Hour - time.Nanosecond)

	f, err := dto.ParseDate("desde", in.From)
	if err != nil {
		return from, to, err
	}
	t, err := dto.ParseDate("hasta", in.To)
	if err != nil {
		return from, to, err
	}
	if f != nil {
		from = *f
	}
	if t != nil {
		to = dto.EndOfDay(*t)
	}
	if to.Before(from) {
		return from, to, domain.Invalid("hasta", "debe ser posterior a desde")
	}
	return from, to, nil
}

// periodLabel "Marzo 2026" cuando el período cae dentro de un mes; si no, "01/03/2026 - 15/04/2026".
func periodLabel(from, to time.Time) string {
	if from.Year() == to.Year() && from.Month() == to.Month() {
		return monthLabel(from)
	}
	return from.Format("02/01/2006") + " - " + to.Format("02/01/2006")
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
