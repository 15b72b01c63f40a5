package analytics

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/reparto-api/internal/application/dto"
	"github.com/jhoicas/reparto-api/internal/domain/repository"
)

// CashFlowSaleRow fila de la hoja de ventas.
type CashFlowSaleRow struct {
	Date          time.Time
	Customer      string
	Type          string // venta | cobro
	Detail        string
	PaymentMethod string
	Total         decimal.Decimal
	Paid          decimal.Decimal
	Pending       decimal.Decimal
}

// CashFlowExpenseRow fila de la hoja de gastos.
type CashFlowExpenseRow struct {
	Date    time.Time
	Concept string
	Amount  decimal.Decimal
}

// CashFlowReport datos del flujo de caja de un período.
type CashFlowReport struct {
	BusinessName string
	From, To     time.Time
	Sales        []CashFlowSaleRow
	Expenses     []CashFlowExpenseRow
	Collected    decimal.Decimal
	ExpenseTotal decimal.Decimal
}

// CashFlowExporter puerto de salida que serializa el reporte (XLSX en infrastructure/xlsx).
type CashFlowExporter interface {
	ExportCashFlow(ctx context.Context, report CashFlowReport) ([]byte, error)
}

// ReportUseCase exporta el flujo de caja del período.
type ReportUseCase struct {
	businessRepo repository.BusinessRepository
	customerRepo repository.CustomerRepository
	saleRepo     repository.SaleRepository
	expenseRepo  repository.ExpenseRepository
	exporter     CashFlowExporter
	now          func() time.Time
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(
	businessRepo repository.BusinessRepository,
	customerRepo repository.CustomerRepository,
	saleRepo repository.SaleRepository,
	expenseRepo repository.ExpenseRepository,
	exporter CashFlowExporter,
) *ReportUseCase {
	return &ReportUseCase{
		businessRepo: businessRepo,
		customerRepo: customerRepo,
		saleRepo:     saleRepo,
		expenseRepo:  expenseRepo,
		exporter:     exporter,
		now:          time.Now,
	}
}

// Build reúne ventas y gastos del período, ordenados por fecha.
func (uc *ReportUseCase) Build(ctx context.Context, actor dto.Actor, in dto.DateRangeRequest) (*CashFlowReport, error) {
	dash := DashboardUseCase{now: uc.now}
	from, to, err := dash.period(in)
	if err != nil {
		return nil, err
	}
	business, err := uc.businessRepo.GetByID(ctx, actor.BusinessID)
	if err != nil {
		return nil, fmt.Errorf("flujo de caja: negocio: %w", err)
	}
	report := &CashFlowReport{From: from, To: to, Collected: decimal.Zero, ExpenseTotal: decimal.Zero}
	if business != nil {
		report.BusinessName = business.Name
	}

	customers, err := uc.customerRepo.List(ctx, repository.CustomerFilter{BusinessID: actor.BusinessID})
	if err != nil {
		return nil, fmt.Errorf("flujo de caja: clientes: %w", err)
	}
	names := make(map[string]string, len(customers))
	for _, c := range customers {
		names[c.ID] = c.Name
	}

	sales, err := uc.saleRepo.List(ctx, repository.SaleFilter{BusinessID: actor.BusinessID, From: &from, To: &to})
	if err != nil {
		return nil, fmt.Errorf("flujo de caja: ventas: %w", err)
	}
	sort.SliceStable(sales, func(i, j int) bool { return sales[i].Date.Before(sales[j].Date) })
	for _, s := range sales {
		row := CashFlowSaleRow{
			Date:          s.Date,
			Customer:      names[s.CustomerID],
			Type:          dto.SaleTypeSale,
			PaymentMethod: s.PaymentMethod,
			Total:         s.Total,
			Paid:          s.AmountPaid,
			Pending:       s.PendingBalance(),
		}
		if s.IsCollection() {
			row.Type = dto.SaleTypeCollection
		} else {
			parts := make([]string, 0, len(s.Items))
			for _, it := range s.Items {
				parts = append(parts, fmt.Sprintf("%d x %s", it.Quantity, it.Product))
			}
			row.Detail = strings.Join(parts, ", ")
		}
		report.Collected = report.Collected.Add(s.AmountPaid)
		report.Sales = append(report.Sales, row)
	}

	expenses, err := uc.expenseRepo.List(ctx, actor.BusinessID, repository.DateRange{From: &from, To: &to})
	if err != nil {
		return nil, fmt.Errorf("flujo de caja: gastos: %w", err)
	}
	sort.SliceStable(expenses, func(i, j int) bool { return expenses[i].Date.Before(expenses[j].Date) })
	for _, e := range expenses {
		report.Expenses = append(report.Expenses, CashFlowExpenseRow{Date: e.Date, Concept: e.Concept, Amount: e.Amount})
		report.ExpenseTotal = report.ExpenseTotal.Add(e.Amount)
	}
	return report, nil
}

// Export genera el archivo y su nombre.
func (uc *ReportUseCase) Export(ctx context.Context, actor dto.Actor, in dto.DateRangeRequest) ([]byte, string, error) {
	report, err := uc.Build(ctx, actor, in)
	if err != nil {
		return nil, "", err
	}
	data, err := uc.exporter.ExportCashFlow(ctx, *report)
	if err != nil {
		return nil, "", fmt.Errorf("flujo de caja: exportar: %w", err)
	}
	filename := fmt.Sprintf("flujo-caja-%s-%s.xlsx", report.From.Format("20060102"), report.To.Format("20060102"))
	return data, filename, nil
}
