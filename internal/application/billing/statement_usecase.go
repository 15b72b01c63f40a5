package billing

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/reparto-api/internal/application/dto"
	"github.com/jhoicas/reparto-api/internal/domain"
	"github.com/jhoicas/reparto-api/internal/domain/entity"
	"github.com/jhoicas/reparto-api/internal/domain/ledger"
	"github.com/jhoicas/reparto-api/internal/domain/repository"
)

// StatementUseCase arma el estado de cuenta (PDF) de un cliente.
type StatementUseCase struct {
	businessRepo repository.BusinessRepository
	customerRepo repository.CustomerRepository
	saleRepo     repository.SaleRepository
	generator    StatementPDFGenerator
	now          func() time.Time
}

// NewStatementUseCase construye el caso de uso inyectando todas sus dependencias.
func NewStatementUseCase(
	businessRepo repository.BusinessRepository,
	customerRepo repository.CustomerRepository,
	saleRepo repository.SaleRepository,
	generator StatementPDFGenerator,
) *StatementUseCase {
	return &StatementUseCase{
		businessRepo: businessRepo,
		customerRepo: customerRepo,
		saleRepo:     saleRepo,
		generator:    generator,
		now:          time.Now,
	}
}

// Build reúne los datos del estado de cuenta, en orden cronológico.
func (uc *StatementUseCase) Build(ctx context.Context, actor dto.Actor, customerID string) (*StatementData, error) {
	customer, err := uc.customerRepo.GetByID(ctx, actor.BusinessID, customerID)
	if err != nil {
		return nil, fmt.Errorf("estado de cuenta: obtener cliente: %w", err)
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	business, err := uc.businessRepo.GetByID(ctx, actor.BusinessID)
	if err != nil {
		return nil, fmt.Errorf("estado de cuenta: obtener negocio: %w", err)
	}
	if business == nil {
		return nil, domain.ErrNotFound
	}
	sales, err := uc.saleRepo.List(ctx, repository.SaleFilter{BusinessID: actor.BusinessID, CustomerID: customerID})
	if err != nil {
		return nil, fmt.Errorf("estado de cuenta: ventas: %w", err)
	}
	sort.SliceStable(sales, func(i, j int) bool { return sales[i].Date.Before(sales[j].Date) })

	data := &StatementData{
		Business:     business,
		Customer:     customer,
		Lines:        make([]StatementLine, 0, len(sales)),
		PendingTotal: ledger.PendingBalance(sales),
		GeneratedAt:  uc.now(),
	}
	for _, s := range sales {
		line := StatementLine{
			Date:    s.Date,
			Type:    dto.SaleTypeSale,
			Total:   s.Total,
			Paid:    s.AmountPaid.Add(s.AmountCollected),
			Pending: s.PendingBalance(),
		}
		if s.IsCollection() {
			line.Type = dto.SaleTypeCollection
			line.Description = "Cobro (" + s.PaymentMethod + ")"
			line.Total = decimal.Zero
			line.Paid = s.AmountPaid
		} else {
			line.Description = describeItems(s.Items)
		}
		data.Lines = append(data.Lines, line)
	}
	return data, nil
}

// Download genera el PDF y su nombre de archivo.
func (uc *StatementUseCase) Download(ctx context.Context, actor dto.Actor, customerID string) ([]byte, string, error) {
	data, err := uc.Build(ctx, actor, customerID)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.generator.GenerateStatementPDF(ctx, *data)
	if err != nil {
		return nil, "", fmt.Errorf("estado de cuenta: generar pdf: %w", err)
	}
	filename := fmt.Sprintf("estado-cuenta-%s-%s.pdf", slug(data.Customer.Name), data.GeneratedAt.Format("20060102"))
	return pdf, filename, nil
}

func describeItems(items []entity.SaleItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%d x %s", it.Quantity, it.Product))
	}
	return strings.Join(parts, ", ")
}

func slug(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('-')
		}
	}
	if b.Len() == 0 {
		return "cliente"
	}
	return b.String()
}
