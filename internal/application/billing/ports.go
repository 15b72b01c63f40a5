package billing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/reparto-api/internal/domain/entity"
)

// PhoneNormalizer lleva un teléfono a su forma canónica (E.164 cuando es posible) para
// comparar duplicados. Vacío si raw no tiene dígitos.
type PhoneNormalizer interface {
	Normalize(raw string) string
}

// StatementLine movimiento del estado de cuenta.
type StatementLine struct {
	Date        time.Time
	Type        string // venta | cobro
	Description string
	Total       decimal.Decimal
	Paid        decimal.Decimal // pagado al momento + cobrado después
	Pending     decimal.Decimal
}

// StatementData todo lo necesario para renderizar el estado de cuenta de un cliente.
type StatementData struct {
	Business     *entity.Business
	Customer     *entity.Customer
	Lines        []StatementLine
	PendingTotal decimal.Decimal
	GeneratedAt  time.Time
}

// StatementPDFGenerator puerto de salida para generar el PDF del estado de cuenta.
// La implementación vive en infrastructure/pdf.
type StatementPDFGenerator interface {
	GenerateStatementPDF(ctx context.Context, data StatementData) ([]byte, error)
}
