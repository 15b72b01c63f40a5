// Package pdf implementa el estado de cuenta del cliente en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Negocio + contacto    │  ESTADO DE CUENTA + fecha  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre + dirección + teléfono                      │
//	│  ENVASES: bidones 20L / 12L / sodas / dispensers             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Tipo | Detalle | Total | Pagado | Saldo      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SALDO PENDIENTE                                             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/reparto-api/internal/application/billing"
	"github.com/jhoicas/reparto-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 94, Blue: 140}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorDebt    = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ billing.StatementPDFGenerator = (*MarotoStatementGenerator)(nil)

// MarotoStatementGenerator implementa billing.StatementPDFGenerator usando Maroto v2.
type MarotoStatementGenerator struct{}

// NewMarotoStatementGenerator construye el generador.
func NewMarotoStatementGenerator() *MarotoStatementGenerator { return &MarotoStatementGenerator{} }

// GenerateStatementPDF genera el PDF y devuelve sus bytes.
func (g *MarotoStatementGenerator) GenerateStatementPDF(_ context.Context, data billing.StatementData) ([]byte, error) {
	if data.Business == nil || data.Customer == nil {
		return nil, fmt.Errorf("pdf: faltan negocio o cliente")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Estado de cuenta", true).
		WithAuthor(data.Business.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(data.Customer))
	m.AddRows(containersRow(data.Customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	if len(data.Lines) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Sin movimientos registrados.", props.Text{Size: 8, Top: 2, Color: colorGray, Align: align.Center}),
		)))
	}
	for _, r := range tableDetailRows(data.Lines) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(data.PendingTotal))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: negocio y contacto (izq), título y fecha de emisión (der).
func headerRow(data billing.StatementData) core.Row {
	b := data.Business
	return row.New(18).Add(
		col.New(7).Add(
			text.New(b.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Tel: %s   |   %s",
				nonEmpty(b.Phone, "-"),
				nonEmpty(b.Address, "-"),
			), props.Text{Size: 8, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("ESTADO DE CUENTA", props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Emitido: "+data.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// customerRow: datos del cliente.
func customerRow(c *entity.Customer) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(c.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Dirección: %s %s   |   Tel: %s",
				nonEmpty(c.Address, "-"),
				c.Locality,
				nonEmpty(c.Phone, "-"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// containersRow: envases en poder del cliente.
func containersRow(c *entity.Customer) core.Row {
	cell := func(label string, n int) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Size: 7, Color: colorGray, Top: 1, Align: align.Center}),
			text.New(fmt.Sprintf("%d", n), props.Text{Style: fontstyle.Bold, Size: 10, Top: 5, Align: align.Center}),
		)
	}
	return row.New(12).Add(
		cell("Bidones 20L", c.Debt.Bidones20L),
		cell("Bidones 12L", c.Debt.Bidones12L),
		cell("Sodas", c.Debt.Sodas),
		cell("Dispensers", c.DispensersAssigned),
	)
}

// tableHeaderRow: cabecera de la tabla de movimientos.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 2, align.Left),
		h("Tipo", 1, align.Center),
		h("Detalle", 4, align.Left),
		h("Total", 2, align.Right),
		h("Pagado", 2, align.Right),
		h("Saldo", 1, align.Right),
	)
}

// tableDetailRows: una fila por venta o cobro.
func tableDetailRows(lines []billing.StatementLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		pendingStyle := props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1}
		if l.Pending.IsPositive() {
			pendingStyle.Color = colorDebt
			pendingStyle.Style = fontstyle.Bold
		}
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(l.Date.Format("02/01/2006"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(l.Type, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(4).Add(text.New(l.Description, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(money(l.Total), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(money(l.Paid), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(money(l.Pending), pendingStyle)),
		))
	}
	return result
}

// totalRow: saldo pendiente total alineado a la derecha.
func totalRow(pending decimal.Decimal) core.Row {
	c := colorPrimary
	if pending.IsPositive() {
		c = colorDebt
	}
	return row.New(12).Add(
		col.New(6),
		col.New(3).Add(text.New("SALDO PENDIENTE:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: c, Top: 3, Right: 2,
		})),
		col.New(3).Add(text.New(money(pending), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: c, Top: 3, Right: 1,
		})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func money(d decimal.Decimal) string {
	return "$" + formatMoney(d.StringFixed(0))
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
	sign := ""
	if len(s) > 0 && s[0] == '-' {
		sign, s = "-", s[1:]
	}
	n := len(s)
	if n <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
