// Package xlsx exporta reportes a planillas Excel con excelize.
package xlsx

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/reparto-api/internal/application/analytics"
)

const (
	sheetSummary  = "Resumen"
	sheetSales    = "Ventas"
	sheetExpenses = "Gastos"
	dateLayout    = "02/01/2006 15:04"
)

var _ analytics.CashFlowExporter = (*CashFlowExporter)(nil)

// CashFlowExporter implementa analytics.CashFlowExporter: hojas Resumen, Ventas y Gastos.
type CashFlowExporter struct{}

// NewCashFlowExporter construye el exportador.
func NewCashFlowExporter() *CashFlowExporter { return &CashFlowExporter{} }

// ExportCashFlow arma el libro y devuelve sus bytes.
func (e *CashFlowExporter) ExportCashFlow(_ context.Context, report analytics.CashFlowReport) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"005E8C"}},
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}

	// La hoja por defecto pasa a ser el resumen.
	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}
	if err := writeSummary(f, report, header); err != nil {
		return nil, err
	}
	if err := writeSales(f, report, header); err != nil {
		return nil, err
	}
	if err := writeExpenses(f, report, header); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummary(f *excelize.File, r analytics.CashFlowReport, header int) error {
	rows := [][]any{
		{"Negocio", r.BusinessName},
		{"Desde", r.From.Format(dateLayout)},
		{"Hasta", r.To.Format(dateLayout)},
		{"Cobrado", amount(r.Collected)},
		{"Gastos", amount(r.ExpenseTotal)},
		{"Flujo neto", amount(r.Collected.Sub(r.ExpenseTotal))},
	}
	if err := setRows(f, sheetSummary, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetSummary, "A1", "A6", header); err != nil {
		return fmt.Errorf("xlsx: estilo resumen: %w", err)
	}
	return f.SetColWidth(sheetSummary, "A", "B", 22)
}

func writeSales(f *excelize.File, r analytics.CashFlowReport, header int) error {
	if _, err := f.NewSheet(sheetSales); err != nil {
		return fmt.Errorf("xlsx: hoja ventas: %w", err)
	}
	rows := [][]any{{"Fecha", "Cliente", "Tipo", "Detalle", "Método", "Total", "Pagado", "Saldo"}}
	for _, s := range r.Sales {
		rows = append(rows, []any{
			s.Date.Format(dateLayout), s.Customer, s.Type, s.Detail, s.PaymentMethod,
			amount(s.Total), amount(s.Paid), amount(s.Pending),
		})
	}
	if err := setRows(f, sheetSales, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetSales, "A1", "H1", header); err != nil {
		return fmt.Errorf("xlsx: estilo ventas: %w", err)
	}
	if err := f.SetColWidth(sheetSales, "A", "C", 16); err != nil {
		return err
	}
	return f.SetColWidth(sheetSales, "D", "D", 40)
}

func writeExpenses(f *excelize.File, r analytics.CashFlowReport, header int) error {
	if _, err := f.NewSheet(sheetExpenses); err != nil {
		return fmt.Errorf("xlsx: hoja gastos: %w", err)
	}
	rows := [][]any{{"Fecha", "Concepto", "Monto"}}
	for _, e := range r.Expenses {
		rows = append(rows, []any{e.Date.Format(dateLayout), e.Concept, amount(e.Amount)})
	}
	if err := setRows(f, sheetExpenses, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetExpenses, "A1", "C1", header); err != nil {
		return fmt.Errorf("xlsx: estilo gastos: %w", err)
	}
	return f.SetColWidth(sheetExpenses, "A", "B", 28)
}

func setRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, values := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := values
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("xlsx: fila %d de %s: %w", i+1, sheet, err)
		}
	}
	return nil
}

// amount los montos van como número para que la planilla pueda sumarlos.
func amount(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
