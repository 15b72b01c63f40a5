package xlsx_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/reparto-api/internal/application/analytics"
	"github.com/jhoicas/reparto-api/internal/infrastructure/xlsx"
)

func TestExportCashFlow(t *testing.T) {
	day := time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)
	report := analytics.CashFlowReport{
		BusinessName: "Agua Serrana",
		From:         day.AddDate(0, 0, -4),
		To:           day,
		Sales: []analytics.CashFlowSaleRow{
			{Date: day, Customer: "Ana", Type: "venta", Detail: "2 x bidon_20L", PaymentMethod: "efectivo",
				Total: decimal.NewFromInt(5000), Paid: decimal.NewFromInt(5000), Pending: decimal.Zero},
		},
		Expenses: []analytics.CashFlowExpenseRow{
			{Date: day, Concept: "Combustible", Amount: decimal.NewFromInt(1200)},
		},
		Collected:    decimal.NewFromInt(5000),
		ExpenseTotal: decimal.NewFromInt(1200),
	}

	out, err := xlsx.NewCashFlowExporter().ExportCashFlow(context.Background(), report)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Resumen", "Ventas", "Gastos"}, f.GetSheetList())

	customer, err := f.GetCellValue("Ventas", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Ana", customer)

	concept, err := f.GetCellValue("Gastos", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Combustible", concept)

	net, err := f.GetCellValue("Resumen", "B6")
	require.NoError(t, err)
	assert.Equal(t, "3800", net)
}
