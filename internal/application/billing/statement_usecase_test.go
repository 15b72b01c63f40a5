package billing_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/reparto-api/internal/application/billing"
	"github.com/jhoicas/reparto-api/internal/application/dto"
	"github.com/jhoicas/reparto-api/internal/domain"
	"github.com/jhoicas/reparto-api/internal/domain/entity"
	"github.com/jhoicas/reparto-api/internal/infrastructure/memory"
)

type capturingGenerator struct {
	got billing.StatementData
}

func (g *capturingGenerator) GenerateStatementPDF(_ context.Context, data billing.StatementData) ([]byte, error) {
	g.got = data
	return []byte("%PDF-fake"), nil
}

func TestStatement_LineasEnOrdenYSaldo(t *testing.T) {
	e := newEnv()
	require.NoError(t, memory.NewBusinessRepository(e.store).Create(e.ctx, &entity.Business{
		ID: e.actor.BusinessID, Name: "Agua Sur", LinkCode: "ABCDEF", CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}))
	ana, err := e.uc.Create(e.ctx, e.actor, dto.CreateCustomerRequest{Name: "Ana Pérez"})
	require.NoError(t, err)

	day := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	e.addSale(t, ana.ID, day.AddDate(0, 0, 2), 2500, 2500)
	e.addSale(t, ana.ID, day, 5000, 1000)

	gen := &capturingGenerator{}
	uc := billing.NewStatementUseCase(
		memory.NewBusinessRepository(e.store),
		memory.NewCustomerRepository(e.store),
		memory.NewSaleRepository(e.store),
		gen,
	)
	pdf, filename, err := uc.Download(e.ctx, e.actor, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-fake", string(pdf))
	assert.True(t, strings.HasPrefix(filename, "estado-cuenta-ana-perez-"), filename)
	assert.True(t, strings.HasSuffix(filename, ".pdf"))

	require.Len(t, gen.got.Lines, 2)
	assert.True(t, gen.got.Lines[0].Date.Equal(day))
	assert.Equal(t, "1 x "+entity.ProductBidon20L, gen.got.Lines[0].Description)
	assert.True(t, gen.got.Lines[0].Pending.Equal(decimal.NewFromInt(4000)))
	assert.True(t, gen.got.Lines[1].Pending.IsZero())
	assert.True(t, gen.got.PendingTotal.Equal(decimal.NewFromInt(4000)))
	assert.Equal(t, "Agua Sur", gen.got.Business.Name)
}

func TestStatement_ClienteDeOtroNegocio(t *testing.T) {
	e := newEnv()
	uc := billing.NewStatementUseCase(
		memory.NewBusinessRepository(e.store),
		memory.NewCustomerRepository(e.store),
		memory.NewSaleRepository(e.store),
		&capturingGenerator{},
	)
	_, _, err := uc.Download(e.ctx, e.actor, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
