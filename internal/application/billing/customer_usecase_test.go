package billing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/reparto-api/internal/application/billing"
	"github.com/jhoicas/reparto-api/internal/application/dto"
	"github.com/jhoicas/reparto-api/internal/domain"
	"github.com/jhoicas/reparto-api/internal/domain/entity"
	"github.com/jhoicas/reparto-api/internal/domain/repository"
	"github.com/jhoicas/reparto-api/internal/infrastructure/memory"
	"github.com/jhoicas/reparto-api/internal/infrastructure/phone"
)

type env struct {
	ctx   context.Context
	actor dto.Actor
	store *memory.Store
	uc    *billing.CustomerUseCase
}

func newEnv() *env {
	store := memory.NewStore()
	return &env{
		ctx:   context.Background(),
		actor: dto.Actor{UserID: uuid.NewString(), BusinessID: uuid.NewString(), Role: entity.RoleEmployee},
		store: store,
		uc: billing.NewCustomerUseCase(
			memory.NewCustomerRepository(store),
			memory.NewSaleRepository(store),
			phone.NewNormalizer("AR"),
		),
	}
}

// addSale guarda una venta fiada directamente en el repositorio.
func (e *env) addSale(t *testing.T, customerID string, date time.Time, total, paid int64) *entity.Sale {
	t.Helper()
	s := &entity.Sale{
		ID:              uuid.NewString(),
		BusinessID:      e.actor.BusinessID,
		CustomerID:      customerID,
		Date:            date,
		Items:           []entity.SaleItem{{Product: entity.ProductBidon20L, Quantity: 1, UnitPrice: decimal.NewFromInt(total), Subtotal: decimal.NewFromInt(total)}},
		Total:           decimal.NewFromInt(total),
		PaymentMethod:   entity.PaymentCredit,
		AmountPaid:      decimal.NewFromInt(paid),
		AmountCollected: decimal.Zero,
		CreatedAt:       date,
		UpdatedAt:       date,
	}
	require.NoError(t, memory.NewSaleRepository(e.store).Create(e.ctx, s))
	return s
}

// ──────────────────────────────────────────────────────────────────────────────
// Guard de duplicados
// ──────────────────────────────────────────────────────────────────────────────

func TestCustomer_DuplicadoPorTelefono(t *testing.T) {
	e := newEnv()
	_, err := e.uc.Create(e.ctx, e.actor, dto.CreateCustomerRequest{Name: "Ana", Address: "Mitre 1", Phone: "5491122334455"})
	require.NoError(t, err)

	_, err = e.uc.Create(e.ctx, e.actor, dto.CreateCustomerRequest{Name: "Otra", Address: "Sarmiento 2", Phone: "5491122334455"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	var dup *domain.DuplicateCustomerError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, []string{domain.DuplicateByPhone}, dup.Conditions)
	assert.NotEmpty(t, dup.ExistingID)

	list, err := e.uc.List(e.ctx, e.actor, dto.CustomerListRequest{Active: "todos"})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCustomer_DuplicadoPorNombreYDireccion(t *testing.T) {
	e := newEnv()
	_, err := e.uc.Create(e.ctx, e.actor, dto.CreateCustomerRequest{Name: "Ana", Address: "Mitre 1"})
	require.NoError(t, err)

	_, err = e.uc.Create(e.ctx, e.actor, dto.CreateCustomerRequest{Name: "Ana", Address: "Mitre 1", Phone: "1144445555"})
	var dup *domain.DuplicateCustomerError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, []string{domain.DuplicateByNameAddress}, dup.Conditions)

	// Mismo nombre con otra dirección no es duplicado.
	_, err = e.uc.Create(e.ctx, e.actor, dto.CreateCustomerRequest{Name: "Ana", Address: "Mitre 2"})
	assert.NoError(t, err)
}

func TestCustomer_DuplicadoContraClienteInactivo(t *testing.T) {
	e := newEnv()
	c, err := e.uc.Create(e.ctx, e.actor, dto.CreateCustomerRequest{Name: "Ana", Phone: "1155556666"})
	require.NoError(t, err)
	require.NoError(t, e.uc.Deactivate(e.ctx, e.actor, c.ID))

	_, err = e.uc.Create(e.ctx, e.actor, dto.CreateCustomerRequest{Name: "Ana B", Phone: "1155556666"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCustomer_MismoTelefonoEnOtroNegocio(t *testing.T) {
	e := newEnv()
	_, err := e.uc.Create(e.ctx, e.actor, dto.CreateCustomerRequest{Name: "Ana", Phone: "1155556666"})
	require.NoError(t, err)

	other := dto.Actor{UserID: uuid.NewString(), BusinessID: uuid.NewString(), Role: entity.RoleAdmin}
	_, err = e.uc.Create(e.ctx, other, dto.CreateCustomerRequest{Name: "Ana", Phone: "1155556666"})
	assert.NoError(t, err)
}

func TestCustomer_UpdateExcluyeAlPropioCliente(t *testing.T) {
	e := newEnv()
	ana, err := e.uc.Create(e.ctx, e.actor, dto.CreateCustomerRequest{Name: "Ana", Address: "Mitre 1", Phone: "1155556666"})
	require.NoError(t, err)
	bruno, err := e.uc.Create(e.ctx, e.actor, dto.CreateCustomerRequest{Name: "Bruno", Address: "Mitre 3"})
	require.NoError(t, err)

	locality := "Quilmes"
	samePhone := "1155556666"
	_, err = e.uc.Update(e.ctx, e.actor, ana.ID, dto.UpdateCustomerRequest{Locality: &locality, Phone: &samePhone})
	assert.NoError(t, err)

	_, err = e.uc.Update(e.ctx, e.actor, bruno.ID, dto.UpdateCustomerRequest{Phone: &samePhone})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

// ──────────────────────────────────────────────────────────────────────────────
// Deuda de envases frente a ediciones concurrentes
// ──────────────────────────────────────────────────────────────────────────────

// saleAfterRead registra una venta fiada de envases justo después de la primera lectura
// del cliente, como si otra request la hubiera confirmado en ese intervalo.
type saleAfterRead struct {
	repository.CustomerRepository
	e     *env
	t     *testing.T
	fired bool
}

func (r *saleAfterRead) GetByID(ctx context.Context, businessID, id string) (*entity.Customer, error) {
	c, err := r.CustomerRepository.GetByID(ctx, businessID, id)
	if err != nil || c == nil || r.fired {
		return c, err
	}
	r.fired = true
	r.e.addSale(r.t, id, time.Now(), 2000, 0)
	_, err = memory.NewCustomerRepository(r.e.store).AdjustDebt(ctx, businessID, id, entity.ContainerDebt{Bidones20L: 2})
	require.NoError(r.t, err)
	return c, nil
}

func (e *env) withSaleAfterRead(t *testing.T) *billing.CustomerUseCase {
	return billing.NewCustomerUseCase(
		&saleAfterRead{CustomerRepository: memory.NewCustomerRepository(e.store), e: e, t: t},
		memory.NewSaleRepository(e.store),
		phone.NewNormalizer("AR"),
	)
}

func TestCustomer_RenombrarNoPierdeDeudaDeVentaConcurrente(t *testing.T) {
	e := newEnv()
	ana, err := e.uc.Create(e.ctx, e.actor, dto.CreateCustomerRequest{Name: "Ana", Address: "Mitre 1"})
	require.NoError(t, err)

	name := "Ana Pérez"
	out, err := e.withSaleAfterRead(t).Update(e.ctx, e.actor, ana.ID, dto.UpdateCustomerRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Ana Pérez", out.Name)
	assert.Equal(t, 2, out.Debt.Bidones20L)
	assert.True(t, out.PendingBalance.Equal(decimal.NewFromInt(2000)))
}

func TestCustomer_BajaNoPierdeDeudaDeVentaConcurrente(t *testing.T) {
	e := newEnv()
	ana, err := e.uc.Create(e.ctx, e.actor, dto.CreateCustomerRequest{Name: "Ana"})
	require.NoError(t, err)

	require.NoError(t, e.withSaleAfterRead(t).Deactivate(e.ctx, e.actor, ana.ID))

	got, err := e.uc.Get(e.ctx, e.actor, ana.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
	assert.Equal(t, 2, got.Debt.Bidones20L)
}

func TestCustomer_CorreccionManualDeDeuda(t *testing.T) {
	e := newEnv()
	ana, err := e.uc.Create(e.ctx, e.actor, dto.CreateCustomerRequest{Name: "Ana", Debt: &dto.DebtDTO{Bidones20L: 3}})
	require.NoError(t, err)

	locality := "Bernal"
	out, err := e.uc.Update(e.ctx, e.actor, ana.ID, dto.UpdateCustomerRequest{Locality: &locality})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Debt.Bidones20L)

	out, err = e.uc.Update(e.ctx, e.actor, ana.ID, dto.UpdateCustomerRequest{Debt: &dto.DebtDTO{Bidones20L: 1, Sodas: 2}})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Debt.Bidones20L)
	assert.Equal(t, 2, out.Debt.Sodas)

	_, err = e.uc.Update(e.ctx, e.actor, ana.ID, dto.UpdateCustomerRequest{Debt: &dto.DebtDTO{Sodas: -1}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Alta, listado, saldos y baja lógica
// ──────────────────────────────────────────────────────────────────────────────

func TestCustomer_CreateValidaciones(t *testing.T) {
	e := newEnv()
	_, err := e.uc.Create(e.ctx, e.actor, dto.CreateCustomerRequest{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.uc.Create(e.ctx, e.actor, dto.CreateCustomerRequest{Name: "Ana", Debt: &dto.DebtDTO{Sodas: -1}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	c, err := e.uc.Create(e.ctx, e.actor, dto.CreateCustomerRequest{Name: "Ana", Debt: &dto.DebtDTO{Bidones20L: 3}, DispensersAssigned: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, c.Debt.Bidones20L)
	assert.True(t, c.Active)
	assert.True(t, c.PendingBalance.IsZero())
}

func TestCustomer_ListConSaldos(t *testing.T) {
	e := newEnv()
	ana, err := e.uc.Create(e.ctx, e.actor, dto.CreateCustomerRequest{Name: "Ana"})
	require.NoError(t, err)
	bruno, err := e.uc.Create(e.ctx, e.actor, dto.CreateCustomerRequest{Name: "Bruno"})
	require.NoError(t, err)

	day := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	e.addSale(t, ana.ID, day, 5000, 0)
	e.addSale(t, ana.ID, day.AddDate(0, 0, 1), 2500, 3000) // sobrepago: aporta 0
	e.addSale(t, bruno.ID, day, 1000, 400)

	list, err := e.uc.List(e.ctx, e.actor, dto.CustomerListRequest{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	balances := map[string]decimal.Decimal{}
	for _, c := range list {
		balances[c.ID] = c.PendingBalance
	}
	assert.True(t, balances[ana.ID].Equal(decimal.NewFromInt(5000)))
	assert.True(t, balances[bruno.ID].Equal(decimal.NewFromInt(600)))

	got, err := e.uc.Get(e.ctx, e.actor, ana.ID)
	require.NoError(t, err)
	assert.True(t, got.PendingBalance.Equal(balances[ana.ID]))
}

func TestCustomer_FiltroActivo(t *testing.T) {
	e := newEnv()
	ana, err := e.uc.Create(e.ctx, e.actor, dto.CreateCustomerRequest{Name: "Ana"})
	require.NoError(t, err)
	_, err = e.uc.Create(e.ctx, e.actor, dto.CreateCustomerRequest{Name: "Bruno"})
	require.NoError(t, err)
	require.NoError(t, e.uc.Deactivate(e.ctx, e.actor, ana.ID))

	tests := []struct {
		active string
		want   int
	}{
		{"", 1},
		{"true", 1},
		{"false", 1},
		{"todos", 2},
	}
	for _, tt := range tests {
		list, err := e.uc.List(e.ctx, e.actor, dto.CustomerListRequest{Active: tt.active})
		require.NoError(t, err)
		assert.Len(t, list, tt.want, "activo=%q", tt.active)
	}

	_, err = e.uc.List(e.ctx, e.actor, dto.CustomerListRequest{Active: "quizas"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCustomer_ReactivarEsIdempotenteYConservaHistorial(t *testing.T) {
	e := newEnv()
	ana, err := e.uc.Create(e.ctx, e.actor, dto.CreateCustomerRequest{Name: "Ana", Debt: &dto.DebtDTO{Bidones12L: 2}})
	require.NoError(t, err)
	e.addSale(t, ana.ID, time.Now(), 1000, 0)

	require.NoError(t, e.uc.Deactivate(e.ctx, e.actor, ana.ID))
	require.NoError(t, e.uc.Deactivate(e.ctx, e.actor, ana.ID))

	first, err := e.uc.Reactivate(e.ctx, e.actor, ana.ID)
	require.NoError(t, err)
	second, err := e.uc.Reactivate(e.ctx, e.actor, ana.ID)
	require.NoError(t, err)

	assert.Equal(t, ana.ID, first.ID)
	assert.True(t, second.Active)
	assert.Equal(t, 2, second.Debt.Bidones12L)
	assert.True(t, second.PendingBalance.Equal(decimal.NewFromInt(1000)))

	history, err := e.uc.History(e.ctx, e.actor, ana.ID, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestCustomer_OtroNegocioNoLoVe(t *testing.T) {
	e := newEnv()
	ana, err := e.uc.Create(e.ctx, e.actor, dto.CreateCustomerRequest{Name: "Ana"})
	require.NoError(t, err)

	other := dto.Actor{UserID: uuid.NewString(), BusinessID: uuid.NewString(), Role: entity.RoleAdmin}
	_, err = e.uc.Get(e.ctx, other, ana.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, e.uc.Deactivate(e.ctx, other, ana.ID), domain.ErrNotFound)
	_, err = e.uc.History(e.ctx, other, ana.ID, dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
