package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/reparto-api/internal/application/dto"
	"github.com/jhoicas/reparto-api/internal/application/usecase"
	"github.com/jhoicas/reparto-api/internal/domain"
	"github.com/jhoicas/reparto-api/internal/domain/entity"
	"github.com/jhoicas/reparto-api/internal/domain/linkcode"
	"github.com/jhoicas/reparto-api/internal/domain/repository"
	"github.com/jhoicas/reparto-api/internal/infrastructure/memory"
)

type businessFixture struct {
	ctx   context.Context
	store *memory.Store
	admin dto.Actor
	uc    *usecase.BusinessUseCase
}

// newBusinessFixture crea un negocio con el catálogo por defecto y el inventario en cero.
func newBusinessFixture(t *testing.T) *businessFixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	now := time.Now()
	b := &entity.Business{ID: uuid.NewString(), Name: "Agua Sur", LinkCode: "ABC234", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, memory.NewBusinessRepository(store).Create(ctx, b))
	for _, p := range entity.DefaultCatalog(b.ID, now) {
		p.ID = uuid.NewString()
		require.NoError(t, memory.NewCatalogRepository(store).Create(ctx, p))
	}
	for _, c := range entity.AssetCategories {
		require.NoError(t, memory.NewInventoryRepository(store).Upsert(ctx, &entity.InventoryAsset{BusinessID: b.ID, Category: c}))
	}
	return &businessFixture{
		ctx:   ctx,
		store: store,
		admin: dto.Actor{UserID: uuid.NewString(), BusinessID: b.ID, Role: entity.RoleAdmin},
		uc: usecase.NewBusinessUseCase(
			memory.NewBusinessRepository(store),
			memory.NewCatalogRepository(store),
			memory.NewInventoryRepository(store),
			memory.NewCustomerRepository(store),
		),
	}
}

func (f *businessFixture) addCustomer(t *testing.T, name string, dispensers int) {
	t.Helper()
	require.NoError(t, memory.NewCustomerRepository(f.store).Create(f.ctx, &entity.Customer{
		ID:                 uuid.NewString(),
		BusinessID:         f.admin.BusinessID,
		Name:               name,
		DispensersAssigned: dispensers,
		Active:             true,
	}))
}

func intPtr(v int) *int { return &v }

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

// ──────────────────────────────────────────────────────────────────────────────
// Inventario
// ──────────────────────────────────────────────────────────────────────────────

func TestInventory_DispensersAsignadosDeMas(t *testing.T) {
	f := newBusinessFixture(t)
	_, err := f.uc.UpdateInventory(f.ctx, f.admin, dto.UpdateInventoryRequest{
		entity.AssetDispensers: {CantidadTotal: intPtr(10), CostoReposicion: decPtr(500)},
	})
	require.NoError(t, err)
	f.addCustomer(t, "Ana", 7)
	f.addCustomer(t, "Bruno", 5)

	dash, err := f.uc.InventoryDashboard(f.ctx, f.admin)
	require.NoError(t, err)
	d := dash[entity.AssetDispensers]
	assert.Equal(t, 10, d.Total)
	assert.Equal(t, 12, d.EnCalle)
	assert.Equal(t, 0, d.EnDeposito)
	assert.True(t, d.Valorizacion.Equal(decimal.NewFromInt(5000)), d.Valorizacion.String())
}

func TestInventory_EnvasesNoEstanEnLaCalle(t *testing.T) {
	f := newBusinessFixture(t)
	f.addCustomer(t, "Ana", 3)
	dash, err := f.uc.UpdateInventory(f.ctx, f.admin, dto.UpdateInventoryRequest{
		entity.AssetBidones20L: {CantidadTotal: intPtr(100), CostoReposicion: decPtr(3000)},
	})
	require.NoError(t, err)
	require.Len(t, dash, len(entity.AssetCategories))
	b := dash[entity.AssetBidones20L]
	assert.Equal(t, 0, b.EnCalle)
	assert.Equal(t, 100, b.EnDeposito)
	assert.True(t, b.Valorizacion.Equal(decimal.NewFromInt(300000)))
}

func TestInventory_ActualizacionParcial(t *testing.T) {
	f := newBusinessFixture(t)
	_, err := f.uc.UpdateInventory(f.ctx, f.admin, dto.UpdateInventoryRequest{
		entity.AssetSodas: {CantidadTotal: intPtr(40), CostoReposicion: decPtr(800)},
	})
	require.NoError(t, err)

	dash, err := f.uc.UpdateInventory(f.ctx, f.admin, dto.UpdateInventoryRequest{
		entity.AssetSodas: {CostoReposicion: decPtr(900)},
	})
	require.NoError(t, err)
	assert.Equal(t, 40, dash[entity.AssetSodas].Total)
	assert.True(t, dash[entity.AssetSodas].CostoReposicion.Equal(decimal.NewFromInt(900)))

	dash, err = f.uc.UpdateInventory(f.ctx, f.admin, dto.UpdateInventoryRequest{
		entity.AssetSodas: {CantidadTotal: intPtr(45)},
	})
	require.NoError(t, err)
	assert.Equal(t, 45, dash[entity.AssetSodas].Total)
	assert.True(t, dash[entity.AssetSodas].CostoReposicion.Equal(decimal.NewFromInt(900)))
}

func TestInventory_RechazaCategoriaYValoresNegativos(t *testing.T) {
	f := newBusinessFixture(t)
	_, err := f.uc.UpdateInventory(f.ctx, f.admin, dto.UpdateInventoryRequest{"heladeras": {CantidadTotal: intPtr(1)}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.UpdateInventory(f.ctx, f.admin, dto.UpdateInventoryRequest{
		entity.AssetSodas:      {CantidadTotal: intPtr(5)},
		entity.AssetBidones12L: {CantidadTotal: intPtr(-1)},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	dash, err := f.uc.InventoryDashboard(f.ctx, f.admin)
	require.NoError(t, err)
	assert.Equal(t, 0, dash[entity.AssetSodas].Total, "un patch inválido no escribe nada")
}

// ──────────────────────────────────────────────────────────────────────────────
// Código de vinculación
// ──────────────────────────────────────────────────────────────────────────────

func TestRegenerateLinkCode(t *testing.T) {
	f := newBusinessFixture(t)
	users := memory.NewUserRepository(f.store)
	require.NoError(t, users.Create(f.ctx, &entity.User{
		ID: uuid.NewString(), BusinessID: f.admin.BusinessID, Email: "emp@agua.com", Role: entity.RoleEmployee, Active: true,
	}))

	code, err := f.uc.RegenerateLinkCode(f.ctx, f.admin)
	require.NoError(t, err)
	assert.True(t, linkcode.Valid(code))
	assert.NotEqual(t, "ABC234", code)

	businesses := memory.NewBusinessRepository(f.store)
	old, err := businesses.GetByLinkCode(f.ctx, "ABC234")
	require.NoError(t, err)
	assert.Nil(t, old)
	current, err := businesses.GetByLinkCode(f.ctx, code)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, f.admin.BusinessID, current.ID)

	linked, err := users.ListByBusiness(f.ctx, f.admin.BusinessID)
	require.NoError(t, err)
	assert.Len(t, linked, 1)
}

// lostLinkCodeRace simula que otro negocio se quedó con el código entre la consulta y el guardado.
type lostLinkCodeRace struct {
	repository.BusinessRepository
	updates int
}

func (r *lostLinkCodeRace) LinkCodeTaken(context.Context, string, string) (bool, error) {
	return false, nil
}

func (r *lostLinkCodeRace) Update(ctx context.Context, b *entity.Business) error {
	r.updates++
	if r.updates == 1 {
		return domain.ErrDuplicate
	}
	return r.BusinessRepository.Update(ctx, b)
}

func TestRegenerateLinkCode_ReintentaSiElIndiceUnicoRechaza(t *testing.T) {
	f := newBusinessFixture(t)
	repo := &lostLinkCodeRace{BusinessRepository: memory.NewBusinessRepository(f.store)}
	uc := usecase.NewBusinessUseCase(
		repo,
		memory.NewCatalogRepository(f.store),
		memory.NewInventoryRepository(f.store),
		memory.NewCustomerRepository(f.store),
	)

	code, err := uc.RegenerateLinkCode(f.ctx, f.admin)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.updates)
	assert.True(t, linkcode.Valid(code))

	b, err := memory.NewBusinessRepository(f.store).GetByID(f.ctx, f.admin.BusinessID)
	require.NoError(t, err)
	assert.Equal(t, code, b.LinkCode)
}

func TestGet_CodigoSoloParaAdmin(t *testing.T) {
	f := newBusinessFixture(t)
	asAdmin, err := f.uc.Get(f.ctx, f.admin)
	require.NoError(t, err)
	assert.Equal(t, "ABC234", asAdmin.LinkCode)
	assert.NotEmpty(t, asAdmin.Catalog)

	employee := dto.Actor{UserID: uuid.NewString(), BusinessID: f.admin.BusinessID, Role: entity.RoleEmployee}
	asEmployee, err := f.uc.Get(f.ctx, employee)
	require.NoError(t, err)
	assert.Empty(t, asEmployee.LinkCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo
// ──────────────────────────────────────────────────────────────────────────────

func TestCatalog_BajaLogicaYReactivacion(t *testing.T) {
	f := newBusinessFixture(t)
	item, err := f.uc.AddCatalogItem(f.ctx, f.admin, dto.CreateCatalogItemRequest{Key: "hielo", Label: "Bolsa de hielo", DefaultPrice: decimal.NewFromInt(1200)})
	require.NoError(t, err)

	_, err = f.uc.AddCatalogItem(f.ctx, f.admin, dto.CreateCatalogItemRequest{Key: "hielo", Label: "Otra", DefaultPrice: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	require.NoError(t, f.uc.RemoveCatalogItem(f.ctx, f.admin, item.ID))
	require.NoError(t, f.uc.RemoveCatalogItem(f.ctx, f.admin, item.ID))

	active, err := f.uc.ListCatalog(f.ctx, f.admin, false)
	require.NoError(t, err)
	for _, p := range active {
		assert.NotEqual(t, "hielo", p.Key)
	}
	all, err := f.uc.ListCatalog(f.ctx, f.admin, true)
	require.NoError(t, err)
	assert.Len(t, all, len(active)+1)

	again, err := f.uc.AddCatalogItem(f.ctx, f.admin, dto.CreateCatalogItemRequest{Key: "hielo", Label: "Hielo 5kg", DefaultPrice: decimal.NewFromInt(1500)})
	require.NoError(t, err)
	assert.Equal(t, item.ID, again.ID)
	assert.True(t, again.Active)
	assert.Equal(t, "Hielo 5kg", again.Label)
}

func TestCatalog_UpdateYOtroNegocio(t *testing.T) {
	f := newBusinessFixture(t)
	list, err := f.uc.ListCatalog(f.ctx, f.admin, false)
	require.NoError(t, err)
	require.NotEmpty(t, list)

	updated, err := f.uc.UpdateCatalogItem(f.ctx, f.admin, list[0].ID, dto.UpdateCatalogItemRequest{DefaultPrice: decPtr(3100)})
	require.NoError(t, err)
	assert.True(t, updated.DefaultPrice.Equal(decimal.NewFromInt(3100)))
	assert.Equal(t, list[0].Label, updated.Label)

	_, err = f.uc.UpdateCatalogItem(f.ctx, f.admin, list[0].ID, dto.UpdateCatalogItemRequest{DefaultPrice: decPtr(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	other := dto.Actor{UserID: uuid.NewString(), BusinessID: uuid.NewString(), Role: entity.RoleAdmin}
	_, err = f.uc.UpdateCatalogItem(f.ctx, other, list[0].ID, dto.UpdateCatalogItemRequest{DefaultPrice: decPtr(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, f.uc.RemoveCatalogItem(f.ctx, other, list[0].ID), domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Datos del negocio y superadmin
// ──────────────────────────────────────────────────────────────────────────────

func TestBusiness_UpdateParcialYOnboarding(t *testing.T) {
	f := newBusinessFixture(t)
	phone := "11 4444-5555"
	got, err := f.uc.Update(f.ctx, f.admin, dto.UpdateBusinessRequest{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Agua Sur", got.Name)
	assert.Equal(t, phone, got.Phone)

	blank := "  "
	_, err = f.uc.Update(f.ctx, f.admin, dto.UpdateBusinessRequest{Name: &blank})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err = f.uc.CompleteOnboarding(f.ctx, f.admin)
	require.NoError(t, err)
	assert.True(t, got.OnboardingDone)
}

func TestBusiness_Suspension(t *testing.T) {
	f := newBusinessFixture(t)
	suspended, err := f.uc.IsSuspended(f.ctx, f.admin.BusinessID)
	require.NoError(t, err)
	assert.False(t, suspended)

	_, err = f.uc.SetSuspended(f.ctx, f.admin.BusinessID, true)
	require.NoError(t, err)
	suspended, err = f.uc.IsSuspended(f.ctx, f.admin.BusinessID)
	require.NoError(t, err)
	assert.True(t, suspended)

	all, err := f.uc.ListAll(f.ctx, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].Suspended)

	_, err = f.uc.SetSuspended(f.ctx, uuid.NewString(), true)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
