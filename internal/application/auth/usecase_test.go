package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/reparto-api/internal/application/auth"
	"github.com/jhoicas/reparto-api/internal/application/dto"
	"github.com/jhoicas/reparto-api/internal/domain"
	"github.com/jhoicas/reparto-api/internal/domain/entity"
	"github.com/jhoicas/reparto-api/internal/infrastructure/memory"
	"github.com/jhoicas/reparto-api/pkg/jwt"
)

const (
	testSecret     = "test-secret"
	testMasterCode = "maestro-123"
)

// memRevoker lista de revocados en memoria.
type memRevoker struct {
	mu  sync.Mutex
	ttl map[string]time.Duration
}

func (r *memRevoker) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ttl[tokenID] = ttl
	return nil
}

func (r *memRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.ttl[tokenID]
	return ok, nil
}

type fixture struct {
	ctx     context.Context
	store   *memory.Store
	revoker *memRevoker
	uc      *auth.AuthUseCase
}

func newFixture() *fixture {
	store := memory.NewStore()
	revoker := &memRevoker{ttl: map[string]time.Duration{}}
	return &fixture{
		ctx:     context.Background(),
		store:   store,
		revoker: revoker,
		uc: auth.NewAuthUseCase(
			memory.NewUserRepository(store),
			memory.NewBusinessRepository(store),
			memory.NewTxRunner(store),
			revoker,
			auth.JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "reparto-api-test"},
			testMasterCode,
		),
	}
}

func (f *fixture) signup(t *testing.T, email string) *dto.SignupResponse {
	t.Helper()
	res, err := f.uc.Signup(f.ctx, dto.SignupRequest{
		MasterCode:   testMasterCode,
		BusinessName: "Agua Sur",
		Name:         "Marta",
		Email:        email,
		Password:     "secreto123",
	})
	require.NoError(t, err)
	return res
}

// ──────────────────────────────────────────────────────────────────────────────
// Signup
// ──────────────────────────────────────────────────────────────────────────────

func TestSignup_CreaNegocioCompleto(t *testing.T) {
	f := newFixture()
	res := f.signup(t, "  Marta@Agua.com ")

	assert.Equal(t, "marta@agua.com", res.User.Email)
	assert.Equal(t, entity.RoleAdmin, res.User.Role)
	assert.True(t, res.User.Active)
	assert.Len(t, res.Business.LinkCode, 6)
	assert.Len(t, res.Business.Catalog, 4)

	claims, err := jwt.Parse(testSecret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)
	assert.Equal(t, res.Business.ID, claims.BusinessID)

	inv, err := memory.NewInventoryRepository(f.store).List(f.ctx, res.Business.ID)
	require.NoError(t, err)
	assert.Len(t, inv, len(entity.AssetCategories))
}

func TestSignup_CodigoMaestroIncorrecto(t *testing.T) {
	f := newFixture()
	_, err := f.uc.Signup(f.ctx, dto.SignupRequest{MasterCode: "otro", BusinessName: "X", Name: "Y", Email: "y@x.com", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrInvalidMasterCode)

	list, err := memory.NewBusinessRepository(f.store).List(f.ctx, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSignup_EmailRepetidoNoDejaNegocioHuerfano(t *testing.T) {
	f := newFixture()
	f.signup(t, "marta@agua.com")
	_, err := f.uc.Signup(f.ctx, dto.SignupRequest{MasterCode: testMasterCode, BusinessName: "Otro", Name: "Otra", Email: "MARTA@agua.com", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	list, err := memory.NewBusinessRepository(f.store).List(f.ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Join / Login
// ──────────────────────────────────────────────────────────────────────────────

func TestJoin_EmpleadoInactivoHastaActivacion(t *testing.T) {
	f := newFixture()
	owner := f.signup(t, "marta@agua.com")

	emp, err := f.uc.Join(f.ctx, dto.JoinRequest{LinkCode: owner.Business.LinkCode, Name: "Juan", Email: "juan@agua.com", Password: "secreto123"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleEmployee, emp.Role)
	assert.False(t, emp.Active)
	assert.Equal(t, owner.Business.ID, emp.BusinessID)

	_, err = f.uc.Login(f.ctx, dto.LoginRequest{Email: "juan@agua.com", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrInactiveUser)

	users := memory.NewUserRepository(f.store)
	u, err := users.GetByID(f.ctx, emp.ID)
	require.NoError(t, err)
	u.Active = true
	require.NoError(t, users.Update(f.ctx, u))

	res, err := f.uc.Login(f.ctx, dto.LoginRequest{Email: "juan@agua.com", Password: "secreto123"})
	require.NoError(t, err)
	require.NotNil(t, res.Business)
	assert.Empty(t, res.Business.LinkCode, "el empleado no ve el código")
}

func TestJoin_CodigoDesconocido(t *testing.T) {
	f := newFixture()
	f.signup(t, "marta@agua.com")

	for _, code := range []string{"ZZZZZZ", "abc", "O0O0O0"} {
		_, err := f.uc.Join(f.ctx, dto.JoinRequest{LinkCode: code, Name: "Juan", Email: "juan@agua.com", Password: "secreto123"})
		assert.ErrorIs(t, err, domain.ErrInvalidLinkCode, code)
	}
}

func TestJoin_NegocioSuspendido(t *testing.T) {
	f := newFixture()
	owner := f.signup(t, "marta@agua.com")
	suspend(t, f, owner.Business.ID)

	_, err := f.uc.Join(f.ctx, dto.JoinRequest{LinkCode: owner.Business.LinkCode, Name: "Juan", Email: "juan@agua.com", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrSuspended)
}

func suspend(t *testing.T, f *fixture, businessID string) {
	t.Helper()
	repo := memory.NewBusinessRepository(f.store)
	b, err := repo.GetByID(f.ctx, businessID)
	require.NoError(t, err)
	b.Suspended = true
	require.NoError(t, repo.Update(f.ctx, b))
}

func TestLogin_ErrorUniforme(t *testing.T) {
	f := newFixture()
	f.signup(t, "marta@agua.com")

	_, errWrongPass := f.uc.Login(f.ctx, dto.LoginRequest{Email: "marta@agua.com", Password: "incorrecta"})
	_, errNoUser := f.uc.Login(f.ctx, dto.LoginRequest{Email: "nadie@agua.com", Password: "secreto123"})
	assert.ErrorIs(t, errWrongPass, domain.ErrUnauthorized)
	assert.ErrorIs(t, errNoUser, domain.ErrUnauthorized)
}

func TestLogin_NegocioSuspendido(t *testing.T) {
	f := newFixture()
	owner := f.signup(t, "marta@agua.com")
	suspend(t, f, owner.Business.ID)

	_, err := f.uc.Login(f.ctx, dto.LoginRequest{Email: "marta@agua.com", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrSuspended)
}

func TestLogin_SuperadminSinNegocio(t *testing.T) {
	f := newFixture()
	hash, err := auth.HashPassword("superclave")
	require.NoError(t, err)
	require.NoError(t, memory.NewUserRepository(f.store).Create(f.ctx, &entity.User{
		ID: uuid.NewString(), Email: "root@reparto.app", PasswordHash: hash, Role: entity.RoleSuperAdmin, Active: true,
	}))

	res, err := f.uc.Login(f.ctx, dto.LoginRequest{Email: "root@reparto.app", Password: "superclave"})
	require.NoError(t, err)
	assert.Nil(t, res.Business)
	claims, err := jwt.Parse(testSecret, res.Token)
	require.NoError(t, err)
	assert.Empty(t, claims.BusinessID)
	assert.Equal(t, entity.RoleSuperAdmin, claims.Role)
}

// ──────────────────────────────────────────────────────────────────────────────
// Logout / Me
// ──────────────────────────────────────────────────────────────────────────────

func TestLogout_RevocaHastaExpirar(t *testing.T) {
	f := newFixture()
	res := f.signup(t, "marta@agua.com")
	claims, err := jwt.Parse(testSecret, res.Token)
	require.NoError(t, err)

	ttl := claims.TTL(time.Now())
	require.NoError(t, f.uc.Logout(f.ctx, claims.ID, ttl))
	revoked, err := f.revoker.IsRevoked(f.ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.Equal(t, ttl, f.revoker.ttl[claims.ID])

	// Token ya vencido o sin id: nada que revocar.
	require.NoError(t, f.uc.Logout(f.ctx, "otro", 0))
	require.NoError(t, f.uc.Logout(f.ctx, "", time.Minute))
	assert.Len(t, f.revoker.ttl, 1)
}

func TestMe(t *testing.T) {
	f := newFixture()
	res := f.signup(t, "marta@agua.com")

	me, err := f.uc.Me(f.ctx, dto.Actor{UserID: res.User.ID, BusinessID: res.Business.ID, Role: entity.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, me.User.ID)
	require.NotNil(t, me.Business)
	assert.Equal(t, res.Business.LinkCode, me.Business.LinkCode)

	_, err = f.uc.Me(f.ctx, dto.Actor{UserID: uuid.NewString()})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
