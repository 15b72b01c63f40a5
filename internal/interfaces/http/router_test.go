package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/reparto-api/internal/application/analytics"
	"github.com/jhoicas/reparto-api/internal/application/auth"
	"github.com/jhoicas/reparto-api/internal/application/billing"
	"github.com/jhoicas/reparto-api/internal/application/dto"
	"github.com/jhoicas/reparto-api/internal/application/sales"
	"github.com/jhoicas/reparto-api/internal/application/usecase"
	"github.com/jhoicas/reparto-api/internal/infrastructure/memory"
	"github.com/jhoicas/reparto-api/internal/infrastructure/pdf"
	"github.com/jhoicas/reparto-api/internal/infrastructure/phone"
	"github.com/jhoicas/reparto-api/internal/infrastructure/redis"
	"github.com/jhoicas/reparto-api/internal/infrastructure/xlsx"
	apphttp "github.com/jhoicas/reparto-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/reparto-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Servidor completo sobre el store en memoria
// ──────────────────────────────────────────────────────────────────────────────

const testMasterCode = "codigo-maestro-test"

type testServer struct {
	app        *fiber.App
	businessUC *usecase.BusinessUseCase
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.NewStore()
	businessRepo := memory.NewBusinessRepository(store)
	catalogRepo := memory.NewCatalogRepository(store)
	inventoryRepo := memory.NewInventoryRepository(store)
	userRepo := memory.NewUserRepository(store)
	customerRepo := memory.NewCustomerRepository(store)
	saleRepo := memory.NewSaleRepository(store)
	expenseRepo := memory.NewExpenseRepository(store)
	refillRepo := memory.NewRefillRepository(store)
	tx := memory.NewTxRunner(store)

	businessUC := usecase.NewBusinessUseCase(businessRepo, catalogRepo, inventoryRepo, customerRepo)
	deps := apphttp.RouterDeps{
		AuthUC: auth.NewAuthUseCase(userRepo, businessRepo, tx, nil, auth.JWTConfig{
			Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer,
		}, testMasterCode),
		BusinessUC:  businessUC,
		UserUC:      usecase.NewUserUseCase(userRepo),
		CustomerUC:  billing.NewCustomerUseCase(customerRepo, saleRepo, phone.NewNormalizer("AR")),
		StatementUC: billing.NewStatementUseCase(businessRepo, customerRepo, saleRepo, pdf.NewMarotoStatementGenerator()),
		SaleUC:      sales.NewUseCase(tx, saleRepo, catalogRepo, nil),
		ExpenseUC:   usecase.NewExpenseUseCase(expenseRepo),
		RefillUC:    usecase.NewRefillUseCase(tx, refillRepo, expenseRepo),
		DashboardUC: appanalytics.NewDashboardUseCase(memory.NewAnalyticsRepository(store), inventoryRepo, customerRepo),
		ReportUC:    appanalytics.NewReportUseCase(businessRepo, customerRepo, saleRepo, expenseRepo, xlsx.NewCashFlowExporter()),
		AuthLimiter: redis.NewLimiter(nil, 100),
		JWTSecret:   testJWTSecret,
	}
	app := fiber.New()
	apphttp.Router(app, deps)
	return &testServer{app: app, businessUC: businessUC}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return resp, out
}

// signup da de alta un negocio y devuelve el token del admin y el id del negocio.
func (s *testServer) signup(t *testing.T, name, email string) (string, string) {
	t.Helper()
	resp, body := s.do(t, http.MethodPost, "/api/auth/signup", "", fiber.Map{
		"codigo_maestro": testMasterCode,
		"nombre_negocio": name,
		"nombre":         "Admin " + name,
		"email":          email,
		"password":       "clave-segura-123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var out dto.SignupResponse
	require.NoError(t, json.Unmarshal(body, &out))
	return out.Token, out.Business.ID
}

func (s *testServer) createCustomer(t *testing.T, token string, body fiber.Map) dto.CustomerResponse {
	t.Helper()
	resp, raw := s.do(t, http.MethodPost, "/api/customers", token, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var out dto.CustomerResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_SignupConCodigoMaestroInvalido_Retorna409(t *testing.T) {
	s := newTestServer(t)
	resp, body := s.do(t, http.MethodPost, "/api/auth/signup", "", fiber.Map{
		"codigo_maestro": "otro",
		"nombre_negocio": "Agua Sur",
		"nombre":         "Ana",
		"email":          "ana@aguasur.test",
		"password":       "clave-segura-123",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), "INVALID_MASTER_CODE")
}

func TestRouter_SignupBodyInvalido_DevuelveCampos(t *testing.T) {
	s := newTestServer(t)
	resp, body := s.do(t, http.MethodPost, "/api/auth/signup", "", fiber.Map{
		"codigo_maestro": testMasterCode,
		"email":          "no-es-email",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errResp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.Equal(t, "VALIDATION", errResp.Code)
	assert.Equal(t, "email", errResp.Fields["email"])
	assert.Equal(t, "required", errResp.Fields["nombre_negocio"])
	assert.Equal(t, "required", errResp.Fields["password"])
}

func TestRouter_LoginYMe(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, "Agua Sur", "ana@aguasur.test")

	resp, body := s.do(t, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email": "ANA@aguasur.test", "password": "clave-segura-123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var login dto.LoginResponse
	require.NoError(t, json.Unmarshal(body, &login))
	require.NotEmpty(t, login.Token)

	resp, body = s.do(t, http.MethodGet, "/api/auth/me", login.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "ana@aguasur.test")

	resp, _ = s.do(t, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email": "ana@aguasur.test", "password": "incorrecta",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_JoinLimitado_Retorna429(t *testing.T) {
	s := newTestServer(t)
	// El limitador del servidor de test admite ráfagas de 100 por IP y ruta.
	limited := 0
	var retryAfter string
	for i := 0; i < 120; i++ {
		resp, _ := s.do(t, http.MethodPost, "/api/auth/join", "", fiber.Map{})
		if resp.StatusCode == http.StatusTooManyRequests {
			limited++
			retryAfter = resp.Header.Get("Retry-After")
		}
	}
	assert.Positive(t, limited)
	assert.NotEmpty(t, retryAfter)
}

// ──────────────────────────────────────────────────────────────────────────────
// Clientes, ventas y aislamiento entre negocios
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_ClienteDuplicado_Retorna409ConCondiciones(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.signup(t, "Agua Sur", "ana@aguasur.test")

	s.createCustomer(t, token, fiber.Map{"nombre": "Juan Pérez", "direccion": "Mitre 123", "telefono": "11 5555-0001"})

	resp, body := s.do(t, http.MethodPost, "/api/customers", token, fiber.Map{
		"nombre": "Otro Nombre", "direccion": "Otra 9", "telefono": "11 5555-0001",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	var errResp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.Equal(t, "DUPLICATE_CUSTOMER", errResp.Code)
	assert.Contains(t, errResp.Fields, "telefono")
	assert.NotContains(t, errResp.Fields, "nombre_direccion")
}

func TestRouter_VentaFiadaSumaDeudaYSaldo(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.signup(t, "Agua Sur", "ana@aguasur.test")
	customer := s.createCustomer(t, token, fiber.Map{"nombre": "Juan Pérez", "direccion": "Mitre 123"})

	resp, body := s.do(t, http.MethodPost, "/api/sales", token, fiber.Map{
		"cliente_id":  customer.ID,
		"metodo_pago": "fiado",
		"items": []fiber.Map{
			{"producto": "bidon_20L", "cantidad": 2, "precio_unitario": 1500},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var result dto.SaleResultResponse
	require.NoError(t, json.Unmarshal(body, &result))
	assert.Equal(t, 2, result.CustomerDebt.Bidones20L)
	assert.True(t, result.Sale.PendingBalance.Equal(decimal.NewFromInt(3000)))

	resp, body = s.do(t, http.MethodGet, "/api/customers/"+customer.ID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got dto.CustomerResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.True(t, got.PendingBalance.Equal(decimal.NewFromInt(3000)))

	resp, body = s.do(t, http.MethodDelete, "/api/sales/"+result.Sale.ID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Contains(t, string(body), `"bidones_20L":0`)
}

func TestRouter_VentaConCantidadInvalida_Retorna400(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.signup(t, "Agua Sur", "ana@aguasur.test")
	customer := s.createCustomer(t, token, fiber.Map{"nombre": "Juan Pérez"})

	resp, body := s.do(t, http.MethodPost, "/api/sales", token, fiber.Map{
		"cliente_id": customer.ID,
		"items":      []fiber.Map{{"producto": "bidon_20L", "cantidad": 0, "precio_unitario": 1500}},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "items[0].cantidad")
}

func TestRouter_ClienteDeOtroNegocio_Retorna404(t *testing.T) {
	s := newTestServer(t)
	tokenA, _ := s.signup(t, "Agua Sur", "ana@aguasur.test")
	tokenB, _ := s.signup(t, "Agua Norte", "bruno@aguanorte.test")
	customer := s.createCustomer(t, tokenA, fiber.Map{"nombre": "Juan Pérez"})

	resp, _ := s.do(t, http.MethodGet, "/api/customers/"+customer.ID, tokenB, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = s.do(t, http.MethodPost, "/api/sales", tokenB, fiber.Map{
		"cliente_id": customer.ID,
		"items":      []fiber.Map{{"producto": "bidon_20L", "cantidad": 1, "precio_unitario": 1500}},
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_IDMalFormado(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.signup(t, "Agua Sur", "ana@aguasur.test")

	for _, path := range []string{"/api/customers/abc", "/api/sales/abc", "/api/expenses/1", "/api/refills/x-y"} {
		resp, body := s.do(t, http.MethodGet, path, token, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		assert.Contains(t, string(body), "NOT_FOUND", path)
	}
	resp, _ := s.do(t, http.MethodDelete, "/api/customers/abc", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body := s.do(t, http.MethodPost, "/api/sales", token, fiber.Map{
		"cliente_id": "x",
		"items":      []fiber.Map{{"producto": "bidon_20L", "cantidad": 1, "precio_unitario": 1500}},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "cliente_id")

	resp, _ = s.do(t, http.MethodGet, "/api/sales?cliente_id=abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_EstadoDeCuentaPDF(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.signup(t, "Agua Sur", "ana@aguasur.test")
	customer := s.createCustomer(t, token, fiber.Map{"nombre": "Juan Pérez", "direccion": "Mitre 123"})

	resp, body := s.do(t, http.MethodGet, "/api/customers/"+customer.ID+"/estado-cuenta", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.True(t, strings.HasPrefix(string(body), "%PDF"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "estado-cuenta-")
}

// ──────────────────────────────────────────────────────────────────────────────
// Roles y suspensión
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_EmpleadoNoRegeneraCodigo_Retorna403(t *testing.T) {
	s := newTestServer(t)
	_, businessID := s.signup(t, "Agua Sur", "ana@aguasur.test")
	employee, err := pkgjwt.Generate(testJWTSecret, testUserID, businessID, "employee", testIssuer, testExpMin)
	require.NoError(t, err)

	resp, _ := s.do(t, http.MethodPost, "/api/business/link-code", employee, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = s.do(t, http.MethodGet, "/api/business/catalog", employee, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_NegocioSuspendido_Retorna403(t *testing.T) {
	s := newTestServer(t)
	token, businessID := s.signup(t, "Agua Sur", "ana@aguasur.test")

	_, err := s.businessUC.SetSuspended(context.Background(), businessID, true)
	require.NoError(t, err)

	resp, body := s.do(t, http.MethodGet, "/api/customers", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, string(body), "BUSINESS_SUSPENDED")

	_, err = s.businessUC.SetSuspended(context.Background(), businessID, false)
	require.NoError(t, err)
	resp, _ = s.do(t, http.MethodGet, "/api/customers", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_AdminSoloParaSuperadmin(t *testing.T) {
	s := newTestServer(t)
	token, businessID := s.signup(t, "Agua Sur", "ana@aguasur.test")

	resp, _ := s.do(t, http.MethodGet, "/api/admin/businesses", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	super, err := pkgjwt.Generate(testJWTSecret, testUserID, "", "superadmin", testIssuer, testExpMin)
	require.NoError(t, err)
	resp, body := s.do(t, http.MethodPut, "/api/admin/businesses/"+businessID+"/suspension", super, fiber.Map{"suspendido": true})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, _ = s.do(t, http.MethodGet, "/api/dashboard/summary", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRouter_DashboardRangoInvertido_Retorna400(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.signup(t, "Agua Sur", "ana@aguasur.test")

	resp, _ := s.do(t, http.MethodGet, "/api/dashboard/summary?desde=2025-03-10&hasta=2025-03-01", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := s.do(t, http.MethodGet, "/api/dashboard/summary", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "inventario")
}
