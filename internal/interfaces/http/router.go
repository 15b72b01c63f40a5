package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appanalytics "github.com/jhoicas/reparto-api/internal/application/analytics"
	"github.com/jhoicas/reparto-api/internal/application/auth"
	"github.com/jhoicas/reparto-api/internal/application/billing"
	"github.com/jhoicas/reparto-api/internal/application/sales"
	"github.com/jhoicas/reparto-api/internal/application/usecase"
	"github.com/jhoicas/reparto-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	BusinessUC  *usecase.BusinessUseCase
	UserUC      *usecase.UserUseCase
	CustomerUC  *billing.CustomerUseCase
	StatementUC *billing.StatementUseCase
	SaleUC      *sales.UseCase
	ExpenseUC   *usecase.ExpenseUseCase
	RefillUC    *usecase.RefillUseCase
	DashboardUC *appanalytics.DashboardUseCase
	ReportUC    *appanalytics.ReportUseCase
	// Revoker lista de tokens cerrados en logout; nil sin Redis.
	Revoker     RevocationChecker
	AuthLimiter AttemptLimiter
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	// Auth (público, con límite de intentos)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	limit := RateLimit(deps.AuthLimiter)
	authGroup.Post("/signup", limit, authHandler.Signup)
	authGroup.Post("/join", limit, authHandler.Join)
	authGroup.Post("/login", limit, authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.Revoker))
	protected.Post("/auth/logout", authHandler.Logout)
	protected.Get("/auth/me", authHandler.Me)

	validID := ValidIDParam("id")

	// Superadmin
	adminHandler := NewAdminHandler(deps.BusinessUC)
	admin := protected.Group("/admin", RequireRole(entity.RoleSuperAdmin))
	admin.Get("/businesses", adminHandler.ListBusinesses)
	admin.Put("/businesses/:id/suspension", validID, adminHandler.SetSuspended)

	// Operación del negocio: cortada si el negocio está suspendido.
	tenant := protected.Group("/", RequireActiveBusiness(deps.BusinessUC))
	adminOnly := RequireRole(entity.RoleAdmin)

	businessHandler := NewBusinessHandler(deps.BusinessUC)
	business := tenant.Group("/business")
	business.Get("/", businessHandler.Get)
	business.Patch("/", adminOnly, businessHandler.Update)
	business.Post("/onboarding", adminOnly, businessHandler.CompleteOnboarding)
	business.Post("/link-code", adminOnly, businessHandler.RegenerateLinkCode)
	business.Get("/catalog", businessHandler.ListCatalog)
	business.Post("/catalog", adminOnly, businessHandler.AddCatalogItem)
	business.Patch("/catalog/:id", adminOnly, validID, businessHandler.UpdateCatalogItem)
	business.Delete("/catalog/:id", adminOnly, validID, businessHandler.RemoveCatalogItem)

	inventory := tenant.Group("/inventory")
	inventory.Get("/", businessHandler.InventoryDashboard)
	inventory.Patch("/", adminOnly, businessHandler.UpdateInventory)

	userHandler := NewUserHandler(deps.UserUC)
	users := tenant.Group("/users", adminOnly)
	users.Get("/", userHandler.List)
	users.Patch("/:id/activo", validID, userHandler.SetActive)
	users.Delete("/:id", validID, userHandler.Delete)

	customerHandler := NewCustomerHandler(deps.CustomerUC, deps.StatementUC)
	customers := tenant.Group("/customers")
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", validID, customerHandler.Get)
	customers.Patch("/:id", validID, customerHandler.Update)
	customers.Delete("/:id", validID, customerHandler.Deactivate)
	customers.Post("/:id/reactivar", validID, customerHandler.Reactivate)
	customers.Get("/:id/historial", validID, customerHandler.History)
	customers.Get("/:id/estado-cuenta", validID, customerHandler.Statement)

	saleHandler := NewSaleHandler(deps.SaleUC)
	salesGroup := tenant.Group("/sales")
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", validID, saleHandler.Get)
	salesGroup.Patch("/:id", validID, saleHandler.Update)
	salesGroup.Delete("/:id", validID, saleHandler.Void)

	expenseHandler := NewExpenseHandler(deps.ExpenseUC, deps.RefillUC)
	expenses := tenant.Group("/expenses")
	expenses.Post("/", expenseHandler.CreateExpense)
	expenses.Get("/", expenseHandler.ListExpenses)
	expenses.Get("/:id", validID, expenseHandler.GetExpense)
	expenses.Patch("/:id", validID, expenseHandler.UpdateExpense)
	expenses.Delete("/:id", validID, expenseHandler.DeleteExpense)

	refills := tenant.Group("/refills")
	refills.Post("/", expenseHandler.CreateRefill)
	refills.Get("/", expenseHandler.ListRefills)
	refills.Get("/:id", validID, expenseHandler.GetRefill)
	refills.Patch("/:id", validID, expenseHandler.UpdateRefill)
	refills.Delete("/:id", validID, expenseHandler.DeleteRefill)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC, deps.ReportUC)
	tenant.Get("/dashboard/summary", dashboardHandler.GetSummary)
	tenant.Get("/reports/cash-flow.xlsx", adminOnly, dashboardHandler.ExportCashFlow)
}
