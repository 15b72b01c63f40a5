package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	appanalytics "github.com/jhoicas/reparto-api/internal/application/analytics"
	"github.com/jhoicas/reparto-api/internal/application/auth"
	"github.com/jhoicas/reparto-api/internal/application/billing"
	"github.com/jhoicas/reparto-api/internal/application/sales"
	"github.com/jhoicas/reparto-api/internal/application/usecase"
	"github.com/jhoicas/reparto-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/reparto-api/internal/infrastructure/pdf"
	"github.com/jhoicas/reparto-api/internal/infrastructure/phone"
	infraredis "github.com/jhoicas/reparto-api/internal/infrastructure/redis"
	"github.com/jhoicas/reparto-api/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/reparto-api/internal/interfaces/http"
	"github.com/jhoicas/reparto-api/pkg/config"
	"github.com/jhoicas/reparto-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	// Montos como números JSON, no strings.
	decimal.MarshalJSONWithoutQuotes = true

	ctx := context.Background()
	store, err := openStorage(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}
	defer store.close()

	// Redis es opcional: sin él no hay revocación de tokens y el rate limit es local.
	var revoker auth.TokenRevoker
	var revocationList httpRouter.RevocationChecker
	limiter := infraredis.NewLimiter(nil, cfg.RateLimit.LoginPerMinute)
	if cfg.Redis.Enabled() {
		client, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Redis no disponible, se continúa sin revocación de tokens")
		} else {
			defer client.Close()
			r := infraredis.NewTokenRevoker(client)
			revoker, revocationList = r, r
			limiter = infraredis.NewLimiter(client, cfg.RateLimit.LoginPerMinute)
		}
	}

	authUC := auth.NewAuthUseCase(store.users, store.businesses, store.tx, revoker, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, cfg.App.MasterCode)
	if cfg.App.MasterCode == "" {
		log.Warn().Msg("APP_MASTER_CODE vacío: el alta de negocios queda deshabilitada")
	}

	businessUC := usecase.NewBusinessUseCase(store.businesses, store.catalog, store.inventory, store.customers)
	customerUC := billing.NewCustomerUseCase(store.customers, store.sales, phone.NewNormalizer(cfg.App.PhoneRegion))
	statementUC := billing.NewStatementUseCase(store.businesses, store.customers, store.sales, infrapdf.NewMarotoStatementGenerator())
	saleUC := sales.NewUseCase(store.tx, store.sales, store.catalog, metrics.SalesObserver{})
	expenseUC := usecase.NewExpenseUseCase(store.expenses)
	refillUC := usecase.NewRefillUseCase(store.tx, store.refills, store.expenses)
	dashboardUC := appanalytics.NewDashboardUseCase(store.analytics, store.inventory, store.customers)
	reportUC := appanalytics.NewReportUseCase(store.businesses, store.customers, store.sales, store.expenses, xlsx.NewCashFlowExporter())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.TrimSpace(cfg.HTTP.CORSOrigins),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(metrics.Middleware())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Reparto API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		BusinessUC:  businessUC,
		UserUC:      usecase.NewUserUseCase(store.users),
		CustomerUC:  customerUC,
		StatementUC: statementUC,
		SaleUC:      saleUC,
		ExpenseUC:   expenseUC,
		RefillUC:    refillUC,
		DashboardUC: dashboardUC,
		ReportUC:    reportUC,
		Revoker:     revocationList,
		AuthLimiter: limiter,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
