package main

import (
	"context"
	"fmt"

	"github.com/jhoicas/reparto-api/internal/application/auth"
	"github.com/jhoicas/reparto-api/internal/application/sales"
	"github.com/jhoicas/reparto-api/internal/application/usecase"
	"github.com/jhoicas/reparto-api/internal/domain/repository"
	"github.com/jhoicas/reparto-api/internal/infrastructure/memory"
	"github.com/jhoicas/reparto-api/internal/infrastructure/postgres"
	"github.com/jhoicas/reparto-api/pkg/config"
	"github.com/jhoicas/reparto-api/pkg/logger"
)

// txRunner reúne las transacciones que piden los casos de uso.
type txRunner interface {
	sales.TxRunner
	auth.SignupTxRunner
	usecase.RefillTxRunner
}

// storage repositorios de la aplicación, sobre Postgres o en memoria.
type storage struct {
	businesses repository.BusinessRepository
	catalog    repository.CatalogRepository
	inventory  repository.InventoryRepository
	users      repository.UserRepository
	customers  repository.CustomerRepository
	sales      repository.SaleRepository
	expenses   repository.ExpenseRepository
	refills    repository.RefillRepository
	analytics  repository.AnalyticsRepository
	tx         txRunner
	close      func()
}

func openStorage(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*storage, error) {
	switch cfg.Driver {
	case "memory":
		log.Warn().Msg("DB_DRIVER=memory: los datos se pierden al reiniciar")
		s := memory.NewStore()
		return &storage{
			businesses: memory.NewBusinessRepository(s),
			catalog:    memory.NewCatalogRepository(s),
			inventory:  memory.NewInventoryRepository(s),
			users:      memory.NewUserRepository(s),
			customers:  memory.NewCustomerRepository(s),
			sales:      memory.NewSaleRepository(s),
			expenses:   memory.NewExpenseRepository(s),
			refills:    memory.NewRefillRepository(s),
			analytics:  memory.NewAnalyticsRepository(s),
			tx:         memory.NewTxRunner(s),
			close:      func() {},
		}, nil
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if cfg.AutoMigrate {
			applied, err := postgres.Migrate(ctx, pool)
			if err != nil {
				pool.Close()
				return nil, fmt.Errorf("migraciones: %w", err)
			}
			for _, name := range applied {
				log.Info().Str("migration", name).Msg("migración aplicada")
			}
		}
		return &storage{
			businesses: postgres.NewBusinessRepository(pool),
			catalog:    postgres.NewCatalogRepository(pool),
			inventory:  postgres.NewInventoryRepository(pool),
			users:      postgres.NewUserRepository(pool),
			customers:  postgres.NewCustomerRepository(pool),
			sales:      postgres.NewSaleRepository(pool),
			expenses:   postgres.NewExpenseRepository(pool),
			refills:    postgres.NewRefillRepository(pool),
			analytics:  postgres.NewAnalyticsRepository(pool),
			tx:         postgres.NewTxRunner(pool),
			close:      pool.Close,
		}, nil
	}
	return nil, fmt.Errorf("DB_DRIVER desconocido %q", cfg.Driver)
}
