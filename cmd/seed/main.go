// seed crea (o re-habilita) la cuenta de superadmin, que no pertenece a ningún negocio.
//
// Uso: go run ./cmd/seed -email admin@reparto.app -password '...' [-nombre "Soporte"]
// Lee la conexión a la base de la misma configuración que la API (DATABASE_URL o DB_*).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/reparto-api/internal/application/auth"
	"github.com/jhoicas/reparto-api/internal/domain/entity"
	"github.com/jhoicas/reparto-api/internal/infrastructure/postgres"
	"github.com/jhoicas/reparto-api/pkg/config"
	"github.com/jhoicas/reparto-api/pkg/logger"
)

func main() {
	email := flag.String("email", "", "email del superadmin")
	password := flag.String("password", "", "contraseña (mínimo 8 caracteres)")
	name := flag.String("nombre", "Superadmin", "nombre visible")
	flag.Parse()

	if *email == "" || len(*password) < 8 {
		fmt.Fprintln(os.Stderr, "uso: seed -email <email> -password <mínimo 8 caracteres> [-nombre <nombre>]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed"})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if _, err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	users := postgres.NewUserRepository(pool)
	hash, err := auth.HashPassword(*password)
	if err != nil {
		log.Fatal().Err(err).Msg("hash de contraseña")
	}

	normalized := strings.ToLower(strings.TrimSpace(*email))
	existing, err := users.GetByEmail(ctx, normalized)
	if err != nil {
		log.Fatal().Err(err).Msg("buscar usuario")
	}
	now := time.Now()
	if existing != nil {
		if existing.Role != entity.RoleSuperAdmin {
			log.Fatal().Str("email", normalized).Msg("el email pertenece a un usuario de negocio")
		}
		existing.PasswordHash = hash
		existing.Active = true
		existing.UpdatedAt = now
		if err := users.Update(ctx, existing); err != nil {
			log.Fatal().Err(err).Msg("actualizar superadmin")
		}
		log.Info().Str("email", normalized).Msg("superadmin actualizado")
		return
	}

	if err := users.Create(ctx, &entity.User{
		ID:           uuid.New().String(),
		Email:        normalized,
		PasswordHash: hash,
		Name:         strings.TrimSpace(*name),
		Role:         entity.RoleSuperAdmin,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err != nil {
		log.Fatal().Err(err).Msg("crear superadmin")
	}
	log.Info().Str("email", normalized).Msg("superadmin creado")
}
