// import_clientes carga los clientes de la planilla anterior en un negocio.
//
// Uso: go run ./cmd/import_clientes -negocio <uuid> -archivo clientes.csv [-sep ';'] [-utf8]
//
// Cada fila pasa por el mismo alta que la API: los duplicados (teléfono o nombre+dirección)
// se informan y se saltean, nunca se sobrescriben.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"
	"unicode/utf8"

	"github.com/jhoicas/reparto-api/internal/application/billing"
	"github.com/jhoicas/reparto-api/internal/application/dto"
	"github.com/jhoicas/reparto-api/internal/domain"
	"github.com/jhoicas/reparto-api/internal/domain/entity"
	"github.com/jhoicas/reparto-api/internal/infrastructure/phone"
	"github.com/jhoicas/reparto-api/internal/infrastructure/postgres"
	"github.com/jhoicas/reparto-api/pkg/config"
	"github.com/jhoicas/reparto-api/pkg/logger"
)

func main() {
	businessID := flag.String("negocio", "", "ID del negocio destino")
	path := flag.String("archivo", "clientes.csv", "CSV a importar")
	sep := flag.String("sep", ";", "separador de columnas")
	isUTF8 := flag.Bool("utf8", false, "el archivo ya está en UTF-8 (por defecto Latin-1)")
	flag.Parse()

	if *businessID == "" {
		fmt.Fprintln(os.Stderr, "uso: import_clientes -negocio <uuid> -archivo <csv> [-sep ';'] [-utf8]")
		os.Exit(2)
	}
	comma, _ := utf8.DecodeRuneInString(*sep)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "import_clientes"})

	f, err := os.Open(*path)
	if err != nil {
		log.Fatal().Err(err).Str("archivo", *path).Msg("abrir CSV")
	}
	defer f.Close()
	rows, err := readRows(f, comma, !*isUTF8)
	if err != nil {
		log.Fatal().Err(err).Msg("leer CSV")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	business, err := postgres.NewBusinessRepository(pool).GetByID(ctx, *businessID)
	if err != nil {
		log.Fatal().Err(err).Msg("buscar negocio")
	}
	if business == nil {
		log.Fatal().Str("negocio", *businessID).Msg("el negocio no existe")
	}

	customers := postgres.NewCustomerRepository(pool)
	uc := billing.NewCustomerUseCase(customers, postgres.NewSaleRepository(pool), phone.NewNormalizer(cfg.App.PhoneRegion))
	actor := dto.Actor{BusinessID: business.ID, Role: entity.RoleAdmin}

	var created, duplicated, failed int
	for _, r := range rows {
		_, err := uc.Create(ctx, actor, r.in)
		var dup *domain.DuplicateCustomerError
		switch {
		case err == nil:
			created++
		case errors.As(err, &dup):
			duplicated++
			log.Warn().Int("linea", r.line).Str("nombre", r.in.Name).Strs("coincide", dup.Conditions).Msg("cliente duplicado, se saltea")
		default:
			failed++
			log.Error().Err(err).Int("linea", r.line).Str("nombre", r.in.Name).Msg("no se pudo importar")
		}
	}
	log.Info().
		Str("negocio", business.Name).
		Int("creados", created).
		Int("duplicados", duplicated).
		Int("errores", failed).
		Msg("importación terminada")
}
