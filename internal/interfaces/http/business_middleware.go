package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/reparto-api/internal/application/dto"
	"github.com/jhoicas/reparto-api/internal/domain/entity"
)

// suspensionChecker lo implementa *usecase.BusinessUseCase.
type suspensionChecker interface {
	IsSuspended(ctx context.Context, businessID string) (bool, error)
}

// RequireActiveBusiness corta todas las operaciones de un negocio suspendido por el superadmin.
// Debe usarse DESPUÉS de AuthMiddleware.
//
//   - 401 si el token no trae negocio (salvo superadmin, que pasa siempre).
//   - 403 BUSINESS_SUSPENDED si el negocio está suspendido.
//   - 503 si no se pudo consultar el estado.
func RequireActiveBusiness(checker suspensionChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetRole(c) == entity.RoleSuperAdmin {
			return c.Next()
		}
		businessID := GetBusinessID(c)
		if businessID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "negocio no encontrado en el token",
			})
		}

		suspended, err := checker.IsSuspended(c.UserContext(), businessID)
		if err != nil {
			log.Error().Err(err).Str("business_id", businessID).Msg("no se pudo verificar la suspensión del negocio")
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "BUSINESS_CHECK_FAILED",
				Message: "no se pudo verificar el negocio, intente más tarde",
			})
		}
		if suspended {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "BUSINESS_SUSPENDED",
				Message: "el negocio está suspendido",
			})
		}
		return c.Next()
	}
}
