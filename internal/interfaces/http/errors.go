package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/reparto-api/internal/application/dto"
	"github.com/jhoicas/reparto-api/internal/domain"
)

// writeError traduce un error de dominio a status + ErrorResponse.
// Los errores no reconocidos se registran y el cliente recibe un mensaje genérico.
func writeError(c *fiber.Ctx, err error) error {
	var dup *domain.DuplicateCustomerError
	var inv *domain.ValidationError

	switch {
	case errors.As(err, &dup):
		fields := map[string]string{}
		for _, cond := range dup.Conditions {
			fields[cond] = "ya existe un cliente con este dato"
		}
		if dup.ExistingID != "" {
			fields["cliente_existente_id"] = dup.ExistingID
		}
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_CUSTOMER", Message: dup.Error(), Fields: fields})
	case errors.As(err, &inv):
		resp := dto.ErrorResponse{Code: "VALIDATION", Message: inv.Error()}
		if inv.Field != "" {
			resp.Fields = map[string]string{inv.Field: inv.Message}
		}
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	case errors.Is(err, domain.ErrInactiveUser):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "INACTIVE_USER", Message: err.Error()})
	case errors.Is(err, domain.ErrSuspended):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "BUSINESS_SUSPENDED", Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidLinkCode):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_LINK_CODE", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidMasterCode):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_MASTER_CODE", Message: "autorización insuficiente para crear un negocio"})
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "REGISTRATION_FAILED", Message: "no se pudo completar el registro"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	}

	log.Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Str("business_id", GetBusinessID(c)).
		Msg("error no controlado en handler")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno, intente más tarde"})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
