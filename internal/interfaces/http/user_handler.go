package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/reparto-api/internal/application/dto"
	"github.com/jhoicas/reparto-api/internal/application/usecase"
)

// UserHandler gestión de usuarios del negocio (admin).
type UserHandler struct {
	uc *usecase.UserUseCase
}

// NewUserHandler construye el handler.
func NewUserHandler(uc *usecase.UserUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// List GET /api/users
func (h *UserHandler) List(c *fiber.Ctx) error {
	a, ok := tenantActor(c)
	if !ok {
		return unauthorized(c)
	}
	list, err := h.uc.List(c.UserContext(), a)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// SetActive PATCH /api/users/:id/activo
func (h *UserHandler) SetActive(c *fiber.Ctx) error {
	a, ok := tenantActor(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.SetActiveRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	user, err := h.uc.SetActive(c.UserContext(), a, c.Params("id"), in.Active)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(user)
}

// Delete DELETE /api/users/:id
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	a, ok := tenantActor(c)
	if !ok {
		return unauthorized(c)
	}
	if err := h.uc.Delete(c.UserContext(), a, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
