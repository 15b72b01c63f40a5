package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/reparto-api/internal/application/dto"
	"github.com/jhoicas/reparto-api/internal/application/usecase"
)

// AdminHandler endpoints del superadmin (todos los negocios).
type AdminHandler struct {
	uc *usecase.BusinessUseCase
}

// NewAdminHandler construye el handler.
func NewAdminHandler(uc *usecase.BusinessUseCase) *AdminHandler {
	return &AdminHandler{uc: uc}
}

// ListBusinesses GET /api/admin/businesses
func (h *AdminHandler) ListBusinesses(c *fiber.Ctx) error {
	var page dto.PageRequest
	if ok, err := bindQuery(c, &page); !ok {
		return err
	}
	list, err := h.uc.ListAll(c.UserContext(), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// SetSuspended godoc
// @Summary      Suspender o reactivar un negocio
// @Description  Un negocio suspendido no puede operar ni iniciar sesión.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID del negocio"
// @Param        body  body  dto.SuspendRequest  true  "suspendido"
// @Success      200   {object}  dto.BusinessResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/admin/businesses/{id}/suspension [put]
func (h *AdminHandler) SetSuspended(c *fiber.Ctx) error {
	var in dto.SuspendRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.SetSuspended(c.UserContext(), c.Params("id"), in.Suspended)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
