package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/reparto-api/internal/application/dto"
	"github.com/jhoicas/reparto-api/internal/application/usecase"
)

// BusinessHandler datos del negocio, catálogo, código de vinculación e inventario.
type BusinessHandler struct {
	uc *usecase.BusinessUseCase
}

// NewBusinessHandler construye el handler.
func NewBusinessHandler(uc *usecase.BusinessUseCase) *BusinessHandler {
	return &BusinessHandler{uc: uc}
}

// Get GET /api/business
func (h *BusinessHandler) Get(c *fiber.Ctx) error {
	a, ok := tenantActor(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.Get(c.UserContext(), a)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update PATCH /api/business (admin)
func (h *BusinessHandler) Update(c *fiber.Ctx) error {
	a, ok := tenantActor(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.UpdateBusinessRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), a, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CompleteOnboarding POST /api/business/onboarding (admin)
func (h *BusinessHandler) CompleteOnboarding(c *fiber.Ctx) error {
	a, ok := tenantActor(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.CompleteOnboarding(c.UserContext(), a)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RegenerateLinkCode godoc
// @Summary      Regenerar el código de vinculación
// @Description  El código anterior deja de servir para nuevas vinculaciones; los usuarios ya vinculados no cambian.
// @Tags         business
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/business/link-code [post]
func (h *BusinessHandler) RegenerateLinkCode(c *fiber.Ctx) error {
	a, ok := tenantActor(c)
	if !ok {
		return unauthorized(c)
	}
	code, err := h.uc.RegenerateLinkCode(c.UserContext(), a)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"codigo_vinculacion": code})
}

// ListCatalog GET /api/business/catalog?todos=true
func (h *BusinessHandler) ListCatalog(c *fiber.Ctx) error {
	a, ok := tenantActor(c)
	if !ok {
		return unauthorized(c)
	}
	list, err := h.uc.ListCatalog(c.UserContext(), a, c.QueryBool("todos", false))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// AddCatalogItem POST /api/business/catalog (admin)
func (h *BusinessHandler) AddCatalogItem(c *fiber.Ctx) error {
	a, ok := tenantActor(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.CreateCatalogItemRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	item, err := h.uc.AddCatalogItem(c.UserContext(), a, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// UpdateCatalogItem PATCH /api/business/catalog/:id (admin)
func (h *BusinessHandler) UpdateCatalogItem(c *fiber.Ctx) error {
	a, ok := tenantActor(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.UpdateCatalogItemRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	item, err := h.uc.UpdateCatalogItem(c.UserContext(), a, c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(item)
}

// RemoveCatalogItem DELETE /api/business/catalog/:id (admin). Baja lógica.
func (h *BusinessHandler) RemoveCatalogItem(c *fiber.Ctx) error {
	a, ok := tenantActor(c)
	if !ok {
		return unauthorized(c)
	}
	if err := h.uc.RemoveCatalogItem(c.UserContext(), a, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// InventoryDashboard godoc
// @Summary      Inventario de envases y dispensers
// @Tags         inventory
// @Produce      json
// @Success      200  {object}  dto.InventoryDashboard
// @Router       /api/inventory [get]
func (h *BusinessHandler) InventoryDashboard(c *fiber.Ctx) error {
	a, ok := tenantActor(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.InventoryDashboard(c.UserContext(), a)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateInventory PATCH /api/inventory (admin). Solo cambian las categorías y campos enviados.
func (h *BusinessHandler) UpdateInventory(c *fiber.Ctx) error {
	a, ok := tenantActor(c)
	if !ok {
		return unauthorized(c)
	}
	in := dto.UpdateInventoryRequest{}
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateInventory(c.UserContext(), a, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
