package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/reparto-api/internal/application/dto"
	"github.com/jhoicas/reparto-api/internal/application/sales"
)

// SaleHandler ventas y cobros.
type SaleHandler struct {
	uc *sales.UseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.UseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar venta o cobro
// @Description  Con items suma la deuda de envases del cliente. Sin items es un cobro que se aplica a las ventas pendientes más antiguas.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "venta"
// @Success      201   {object}  dto.SaleResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	a, ok := tenantActor(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.CreateSaleRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), a, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/sales?cliente_id=&desde=&hasta=&limit=&offset=
func (h *SaleHandler) List(c *fiber.Ctx) error {
	a, ok := tenantActor(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.SaleListRequest
	if ok, err := bindQuery(c, &in); !ok {
		return err
	}
	list, err := h.uc.List(c.UserContext(), a, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// Get GET /api/sales/:id
func (h *SaleHandler) Get(c *fiber.Ctx) error {
	a, ok := tenantActor(c)
	if !ok {
		return unauthorized(c)
	}
	sale, err := h.uc.Get(c.UserContext(), a, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(sale)
}

// Update PATCH /api/sales/:id
func (h *SaleHandler) Update(c *fiber.Ctx) error {
	a, ok := tenantActor(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.UpdateSaleRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), a, c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Void DELETE /api/sales/:id. Revierte la deuda de envases y devuelve la deuda resultante del cliente.
func (h *SaleHandler) Void(c *fiber.Ctx) error {
	a, ok := tenantActor(c)
	if !ok {
		return unauthorized(c)
	}
	debt, err := h.uc.Void(c.UserContext(), a, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"deuda_cliente": debt})
}
