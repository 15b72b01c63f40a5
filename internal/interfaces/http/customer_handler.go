package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/reparto-api/internal/application/billing"
	"github.com/jhoicas/reparto-api/internal/application/dto"
)

// CustomerHandler maneja las peticiones HTTP de clientes.
type CustomerHandler struct {
	uc        *billing.CustomerUseCase
	statement *billing.StatementUseCase
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(uc *billing.CustomerUseCase, statement *billing.StatementUseCase) *CustomerHandler {
	return &CustomerHandler{uc: uc, statement: statement}
}

// Create godoc
// @Summary      Alta de cliente
// @Description  Rechaza el alta si otro cliente del negocio (activo o inactivo) tiene el mismo teléfono o el mismo nombre y dirección.
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCustomerRequest  true  "cliente"
// @Success      201   {object}  dto.CustomerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/customers [post]
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	a, ok := tenantActor(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.CreateCustomerRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	customer, err := h.uc.Create(c.UserContext(), a, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(customer)
}

// List GET /api/customers?activo=true|false|todos&q=texto&limit=50&offset=0
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	a, ok := tenantActor(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.CustomerListRequest
	if ok, err := bindQuery(c, &in); !ok {
		return err
	}
	list, err := h.uc.List(c.UserContext(), a, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// Get GET /api/customers/:id
func (h *CustomerHandler) Get(c *fiber.Ctx) error {
	a, ok := tenantActor(c)
	if !ok {
		return unauthorized(c)
	}
	customer, err := h.uc.Get(c.UserContext(), a, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(customer)
}

// Update PATCH /api/customers/:id
func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	a, ok := tenantActor(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.UpdateCustomerRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	customer, err := h.uc.Update(c.UserContext(), a, c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(customer)
}

// Deactivate DELETE /api/customers/:id. Baja lógica; el historial se conserva.
func (h *CustomerHandler) Deactivate(c *fiber.Ctx) error {
	a, ok := tenantActor(c)
	if !ok {
		return unauthorized(c)
	}
	if err := h.uc.Deactivate(c.UserContext(), a, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Reactivate POST /api/customers/:id/reactivar
func (h *CustomerHandler) Reactivate(c *fiber.Ctx) error {
	a, ok := tenantActor(c)
	if !ok {
		return unauthorized(c)
	}
	customer, err := h.uc.Reactivate(c.UserContext(), a, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(customer)
}

// History GET /api/customers/:id/historial
func (h *CustomerHandler) History(c *fiber.Ctx) error {
	a, ok := tenantActor(c)
	if !ok {
		return unauthorized(c)
	}
	var page dto.PageRequest
	if ok, err := bindQuery(c, &page); !ok {
		return err
	}
	list, err := h.uc.History(c.UserContext(), a, c.Params("id"), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// Statement godoc
// @Summary      Estado de cuenta en PDF
// @Tags         customers
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del cliente"
// @Success      200  {file}    file
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id}/estado-cuenta [get]
func (h *CustomerHandler) Statement(c *fiber.Ctx) error {
	a, ok := tenantActor(c)
	if !ok {
		return unauthorized(c)
	}
	pdf, filename, err := h.statement.Download(c.UserContext(), a, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}
