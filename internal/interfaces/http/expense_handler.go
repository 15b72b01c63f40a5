package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/reparto-api/internal/application/dto"
	"github.com/jhoicas/reparto-api/internal/application/usecase"
)

// ExpenseHandler gastos y llenados.
type ExpenseHandler struct {
	expenses *usecase.ExpenseUseCase
	refills  *usecase.RefillUseCase
}

// NewExpenseHandler construye el handler.
func NewExpenseHandler(expenses *usecase.ExpenseUseCase, refills *usecase.RefillUseCase) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses, refills: refills}
}

// ─── Gastos ───────────────────────────────────────────────────────────────────

// CreateExpense POST /api/expenses
func (h *ExpenseHandler) CreateExpense(c *fiber.Ctx) error {
	a, ok := tenantActor(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.CreateExpenseRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.expenses.Create(c.UserContext(), a, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListExpenses GET /api/expenses?desde=&hasta=
func (h *ExpenseHandler) ListExpenses(c *fiber.Ctx) error {
	a, ok := tenantActor(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.DateRangeRequest
	if ok, err := bindQuery(c, &in); !ok {
		return err
	}
	list, err := h.expenses.List(c.UserContext(), a, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// GetExpense GET /api/expenses/:id
func (h *ExpenseHandler) GetExpense(c *fiber.Ctx) error {
	a, ok := tenantActor(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.expenses.Get(c.UserContext(), a, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateExpense PATCH /api/expenses/:id
func (h *ExpenseHandler) UpdateExpense(c *fiber.Ctx) error {
	a, ok := tenantActor(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.UpdateExpenseRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.expenses.Update(c.UserContext(), a, c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteExpense DELETE /api/expenses/:id
func (h *ExpenseHandler) DeleteExpense(c *fiber.Ctx) error {
	a, ok := tenantActor(c)
	if !ok {
		return unauthorized(c)
	}
	if err := h.expenses.Delete(c.UserContext(), a, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ─── Llenados ─────────────────────────────────────────────────────────────────

// CreateRefill godoc
// @Summary      Registrar llenado
// @Description  Si el total es mayor a cero crea el gasto asociado en la misma transacción.
// @Tags         refills
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRefillRequest  true  "llenado"
// @Success      201   {object}  dto.RefillResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/refills [post]
func (h *ExpenseHandler) CreateRefill(c *fiber.Ctx) error {
	a, ok := tenantActor(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.CreateRefillRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.refills.Create(c.UserContext(), a, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListRefills GET /api/refills?desde=&hasta=
func (h *ExpenseHandler) ListRefills(c *fiber.Ctx) error {
	a, ok := tenantActor(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.DateRangeRequest
	if ok, err := bindQuery(c, &in); !ok {
		return err
	}
	list, err := h.refills.List(c.UserContext(), a, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// GetRefill GET /api/refills/:id
func (h *ExpenseHandler) GetRefill(c *fiber.Ctx) error {
	a, ok := tenantActor(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.refills.Get(c.UserContext(), a, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateRefill PATCH /api/refills/:id
func (h *ExpenseHandler) UpdateRefill(c *fiber.Ctx) error {
	a, ok := tenantActor(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.UpdateRefillRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.refills.Update(c.UserContext(), a, c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteRefill DELETE /api/refills/:id. Borra también el gasto asociado.
func (h *ExpenseHandler) DeleteRefill(c *fiber.Ctx) error {
	a, ok := tenantActor(c)
	if !ok {
		return unauthorized(c)
	}
	if err := h.refills.Delete(c.UserContext(), a, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
