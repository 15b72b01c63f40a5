package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/reparto-api/internal/application/analytics"
	"github.com/jhoicas/reparto-api/internal/application/dto"
)

// DashboardHandler resumen del negocio y exportación de flujo de caja.
type DashboardHandler struct {
	uc      *appanalytics.DashboardUseCase
	reports *appanalytics.ReportUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase, reports *appanalytics.ReportUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc, reports: reports}
}

// GetSummary devuelve el resumen del período.
// GET /api/dashboard/summary?desde=2025-03-01&hasta=2025-03-31
//
// Sin fechas toma el mes en curso hasta hoy.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	a, ok := tenantActor(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.DateRangeRequest
	if ok, err := bindQuery(c, &in); !ok {
		return err
	}
	summary, err := h.uc.GetSummary(c.UserContext(), a, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}

// ExportCashFlow godoc
// @Summary      Flujo de caja en Excel
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        desde  query  string  false  "AAAA-MM-DD"
// @Param        hasta  query  string  false  "AAAA-MM-DD"
// @Success      200    {file}    file
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/reports/cash-flow.xlsx [get]
func (h *DashboardHandler) ExportCashFlow(c *fiber.Ctx) error {
	a, ok := tenantActor(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.DateRangeRequest
	if ok, err := bindQuery(c, &in); !ok {
		return err
	}
	data, filename, err := h.reports.Export(c.UserContext(), a, in)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
