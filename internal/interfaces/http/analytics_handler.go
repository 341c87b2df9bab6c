package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/procura-api/internal/application/analytics"
	"github.com/jhoicas/procura-api/internal/application/dto"
)

// AnalyticsHandler varianzas y estadísticas de gerencia.
type AnalyticsHandler struct {
	variance  *analytics.VarianceUseCase
	dashboard *analytics.DashboardUseCase
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(variance *analytics.VarianceUseCase, dashboard *analytics.DashboardUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{variance: variance, dashboard: dashboard}
}

// ListVariances lista varianzas con el proveedor de cada ítem.
// @Summary      Listar varianzas
// @Tags         variance
// @Security     Bearer
// @Produce      json
// @Param        limit   query     int  false  "Límite"
// @Param        offset  query     int  false  "Desplazamiento"
// @Success      200     {object}  dto.VarianceListResponse
// @Router       /api/variance [get]
func (h *AnalyticsHandler) ListVariances(c *fiber.Ctx) error {
	var q dto.PageRequest
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	out, err := h.variance.List(c.UserContext(), GetActor(c), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// OrderVariance reporte de varianzas de un pedido con totales.
// @Summary      Varianzas por pedido
// @Tags         variance
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderVarianceReport
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/variance/order/{id} [get]
func (h *AnalyticsHandler) OrderVariance(c *fiber.Ctx) error {
	out, err := h.variance.ByOrder(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// OrderVariancePDF descarga el reporte de varianzas en PDF.
// @Summary      Reporte de varianzas (PDF)
// @Tags         variance
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path    string  true  "ID del pedido"
// @Success      200  {file}  file
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/variance/order/{id}/report.pdf [get]
func (h *AnalyticsHandler) OrderVariancePDF(c *fiber.Ctx) error {
	data, filename, err := h.variance.ReportPDF(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

// Stats indicadores de gerencia.
// @Summary      Estadísticas de gerencia
// @Tags         management
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ManagementStatsDTO
// @Router       /api/management/stats [get]
func (h *AnalyticsHandler) Stats(c *fiber.Ctx) error {
	out, err := h.dashboard.GetStats(c.UserContext(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
