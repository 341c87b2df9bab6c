package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/procura-api/internal/application/planning"
	"github.com/jhoicas/procura-api/internal/application/usecase"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// InventoryHandler inventario, alertas de reorden y BOM.
type InventoryHandler struct {
	reorder *planning.ReorderUseCase
	catalog *usecase.CatalogUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(reorder *planning.ReorderUseCase, catalog *usecase.CatalogUseCase) *InventoryHandler {
	return &InventoryHandler{reorder: reorder, catalog: catalog}
}

// List inventario con la predicción de reorden por ítem.
// @Summary      Listar inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.InventoryListResponse
// @Router       /api/inventory [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	out, err := h.reorder.ListInventory(c.UserContext(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Alerts ítems en alerta, los más urgentes primero.
// @Summary      Alertas de reorden
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.InventoryListResponse
// @Router       /api/inventory/alerts [get]
func (h *InventoryHandler) Alerts(c *fiber.Ctx) error {
	out, err := h.reorder.ListAlerts(c.UserContext(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AlertsSheet descarga las alertas en Excel.
// @Summary      Alertas de reorden (xlsx)
// @Tags         inventory
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  file
// @Router       /api/inventory/alerts.xlsx [get]
func (h *InventoryHandler) AlertsSheet(c *fiber.Ctx) error {
	data, filename, err := h.reorder.AlertSheet(c.UserContext(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

// BOM sin product_name devuelve los productos con BOM; con él, sus líneas.
// @Summary      Lista de materiales
// @Tags         bom
// @Security     Bearer
// @Produce      json
// @Param        product_name  query     string  false  "Producto"
// @Success      200           {object}  dto.BOMResponse
// @Failure      404           {object}  dto.ErrorResponse
// @Router       /api/bom [get]
func (h *InventoryHandler) BOM(c *fiber.Ctx) error {
	product := strings.TrimSpace(c.Query("product_name"))
	if product == "" {
		out, err := h.catalog.Products(c.UserContext(), GetActor(c))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(out)
	}
	out, err := h.catalog.ByProduct(c.UserContext(), GetActor(c), product)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
