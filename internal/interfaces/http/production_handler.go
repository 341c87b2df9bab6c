package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/procura-api/internal/application/dto"
	"github.com/jhoicas/procura-api/internal/application/production"
)

// ProductionHandler inicio y cierre de producción.
type ProductionHandler struct {
	uc *production.ProductionUseCase
}

func NewProductionHandler(uc *production.ProductionUseCase) *ProductionHandler {
	return &ProductionHandler{uc: uc}
}

// List producciones, filtrables por estado (IN_PRODUCTION, COMPLETED).
// @Summary      Listar producciones
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        status  query     string  false  "Estado"
// @Success      200     {array}   dto.ProductionResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/production [get]
func (h *ProductionHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetActor(c), c.Query("status"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Start inicia la producción de un pedido con todos sus materiales recibidos.
// @Summary      Iniciar producción
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del pedido"
// @Success      201  {object}  dto.ProductionResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/start-production [post]
func (h *ProductionHandler) Start(c *fiber.Ctx) error {
	out, err := h.uc.Start(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Complete registra el consumo real y genera las varianzas.
// @Summary      Completar producción
// @Tags         production
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                         true  "ID de la producción"
// @Param        body  body      dto.CompleteProductionRequest  true  "Consumo real"
// @Success      200   {object}  dto.CompleteProductionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/production/{id}/complete [post]
func (h *ProductionHandler) Complete(c *fiber.Ctx) error {
	var in dto.CompleteProductionRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Complete(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
