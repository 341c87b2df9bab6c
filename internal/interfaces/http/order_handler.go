package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/procura-api/internal/application/dto"
	"github.com/jhoicas/procura-api/internal/application/order"
	"github.com/jhoicas/procura-api/internal/application/planning"
)

// OrderHandler maneja pedidos y las operaciones de planificación (PPC).
type OrderHandler struct {
	uc           *order.OrderUseCase
	requirements *planning.RequirementsUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *order.OrderUseCase, requirements *planning.RequirementsUseCase) *OrderHandler {
	return &OrderHandler{uc: uc, requirements: requirements}
}

// Create registra un pedido de venta.
// @Summary      Crear pedido
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateOrderRequest  true  "Pedido"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List lista pedidos con filtro opcional por estado.
// @Summary      Listar pedidos
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        status  query     string  false  "Estado"
// @Param        limit   query     int     false  "Límite"
// @Param        offset  query     int     false  "Desplazamiento"
// @Success      200     {object}  dto.OrderListResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	var q dto.OrderListQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	out, err := h.uc.List(c.UserContext(), GetActor(c), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID devuelve un pedido.
// @Summary      Obtener pedido
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// MyTasks pedidos abiertos asignados al planificador autenticado.
// @Summary      Mis pedidos asignados
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.OrderResponse
// @Router       /api/orders/my-tasks [get]
func (h *OrderHandler) MyTasks(c *fiber.Ctx) error {
	out, err := h.uc.MyTasks(c.UserContext(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Assign asigna el pedido a un empleado PPC.
// @Summary      Asignar pedido
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "ID del pedido"
// @Param        body  body      dto.AssignRequest  true  "Usuario"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/assign [post]
func (h *OrderHandler) Assign(c *fiber.Ctx) error {
	var in dto.AssignRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Assign(c.UserContext(), GetActor(c), c.Params("id"), in.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Unassign libera la asignación del pedido.
// @Summary      Desasignar pedido
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/unassign [put]
func (h *OrderHandler) Unassign(c *fiber.Ctx) error {
	out, err := h.uc.Unassign(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Cancel cancela un pedido que no ha entrado a producción.
// @Summary      Cancelar pedido
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.uc.Cancel(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Lock bloquea el pedido para el cálculo (PENDING → CALCULATING).
// @Summary      Bloquear pedido
// @Tags         ppc
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.LockOrderRequest  true  "Pedido"
// @Success      200   {object}  dto.OrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ppc/lock [post]
func (h *OrderHandler) Lock(c *fiber.Ctx) error {
	var in dto.LockOrderRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Lock(c.UserContext(), GetActor(c), in.OrderID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Requirements calcula los requerimientos de material del pedido.
// @Summary      Requerimientos de material
// @Tags         ppc
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderRequirementsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ppc/orders/{id}/requirements [get]
func (h *OrderHandler) Requirements(c *fiber.Ctx) error {
	out, err := h.requirements.CalculateOrderRequirements(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RequestMaterials crea la solicitud de materiales (o solo reserva si no hay faltantes).
// @Summary      Solicitar materiales
// @Tags         ppc
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del pedido"
// @Success      200  {object}  dto.RequestMaterialsResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/ppc/orders/{id}/request-materials [post]
func (h *OrderHandler) RequestMaterials(c *fiber.Ctx) error {
	out, err := h.uc.RequestMaterials(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
