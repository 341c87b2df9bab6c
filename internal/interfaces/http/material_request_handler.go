package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/procura-api/internal/application/dto"
	"github.com/jhoicas/procura-api/internal/application/procurement"
)

// MaterialRequestHandler solicitudes de materiales (verificación y aprobación).
type MaterialRequestHandler struct {
	uc *procurement.MaterialRequestUseCase
}

// NewMaterialRequestHandler construye el handler.
func NewMaterialRequestHandler(uc *procurement.MaterialRequestUseCase) *MaterialRequestHandler {
	return &MaterialRequestHandler{uc: uc}
}

// List lista solicitudes con el faltante recalculado contra el stock actual.
// @Summary      Listar solicitudes de materiales
// @Tags         material-requests
// @Security     Bearer
// @Produce      json
// @Param        status  query     string  false  "Estado"
// @Param        limit   query     int     false  "Límite"
// @Param        offset  query     int     false  "Desplazamiento"
// @Success      200     {object}  dto.MaterialRequestListResponse
// @Router       /api/material-requests [get]
func (h *MaterialRequestHandler) List(c *fiber.Ctx) error {
	var q dto.MaterialRequestListQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	out, err := h.uc.List(c.UserContext(), GetActor(c), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID devuelve una solicitud.
// @Summary      Obtener solicitud
// @Tags         material-requests
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la solicitud"
// @Success      200  {object}  dto.MaterialRequestResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/material-requests/{id} [get]
func (h *MaterialRequestHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// MyTasks solicitudes asignadas al empleado autenticado, con disponible neto por ítem.
// @Summary      Mis verificaciones
// @Tags         material-requests
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.MaterialRequestResponse
// @Router       /api/material-requests/my-tasks [get]
func (h *MaterialRequestHandler) MyTasks(c *fiber.Ctx) error {
	out, err := h.uc.MyTasks(c.UserContext(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateReplenishment crea una solicitud de reposición sin pedido asociado.
// @Summary      Solicitud de reposición
// @Tags         material-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateReplenishmentRequest  true  "Ítems"
// @Success      201   {object}  dto.MaterialRequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/material-requests [post]
func (h *MaterialRequestHandler) CreateReplenishment(c *fiber.Ctx) error {
	var in dto.CreateReplenishmentRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.CreateReplenishment(c.UserContext(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Assign asigna la verificación física.
// @Summary      Asignar solicitud
// @Tags         material-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "ID de la solicitud"
// @Param        body  body      dto.AssignRequest  true  "Usuario"
// @Success      200   {object}  dto.MaterialRequestResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/material-requests/{id}/assign [post]
func (h *MaterialRequestHandler) Assign(c *fiber.Ctx) error {
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

// Unassign libera la asignación.
// @Summary      Desasignar solicitud
// @Tags         material-requests
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la solicitud"
// @Success      200  {object}  dto.MaterialRequestResponse
// @Router       /api/material-requests/{id}/unassign [put]
func (h *MaterialRequestHandler) Unassign(c *fiber.Ctx) error {
	out, err := h.uc.Unassign(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Verify registra los conteos físicos.
// @Summary      Verificar solicitud
// @Tags         material-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "ID de la solicitud"
// @Param        body  body      dto.VerifyRequest  true  "Conteos"
// @Success      200   {object}  dto.MaterialRequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/material-requests/{id}/verify [post]
func (h *MaterialRequestHandler) Verify(c *fiber.Ctx) error {
	var in dto.VerifyRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Verify(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Approve aprueba una solicitud verificada.
// @Summary      Aprobar solicitud
// @Tags         material-requests
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la solicitud"
// @Success      200  {object}  dto.MaterialRequestResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/material-requests/{id}/approve [post]
func (h *MaterialRequestHandler) Approve(c *fiber.Ctx) error {
	out, err := h.uc.Approve(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
