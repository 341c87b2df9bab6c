package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/procura-api/internal/application/usecase"
)

// TeamHandler vistas de carga de trabajo por equipo.
type TeamHandler struct {
	uc *usecase.TeamUseCase
}

func NewTeamHandler(uc *usecase.TeamUseCase) *TeamHandler {
	return &TeamHandler{uc: uc}
}

// PPC empleados de planeación con sus pedidos abiertos.
// @Summary      Equipo PPC
// @Tags         team
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.TeamMemberDTO
// @Router       /api/team/ppc [get]
func (h *TeamHandler) PPC(c *fiber.Ctx) error {
	out, err := h.uc.PPCTeam(c.UserContext(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Materials empleados de materiales con sus verificaciones pendientes.
// @Summary      Equipo de materiales
// @Tags         team
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.TeamMemberDTO
// @Router       /api/team/materials [get]
func (h *TeamHandler) Materials(c *fiber.Ctx) error {
	out, err := h.uc.MaterialsTeam(c.UserContext(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
