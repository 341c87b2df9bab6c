package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/procura-api/internal/application/auth"
	"github.com/jhoicas/procura-api/internal/application/dto"
)

// AuthHandler emisión de tokens de desarrollo. La autenticación real es externa.
type AuthHandler struct {
	uc *auth.TokenUseCase
}

func NewAuthHandler(uc *auth.TokenUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// DevToken emite un JWT para un usuario existente (solo APP_ENV=development).
// @Summary      Token de desarrollo
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.DevTokenRequest  true  "Usuario"
// @Success      200   {object}  dto.TokenResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /auth/dev-token [post]
func (h *AuthHandler) DevToken(c *fiber.Ctx) error {
	var in dto.DevTokenRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Issue(c.UserContext(), in.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
