package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/procura-api/internal/application/dto"
	"github.com/jhoicas/procura-api/internal/domain"
)

// writeError traduce un error de dominio a la respuesta HTTP:
// NotFound 404, Unauthorized 403, Conflict/Duplicate 409, InvalidInput 400, resto 500.
func writeError(c *fiber.Ctx, err error) error {
	kind := domain.KindOf(err)
	status := fiber.StatusInternalServerError
	switch kind {
	case domain.KindNotFound:
		status = fiber.StatusNotFound
	case domain.KindUnauthorized:
		status = fiber.StatusForbidden
	case domain.KindConflict:
		status = fiber.StatusConflict
	case domain.KindValidation:
		status = fiber.StatusBadRequest
	}
	if status == fiber.StatusInternalServerError {
		return c.Status(status).JSON(dto.ErrorResponse{Code: string(domain.KindInternal), Message: "error interno"})
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: string(kind), Message: err.Error()})
}

func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: msg})
}
