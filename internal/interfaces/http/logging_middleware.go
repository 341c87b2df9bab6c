package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/procura-api/pkg/logger"
)

// RequestObserver recibe una observación por petición (lo implementa infrastructure/metrics).
type RequestObserver interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// RequestLogger registra método, ruta, estado, latencia y usuario de cada petición.
// Si obs no es nil también publica la métrica.
func RequestLogger(log *logger.Logger, obs RequestObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		chainErr := c.Next()
		if chainErr != nil {
			// Deja que el ErrorHandler escriba la respuesta antes de leer el status.
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		elapsed := time.Since(start)
		status := c.Response().StatusCode()
		route := c.Route().Path

		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error().Err(chainErr)
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Str("route", route).
			Int("status", status).
			Dur("latency", elapsed).
			Str("user_id", GetUserID(c)).
			Msg("http")

		if obs != nil {
			obs.ObserveRequest(c.Method(), route, status, elapsed)
		}
		return nil
	}
}
