package httpapi

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bilgann/The-Backdoor-Mission-Project/internal/metrics"
)

const requestIDKey = "requestid"

func recoveryMiddleware() fiber.Handler {
	return recover.New(recover.Config{EnableStackTrace: true})
}

func corsMiddleware(origins []string) fiber.Handler {
	cfg := cors.Config{
		AllowOrigins: strings.Join(origins, ", "),
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}
	if cfg.AllowOrigins == "" {
		cfg.AllowOrigins = "*"
	}
	return cors.New(cfg)
}

func requestIDMiddleware() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     fiber.HeaderXRequestID,
		Generator:  uuid.NewString,
		ContextKey: requestIDKey,
	})
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals(requestIDKey).(string)
	return id
}

// observeMiddleware logs every request and feeds the request metrics. Errors
// are rendered here so the logged status is the one sent.
func observeMiddleware(log *zap.Logger, m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if err := c.Next(); err != nil {
			if herr := c.App().Config().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		elapsed := time.Since(start)
		status := c.Response().StatusCode()
		route := c.Route().Path

		if m != nil {
			m.ObserveRequest(route, c.Method(), status, elapsed)
		}

		fields := []zap.Field{
			zap.String("request_id", requestID(c)),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("elapsed", elapsed),
		}
		switch {
		case status >= 500:
			log.Error("request", fields...)
		case status >= 400:
			log.Info("request", fields...)
		default:
			log.Debug("request", fields...)
		}
		return nil
	}
}
