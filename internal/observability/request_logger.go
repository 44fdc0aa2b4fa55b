package observability

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// DecisionLocal is the fiber.Ctx local the authorization gate stores its decision under.
const DecisionLocal = "route_decision"

// RequestLogger logs one line per request and feeds the request metrics.
func RequestLogger(logger *zap.Logger, metrics *Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		elapsed := time.Since(start)

		status := c.Response().StatusCode()
		route := c.Route().Path
		metrics.RecordRequest(route, c.Method(), status, elapsed)

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("duration", elapsed),
		}
		if decision, ok := c.Locals(DecisionLocal).(string); ok {
			fields = append(fields, zap.String("decision", decision))
		}
		logger.Info("request", fields...)
		return err
	}
}
