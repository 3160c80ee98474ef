package middleware

import (
	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	TraceIDHeader   = "X-Trace-ID"
	TraceIDLocalKey = "traceID"
)

// TraceID reuses the caller's trace ID or starts a new one, and puts it on the
// response, in locals and in the user context for logger.TraceFromContext.
func (m *Middleware) TraceID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		traceID := c.Get(TraceIDHeader)
		if traceID == "" {
			traceID = uuid.New().String()
		}

		c.Set(TraceIDHeader, traceID)
		c.Locals(TraceIDLocalKey, traceID)

		ctx := logger.ContextWithTraceID(c.UserContext(), traceID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// RequestLog logs every API request at debug level with its trace ID.
func (m *Middleware) RequestLog() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		m.log.Function("RequestLog").
			TraceFromContext(c.UserContext()).
			Debug("Request handled",
				"method", c.Method(),
				"path", c.Path(),
				"status", c.Response().StatusCode(),
			)

		return err
	}
}

func GetTraceID(c *fiber.Ctx) string {
	if traceID, ok := c.Locals(TraceIDLocalKey).(string); ok {
		return traceID
	}
	return ""
}
