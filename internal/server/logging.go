package server

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/deadlock-api/assets-api/internal/edge"
	"github.com/deadlock-api/assets-api/internal/logging"
)

var timeNow = time.Now

func logRequest(logger *logrus.Logger, c fiber.Ctx, started time.Time) {
	status := c.Response().StatusCode()
	fields := logging.RequestFields(RequestID(c), c.Path(), Version(c), Language(c))
	fields["action"] = "request"
	fields["method"] = c.Method()
	fields["status"] = status
	fields["latency_ms"] = time.Since(started).Milliseconds()
	fields["edge_hit"] = edge.IsHit(c)

	entry := logger.WithFields(fields)
	switch {
	case status >= fiber.StatusInternalServerError:
		entry.Warn("request")
	default:
		entry.Info("request")
	}
}
