package server

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/deadlock-api/assets-api/internal/content"
	"github.com/deadlock-api/assets-api/internal/logging"
)

const internalErrorMessage = "internal server error"

// errorHandler 统一输出 {"message": ...}：NotFound → 404，Corrupted → 500，
// *fiber.Error 沿用其状态码，其余错误（例如源站超时）按 500 处理且不暴露细节。
func errorHandler(logger *logrus.Logger) fiber.ErrorHandler {
	return func(c fiber.Ctx, err error) error {
		status, message := classify(err)
		if status >= fiber.StatusInternalServerError {
			fields := logging.RequestFields(RequestID(c), c.Path(), Version(c), Language(c))
			fields["action"] = "request_failed"
			fields["status"] = status
			logger.WithError(err).WithFields(fields).Error("request_failed")
		}
		return c.Status(status).JSON(fiber.Map{"message": message})
	}
}

func classify(err error) (int, string) {
	var contentErr *content.Error
	if errors.As(err, &contentErr) {
		switch contentErr.Kind {
		case content.KindNotFound:
			return fiber.StatusNotFound, contentErr.Message
		case content.KindInternal:
			return fiber.StatusInternalServerError, contentErr.Message
		}
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, fiberErr.Message
	}

	return fiber.StatusInternalServerError, internalErrorMessage
}
