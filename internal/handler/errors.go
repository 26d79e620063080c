package handler

import (
	"errors"

	"github.com/dkl25/admin-api/internal/service"
	"github.com/dkl25/admin-api/pkg/models"
	"github.com/dkl25/admin-api/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var errorStatus = []struct {
	err    error
	status int
}{
	{utils.ErrNotFound, fiber.StatusNotFound},
	{utils.ErrInvalidInput, fiber.StatusBadRequest},
	{utils.ErrVersionConflict, fiber.StatusConflict},
	{utils.ErrNotEditable, fiber.StatusConflict},
	{utils.ErrInvalidTransition, fiber.StatusUnprocessableEntity},
	{utils.ErrForbidden, fiber.StatusForbidden},
	{utils.ErrUnsupportedMedia, fiber.StatusUnsupportedMediaType},
	{service.ErrMediaNotConfigured, fiber.StatusServiceUnavailable},
}

// respondError maps service errors to a status code and the JSON envelope.
// Unknown errors are logged and hidden from the caller.
func respondError(c *fiber.Ctx, log *zap.Logger, err error) error {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			return c.Status(e.status).JSON(models.ErrorResponse(err.Error()))
		}
	}

	log.Error("request failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse("Internal server error"))
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(msg))
}
