package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"clicksign-esign/internal/domain/entity"
	"clicksign-esign/internal/domain/repository"
	"clicksign-esign/internal/usecase"
	"clicksign-esign/pkg/clicksign"
)

// statusForError maps use case and Clicksign failures to an HTTP status and
// an error code for the response envelope.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return fiber.StatusBadRequest, "BAD_REQUEST"
	case errors.Is(err, repository.ErrNotTracked):
		return fiber.StatusNotFound, "NOT_FOUND"
	}

	switch clicksign.KindOf(err) {
	case clicksign.KindMalformedInput, clicksign.KindBadRequest:
		return fiber.StatusBadRequest, "BAD_REQUEST"
	case clicksign.KindServiceUnavailable:
		return fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"
	case clicksign.KindUnknown:
		return fiber.StatusInternalServerError, "INTERNAL_ERROR"
	default:
		return fiber.StatusBadGateway, "UPSTREAM_ERROR"
	}
}

func respondError(c *fiber.Ctx, logger *zap.Logger, msg string, err error) error {
	status, code := statusForError(err)

	kind := clicksign.KindOf(err)
	logger.Error(msg,
		zap.Int("status", status),
		zap.Stringer("kind", kind),
		zap.Error(err),
	)

	if kind == clicksign.KindUnknown {
		return c.Status(status).JSON(entity.NewErrorResponse(code, err.Error()))
	}
	return c.Status(status).JSON(entity.NewUpstreamErrorResponse(code, kind.String(), err.Error()))
}
