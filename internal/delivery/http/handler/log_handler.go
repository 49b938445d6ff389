package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"clicksign-esign/internal/domain/entity"
	"clicksign-esign/internal/domain/repository"
)

type LogHandler struct {
	logRepo repository.APILogRepository
	logger  *zap.Logger
}

func NewLogHandler(logRepo repository.APILogRepository, logger *zap.Logger) *LogHandler {
	return &LogHandler{logRepo: logRepo, logger: logger}
}

// GetLogs returns the most recent Clicksign exchanges
func (h *LogHandler) GetLogs(c *fiber.Ctx) error {
	logs, err := h.logRepo.FindRecent(c.UserContext(), c.QueryInt("limit", 50))
	if err != nil {
		h.logger.Error("Failed to load api logs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(
			entity.NewErrorResponse("INTERNAL_ERROR", err.Error()),
		)
	}

	return c.JSON(entity.NewSuccessResponse(logs, "Logs retrieved successfully"))
}

// SearchLogs matches q against endpoints and bodies, e.g. a document key
func (h *LogHandler) SearchLogs(c *fiber.Ctx) error {
	q := c.Query("q")
	if q == "" {
		return c.Status(fiber.StatusBadRequest).JSON(
			entity.NewErrorResponse("BAD_REQUEST", "q parameter required"),
		)
	}

	logs, err := h.logRepo.Search(c.UserContext(), q, c.QueryInt("limit", 50))
	if err != nil {
		h.logger.Error("Failed to search api logs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(
			entity.NewErrorResponse("INTERNAL_ERROR", err.Error()),
		)
	}

	return c.JSON(entity.NewSuccessResponse(logs, "Logs retrieved successfully"))
}
