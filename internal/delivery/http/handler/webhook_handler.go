package handler

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"clicksign-esign/internal/domain/entity"
	"clicksign-esign/internal/infrastructure/httpclient"
	"clicksign-esign/internal/usecase"
)

type WebhookHandler struct {
	usecase usecase.WebhookUsecase
	// signature is nil when webhooks are accepted unsigned.
	signature *httpclient.HMACSignature
	logger    *zap.Logger
}

func NewWebhookHandler(usecase usecase.WebhookUsecase, signature *httpclient.HMACSignature, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		usecase:   usecase,
		signature: signature,
		logger:    logger,
	}
}

// ClicksignCallback godoc
// @Summary Clicksign webhook callback
// @Description Receives webhook callbacks from Clicksign when a document changes
// @Tags webhook
// @Accept json
// @Produce json
// @Param payload body entity.WebhookPayload true "Webhook payload"
// @Success 200 {object} entity.APIResponse
// @Failure 400 {object} entity.APIResponse
// @Failure 401 {object} entity.APIResponse
// @Failure 404 {object} entity.APIResponse
// @Router /webhook/clicksign [post]
func (h *WebhookHandler) ClicksignCallback(c *fiber.Ctx) error {
	ctx := c.UserContext()
	body := c.Body()

	if h.signature != nil {
		if err := h.signature.Verify(body, c.Get(httpclient.WebhookSignatureHeader)); err != nil {
			h.logger.Warn("Rejected webhook callback", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(
				entity.NewErrorResponse("UNAUTHORIZED", err.Error()),
			)
		}
	}

	var payload entity.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		h.logger.Error("Failed to parse webhook payload", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(
			entity.NewErrorResponse("BAD_REQUEST", "Invalid webhook payload"),
		)
	}

	record, err := h.usecase.ProcessWebhook(ctx, &payload)
	if err != nil {
		return respondError(c, h.logger, "Failed to process webhook", err)
	}

	return c.JSON(entity.NewSuccessResponse(map[string]interface{}{
		"document_key": record.DocumentKey,
		"event":        payload.Event.Name,
		"status":       record.Status,
		"processed":    true,
	}, "Webhook processed successfully"))
}
