package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"clicksign-esign/internal/config"
	"clicksign-esign/internal/domain/entity"
)

type HealthHandler struct {
	config *config.Config
}

func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{config: cfg}
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	// ClicksignHost is the API host requests go to. The token is never shown.
	ClicksignHost    string `json:"clicksign_host"`
	WebhooksVerified bool   `json:"webhooks_verified"`
}

// Health godoc
// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} entity.APIResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(entity.NewSuccessResponse(HealthResponse{
		Status:           "healthy",
		Timestamp:        time.Now(),
		Version:          "1.0.0",
		ClicksignHost:    h.config.Clicksign.Host,
		WebhooksVerified: h.config.Clicksign.VerifiesWebhooks(),
	}, "Service is healthy"))
}
