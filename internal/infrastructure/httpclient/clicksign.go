package httpclient

import (
	"net/http"

	"go.uber.org/zap"

	"clicksign-esign/internal/config"
	"clicksign-esign/pkg/clicksign"
)

// NewClicksignClient builds the Clicksign API client from configuration.
// Every exchange is passed to recorder.
func NewClicksignClient(cfg *config.Config, recorder clicksign.ExchangeRecorder, logger *zap.Logger) *clicksign.Client {
	client := clicksign.New(cfg.Clicksign.AccessToken,
		clicksign.WithHost(cfg.Clicksign.Host),
		clicksign.WithHTTPClient(&http.Client{
			Timeout: cfg.Clicksign.Timeout,
		}),
		clicksign.WithRecorder(recorder),
		clicksign.WithLogger(logger.Named("clicksign")),
	)

	logger.Info("Clicksign client initialized",
		zap.String("host", client.Host()),
		zap.Duration("timeout", cfg.Clicksign.Timeout),
		zap.Bool("has_access_token", cfg.Clicksign.AccessToken != ""),
		zap.Bool("verifies_webhooks", cfg.Clicksign.VerifiesWebhooks()),
	)

	return client
}
