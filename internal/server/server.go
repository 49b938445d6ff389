package server

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"clicksign-esign/internal/config"
	"clicksign-esign/internal/delivery/http/router"
)

// NewServer registers the HTTP listener on the fx lifecycle.
func NewServer(
	lc fx.Lifecycle,
	cfg *config.Config,
	r *router.Router,
	logger *zap.Logger,
) error {
	app := r.Setup()
	addr := fmt.Sprintf(":%d", cfg.App.Port)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Starting HTTP server",
				zap.String("address", addr),
				zap.String("env", cfg.App.Env),
				zap.String("clicksign_host", cfg.Clicksign.Host),
				zap.Bool("verifies_webhooks", cfg.Clicksign.VerifiesWebhooks()),
			)

			go func() {
				if err := app.Listen(addr); err != nil {
					logger.Error("Failed to start server", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Shutting down HTTP server")
			return app.ShutdownWithContext(ctx)
		},
	})

	return nil
}
