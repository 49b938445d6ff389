package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"clicksign-esign/internal/config"
	"clicksign-esign/internal/delivery/http/handler"
)

type Router struct {
	app              *fiber.App
	config           *config.Config
	signatureHandler *handler.SignatureHandler
	healthHandler    *handler.HealthHandler
	webhookHandler   *handler.WebhookHandler
	logHandler       *handler.LogHandler
}

func NewRouter(
	cfg *config.Config,
	signatureHandler *handler.SignatureHandler,
	healthHandler *handler.HealthHandler,
	webhookHandler *handler.WebhookHandler,
	logHandler *handler.LogHandler,
) *Router {
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: customErrorHandler,
	})

	return &Router{
		app:              app,
		config:           cfg,
		signatureHandler: signatureHandler,
		healthHandler:    healthHandler,
		webhookHandler:   webhookHandler,
		logHandler:       logHandler,
	}
}

func (r *Router) Setup() *fiber.App {
	// Middleware
	r.app.Use(recover.New())
	r.app.Use(requestid.New())
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	if r.config.IsDevelopment() {
		r.app.Use(logger.New(logger.Config{
			Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
		}))
	}

	// Health check route
	r.app.Get("/health", r.healthHandler.Health)

	// Webhook routes (at root level for external callbacks)
	r.app.Post("/webhook/clicksign", r.webhookHandler.ClicksignCallback)

	// API v1 routes
	api := r.app.Group("/api/v1")
	{
		// Clicksign pass-through routes
		api.Post("/templates/:template_id/documents", r.signatureHandler.CreateDocument)
		api.Post("/signers", r.signatureHandler.CreateSigner)
		api.Post("/lists", r.signatureHandler.AddSignerToDocument)
		api.Post("/notifications", r.signatureHandler.SendNotification)

		// Orchestrated flow
		requests := api.Group("/signature-requests")
		{
			requests.Post("", r.signatureHandler.RequestSignature)
			requests.Get("/:document_key", r.signatureHandler.GetSignatureRequest)
		}

		// Log routes
		logs := api.Group("/logs")
		{
			logs.Get("", r.logHandler.GetLogs)
			logs.Get("/search", r.logHandler.SearchLogs)
		}
	}

	return r.app
}

func (r *Router) GetApp() *fiber.App {
	return r.app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": err.Error(),
		"error": fiber.Map{
			"code":    code,
			"message": err.Error(),
		},
	})
}
