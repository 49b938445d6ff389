package main

import (
	"go.uber.org/fx"

	"clicksign-esign/internal/config"
	deliveryhttp "clicksign-esign/internal/delivery/http"
	"clicksign-esign/internal/infrastructure/database"
	"clicksign-esign/internal/infrastructure/httpclient"
	"clicksign-esign/internal/infrastructure/logger"
	"clicksign-esign/internal/infrastructure/redis"
	"clicksign-esign/internal/infrastructure/repository"
	"clicksign-esign/internal/server"
	"clicksign-esign/internal/usecase"
)

func main() {
	fx.New(
		// Configuration
		config.Module,

		// Infrastructure
		logger.Module,
		database.Module,
		redis.Module,
		repository.Module,
		httpclient.Module,

		// Business Logic
		usecase.Module,

		// Delivery
		deliveryhttp.Module,

		// Server
		server.Module,
	).Run()
}
