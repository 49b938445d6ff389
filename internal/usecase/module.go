package usecase

import (
	"go.uber.org/fx"

	"clicksign-esign/pkg/clicksign"
)

var Module = fx.Module("usecase",
	fx.Provide(func(c *clicksign.Client) ClicksignAPI { return c }),
	fx.Provide(NewSignatureUsecase),
	fx.Provide(NewWebhookUsecase),
)
