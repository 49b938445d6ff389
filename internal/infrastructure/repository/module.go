package repository

import (
	"go.uber.org/fx"

	"clicksign-esign/pkg/clicksign"
)

var Module = fx.Module("repository",
	fx.Provide(NewSignatureRequestRepository),
	fx.Provide(NewAPILogRepository),
	fx.Provide(
		fx.Annotate(
			NewExchangeRecorder,
			fx.As(new(clicksign.ExchangeRecorder)),
		),
	),
)
