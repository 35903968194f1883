package bootstrap

import (
	"log/slog"
	"net/http"

	"mallfront/internal/gateway"
	"mallfront/internal/infra/bootpay"
	"mallfront/internal/pkg/config"
	"mallfront/internal/usecase/commands"

	"go.uber.org/fx"
)

var GatewayModule = fx.Module("gateway",
	fx.Provide(
		fx.Annotate(
			NewSDKLoader,
			fx.As(new(gateway.Loader)),
		),
		NewGatewayAdapter,
		fx.Annotate(
			func(a *gateway.Adapter) *gateway.Adapter { return a },
			fx.As(new(commands.PaymentGateway)),
		),
	),
)

func NewSDKLoader(client *http.Client, cfg config.Config, logger *slog.Logger) *bootpay.SDKLoader {
	return bootpay.NewSDKLoader(client, cfg.Gateway, logger)
}

func NewGatewayAdapter(loader gateway.Loader, cfg config.Config, logger *slog.Logger) *gateway.Adapter {
	return gateway.NewAdapter(loader, cfg.Gateway, logger)
}
