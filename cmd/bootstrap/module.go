package bootstrap

import (
	"mallfront/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	UpstreamModule,
	GatewayModule,
	SessionModule,
	components.ClientModule,
	components.UseCaseModule,
	components.HandlerModule,
)
