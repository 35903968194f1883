package bootstrap

import (
	"mallfront/internal/session"

	"go.uber.org/fx"
)

var SessionModule = fx.Module("session",
	fx.Provide(
		session.NewRegistry,
	),
)
