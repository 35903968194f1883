package components

import (
	"mallfront/internal/handler"
	"mallfront/internal/handler/api"
	"mallfront/internal/handler/middleware"
	"mallfront/internal/pkg/config"
	"mallfront/internal/session"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewCheckoutHandler,
		api.NewCartHandler,
		NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)

func NewAuthMiddleware(registry *session.Registry, cfg config.Config) *middleware.AuthMiddleware {
	return middleware.NewAuthMiddleware(registry, cfg.Session)
}
