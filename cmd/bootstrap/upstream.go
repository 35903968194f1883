package bootstrap

import (
	"log/slog"
	"net/http"

	"mallfront/internal/dispatch"
	"mallfront/internal/infra/mallapi"
	"mallfront/internal/pkg/config"
	"mallfront/internal/session"
	"mallfront/internal/usecase/commands"

	"go.uber.org/fx"
)

var UpstreamModule = fx.Module("upstream",
	fx.Provide(
		NewUpstreamHTTPClient,
		NewDispatcher,
		NewMemberClient,
		fx.Annotate(
			func(c *mallapi.MemberClient) *mallapi.MemberClient { return c },
			fx.As(new(commands.MemberService)),
		),
		fx.Annotate(
			func(c *mallapi.MemberClient) *mallapi.MemberClient { return c },
			fx.As(new(session.Refresher)),
		),
	),
)

func NewUpstreamHTTPClient(cfg config.Config) *http.Client {
	return &http.Client{
		Timeout: cfg.Upstream.RequestTimeout,
	}
}

func NewDispatcher(client *http.Client, cfg config.Config, logger *slog.Logger) *dispatch.Dispatcher {
	return dispatch.NewDispatcher(client, cfg.Upstream.BaseURL, logger)
}

func NewMemberClient(client *http.Client, cfg config.Config, logger *slog.Logger) *mallapi.MemberClient {
	return mallapi.NewMemberClient(client, cfg.Upstream.BaseURL, logger)
}
