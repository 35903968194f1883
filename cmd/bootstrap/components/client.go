package components

import (
	"mallfront/internal/infra/mallapi"
	"mallfront/internal/usecase/commands"
	"mallfront/internal/usecase/queries"

	"go.uber.org/fx"
)

// Clients onto the mall API, bound to the usecase ports they serve.
var ClientModule = fx.Module("client",
	fx.Provide(
		fx.Annotate(
			mallapi.NewOrderClient,
			fx.As(new(commands.OrderService)),
		),
		fx.Annotate(
			mallapi.NewCollectionClient,
			fx.As(new(commands.CollectionService)),
		),
		mallapi.NewCartClient,
		fx.Annotate(
			func(c *mallapi.CartClient) *mallapi.CartClient { return c },
			fx.As(new(commands.CartService)),
		),
		fx.Annotate(
			func(c *mallapi.CartClient) *mallapi.CartClient { return c },
			fx.As(new(queries.CartReadStore)),
		),
	),
)
