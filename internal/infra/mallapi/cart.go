package mallapi

import (
	"context"
	"log/slog"

	"mallfront/internal/dispatch"
	"mallfront/internal/usecase/commands"
	"mallfront/internal/usecase/queries"
)

type CartClient struct {
	dispatcher *dispatch.Dispatcher
	logger     *slog.Logger
}

func NewCartClient(dispatcher *dispatch.Dispatcher, logger *slog.Logger) *CartClient {
	return &CartClient{dispatcher: dispatcher, logger: logger}
}

type changeCartPayload struct {
	BuyerID   string `json:"buyerId"`
	ProductID int64  `json:"productId"`
	Qty       int    `json:"qty"`
}

// ChangeLine sets a line's quantity; qty 0 encodes deletion.
func (c *CartClient) ChangeLine(ctx context.Context, change commands.CartChange) error {
	payload := changeCartPayload{
		BuyerID:   change.BuyerID,
		ProductID: change.ProductID,
		Qty:       change.Qty,
	}
	return post(ctx, c.dispatcher, c.logger, pathCartLines, payload, nil)
}

func (c *CartClient) Lines(ctx context.Context) ([]queries.CartLine, error) {
	var out []queries.CartLine
	if err := get(ctx, c.dispatcher, c.logger, pathCart, &out); err != nil {
		return nil, err
	}
	return out, nil
}
