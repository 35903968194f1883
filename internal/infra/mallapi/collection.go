package mallapi

import (
	"context"
	"log/slog"

	"mallfront/internal/dispatch"
	"mallfront/internal/usecase/commands"
)

type CollectionClient struct {
	dispatcher *dispatch.Dispatcher
	logger     *slog.Logger
}

func NewCollectionClient(dispatcher *dispatch.Dispatcher, logger *slog.Logger) *CollectionClient {
	return &CollectionClient{dispatcher: dispatcher, logger: logger}
}

type addCollectionPayload struct {
	ProductID int64  `json:"productId"`
	SourceTag string `json:"sourceTag"`
}

// Add grants one entitlement. Fire-and-forget from the saga's point of view:
// the caller logs failures and moves on.
func (c *CollectionClient) Add(ctx context.Context, item commands.CollectionItem) error {
	payload := addCollectionPayload{
		ProductID: item.ProductID,
		SourceTag: item.SourceTag,
	}
	return post(ctx, c.dispatcher, c.logger, pathCollection, payload, nil)
}
