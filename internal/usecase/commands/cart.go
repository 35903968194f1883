package commands

import (
	"context"
	"log/slog"
)

type CartCommands interface {
	SetLine(ctx context.Context, buyerID string, productID int64, qty int) error
}

type cartCommandsImpl struct {
	cart   CartService
	logger *slog.Logger
}

func NewCartCommands(cart CartService, logger *slog.Logger) CartCommands {
	return &cartCommandsImpl{cart: cart, logger: logger}
}

// SetLine upserts one cart line upstream; qty 0 removes it.
func (c *cartCommandsImpl) SetLine(ctx context.Context, buyerID string, productID int64, qty int) error {
	return c.cart.ChangeLine(ctx, CartChange{
		BuyerID:   buyerID,
		ProductID: productID,
		Qty:       qty,
	})
}
