package queries

import (
	"context"
	"log/slog"
)

// CartLine is one line of the member's cart as the mall API reports it.
type CartLine struct {
	ProductID   int64  `json:"productId"`
	ProductName string `json:"productName"`
	Qty         int    `json:"qty"`
	UnitPrice   int64  `json:"unitPrice"`
	SalePrice   *int64 `json:"salePrice,omitempty"`
	ImageFile   string `json:"imageFile,omitempty"`
}

// EffectivePrice is the sale price when present, the unit price otherwise —
// the same amount the checkout page charges for the line.
func (l CartLine) EffectivePrice() int64 {
	if l.SalePrice != nil {
		return *l.SalePrice
	}
	return l.UnitPrice
}

type CartReadStore interface {
	Lines(ctx context.Context) ([]CartLine, error)
}

type CartView struct {
	Lines    []CartLine
	Subtotal int64
}

type CartQueries interface {
	GetCart(ctx context.Context) (*CartView, error)
}

type cartQueriesImpl struct {
	readStore CartReadStore
	logger    *slog.Logger
}

func NewCartQueries(readStore CartReadStore, logger *slog.Logger) CartQueries {
	return &cartQueriesImpl{readStore: readStore, logger: logger}
}

func (q *cartQueriesImpl) GetCart(ctx context.Context) (*CartView, error) {
	lines, err := q.readStore.Lines(ctx)
	if err != nil {
		return nil, err
	}

	view := &CartView{Lines: lines}
	for _, l := range lines {
		view.Subtotal += l.EffectivePrice() * int64(l.Qty)
	}
	return view, nil
}
