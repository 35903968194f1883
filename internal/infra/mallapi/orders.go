package mallapi

import (
	"context"
	"log/slog"

	"mallfront/internal/dispatch"
	"mallfront/internal/domain/checkout"
	"mallfront/internal/infra"
	"mallfront/internal/usecase/commands"
)

type OrderClient struct {
	dispatcher *dispatch.Dispatcher
	logger     *slog.Logger
}

func NewOrderClient(dispatcher *dispatch.Dispatcher, logger *slog.Logger) *OrderClient {
	return &OrderClient{dispatcher: dispatcher, logger: logger}
}

type orderLinePayload struct {
	ProductID int64 `json:"productId"`
	Qty       int   `json:"qty"`
	UnitPrice int64 `json:"unitPrice"`
}

type createOrderPayload struct {
	BuyerID   string             `json:"buyerId"`
	ReceiptID string             `json:"receiptId"`
	LineItems []orderLinePayload `json:"lineItems"`
}

type orderResponsePayload struct {
	OrderID     int64              `json:"orderId"`
	TotalAmount int64              `json:"totalAmount"`
	LineItems   []orderLinePayload `json:"lineItems"`
}

func (c *OrderClient) Create(ctx context.Context, req commands.OrderRequest) (*commands.OrderView, error) {
	payload := createOrderPayload{
		BuyerID:   req.BuyerID,
		ReceiptID: req.ReceiptID,
		LineItems: make([]orderLinePayload, len(req.LineItems)),
	}
	for i, li := range req.LineItems {
		payload.LineItems[i] = orderLinePayload{
			ProductID: li.ProductID,
			Qty:       li.Quantity,
			UnitPrice: li.UnitPrice,
		}
	}

	var out orderResponsePayload
	if err := post(ctx, c.dispatcher, c.logger, pathOrders, payload, &out); err != nil {
		return nil, err
	}
	if out.OrderID == 0 {
		return nil, infra.WrapUpstreamErr(c.logger, infra.KindUpstreamFailure, "order response missing order id", nil)
	}

	view := &commands.OrderView{
		OrderID:     out.OrderID,
		TotalAmount: out.TotalAmount,
		LineItems:   make([]checkout.LineItem, len(out.LineItems)),
	}
	for i, li := range out.LineItems {
		view.LineItems[i] = checkout.LineItem{
			ProductID: li.ProductID,
			Quantity:  li.Qty,
			UnitPrice: li.UnitPrice,
		}
	}
	return view, nil
}
