package commands

import (
	"context"
	"log/slog"

	"mallfront/internal/domain/checkout"
	"mallfront/internal/gateway"
	"mallfront/internal/pkg/errs"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var ErrGatewayInterrupted = errs.New("payment gateway interrupted")

var purchaseOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "mallfront_purchase_outcomes_total",
	Help: "Terminal purchase saga outcomes by status.",
}, []string{"status"})

const reasonCancelled = "cancelled"

type PurchaseCommands interface {
	Purchase(ctx context.Context, intent *checkout.PurchaseIntent) (*checkout.SagaRecord, error)
}

type purchaseCommandsImpl struct {
	gateway    PaymentGateway
	orders     OrderService
	collection CollectionService
	cart       CartService
	logger     *slog.Logger
}

func NewPurchaseCommands(
	gw PaymentGateway,
	orders OrderService,
	collection CollectionService,
	cart CartService,
	logger *slog.Logger,
) PurchaseCommands {
	return &purchaseCommandsImpl{
		gateway:    gw,
		orders:     orders,
		collection: collection,
		cart:       cart,
		logger:     logger,
	}
}

// Purchase drives one confirmed payment through its dependent steps:
// gateway confirmation, order persistence, collection grant, cart cleanup —
// strictly in that order, never in parallel. There is no rollback: once the
// gateway confirms, every failure is forward-reported on the record instead
// of reverting anything, and a successful payment is never presented as a
// payment failure.
func (p *purchaseCommandsImpl) Purchase(ctx context.Context, intent *checkout.PurchaseIntent) (*checkout.SagaRecord, error) {
	rec := checkout.NewSagaRecord(intent)

	res, err := p.gateway.OpenPayment(ctx, intent)
	if err != nil {
		return nil, errs.Mark(err, ErrGatewayInterrupted)
	}

	switch res.Outcome {
	case gateway.OutcomeCancelled:
		rec.Fail(reasonCancelled)
		p.finish(rec)
		return rec, nil
	case gateway.OutcomeDeclined:
		rec.Fail(res.Reason)
		p.finish(rec)
		return rec, nil
	case gateway.OutcomeConfirmed:
		// fall through
	}

	rec.Confirm(res.Receipt)

	order, err := p.orders.Create(ctx, OrderRequest{
		BuyerID:   intent.BuyerID(),
		ReceiptID: res.Receipt.ReceiptID,
		LineItems: intent.LineItems(),
	})
	if err != nil {
		// Money has moved but the order write failed. The chain halts here —
		// collection and cart reference the persisted item set — and the
		// receipt id is surfaced for manual reconciliation.
		rec.FailStep(checkout.StepOrder)
		p.logger.Error("order persistence failed after confirmed payment",
			"buyer_id", intent.BuyerID(),
			"receipt_id", res.Receipt.ReceiptID,
			"error", err.Error(),
		)
		p.finish(rec)
		return rec, nil
	}
	rec.OrderID = &order.OrderID

	rec.CollectionGranted = p.grantCollection(ctx, order)
	rec.CartCleared = p.clearCart(ctx, intent.BuyerID(), order)

	rec.Complete()
	p.finish(rec)
	return rec, nil
}

// grantCollection adds each purchased item to the member's collection. The
// order response's item set is authoritative, not the cart selection.
// Failures are non-fatal; entitlements are reconciled out of band.
func (p *purchaseCommandsImpl) grantCollection(ctx context.Context, order *OrderView) bool {
	granted := true
	for _, li := range order.LineItems {
		err := p.collection.Add(ctx, CollectionItem{
			ProductID: li.ProductID,
			SourceTag: "purchase",
		})
		if err != nil {
			granted = false
			p.logger.Warn("collection grant failed",
				"order_id", order.OrderID,
				"product_id", li.ProductID,
				"error", err.Error(),
			)
		}
	}
	return granted
}

// clearCart deletes the purchased lines (qty 0). A stale line is a UX
// nuisance, not a correctness issue, so failures never block completion.
func (p *purchaseCommandsImpl) clearCart(ctx context.Context, buyerID string, order *OrderView) bool {
	cleared := true
	for _, li := range order.LineItems {
		err := p.cart.ChangeLine(ctx, CartChange{
			BuyerID:   buyerID,
			ProductID: li.ProductID,
			Qty:       0,
		})
		if err != nil {
			cleared = false
			p.logger.Warn("cart line removal failed",
				"order_id", order.OrderID,
				"product_id", li.ProductID,
				"error", err.Error(),
			)
		}
	}
	return cleared
}

func (p *purchaseCommandsImpl) finish(rec *checkout.SagaRecord) {
	purchaseOutcomes.WithLabelValues(string(rec.Status)).Inc()
}
