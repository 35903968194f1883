// Package gateway normalizes the vendor payment SDK into a single result
// shape. The SDK ships in several revisions that expose their entry point
// under different names and calling conventions; all of that variance stays
// inside this package.
package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"mallfront/internal/domain/checkout"
	"mallfront/internal/pkg/config"

	"github.com/google/uuid"
)

const (
	ReasonUnavailable = "gateway_unavailable"
	ReasonRequest     = "gateway_request_failed"
)

type Outcome int

const (
	OutcomeDeclined Outcome = iota
	OutcomeCancelled
	OutcomeConfirmed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDeclined:
		return "declined"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeConfirmed:
		return "confirmed"
	}
	return "unknown"
}

// Result is the one terminal outcome of an OpenPayment call. Receipt is set
// only when Outcome is OutcomeConfirmed.
type Result struct {
	Outcome Outcome
	Receipt checkout.GatewayReceipt
	Reason  string
}

// PaymentRequest is what the vendor SDK receives, whatever its revision.
type PaymentRequest struct {
	ApplicationID string
	OrderID       string
	OrderName     string
	Amount        int64
	BuyerID       string
	SellerName    string
}

// Callbacks receives the SDK's terminal signals. "error", "cancel", "confirm"
// and "done" are the only four; a widget may legally fire both Confirm and
// Done for one payment.
type Callbacks struct {
	Error   func(reason string)
	Cancel  func()
	Confirm func(receiptID string, amount int64) bool
	Done    func(receiptID string, amount int64)
}

// Loader produces the vendor SDK handle. Loading happens at most once per
// process; implementations may hit the network.
type Loader interface {
	Load(ctx context.Context) (any, error)
}

// Adapter turns one OpenPayment call into exactly one Result.
type Adapter struct {
	loader Loader
	cfg    config.GatewayConfig
	logger *slog.Logger

	loadOnce sync.Once
	widget   widget
	loadErr  error
}

func NewAdapter(loader Loader, cfg config.GatewayConfig, logger *slog.Logger) *Adapter {
	return &Adapter{
		loader: loader,
		cfg:    cfg,
		logger: logger,
	}
}

// OpenPayment opens the payment widget for the intent and blocks until the
// widget reports a terminal signal or ctx is cancelled. There is no internal
// timeout; the widget's own UI owns user-facing cancellation. A widget that
// fires both confirm and done yields a single Confirmed.
func (a *Adapter) OpenPayment(ctx context.Context, intent *checkout.PurchaseIntent) (Result, error) {
	a.loadOnce.Do(func() {
		handle, err := a.loader.Load(ctx)
		if err != nil {
			a.loadErr = err
			return
		}
		a.widget, a.loadErr = probe(handle)
	})
	if a.loadErr != nil {
		a.logger.Error("payment SDK unavailable", "error", a.loadErr.Error())
		return Result{Outcome: OutcomeDeclined, Reason: ReasonUnavailable}, nil
	}

	req := PaymentRequest{
		ApplicationID: a.cfg.ApplicationID,
		OrderID:       "order_" + uuid.NewString(),
		OrderName:     fmt.Sprintf("주문상품 %d건", len(intent.LineItems())),
		Amount:        intent.TotalAmount(),
		BuyerID:       intent.BuyerID(),
		SellerName:    a.cfg.SellerName,
	}

	resultCh := make(chan Result, 1)
	var once sync.Once
	deliver := func(r Result) {
		once.Do(func() { resultCh <- r })
	}

	cb := Callbacks{
		Error: func(reason string) {
			deliver(Result{Outcome: OutcomeDeclined, Reason: reason})
		},
		Cancel: func() {
			deliver(Result{Outcome: OutcomeCancelled})
		},
		Confirm: func(receiptID string, amount int64) bool {
			deliver(Result{
				Outcome: OutcomeConfirmed,
				Receipt: checkout.GatewayReceipt{ReceiptID: receiptID, AmountConfirmed: amount},
			})
			return true // approve the payment
		},
		Done: func(receiptID string, amount int64) {
			// Older widgets fire done instead of (or after) confirm; the once
			// above makes the second signal a no-op.
			deliver(Result{
				Outcome: OutcomeConfirmed,
				Receipt: checkout.GatewayReceipt{ReceiptID: receiptID, AmountConfirmed: amount},
			})
		},
	}

	if err := a.widget.Open(ctx, req, cb); err != nil {
		a.logger.Error("payment request failed", "order_id", req.OrderID, "error", err.Error())
		return Result{Outcome: OutcomeDeclined, Reason: ReasonRequest}, nil
	}

	select {
	case r := <-resultCh:
		return r, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}
