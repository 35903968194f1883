package gateway

import (
	"context"

	"mallfront/internal/pkg/errs"
)

var ErrNoEntryPoint = errs.New("payment SDK exposes no known entry point")

// widget is the normalized entry point every probed SDK shape is adapted to.
type widget interface {
	Open(ctx context.Context, req PaymentRequest, cb Callbacks) error
}

// The vendor has shipped its entry point under three shapes over the years.
// Probing is duck-typed: the first assertion that holds wins, newest first.
type requestPayer interface {
	RequestPayment(ctx context.Context, req PaymentRequest, cb Callbacks) error
}

type legacyRequester interface {
	Request(ctx context.Context, req PaymentRequest, cb Callbacks) error
}

// chainRequester is the oldest shape: it returns a handle that the caller
// attaches the four signal handlers to, mirroring the widget's
// .error().cancel().confirm().done() chaining.
type chainRequester interface {
	Request(ctx context.Context, req PaymentRequest) (SignalChain, error)
}

// SignalChain registers terminal-signal handlers on a running payment.
type SignalChain interface {
	OnError(func(reason string)) SignalChain
	OnCancel(func()) SignalChain
	OnConfirm(func(receiptID string, amount int64) bool) SignalChain
	OnDone(func(receiptID string, amount int64)) SignalChain
}

func probe(handle any) (widget, error) {
	switch h := handle.(type) {
	case requestPayer:
		return requestPaymentWidget{h}, nil
	case legacyRequester:
		return legacyWidget{h}, nil
	case chainRequester:
		return chainWidget{h}, nil
	}
	return nil, ErrNoEntryPoint
}

type requestPaymentWidget struct {
	sdk requestPayer
}

func (w requestPaymentWidget) Open(ctx context.Context, req PaymentRequest, cb Callbacks) error {
	return w.sdk.RequestPayment(ctx, req, cb)
}

type legacyWidget struct {
	sdk legacyRequester
}

func (w legacyWidget) Open(ctx context.Context, req PaymentRequest, cb Callbacks) error {
	return w.sdk.Request(ctx, req, cb)
}

type chainWidget struct {
	sdk chainRequester
}

func (w chainWidget) Open(ctx context.Context, req PaymentRequest, cb Callbacks) error {
	chain, err := w.sdk.Request(ctx, req)
	if err != nil {
		return err
	}
	chain.
		OnError(cb.Error).
		OnCancel(cb.Cancel).
		OnConfirm(cb.Confirm).
		OnDone(cb.Done)
	return nil
}
