package commands

import (
	"context"

	"mallfront/internal/domain/checkout"
	"mallfront/internal/gateway"
	"mallfront/internal/session"
)

// Ports onto the external collaborators. The mall API owns all persistence;
// this service only coordinates.

type PaymentGateway interface {
	OpenPayment(ctx context.Context, intent *checkout.PurchaseIntent) (gateway.Result, error)
}

type OrderRequest struct {
	BuyerID   string
	ReceiptID string
	LineItems []checkout.LineItem
}

// OrderView echoes the persisted order. Its line items are the authoritative
// set for the follow-up collection and cart steps.
type OrderView struct {
	OrderID     int64
	TotalAmount int64
	LineItems   []checkout.LineItem
}

type OrderService interface {
	Create(ctx context.Context, req OrderRequest) (*OrderView, error)
}

type CollectionItem struct {
	ProductID int64
	SourceTag string
}

type CollectionService interface {
	Add(ctx context.Context, item CollectionItem) error
}

type CartChange struct {
	BuyerID   string
	ProductID int64
	// Qty 0 deletes the line.
	Qty int
}

type CartService interface {
	ChangeLine(ctx context.Context, change CartChange) error
}

type MemberCredentials struct {
	Email    string
	Password string
}

type MemberLogin struct {
	Session  session.Session
	BuyerID  string
	Nickname string
}

type MemberService interface {
	Login(ctx context.Context, creds MemberCredentials) (*MemberLogin, error)
}
