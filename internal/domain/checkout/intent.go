package checkout

import (
	"mallfront/internal/pkg/errs"
)

var (
	ErrNoBuyer        = errs.New("buyer is required")
	ErrEmptyIntent    = errs.New("intent has no line items")
	ErrInvalidLine    = errs.New("invalid line item")
	ErrAmountMismatch = errs.New("total amount does not match line items")
)

// LineItem is one cart line the buyer is paying for.
type LineItem struct {
	ProductID int64
	Quantity  int
	UnitPrice int64
}

func (l LineItem) Subtotal() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

// PurchaseIntent is the buyer's confirmed will to pay. It is immutable once
// handed to the payment gateway; the saga never re-reads the cart.
type PurchaseIntent struct {
	buyerID     string
	lineItems   []LineItem
	totalAmount int64
}

func NewPurchaseIntent(buyerID string, lineItems []LineItem, totalAmount int64) (*PurchaseIntent, error) {
	if buyerID == "" {
		return nil, ErrNoBuyer
	}
	if len(lineItems) == 0 {
		return nil, ErrEmptyIntent
	}

	var sum int64
	for _, l := range lineItems {
		if l.ProductID <= 0 || l.Quantity <= 0 || l.UnitPrice < 0 {
			return nil, ErrInvalidLine
		}
		sum += l.Subtotal()
	}
	if sum != totalAmount {
		return nil, ErrAmountMismatch
	}

	items := make([]LineItem, len(lineItems))
	copy(items, lineItems)

	return &PurchaseIntent{
		buyerID:     buyerID,
		lineItems:   items,
		totalAmount: totalAmount,
	}, nil
}

func (p *PurchaseIntent) BuyerID() string {
	return p.buyerID
}

// LineItems returns a copy; the intent stays immutable.
func (p *PurchaseIntent) LineItems() []LineItem {
	items := make([]LineItem, len(p.lineItems))
	copy(items, p.lineItems)
	return items
}

func (p *PurchaseIntent) TotalAmount() int64 {
	return p.totalAmount
}
