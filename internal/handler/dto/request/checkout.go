package request

import (
	"mallfront/internal/domain/checkout"
)

type PurchaseLine struct {
	ProductID int64 `json:"productId" binding:"required,gt=0"`
	Qty       int   `json:"qty" binding:"required,gt=0"`
	UnitPrice int64 `json:"unitPrice" binding:"gte=0"`
}

type PurchaseRequest struct {
	LineItems   []PurchaseLine `json:"lineItems" binding:"required,min=1,dive"`
	TotalAmount int64          `json:"totalAmount" binding:"required,gt=0"`
}

func (r PurchaseRequest) ToDomain(buyerID string) (*checkout.PurchaseIntent, error) {
	lines := make([]checkout.LineItem, len(r.LineItems))
	for i, l := range r.LineItems {
		lines[i] = checkout.LineItem{
			ProductID: l.ProductID,
			Quantity:  l.Qty,
			UnitPrice: l.UnitPrice,
		}
	}
	return checkout.NewPurchaseIntent(buyerID, lines, r.TotalAmount)
}

type CartChangeRequest struct {
	ProductID int64 `json:"productId" binding:"required,gt=0"`
	Qty       int   `json:"qty" binding:"gte=0"`
}
