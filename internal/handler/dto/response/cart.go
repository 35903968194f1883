package response

import (
	"mallfront/internal/usecase/queries"

	"github.com/jinzhu/copier"
)

type CartLineResponse struct {
	ProductID   int64  `json:"productId"`
	ProductName string `json:"productName"`
	Qty         int    `json:"qty"`
	UnitPrice   int64  `json:"unitPrice"`
	SalePrice   *int64 `json:"salePrice,omitempty"`
	ImageFile   string `json:"imageFile,omitempty"`
}

type CartResponse struct {
	Lines    []CartLineResponse `json:"lines"`
	Subtotal int64              `json:"subtotal"`
}

func FromCartView(view *queries.CartView) (*CartResponse, error) {
	resp := &CartResponse{
		Lines:    make([]CartLineResponse, 0, len(view.Lines)),
		Subtotal: view.Subtotal,
	}
	if err := copier.Copy(&resp.Lines, view.Lines); err != nil {
		return nil, err
	}
	return resp, nil
}
