package response

import (
	"mallfront/internal/domain/checkout"
)

type PurchaseResponse struct {
	Status            string `json:"status"`
	OrderID           *int64 `json:"orderId,omitempty"`
	ReceiptID         string `json:"receiptId,omitempty"`
	CollectionGranted bool   `json:"collectionGranted"`
	CartCleared       bool   `json:"cartCleared"`
	FailedStep        string `json:"failedStep,omitempty"`
	Reason            string `json:"reason,omitempty"`
}

func FromSagaRecord(rec *checkout.SagaRecord) *PurchaseResponse {
	resp := &PurchaseResponse{
		Status:            string(rec.Status),
		OrderID:           rec.OrderID,
		CollectionGranted: rec.CollectionGranted,
		CartCleared:       rec.CartCleared,
		FailedStep:        rec.FailedStep,
		Reason:            rec.Reason,
	}
	if rec.Receipt != nil {
		resp.ReceiptID = rec.Receipt.ReceiptID
	}
	return resp
}
