package checkout

// GatewayReceipt is the gateway's proof of payment. It is produced only by a
// confirmed payment and is never fabricated locally; once present it must
// survive every later step failure so support can reconcile manually.
type GatewayReceipt struct {
	ReceiptID       string
	AmountConfirmed int64
}

type Status string

const (
	StatusCompleted      Status = "completed"
	StatusPartialFailure Status = "partial_failure"
	StatusFailed         Status = "failed"
)

// Saga step names recorded on partial failure.
const (
	StepOrder      = "order"
	StepCollection = "collection"
	StepCart       = "cart"
)

// SagaRecord tracks one purchase attempt from gateway confirmation onward.
// The coordinator mutates it as steps complete; it is terminal once Status is
// set and lives only for the duration of the attempt (no durability).
type SagaRecord struct {
	Intent            *PurchaseIntent
	Receipt           *GatewayReceipt
	OrderID           *int64
	CollectionGranted bool
	CartCleared       bool
	Status            Status

	// FailedStep names the step behind a PartialFailure; Reason carries the
	// gateway's decline/cancel reason on Failed.
	FailedStep string
	Reason     string
}

func NewSagaRecord(intent *PurchaseIntent) *SagaRecord {
	return &SagaRecord{Intent: intent}
}

func (r *SagaRecord) Confirm(receipt GatewayReceipt) {
	r.Receipt = &receipt
}

func (r *SagaRecord) Complete() {
	r.Status = StatusCompleted
}

func (r *SagaRecord) FailStep(step string) {
	r.Status = StatusPartialFailure
	r.FailedStep = step
}

func (r *SagaRecord) Fail(reason string) {
	r.Status = StatusFailed
	r.Reason = reason
}

// PaymentTaken reports whether money has moved. Anything after this point
// must never be reported to the buyer as a failed payment.
func (r *SagaRecord) PaymentTaken() bool {
	return r.Receipt != nil
}
