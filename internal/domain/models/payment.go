package models

// PaymentAttempt records one dispatch to the payment provider. Attempts are
// never retried automatically; a failed attempt requires the user to resubmit,
// which reuses the same idempotency key for an identical (session, method,
// amount) tuple.
type PaymentAttempt struct {
	ID             int64  `json:"id"`
	SessionID      int64  `json:"sessionId"`
	Method         string `json:"method"` // pix | boleto | credit
	AmountCents    int64  `json:"amountCents"`
	ProviderRef    string `json:"providerRef,omitempty"`
	IdempotencyKey string `json:"idempotencyKey"`
	Status         string `json:"status"` // initiated | pending | paid | failed
	Payload        string `json:"payload,omitempty"`
	CreatedAt      string `json:"createdAt,omitempty"`
	UpdatedAt      string `json:"updatedAt,omitempty"`
}

const (
	PaymentMethodPix    = "pix"
	PaymentMethodBoleto = "boleto"
	PaymentMethodCredit = "credit"

	PaymentStatusInitiated = "initiated"
	PaymentStatusPending   = "pending"
	PaymentStatusPaid      = "paid"
	PaymentStatusFailed    = "failed"
)
