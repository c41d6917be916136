package payment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"backend/internal/domain"
)

// CustomerRef is the slice of customer data the provider needs.
type CustomerRef struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	CPF   string `json:"cpf"`
	Phone string `json:"phone"`
}

// CardDetails is raw card input. It is sent to the tokenize endpoint only and
// must never be persisted or logged.
type CardDetails struct {
	Number   string `json:"number"`
	Holder   string `json:"holder"`
	ExpMonth int    `json:"expMonth"`
	ExpYear  int    `json:"expYear"`
	CVV      string `json:"cvv"`
}

// Request carries everything a method needs to create a payment.
type Request struct {
	SessionID    int64
	AmountCents  int64
	Customer     CustomerRef
	Card         *CardDetails // credit only
	Installments int          // credit only, defaults to 1
}

// Handle is the provider's answer to a dispatch. Issuance of a QR code or a
// barcode is dispatch success for sequencing purposes; settlement arrives
// later through the webhook.
type Handle struct {
	Method      string `json:"method"`
	ProviderRef string `json:"providerRef"`
	Status      string `json:"status"` // pending (pix/boleto) or paid (approved card)

	QRCode    string `json:"qrCode,omitempty"`
	ExpiresAt string `json:"expiresAt,omitempty"`

	Barcode string `json:"barcode,omitempty"`
	PDFURL  string `json:"pdfUrl,omitempty"`
	DueDate string `json:"dueDate,omitempty"`
}

// Method is the single payment capability every variant implements.
type Method interface {
	Name() string
	CreatePayment(ctx context.Context, req Request) (Handle, error)
}

// Dispatcher resolves a method by name. Exactly one integration is invoked
// per dispatch.
type Dispatcher struct {
	methods map[string]Method
}

func NewDispatcher(methods ...Method) *Dispatcher {
	d := &Dispatcher{methods: map[string]Method{}}
	for _, m := range methods {
		d.methods[m.Name()] = m
	}
	return d
}

func (d *Dispatcher) Method(name string) (Method, error) {
	m, ok := d.methods[name]
	if !ok {
		return nil, domain.ValidationError{Field: "payment_method", Msg: "método de pagamento desconhecido: " + name}
	}
	return m, nil
}

func (d *Dispatcher) Dispatch(ctx context.Context, name string, req Request) (Handle, error) {
	m, err := d.Method(name)
	if err != nil {
		return Handle{}, err
	}
	return m.CreatePayment(ctx, req)
}

// IdempotencyKey derives a stable key from the dispatch identity so a
// double-click or duplicate tab resubmission maps onto the same attempt row.
func IdempotencyKey(sessionID int64, method string, amountCents int64) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("checkout:%d:%s:%d", sessionID, method, amountCents)))
	return hex.EncodeToString(sum[:16])
}

func validateRequest(req Request) error {
	if req.SessionID <= 0 {
		return domain.ValidationError{Field: "session_id", Msg: "sessão inválida"}
	}
	if req.AmountCents <= 0 {
		return domain.ValidationError{Field: "amount", Msg: "valor deve ser positivo"}
	}
	return nil
}
