package payment

import (
	"context"

	"backend/internal/domain/models"
)

// Boleto requests a barcode and printable slip. As with PIX, issuance is
// sequencing success only; settlement lands through the webhook, typically
// days later.
type Boleto struct {
	Client *Client
}

func (b Boleto) Name() string { return models.PaymentMethodBoleto }

type boletoRequest struct {
	AmountCents int64       `json:"amount_cents"`
	Customer    CustomerRef `json:"customer"`
}

type boletoResponse struct {
	ID      string `json:"id"`
	Barcode string `json:"barcode"`
	PDFURL  string `json:"pdf_url"`
	DueDate string `json:"due_date"`
}

func (b Boleto) CreatePayment(ctx context.Context, req Request) (Handle, error) {
	if err := validateRequest(req); err != nil {
		return Handle{}, err
	}

	var resp boletoResponse
	idem := IdempotencyKey(req.SessionID, b.Name(), req.AmountCents)
	err := b.Client.post(ctx, "/v1/payments/boleto", idem, boletoRequest{
		AmountCents: req.AmountCents,
		Customer:    req.Customer,
	}, &resp)
	if err != nil {
		return Handle{}, err
	}

	return Handle{
		Method:      b.Name(),
		ProviderRef: resp.ID,
		Status:      models.PaymentStatusPending,
		Barcode:     resp.Barcode,
		PDFURL:      resp.PDFURL,
		DueDate:     resp.DueDate,
	}, nil
}
