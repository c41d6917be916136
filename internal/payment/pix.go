package payment

import (
	"context"

	"backend/internal/domain/models"
)

// Pix requests a QR-code payload from the provider. Receipt of the code means
// "payment initiated"; the attempt settles via webhook when the customer pays.
type Pix struct {
	Client *Client
}

func (p Pix) Name() string { return models.PaymentMethodPix }

type pixRequest struct {
	AmountCents int64       `json:"amount_cents"`
	Customer    CustomerRef `json:"customer"`
}

type pixResponse struct {
	TxID      string `json:"txid"`
	QRCode    string `json:"qr_code"`
	ExpiresAt string `json:"expires_at"`
}

func (p Pix) CreatePayment(ctx context.Context, req Request) (Handle, error) {
	if err := validateRequest(req); err != nil {
		return Handle{}, err
	}

	var resp pixResponse
	idem := IdempotencyKey(req.SessionID, p.Name(), req.AmountCents)
	err := p.Client.post(ctx, "/v1/payments/pix", idem, pixRequest{
		AmountCents: req.AmountCents,
		Customer:    req.Customer,
	}, &resp)
	if err != nil {
		return Handle{}, err
	}

	return Handle{
		Method:      p.Name(),
		ProviderRef: resp.TxID,
		Status:      models.PaymentStatusPending,
		QRCode:      resp.QRCode,
		ExpiresAt:   resp.ExpiresAt,
	}, nil
}
