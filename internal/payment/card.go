package payment

import (
	"context"

	"backend/internal/domain"
	"backend/internal/domain/models"
)

// CreditCard always tokenizes before charging. Raw card fields travel only to
// the tokenize endpoint; the charge call sees the token.
type CreditCard struct {
	Client *Client
}

func (cc CreditCard) Name() string { return models.PaymentMethodCredit }

type tokenizeRequest struct {
	Number   string `json:"number"`
	Holder   string `json:"holder"`
	ExpMonth int    `json:"exp_month"`
	ExpYear  int    `json:"exp_year"`
	CVV      string `json:"cvv"`
}

type tokenizeResponse struct {
	Token string `json:"token"`
}

type chargeRequest struct {
	AmountCents  int64       `json:"amount_cents"`
	CardToken    string      `json:"card_token"`
	Installments int         `json:"installments"`
	Customer     CustomerRef `json:"customer"`
}

type chargeResponse struct {
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"` // approved | declined
	Reason        string `json:"reason,omitempty"`
}

func (cc CreditCard) CreatePayment(ctx context.Context, req Request) (Handle, error) {
	if err := validateRequest(req); err != nil {
		return Handle{}, err
	}
	if req.Card == nil || req.Card.Number == "" {
		return Handle{}, domain.ValidationError{Field: "card", Msg: "dados do cartão ausentes"}
	}

	var tok tokenizeResponse
	if err := cc.Client.post(ctx, "/v1/tokenize", "", tokenizeRequest{
		Number:   req.Card.Number,
		Holder:   req.Card.Holder,
		ExpMonth: req.Card.ExpMonth,
		ExpYear:  req.Card.ExpYear,
		CVV:      req.Card.CVV,
	}, &tok); err != nil {
		return Handle{}, err
	}
	if tok.Token == "" {
		return Handle{}, domain.ProviderError{Provider: "payment", Msg: "tokenização sem token"}
	}

	installments := req.Installments
	if installments < 1 {
		installments = 1
	}

	var charge chargeResponse
	idem := IdempotencyKey(req.SessionID, cc.Name(), req.AmountCents)
	if err := cc.Client.post(ctx, "/v1/payments/credit", idem, chargeRequest{
		AmountCents:  req.AmountCents,
		CardToken:    tok.Token,
		Installments: installments,
		Customer:     req.Customer,
	}, &charge); err != nil {
		return Handle{}, err
	}

	if charge.Status != "approved" {
		msg := charge.Reason
		if msg == "" {
			msg = "cartão recusado"
		}
		return Handle{}, domain.ProviderError{Provider: "payment", Msg: msg}
	}

	return Handle{
		Method:      cc.Name(),
		ProviderRef: charge.TransactionID,
		Status:      models.PaymentStatusPaid,
	}, nil
}
