package services

import (
	"context"
	"encoding/json"

	"backend/internal/checkout"
	"backend/internal/domain"
	"backend/internal/domain/models"
	"backend/internal/payment"
	"backend/internal/repositories"
	"backend/internal/utils"
)

// PaymentService owns the dispatch flow: one attempt row per dispatch, with
// the idempotency key short-circuiting duplicate submissions before any
// provider traffic happens.
type PaymentService struct {
	PaymentRepo  repositories.PaymentRepository
	SessionRepo  repositories.SessionRepository
	CustomerRepo repositories.CustomerRepository
	Methods      *payment.Dispatcher
	RequestID    string
}

// DispatchInput is the payment-stage submit.
type DispatchInput struct {
	SessionID    int64
	Method       string
	Card         *payment.CardDetails
	Installments int
}

// Dispatch creates (or reuses) a payment attempt for the session total.
// A duplicate submission with the same (session, method, amount) returns the
// stored attempt without touching the provider; a failed attempt is rewound
// to initiated and dispatched again.
func (s PaymentService) Dispatch(ctx context.Context, in DispatchInput) (models.PaymentAttempt, error) {
	session, err := s.SessionRepo.GetByID(in.SessionID)
	if err != nil {
		return models.PaymentAttempt{}, err
	}
	if checkout.Status(session.Status) != checkout.StatusScheduled {
		return models.PaymentAttempt{}, domain.ConflictError{
			Resource: "checkout session",
			Msg:      "pagamento exige sessão agendada, atual: " + session.Status,
		}
	}
	if session.TotalCents <= 0 {
		return models.PaymentAttempt{}, domain.ValidationError{Field: "total", Msg: "carrinho vazio"}
	}

	key := payment.IdempotencyKey(session.ID, in.Method, session.TotalCents)
	var attempt models.PaymentAttempt
	existing, err := s.PaymentRepo.FindByIdempotencyKey(key)
	switch {
	case err == nil && existing.Status != models.PaymentStatusFailed:
		utils.LogEvent(s.RequestID, "payment", "dispatch", "idempotent replay, reusing attempt")
		return existing, nil
	case err == nil:
		// A failed attempt retries on its own row; the key stays unique and
		// the provider is reached again.
		if err := s.PaymentRepo.ResetForRetry(existing.ID); err != nil {
			return models.PaymentAttempt{}, err
		}
		attempt = existing
	case !domain.IsNotFound(err):
		return models.PaymentAttempt{}, err
	}

	customer, err := s.CustomerRepo.GetByID(session.CustomerID)
	if err != nil {
		return models.PaymentAttempt{}, err
	}

	if attempt.ID == 0 {
		attempt, err = s.PaymentRepo.Create(models.PaymentAttempt{
			SessionID:      session.ID,
			Method:         in.Method,
			AmountCents:    session.TotalCents,
			IdempotencyKey: key,
			Status:         models.PaymentStatusInitiated,
		})
		if err != nil {
			if !domain.IsConflict(err) {
				return models.PaymentAttempt{}, err
			}
			// Lost a race with a concurrent dispatch for the same key. The
			// winner's attempt only stands in for ours while it is live.
			stored, findErr := s.PaymentRepo.FindByIdempotencyKey(key)
			if findErr != nil {
				return models.PaymentAttempt{}, findErr
			}
			if stored.Status == models.PaymentStatusFailed {
				return models.PaymentAttempt{}, domain.ConflictError{
					Resource: "payment attempt",
					Msg:      "tentativa anterior falhou, reenvie o pagamento",
				}
			}
			return stored, nil
		}
	}

	handle, err := s.Methods.Dispatch(ctx, in.Method, payment.Request{
		SessionID:   session.ID,
		AmountCents: session.TotalCents,
		Customer: payment.CustomerRef{
			Name:  customer.Name,
			Email: customer.Email,
			CPF:   customer.CPF,
			Phone: customer.Phone,
		},
		Card:         in.Card,
		Installments: in.Installments,
	})
	if err != nil {
		if upErr := s.PaymentRepo.UpdateOutcome(attempt.ID, "", models.PaymentStatusFailed, ""); upErr != nil {
			utils.LogEvent(s.RequestID, "payment", "dispatch", "failed to record outcome: "+upErr.Error())
		}
		return models.PaymentAttempt{}, err
	}

	payload, _ := json.Marshal(handle)
	if err := s.PaymentRepo.UpdateOutcome(attempt.ID, handle.ProviderRef, handle.Status, string(payload)); err != nil {
		return models.PaymentAttempt{}, err
	}

	utils.LogEvent(s.RequestID, "payment", "dispatch", in.Method+" attempt "+handle.Status)
	return s.PaymentRepo.GetByID(attempt.ID)
}

// Settle applies a provider webhook. Paid attempts move the session from
// scheduled to active; anything else only updates the attempt.
func (s PaymentService) Settle(providerRef, status string) (models.PaymentAttempt, error) {
	switch status {
	case models.PaymentStatusPaid, models.PaymentStatusFailed, models.PaymentStatusPending:
	default:
		return models.PaymentAttempt{}, domain.ValidationError{Field: "status", Msg: "status desconhecido: " + status}
	}

	attempt, err := s.PaymentRepo.SettleByProviderRef(providerRef, status)
	if err != nil {
		return models.PaymentAttempt{}, err
	}

	if status == models.PaymentStatusPaid {
		session, err := s.SessionRepo.GetByID(attempt.SessionID)
		if err != nil {
			return models.PaymentAttempt{}, err
		}
		if checkout.CanTransition(checkout.Status(session.Status), checkout.StatusActive) {
			if err := s.SessionRepo.SetStatus(session.ID, checkout.StatusActive); err != nil {
				return models.PaymentAttempt{}, err
			}
			utils.LogEvent(s.RequestID, "payment", "settle", "session activated by settlement")
		}
	}
	return attempt, nil
}
