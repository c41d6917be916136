package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"backend/internal/domain/models"
	"backend/internal/http/middleware"
	"backend/internal/payment"
	"backend/internal/repositories"
	"backend/internal/services"
)

func newPaymentService(c *gin.Context) services.PaymentService {
	return services.PaymentService{
		PaymentRepo:  repositories.PaymentRepository{},
		SessionRepo:  repositories.SessionRepository{},
		CustomerRepo: repositories.CustomerRepository{},
		Methods:      payMethods,
		RequestID:    middleware.GetRequestID(c),
	}
}

type cardPayload struct {
	Number   string `json:"number" binding:"required"`
	Holder   string `json:"holder" binding:"required"`
	ExpMonth int    `json:"expMonth" binding:"required,min=1,max=12"`
	ExpYear  int    `json:"expYear" binding:"required"`
	CVV      string `json:"cvv" binding:"required"`
}

type dispatchPayload struct {
	Method       string       `json:"method" binding:"required,oneof=pix boleto credit"`
	Card         *cardPayload `json:"card"`
	Installments int          `json:"installments"`
}

// POST /api/checkout/sessions/:id/payment — payment stage submit.
func DispatchPayment(c *gin.Context) {
	id, ok := sessionIDParam(c)
	if !ok {
		return
	}

	var payload dispatchPayload
	if !BindJSONOrError(c, &payload) {
		return
	}

	in := services.DispatchInput{
		SessionID:    id,
		Method:       payload.Method,
		Installments: payload.Installments,
	}
	if payload.Card != nil {
		in.Card = &payment.CardDetails{
			Number:   payload.Card.Number,
			Holder:   payload.Card.Holder,
			ExpMonth: payload.Card.ExpMonth,
			ExpYear:  payload.Card.ExpYear,
			CVV:      payload.Card.CVV,
		}
	}

	attempt, err := newPaymentService(c).Dispatch(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	svc := newCheckoutService(c)
	step, err := svc.AdvanceStep(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"attempt": attempt, "step": step})
}

// GET /api/checkout/sessions/:id/payment
func GetLatestPayment(c *gin.Context) {
	id, ok := sessionIDParam(c)
	if !ok {
		return
	}

	attempt, err := repositories.PaymentRepository{}.LatestBySession(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, attempt)
}

type webhookPayload struct {
	ProviderRef string `json:"providerRef" binding:"required"`
	Status      string `json:"status" binding:"required"`
}

// POST /api/payments/webhook — provider settlement callback.
func PaymentWebhook(c *gin.Context) {
	var payload webhookPayload
	if !BindJSONOrError(c, &payload) {
		return
	}

	attempt, err := newPaymentService(c).Settle(payload.ProviderRef, payload.Status)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	// A paid session is past checkout; its server-side cart is done.
	if attempt.Status == models.PaymentStatusPaid {
		cartReg.Forget(attempt.SessionID)
	}

	c.JSON(http.StatusOK, gin.H{"attempt": attempt})
}

// GET /api/payments/:id
func GetPaymentAttempt(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "id inválido", nil)
		return
	}
	attempt, err := repositories.PaymentRepository{}.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, attempt)
}
