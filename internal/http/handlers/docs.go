package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"backend/internal/http/middleware"
	"backend/internal/repositories"
	"backend/internal/services"
)

func newDocsService(c *gin.Context) services.DocsService {
	return services.DocsService{
		SessionRepo:  repositories.SessionRepository{},
		ItemRepo:     repositories.SessionItemRepository{},
		CustomerRepo: repositories.CustomerRepository{},
		VehicleRepo:  repositories.VehicleRepository{},
		PaymentRepo:  repositories.PaymentRepository{},
		RequestID:    middleware.GetRequestID(c),
	}
}

// GET /api/checkout/sessions/:id/voucher
func GetVoucherPDF(c *gin.Context) {
	id, ok := sessionIDParam(c)
	if !ok {
		return
	}

	data, filename, err := newDocsService(c).GenerateVoucher(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

// GET /api/checkout/sessions/:id/boleto
func GetBoletoPDF(c *gin.Context) {
	id, ok := sessionIDParam(c)
	if !ok {
		return
	}

	data, filename, err := newDocsService(c).GenerateBoleto(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}
