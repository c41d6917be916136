package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// GET /api/lookup/cep/:cep — address autofill for the scheduling stage.
func LookupCEP(c *gin.Context) {
	addr, err := cepClient.Lookup(c.Request.Context(), c.Param("cep"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, addr)
}

// GET /api/lookup/plate/:plate — registry data for fleet intake.
func LookupPlate(c *gin.Context) {
	info, err := plateClient.ByPlate(c.Request.Context(), c.Param("plate"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// GET /api/lookup/price?brand=Fiat&model=Argo&year=2023
func LookupPrice(c *gin.Context) {
	brand := strings.TrimSpace(c.Query("brand"))
	model := strings.TrimSpace(c.Query("model"))
	year, _ := strconv.Atoi(strings.TrimSpace(c.Query("year")))
	if brand == "" || model == "" {
		RespondError(c, http.StatusBadRequest, "brand e model são obrigatórios", nil)
		return
	}

	price, err := plateClient.PriceByModel(c.Request.Context(), brand, model, year)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, price)
}
