package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"backend/internal/domain/models"
	"backend/internal/http/middleware"
	"backend/internal/repositories"
)

// GET /api/customers/:id
func GetCustomerByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "id inválido", nil)
		return
	}

	customer, err := repositories.CustomerRepository{}.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

type customerPatch struct {
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	CNHNumber   *string `json:"cnhNumber"`
	CNHCategory *string `json:"cnhCategory"`
	CNHExpiry   *string `json:"cnhExpiry"`
}

// PATCH /api/customers/:id — customers may only patch themselves.
func UpdateCustomer(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "id inválido", nil)
		return
	}
	if authID := middleware.CustomerID(c); authID != 0 && authID != id {
		RespondError(c, http.StatusForbidden, "acesso negado", nil)
		return
	}

	var patch customerPatch
	if !BindJSONOrError(c, &patch) {
		return
	}

	repo := repositories.CustomerRepository{}
	if err := repo.UpdatePartial(id, models.CustomerUpdate{
		Name:        patch.Name,
		Email:       patch.Email,
		Phone:       patch.Phone,
		CNHNumber:   patch.CNHNumber,
		CNHCategory: patch.CNHCategory,
		CNHExpiry:   patch.CNHExpiry,
	}); err != nil {
		RespondDomainError(c, err)
		return
	}

	customer, err := repo.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}
