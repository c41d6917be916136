package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"backend/internal/repositories"
)

// GET /api/catalog/categories
func GetCategories(c *gin.Context) {
	list, err := repositories.CatalogRepository{}.ListCategories()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": list})
}

// GET /api/catalog/plans?category=suv
func GetPlans(c *gin.Context) {
	list, err := repositories.CatalogRepository{}.ListPlans(strings.TrimSpace(c.Query("category")))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": list})
}

// GET /api/catalog/optionals
func GetOptionals(c *gin.Context) {
	list, err := repositories.CatalogRepository{}.ListOptionals()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"optionals": list})
}
