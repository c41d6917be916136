package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"backend/internal/domain/models"
	"backend/internal/repositories"
)

type vehiclePayload struct {
	Plate          string `json:"plate" binding:"required"`
	Brand          string `json:"brand" binding:"required"`
	Model          string `json:"model" binding:"required"`
	ModelYear      int    `json:"modelYear" binding:"required"`
	Category       string `json:"category" binding:"required"`
	Color          string `json:"color"`
	Status         string `json:"status"`
	DailyRateCents int64  `json:"dailyRateCents" binding:"required"`
}

// GET /api/vehicles?q=argo&page=1&limit=50
func GetVehicles(c *gin.Context) {
	page, _ := strconv.Atoi(strings.TrimSpace(c.Query("page")))
	limit, _ := strconv.Atoi(strings.TrimSpace(c.Query("limit")))

	list, err := repositories.VehicleRepository{}.List(c.Query("q"), page, limit)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/vehicles/available?category=suv
func GetAvailableVehicles(c *gin.Context) {
	category := strings.TrimSpace(c.Query("category"))
	if category == "" {
		RespondError(c, http.StatusBadRequest, "categoria obrigatória", nil)
		return
	}
	list, err := repositories.VehicleRepository{}.ListAvailableByCategory(category)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/vehicles/:id
func GetVehicleByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "id inválido", nil)
		return
	}
	v, err := repositories.VehicleRepository{}.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// POST /api/vehicles
func CreateVehicle(c *gin.Context) {
	var payload vehiclePayload
	if !BindJSONOrError(c, &payload) {
		return
	}

	v, err := repositories.VehicleRepository{}.Create(models.Vehicle{
		Plate:          payload.Plate,
		Brand:          payload.Brand,
		Model:          payload.Model,
		ModelYear:      payload.ModelYear,
		Category:       payload.Category,
		Color:          payload.Color,
		Status:         payload.Status,
		DailyRateCents: payload.DailyRateCents,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

// PUT /api/vehicles/:id
func UpdateVehicle(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "id inválido", nil)
		return
	}

	var payload vehiclePayload
	if !BindJSONOrError(c, &payload) {
		return
	}

	v, err := repositories.VehicleRepository{}.Update(id, models.Vehicle{
		Brand:          payload.Brand,
		Model:          payload.Model,
		ModelYear:      payload.ModelYear,
		Category:       payload.Category,
		Color:          payload.Color,
		Status:         payload.Status,
		DailyRateCents: payload.DailyRateCents,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// DELETE /api/vehicles/:id
func DeleteVehicle(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "id inválido", nil)
		return
	}
	if err := (repositories.VehicleRepository{}).Delete(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "veículo removido"})
}
