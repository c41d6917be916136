package models

// Vehicle is a fleet unit offered for rental.
type Vehicle struct {
	ID             int64  `json:"id"`
	Plate          string `json:"plate"`
	Brand          string `json:"brand"`
	Model          string `json:"model"`
	ModelYear      int    `json:"modelYear"`
	Category       string `json:"category"`
	Color          string `json:"color,omitempty"`
	Status         string `json:"status"` // available | rented | maintenance
	DailyRateCents int64  `json:"dailyRateCents"`
}

const (
	VehicleStatusAvailable   = "available"
	VehicleStatusRented      = "rented"
	VehicleStatusMaintenance = "maintenance"
)
