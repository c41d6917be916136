package models

// Plan is a rental plan (daily, monthly, subscription tiers) offered per category.
type Plan struct {
	ID               int64  `json:"id"`
	Code             string `json:"code"`
	Name             string `json:"name"`
	Category         string `json:"category"`
	DailyRateCents   int64  `json:"dailyRateCents"`
	MonthlyRateCents int64  `json:"monthlyRateCents"`
	Description      string `json:"description,omitempty"`
}

// Optional is a fixed-catalog add-on priced per rental or per day.
type Optional struct {
	ID          int64  `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	PriceCents  int64  `json:"priceCents"`
	PricingMode string `json:"pricingMode"` // per_rental | per_day
}

const (
	PricingPerRental = "per_rental"
	PricingPerDay    = "per_day"
)
