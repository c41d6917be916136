package models

// CheckoutSession is the durable server-side counterpart of the client cart.
// Created once customer identity is captured, mutated at each later step,
// never deleted, only status-transitioned.
type CheckoutSession struct {
	ID          int64  `json:"id"`
	CustomerID  int64  `json:"customerId"`
	VehicleID   int64  `json:"vehicleId,omitempty"`
	PlanCode    string `json:"planCode,omitempty"`
	Status      string `json:"status"`
	CurrentStep int    `json:"currentStep"`
	TotalCents  int64  `json:"totalCents"`

	PickupAddress string `json:"pickupAddress,omitempty"`
	PickupCity    string `json:"pickupCity,omitempty"`
	PickupState   string `json:"pickupState,omitempty"`
	PickupCEP     string `json:"pickupCep,omitempty"`
	PickupAt      string `json:"pickupAt,omitempty"` // YYYY-MM-DD HH:MM:SS

	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// SessionItem is one mirrored cart line keyed by (session_id, item_type, item_id).
type SessionItem struct {
	SessionID      int64  `json:"sessionId"`
	ItemType       string `json:"itemType"` // vehicle | optional | insurance
	ItemID         string `json:"itemId"`
	Label          string `json:"label"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	TotalCents     int64  `json:"totalCents"`
}
