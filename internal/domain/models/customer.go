package models

// Customer is the identity record behind bookings and the driver portal.
// Created at signup or at the personal-info checkout step; a customer may
// accumulate many checkout sessions over time.
type Customer struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	CPF         string `json:"cpf"`
	Phone       string `json:"phone"`
	CNHNumber   string `json:"cnhNumber,omitempty"`
	CNHCategory string `json:"cnhCategory,omitempty"`
	CNHExpiry   string `json:"cnhExpiry,omitempty"` // YYYY-MM-DD
	Role        string `json:"role,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

// CustomerUpdate supports PATCH-style updates via key presence.
type CustomerUpdate struct {
	Name        *string
	Email       *string
	Phone       *string
	CNHNumber   *string
	CNHCategory *string
	CNHExpiry   *string
}
