package services

import (
	"database/sql"
	"strconv"
	"strings"

	"backend/internal/cart"
	"backend/internal/checkout"
	intconfig "backend/internal/config"
	"backend/internal/domain"
	"backend/internal/domain/models"
	"backend/internal/repositories"
	"backend/internal/utils"
)

// CheckoutService drives the server side of the wizard: session lifecycle,
// stage submits and the confirmation read model.
type CheckoutService struct {
	CustomerRepo repositories.CustomerRepository
	SessionRepo  repositories.SessionRepository
	ItemRepo     repositories.SessionItemRepository
	CatalogRepo  repositories.CatalogRepository
	VehicleRepo  repositories.VehicleRepository
	PaymentRepo  repositories.PaymentRepository
	DB           *sql.DB
	RequestID    string
}

func (s CheckoutService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

// BeginSession upserts the customer from the identity stage and opens a draft
// session. Re-submitting the stage reuses the customer and opens no duplicate
// session when the customer already has an open draft.
func (s CheckoutService) BeginSession(c models.Customer) (models.Customer, models.CheckoutSession, error) {
	if !utils.ValidCPF(c.CPF) {
		return models.Customer{}, models.CheckoutSession{}, domain.ValidationError{Field: "cpf", Msg: "cpf inválido"}
	}

	customer, err := s.CustomerRepo.Upsert(c)
	if err != nil {
		return models.Customer{}, models.CheckoutSession{}, err
	}

	// Reuse an open draft so a page reload doesn't fork the checkout.
	sessions, err := s.SessionRepo.ListByCustomer(customer.ID)
	if err != nil {
		return models.Customer{}, models.CheckoutSession{}, err
	}
	for _, existing := range sessions {
		if checkout.Status(existing.Status) == checkout.StatusDraft {
			utils.LogEvent(s.RequestID, "checkout", "begin", "reusing draft session")
			return customer, existing, nil
		}
	}

	session, err := s.SessionRepo.Create(customer.ID, checkout.StepPersonalInfo)
	if err != nil {
		return models.Customer{}, models.CheckoutSession{}, err
	}
	utils.LogEvent(s.RequestID, "checkout", "begin", "draft session created")
	return customer, session, nil
}

// SelectVehicle records the plan/vehicle choice and returns the cart line the
// client should push into its store.
func (s CheckoutService) SelectVehicle(sessionID, vehicleID int64, planCode string) (cart.Item, error) {
	session, err := s.SessionRepo.GetByID(sessionID)
	if err != nil {
		return cart.Item{}, err
	}
	if checkout.Status(session.Status).IsTerminal() {
		return cart.Item{}, domain.ConflictError{Resource: "checkout session", Msg: "sessão encerrada"}
	}

	vehicle, err := s.VehicleRepo.GetByID(vehicleID)
	if err != nil {
		return cart.Item{}, err
	}
	if vehicle.Status != models.VehicleStatusAvailable {
		return cart.Item{}, domain.ConflictError{Resource: "vehicle", Msg: "veículo indisponível"}
	}

	unit := vehicle.DailyRateCents
	label := vehicle.Brand + " " + vehicle.Model
	if code := strings.TrimSpace(planCode); code != "" {
		plan, err := s.CatalogRepo.GetPlanByCode(code)
		if err != nil {
			return cart.Item{}, err
		}
		if plan.MonthlyRateCents > 0 {
			unit = plan.MonthlyRateCents
		} else if plan.DailyRateCents > 0 {
			unit = plan.DailyRateCents
		}
		label += " (" + plan.Name + ")"
	}

	if err := s.SessionRepo.SetSelection(sessionID, vehicleID, strings.TrimSpace(planCode)); err != nil {
		return cart.Item{}, err
	}

	return cart.Item{
		ID:             vehicleItemID(vehicleID),
		Kind:           cart.KindVehicle,
		Label:          label,
		Quantity:       1,
		UnitPriceCents: unit,
		TotalCents:     unit,
	}, nil
}

// OptionalItem resolves a catalog add-on into a cart line.
func (s CheckoutService) OptionalItem(code string, qty int) (cart.Item, error) {
	opt, err := s.CatalogRepo.GetOptionalByCode(code)
	if err != nil {
		return cart.Item{}, err
	}
	if qty < 1 {
		qty = 1
	}
	kind := cart.KindOptional
	if opt.Code == "full-insurance" {
		kind = cart.KindInsurance
	}
	return cart.Item{
		ID:             opt.Code,
		Kind:           kind,
		Label:          opt.Name,
		Quantity:       qty,
		UnitPriceCents: opt.PriceCents,
		TotalCents:     int64(qty) * opt.PriceCents,
	}, nil
}

// Schedule stores pickup data and transitions draft → scheduled.
func (s CheckoutService) Schedule(sessionID int64, address, city, state, cep, pickupAt string) (models.CheckoutSession, error) {
	session, err := s.SessionRepo.GetByID(sessionID)
	if err != nil {
		return models.CheckoutSession{}, err
	}

	if strings.TrimSpace(pickupAt) != "" {
		if _, err := utils.ParsePickupAt(pickupAt); err != nil {
			return models.CheckoutSession{}, domain.ValidationError{Field: "pickup_at", Msg: "data/hora inválida", Err: err}
		}
	}

	if !checkout.CanTransition(checkout.Status(session.Status), checkout.StatusScheduled) {
		return models.CheckoutSession{}, domain.ConflictError{
			Resource: "checkout session",
			Msg:      "transição inválida: " + session.Status + " -> scheduled",
		}
	}

	if err := s.SessionRepo.SetSchedule(sessionID, strings.TrimSpace(address), strings.TrimSpace(city),
		strings.ToUpper(strings.TrimSpace(state)), utils.DigitsOnly(cep), strings.TrimSpace(pickupAt)); err != nil {
		return models.CheckoutSession{}, err
	}
	if err := s.SessionRepo.SetStatus(sessionID, checkout.StatusScheduled); err != nil {
		return models.CheckoutSession{}, err
	}

	utils.LogEvent(s.RequestID, "checkout", "schedule", "session scheduled")
	return s.SessionRepo.GetByID(sessionID)
}

// AdvanceStep persists the sequencer position after a stage submit.
func (s CheckoutService) AdvanceStep(sessionID int64) (int, error) {
	session, err := s.SessionRepo.GetByID(sessionID)
	if err != nil {
		return 0, err
	}
	seq := checkout.Resume(session.CurrentStep)
	next := seq.Advance()
	if next == session.CurrentStep {
		return next, nil
	}
	return next, s.SessionRepo.SetStep(sessionID, next)
}

// Confirmation is the terminal-step read model.
type Confirmation struct {
	Session models.CheckoutSession `json:"session"`
	Items   []models.SessionItem   `json:"items"`
	Payment *models.PaymentAttempt `json:"payment,omitempty"`
	Settled bool                   `json:"settled"`
}

// Confirm assembles the confirmation view. Settled only flips true once the
// provider webhook lands; until then the UI shows "awaiting settlement".
func (s CheckoutService) Confirm(sessionID int64) (Confirmation, error) {
	session, err := s.SessionRepo.GetByID(sessionID)
	if err != nil {
		return Confirmation{}, err
	}

	items, err := s.ItemRepo.ListBySession(sessionID)
	if err != nil {
		return Confirmation{}, err
	}

	out := Confirmation{Session: session, Items: items}
	attempt, err := s.PaymentRepo.LatestBySession(sessionID)
	if err == nil {
		out.Payment = &attempt
		out.Settled = attempt.Status == models.PaymentStatusPaid
	} else if !domain.IsNotFound(err) {
		return Confirmation{}, err
	}
	return out, nil
}

func vehicleItemID(vehicleID int64) string {
	return "veh-" + strconv.FormatInt(vehicleID, 10)
}
