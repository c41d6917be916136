package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"backend/internal/cart"
	"backend/internal/checkout"
	"backend/internal/domain/models"
	"backend/internal/http/middleware"
	"backend/internal/repositories"
	"backend/internal/services"
)

func newCheckoutService(c *gin.Context) services.CheckoutService {
	return services.CheckoutService{
		CustomerRepo: repositories.CustomerRepository{},
		SessionRepo:  repositories.SessionRepository{},
		ItemRepo:     repositories.SessionItemRepository{},
		CatalogRepo:  repositories.CatalogRepository{},
		VehicleRepo:  repositories.VehicleRepository{},
		PaymentRepo:  repositories.PaymentRepository{},
		RequestID:    middleware.GetRequestID(c),
	}
}

// sessionStore returns the in-memory cart for a session, hydrating it from
// the mirrored rows when the server has no store yet (restart, other node).
func sessionStore(sessionID int64) (*cart.Store, error) {
	store, created := cartReg.Get(sessionID)
	if created {
		items, err := repositories.SessionItemRepository{}.ListBySession(sessionID)
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			store.AddItem(cart.Item{
				ID:             it.ItemID,
				Kind:           cart.ItemKind(it.ItemType),
				Label:          it.Label,
				Quantity:       it.Quantity,
				UnitPriceCents: it.UnitPriceCents,
			})
		}
	}
	return store, nil
}

func sessionIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "id de sessão inválido", nil)
		return 0, false
	}
	return id, true
}

// GET /api/checkout/steps
func GetCheckoutSteps(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"steps": checkout.Steps})
}

type identityPayload struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	CPF         string `json:"cpf" binding:"required,cpf"`
	Phone       string `json:"phone"`
	CNHNumber   string `json:"cnhNumber"`
	CNHCategory string `json:"cnhCategory"`
	CNHExpiry   string `json:"cnhExpiry"`
}

// POST /api/checkout/sessions — personal-info stage submit. Creates (or
// resumes) the server-side session and binds the cart to it.
func CreateCheckoutSession(c *gin.Context) {
	var payload identityPayload
	if !BindJSONOrError(c, &payload) {
		return
	}

	svc := newCheckoutService(c)
	customer, session, err := svc.BeginSession(models.Customer{
		Name:        payload.Name,
		Email:       payload.Email,
		CPF:         payload.CPF,
		Phone:       payload.Phone,
		CNHNumber:   payload.CNHNumber,
		CNHCategory: payload.CNHCategory,
		CNHExpiry:   payload.CNHExpiry,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	store, err := sessionStore(session.ID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	// Resubmits on a resumed session must not keep pushing the wizard forward.
	if session.CurrentStep <= checkout.StepPersonalInfo {
		step, err := svc.AdvanceStep(session.ID)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		session.CurrentStep = step
	}

	c.JSON(http.StatusCreated, gin.H{
		"customer": customer,
		"session":  session,
		"cart":     store.Snapshot(),
	})
}

// GET /api/checkout/sessions/:id
func GetCheckoutSession(c *gin.Context) {
	id, ok := sessionIDParam(c)
	if !ok {
		return
	}

	session, err := repositories.SessionRepository{}.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	store, err := sessionStore(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session": session,
		"cart":    store.Snapshot(),
		"step":    checkout.Resume(session.CurrentStep).CurrentStep(),
	})
}

type selectionPayload struct {
	VehicleID int64  `json:"vehicleId" binding:"required"`
	PlanCode  string `json:"planCode"`
}

// POST /api/checkout/sessions/:id/selection — plan/vehicle stage. Replaces
// any previously selected vehicle line.
func SelectCheckoutVehicle(c *gin.Context) {
	id, ok := sessionIDParam(c)
	if !ok {
		return
	}

	var payload selectionPayload
	if !BindJSONOrError(c, &payload) {
		return
	}

	svc := newCheckoutService(c)
	line, err := svc.SelectVehicle(id, payload.VehicleID, payload.PlanCode)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	store, err := sessionStore(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	for _, it := range store.Snapshot().Items {
		if it.Kind == cart.KindVehicle {
			store.RemoveItem(it.ID)
		}
	}
	state := store.AddItem(line)
	cartSync.Enqueue(state)

	c.JSON(http.StatusOK, gin.H{"cart": state, "item": line})
}

type cartItemPayload struct {
	Code     string `json:"code" binding:"required"`
	Quantity int    `json:"quantity"`
}

// POST /api/checkout/sessions/:id/items — add or set quantity of an optional.
// Quantity zero (or below) removes the line.
func UpsertCartItem(c *gin.Context) {
	id, ok := sessionIDParam(c)
	if !ok {
		return
	}

	var payload cartItemPayload
	if !BindJSONOrError(c, &payload) {
		return
	}

	store, err := sessionStore(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	if payload.Quantity <= 0 {
		if !hasItem(store, payload.Code) {
			// Removing a line that was never added changes nothing.
			c.JSON(http.StatusOK, gin.H{"cart": store.Snapshot()})
			return
		}
		state := store.RemoveItem(payload.Code)
		cartSync.Enqueue(state)
		c.JSON(http.StatusOK, gin.H{"cart": state})
		return
	}

	qty := payload.Quantity
	line, err := newCheckoutService(c).OptionalItem(payload.Code, qty)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	var state cart.State
	if hasItem(store, payload.Code) {
		state = store.UpdateQuantity(payload.Code, qty)
	} else {
		state = store.AddItem(line)
	}
	cartSync.Enqueue(state)

	c.JSON(http.StatusOK, gin.H{"cart": state, "item": line})
}

// DELETE /api/checkout/sessions/:id/items/:code
func RemoveCartItem(c *gin.Context) {
	id, ok := sessionIDParam(c)
	if !ok {
		return
	}

	store, err := sessionStore(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	state := store.RemoveItem(c.Param("code"))
	cartSync.Enqueue(state)

	c.JSON(http.StatusOK, gin.H{"cart": state})
}

type schedulePayload struct {
	Address  string `json:"address" binding:"required"`
	City     string `json:"city" binding:"required"`
	State    string `json:"state" binding:"required,len=2"`
	CEP      string `json:"cep" binding:"required"`
	PickupAt string `json:"pickupAt" binding:"required"`
}

// POST /api/checkout/sessions/:id/schedule — scheduling stage submit.
func ScheduleCheckout(c *gin.Context) {
	id, ok := sessionIDParam(c)
	if !ok {
		return
	}

	var payload schedulePayload
	if !BindJSONOrError(c, &payload) {
		return
	}

	svc := newCheckoutService(c)
	session, err := svc.Schedule(id, payload.Address, payload.City, payload.State, payload.CEP, payload.PickupAt)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	step, err := svc.AdvanceStep(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	session.CurrentStep = step

	c.JSON(http.StatusOK, gin.H{"session": session})
}

type stepPayload struct {
	Step int `json:"step" binding:"required"`
}

// PUT /api/checkout/sessions/:id/step — back/forward navigation. The value is
// clamped to the wizard bounds.
func SetCheckoutStep(c *gin.Context) {
	id, ok := sessionIDParam(c)
	if !ok {
		return
	}

	var payload stepPayload
	if !BindJSONOrError(c, &payload) {
		return
	}

	seq := checkout.Resume(payload.Step)
	if err := (repositories.SessionRepository{}).SetStep(id, seq.Current()); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"step": seq.CurrentStep()})
}

// GET /api/checkout/sessions/:id/confirmation
func GetCheckoutConfirmation(c *gin.Context) {
	id, ok := sessionIDParam(c)
	if !ok {
		return
	}

	view, err := newCheckoutService(c).Confirm(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func hasItem(store *cart.Store, id string) bool {
	for _, it := range store.Snapshot().Items {
		if it.ID == id {
			return true
		}
	}
	return false
}
