package repositories

import (
	"database/sql"
	"errors"

	"backend/internal/checkout"
	intconfig "backend/internal/config"
	"backend/internal/domain"
	"backend/internal/domain/models"
)

type SessionRepository struct {
	DB *sql.DB
}

func (r SessionRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const sessionColumns = `
	id, customer_id, COALESCE(vehicle_id, 0), COALESCE(plan_code,''),
	status, current_step, total_cents,
	COALESCE(pickup_address,''), COALESCE(pickup_city,''), COALESCE(pickup_state,''), COALESCE(pickup_cep,''),
	COALESCE(DATE_FORMAT(pickup_at, '%Y-%m-%d %H:%i:%s'),''),
	DATE_FORMAT(created_at, '%Y-%m-%d %H:%i:%s'),
	DATE_FORMAT(updated_at, '%Y-%m-%d %H:%i:%s')`

func scanSession(row *sql.Row) (models.CheckoutSession, error) {
	var s models.CheckoutSession
	err := row.Scan(
		&s.ID, &s.CustomerID, &s.VehicleID, &s.PlanCode,
		&s.Status, &s.CurrentStep, &s.TotalCents,
		&s.PickupAddress, &s.PickupCity, &s.PickupState, &s.PickupCEP,
		&s.PickupAt, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// Create opens a draft session for a customer at the personal-info step.
func (r SessionRepository) Create(customerID int64, step int) (models.CheckoutSession, error) {
	if customerID <= 0 {
		return models.CheckoutSession{}, domain.ValidationError{Field: "customer_id", Msg: "id inválido"}
	}
	res, err := r.db().Exec(`
		INSERT INTO checkout_sessions (customer_id, status, current_step)
		VALUES (?, ?, ?)`,
		customerID, checkout.StatusDraft.String(), step,
	)
	if err != nil {
		return models.CheckoutSession{}, err
	}
	id, _ := res.LastInsertId()
	return r.GetByID(id)
}

func (r SessionRepository) GetByID(id int64) (models.CheckoutSession, error) {
	if id <= 0 {
		return models.CheckoutSession{}, domain.ValidationError{Field: "id", Msg: "id inválido"}
	}
	row := r.db().QueryRow(`SELECT `+sessionColumns+` FROM checkout_sessions WHERE id=? LIMIT 1`, id)
	s, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.CheckoutSession{}, domain.NotFoundError{Resource: "checkout session"}
		}
		return models.CheckoutSession{}, err
	}
	return s, nil
}

// ListByCustomer returns a customer's sessions, newest first.
func (r SessionRepository) ListByCustomer(customerID int64) ([]models.CheckoutSession, error) {
	rows, err := r.db().Query(`
		SELECT `+sessionColumns+`
		FROM checkout_sessions WHERE customer_id=? ORDER BY id DESC`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.CheckoutSession{}
	for rows.Next() {
		var s models.CheckoutSession
		if err := rows.Scan(
			&s.ID, &s.CustomerID, &s.VehicleID, &s.PlanCode,
			&s.Status, &s.CurrentStep, &s.TotalCents,
			&s.PickupAddress, &s.PickupCity, &s.PickupState, &s.PickupCEP,
			&s.PickupAt, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// SetSelection writes the vehicle/plan snapshot chosen at the plan stage.
func (r SessionRepository) SetSelection(id int64, vehicleID int64, planCode string) error {
	_, err := r.db().Exec(`
		UPDATE checkout_sessions SET vehicle_id=NULLIF(?, 0), plan_code=? WHERE id=?`,
		vehicleID, planCode, id)
	return err
}

// SetSchedule stores pickup address and date/time from the scheduling stage.
func (r SessionRepository) SetSchedule(id int64, address, city, state, cep, pickupAt string) error {
	_, err := r.db().Exec(`
		UPDATE checkout_sessions
		SET pickup_address=?, pickup_city=?, pickup_state=?, pickup_cep=?, pickup_at=NULLIF(?, '')
		WHERE id=?`,
		address, city, state, cep, pickupAt, id)
	return err
}

// SetStatus transitions the lifecycle. The caller is responsible for checking
// checkout.CanTransition first; this only persists.
func (r SessionRepository) SetStatus(id int64, status checkout.Status) error {
	_, err := r.db().Exec(`UPDATE checkout_sessions SET status=? WHERE id=?`, status.String(), id)
	return err
}

// SetStep persists the sequencer position so a returning client resumes.
func (r SessionRepository) SetStep(id int64, step int) error {
	_, err := r.db().Exec(`UPDATE checkout_sessions SET current_step=? WHERE id=?`, step, id)
	return err
}

// SetTotal mirrors the cart's grand total onto the session row.
func (r SessionRepository) SetTotal(id int64, totalCents int64) error {
	_, err := r.db().Exec(`UPDATE checkout_sessions SET total_cents=? WHERE id=?`, totalCents, id)
	return err
}
