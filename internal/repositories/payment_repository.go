package repositories

import (
	"database/sql"
	"errors"

	intconfig "backend/internal/config"
	"backend/internal/domain"
	"backend/internal/domain/models"
)

type PaymentRepository struct {
	DB *sql.DB
}

func (r PaymentRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const attemptColumns = `
	id, session_id, method, amount_cents, COALESCE(provider_ref,''), idempotency_key,
	status, COALESCE(payload,''),
	DATE_FORMAT(created_at, '%Y-%m-%d %H:%i:%s'),
	DATE_FORMAT(updated_at, '%Y-%m-%d %H:%i:%s')`

func scanAttempt(row *sql.Row) (models.PaymentAttempt, error) {
	var a models.PaymentAttempt
	err := row.Scan(
		&a.ID, &a.SessionID, &a.Method, &a.AmountCents, &a.ProviderRef, &a.IdempotencyKey,
		&a.Status, &a.Payload, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

// FindByIdempotencyKey returns the existing attempt for a repeated dispatch,
// or NotFound when the key is fresh.
func (r PaymentRepository) FindByIdempotencyKey(key string) (models.PaymentAttempt, error) {
	if key == "" {
		return models.PaymentAttempt{}, domain.ValidationError{Field: "idempotency_key", Msg: "chave vazia"}
	}
	row := r.db().QueryRow(`SELECT `+attemptColumns+` FROM payment_attempts WHERE idempotency_key=? LIMIT 1`, key)
	a, err := scanAttempt(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.PaymentAttempt{}, domain.NotFoundError{Resource: "payment attempt"}
		}
		return models.PaymentAttempt{}, err
	}
	return a, nil
}

// Create inserts a new attempt row. A duplicate idempotency key maps to
// conflict so the service can fall back to the stored attempt.
func (r PaymentRepository) Create(a models.PaymentAttempt) (models.PaymentAttempt, error) {
	res, err := r.db().Exec(`
		INSERT INTO payment_attempts (session_id, method, amount_cents, provider_ref, idempotency_key, status, payload)
		VALUES (?, ?, ?, ?, ?, ?, NULLIF(?, ''))`,
		a.SessionID, a.Method, a.AmountCents, a.ProviderRef, a.IdempotencyKey, a.Status, a.Payload,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return models.PaymentAttempt{}, domain.ConflictError{Resource: "payment attempt", Msg: "dispatch duplicado"}
		}
		return models.PaymentAttempt{}, err
	}
	id, _ := res.LastInsertId()
	return r.GetByID(id)
}

// ResetForRetry rewinds a failed attempt to initiated so a new dispatch can
// reuse the row, keeping the idempotency key unique.
func (r PaymentRepository) ResetForRetry(id int64) error {
	_, err := r.db().Exec(`
		UPDATE payment_attempts SET provider_ref='', status='initiated', payload=NULL WHERE id=?`, id)
	return err
}

func (r PaymentRepository) GetByID(id int64) (models.PaymentAttempt, error) {
	if id <= 0 {
		return models.PaymentAttempt{}, domain.ValidationError{Field: "id", Msg: "id inválido"}
	}
	row := r.db().QueryRow(`SELECT `+attemptColumns+` FROM payment_attempts WHERE id=? LIMIT 1`, id)
	a, err := scanAttempt(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.PaymentAttempt{}, domain.NotFoundError{Resource: "payment attempt"}
		}
		return models.PaymentAttempt{}, err
	}
	return a, nil
}

// LatestBySession returns the newest attempt for the confirmation stage.
func (r PaymentRepository) LatestBySession(sessionID int64) (models.PaymentAttempt, error) {
	row := r.db().QueryRow(`
		SELECT `+attemptColumns+`
		FROM payment_attempts WHERE session_id=? ORDER BY id DESC LIMIT 1`, sessionID)
	a, err := scanAttempt(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.PaymentAttempt{}, domain.NotFoundError{Resource: "payment attempt"}
		}
		return models.PaymentAttempt{}, err
	}
	return a, nil
}

// UpdateOutcome records the provider answer on an initiated attempt.
func (r PaymentRepository) UpdateOutcome(id int64, providerRef, status, payload string) error {
	_, err := r.db().Exec(`
		UPDATE payment_attempts SET provider_ref=?, status=?, payload=NULLIF(?, '') WHERE id=?`,
		providerRef, status, payload, id)
	return err
}

// SettleByProviderRef applies a webhook settlement. Returns the settled
// attempt so the caller can advance the session lifecycle.
func (r PaymentRepository) SettleByProviderRef(providerRef, status string) (models.PaymentAttempt, error) {
	if providerRef == "" {
		return models.PaymentAttempt{}, domain.ValidationError{Field: "provider_ref", Msg: "referência vazia"}
	}

	res, err := r.db().Exec(`UPDATE payment_attempts SET status=? WHERE provider_ref=?`, status, providerRef)
	if err != nil {
		return models.PaymentAttempt{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.PaymentAttempt{}, domain.NotFoundError{Resource: "payment attempt"}
	}

	row := r.db().QueryRow(`SELECT `+attemptColumns+` FROM payment_attempts WHERE provider_ref=? LIMIT 1`, providerRef)
	return scanAttempt(row)
}
