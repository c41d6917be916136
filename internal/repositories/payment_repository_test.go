package repositories

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"

	"backend/internal/domain"
	"backend/internal/domain/models"
)

func attemptRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "session_id", "method", "amount_cents", "provider_ref", "idempotency_key",
		"status", "payload", "created_at", "updated_at",
	})
}

func TestCreateAttemptDuplicateKeyMapsToConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO payment_attempts").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	repo := PaymentRepository{DB: db}
	_, err = repo.Create(models.PaymentAttempt{
		SessionID: 7, Method: "pix", AmountCents: 49500,
		IdempotencyKey: "abc", Status: models.PaymentStatusInitiated,
	})
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestFindByIdempotencyKey(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM payment_attempts WHERE idempotency_key").
		WithArgs("abc").
		WillReturnRows(attemptRows().AddRow(
			1, 7, "pix", 49500, "pix-123", "abc",
			"pending", "", "2026-08-29 10:00:00", "2026-08-29 10:00:00",
		))

	repo := PaymentRepository{DB: db}
	a, err := repo.FindByIdempotencyKey("abc")
	if err != nil {
		t.Fatalf("find error: %v", err)
	}
	if a.ID != 1 || a.Status != models.PaymentStatusPending || a.ProviderRef != "pix-123" {
		t.Fatalf("unexpected attempt: %+v", a)
	}

	mock.ExpectQuery("SELECT (.+) FROM payment_attempts WHERE idempotency_key").
		WithArgs("fresh").
		WillReturnRows(attemptRows())

	if _, err := repo.FindByIdempotencyKey("fresh"); !domain.IsNotFound(err) {
		t.Fatalf("fresh key should be not found, got %v", err)
	}
}

func TestSettleByProviderRef(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE payment_attempts SET status").
		WithArgs("paid", "pix-123").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM payment_attempts WHERE provider_ref").
		WithArgs("pix-123").
		WillReturnRows(attemptRows().AddRow(
			1, 7, "pix", 49500, "pix-123", "abc",
			"paid", "", "2026-08-29 10:00:00", "2026-08-29 10:05:00",
		))

	repo := PaymentRepository{DB: db}
	a, err := repo.SettleByProviderRef("pix-123", "paid")
	if err != nil {
		t.Fatalf("settle error: %v", err)
	}
	if a.Status != models.PaymentStatusPaid || a.SessionID != 7 {
		t.Fatalf("unexpected settled attempt: %+v", a)
	}
}

func TestSettleUnknownRefIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE payment_attempts SET status").
		WithArgs("paid", "ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := PaymentRepository{DB: db}
	if _, err := repo.SettleByProviderRef("ghost", "paid"); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
