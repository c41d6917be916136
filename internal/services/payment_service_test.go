package services

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"

	"backend/internal/domain"
	"backend/internal/domain/models"
	"backend/internal/payment"
	"backend/internal/repositories"
)

type stubMethod struct {
	name   string
	handle payment.Handle
	err    error
	calls  int
}

func (m *stubMethod) Name() string { return m.name }

func (m *stubMethod) CreatePayment(ctx context.Context, req payment.Request) (payment.Handle, error) {
	m.calls++
	return m.handle, m.err
}

func sessionRow(status string, totalCents int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "customer_id", "vehicle_id", "plan_code", "status", "current_step", "total_cents",
		"pickup_address", "pickup_city", "pickup_state", "pickup_cep", "pickup_at", "created_at", "updated_at",
	}).AddRow(7, 2, 3, "sedan-daily", status, 7, totalCents,
		"Av. Paulista 1000", "São Paulo", "SP", "01310100", "2026-09-10 09:00:00",
		"2026-08-29 10:00:00", "2026-08-29 10:00:00")
}

func customerRow() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "email", "cpf", "phone", "cnh_number", "cnh_category", "cnh_expiry", "role", "created_at",
	}).AddRow(2, "Ana Souza", "ana@example.com", "52998224725", "11999990000",
		"12345678900", "B", "2030-01-01", "customer", "2026-08-01 09:00:00")
}

func attemptRow(id int64, method, status, providerRef string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "session_id", "method", "amount_cents", "provider_ref", "idempotency_key",
		"status", "payload", "created_at", "updated_at",
	}).AddRow(id, 7, method, 49500, providerRef, payment.IdempotencyKey(7, method, 49500),
		status, "", "2026-08-29 10:00:00", "2026-08-29 10:00:00")
}

func emptyAttemptRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "session_id", "method", "amount_cents", "provider_ref", "idempotency_key",
		"status", "payload", "created_at", "updated_at",
	})
}

func TestDispatchCreatesAttemptAndRecordsOutcome(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	mock.MatchExpectationsInOrder(false)

	mock.ExpectQuery("SELECT (.+) FROM checkout_sessions WHERE id").
		WithArgs(int64(7)).
		WillReturnRows(sessionRow("scheduled", 49500))
	mock.ExpectQuery("SELECT (.+) FROM payment_attempts WHERE idempotency_key").
		WillReturnRows(emptyAttemptRows())
	mock.ExpectQuery("SELECT (.+) FROM customers WHERE id").
		WithArgs(int64(2)).
		WillReturnRows(customerRow())
	mock.ExpectExec("INSERT INTO payment_attempts").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT (.+) FROM payment_attempts WHERE id=").
		WithArgs(int64(1)).
		WillReturnRows(attemptRow(1, "pix", "initiated", ""))
	mock.ExpectExec("UPDATE payment_attempts SET provider_ref").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM payment_attempts WHERE id=").
		WithArgs(int64(1)).
		WillReturnRows(attemptRow(1, "pix", "pending", "pix-123"))

	stub := &stubMethod{name: "pix", handle: payment.Handle{
		Method: "pix", ProviderRef: "pix-123", Status: "pending", QRCode: "000201...",
	}}
	svc := PaymentService{
		PaymentRepo:  repositories.PaymentRepository{DB: db},
		SessionRepo:  repositories.SessionRepository{DB: db},
		CustomerRepo: repositories.CustomerRepository{DB: db},
		Methods:      payment.NewDispatcher(stub),
	}

	attempt, err := svc.Dispatch(context.Background(), DispatchInput{SessionID: 7, Method: "pix"})
	if err != nil {
		t.Fatalf("dispatch error: %v", err)
	}
	if attempt.Status != models.PaymentStatusPending || attempt.ProviderRef != "pix-123" {
		t.Fatalf("unexpected attempt: %+v", attempt)
	}
	if stub.calls != 1 {
		t.Fatalf("provider should be called once, got %d", stub.calls)
	}
}

func TestDispatchReplayReusesStoredAttempt(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM checkout_sessions WHERE id").
		WithArgs(int64(7)).
		WillReturnRows(sessionRow("scheduled", 49500))
	mock.ExpectQuery("SELECT (.+) FROM payment_attempts WHERE idempotency_key").
		WillReturnRows(attemptRow(1, "pix", "pending", "pix-123"))

	stub := &stubMethod{name: "pix"}
	svc := PaymentService{
		PaymentRepo:  repositories.PaymentRepository{DB: db},
		SessionRepo:  repositories.SessionRepository{DB: db},
		CustomerRepo: repositories.CustomerRepository{DB: db},
		Methods:      payment.NewDispatcher(stub),
	}

	attempt, err := svc.Dispatch(context.Background(), DispatchInput{SessionID: 7, Method: "pix"})
	if err != nil {
		t.Fatalf("dispatch error: %v", err)
	}
	if attempt.ID != 1 || attempt.Status != models.PaymentStatusPending {
		t.Fatalf("expected stored attempt back, got %+v", attempt)
	}
	if stub.calls != 0 {
		t.Fatalf("replay must not reach the provider, got %d calls", stub.calls)
	}
}

func TestDispatchRetriesFailedAttempt(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	mock.MatchExpectationsInOrder(false)

	mock.ExpectQuery("SELECT (.+) FROM checkout_sessions WHERE id").
		WithArgs(int64(7)).
		WillReturnRows(sessionRow("scheduled", 49500))
	mock.ExpectQuery("SELECT (.+) FROM payment_attempts WHERE idempotency_key").
		WillReturnRows(attemptRow(4, "pix", "failed", ""))
	mock.ExpectExec("UPDATE payment_attempts SET provider_ref='', status='initiated'").
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM customers WHERE id").
		WithArgs(int64(2)).
		WillReturnRows(customerRow())
	mock.ExpectExec("UPDATE payment_attempts SET provider_ref=\\?").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM payment_attempts WHERE id=").
		WithArgs(int64(4)).
		WillReturnRows(attemptRow(4, "pix", "pending", "pix-456"))

	stub := &stubMethod{name: "pix", handle: payment.Handle{
		Method: "pix", ProviderRef: "pix-456", Status: "pending", QRCode: "000201...",
	}}
	svc := PaymentService{
		PaymentRepo:  repositories.PaymentRepository{DB: db},
		SessionRepo:  repositories.SessionRepository{DB: db},
		CustomerRepo: repositories.CustomerRepository{DB: db},
		Methods:      payment.NewDispatcher(stub),
	}

	attempt, err := svc.Dispatch(context.Background(), DispatchInput{SessionID: 7, Method: "pix"})
	if err != nil {
		t.Fatalf("retry dispatch error: %v", err)
	}
	if attempt.ID != 4 || attempt.Status != models.PaymentStatusPending {
		t.Fatalf("retry must reuse the failed row, got %+v", attempt)
	}
	if stub.calls != 1 {
		t.Fatalf("retry must reach the provider once, got %d calls", stub.calls)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDispatchLostRaceToFailedAttemptReportsConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM checkout_sessions WHERE id").
		WithArgs(int64(7)).
		WillReturnRows(sessionRow("scheduled", 49500))
	mock.ExpectQuery("SELECT (.+) FROM payment_attempts WHERE idempotency_key").
		WillReturnRows(emptyAttemptRows())
	mock.ExpectQuery("SELECT (.+) FROM customers WHERE id").
		WithArgs(int64(2)).
		WillReturnRows(customerRow())
	mock.ExpectExec("INSERT INTO payment_attempts").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectQuery("SELECT (.+) FROM payment_attempts WHERE idempotency_key").
		WillReturnRows(attemptRow(4, "pix", "failed", ""))

	stub := &stubMethod{name: "pix"}
	svc := PaymentService{
		PaymentRepo:  repositories.PaymentRepository{DB: db},
		SessionRepo:  repositories.SessionRepository{DB: db},
		CustomerRepo: repositories.CustomerRepository{DB: db},
		Methods:      payment.NewDispatcher(stub),
	}

	if _, err := svc.Dispatch(context.Background(), DispatchInput{SessionID: 7, Method: "pix"}); !domain.IsConflict(err) {
		t.Fatalf("expected conflict when the stored attempt already failed, got %v", err)
	}
	if stub.calls != 0 {
		t.Fatalf("losing the insert race must not reach the provider, got %d calls", stub.calls)
	}
}

func TestDispatchRequiresScheduledSession(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM checkout_sessions WHERE id").
		WithArgs(int64(7)).
		WillReturnRows(sessionRow("draft", 49500))

	svc := PaymentService{
		SessionRepo: repositories.SessionRepository{DB: db},
		Methods:     payment.NewDispatcher(&stubMethod{name: "pix"}),
	}

	if _, err := svc.Dispatch(context.Background(), DispatchInput{SessionID: 7, Method: "pix"}); !domain.IsConflict(err) {
		t.Fatalf("expected conflict for draft session, got %v", err)
	}
}

func TestDispatchProviderFailureMarksAttemptFailed(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	mock.MatchExpectationsInOrder(false)

	mock.ExpectQuery("SELECT (.+) FROM checkout_sessions WHERE id").
		WithArgs(int64(7)).
		WillReturnRows(sessionRow("scheduled", 49500))
	mock.ExpectQuery("SELECT (.+) FROM payment_attempts WHERE idempotency_key").
		WillReturnRows(emptyAttemptRows())
	mock.ExpectQuery("SELECT (.+) FROM customers WHERE id").
		WithArgs(int64(2)).
		WillReturnRows(customerRow())
	mock.ExpectExec("INSERT INTO payment_attempts").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT (.+) FROM payment_attempts WHERE id=").
		WithArgs(int64(1)).
		WillReturnRows(attemptRow(1, "pix", "initiated", ""))
	mock.ExpectExec("UPDATE payment_attempts SET provider_ref").
		WithArgs("", "failed", "", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	stub := &stubMethod{name: "pix", err: domain.ProviderError{Provider: "pix", Msg: "instabilidade"}}
	svc := PaymentService{
		PaymentRepo:  repositories.PaymentRepository{DB: db},
		SessionRepo:  repositories.SessionRepository{DB: db},
		CustomerRepo: repositories.CustomerRepository{DB: db},
		Methods:      payment.NewDispatcher(stub),
	}

	if _, err := svc.Dispatch(context.Background(), DispatchInput{SessionID: 7, Method: "pix"}); !domain.IsProvider(err) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSettlePaidActivatesSession(t *testing.T) {
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
		WillReturnRows(attemptRow(1, "pix", "paid", "pix-123"))
	mock.ExpectQuery("SELECT (.+) FROM checkout_sessions WHERE id").
		WithArgs(int64(7)).
		WillReturnRows(sessionRow("scheduled", 49500))
	mock.ExpectExec("UPDATE checkout_sessions SET status").
		WithArgs("active", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	svc := PaymentService{
		PaymentRepo: repositories.PaymentRepository{DB: db},
		SessionRepo: repositories.SessionRepository{DB: db},
	}

	attempt, err := svc.Settle("pix-123", "paid")
	if err != nil {
		t.Fatalf("settle error: %v", err)
	}
	if attempt.Status != models.PaymentStatusPaid {
		t.Fatalf("unexpected attempt: %+v", attempt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSettleRejectsUnknownStatus(t *testing.T) {
	svc := PaymentService{}
	if _, err := svc.Settle("pix-123", "maybe"); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
