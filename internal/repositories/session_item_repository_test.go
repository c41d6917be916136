package repositories

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"backend/internal/cart"
)

func TestReplaceItemsUpsertsAndPrunes(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	items := []cart.Item{
		{ID: "veh-1", Kind: cart.KindVehicle, Label: "Fiat Argo", Quantity: 1, UnitPriceCents: 45000, TotalCents: 45000},
		{ID: "gps", Kind: cart.KindOptional, Label: "GPS", Quantity: 3, UnitPriceCents: 1500, TotalCents: 4500},
	}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM checkout_session_items").
		WithArgs(int64(7), "vehicle", "veh-1", "optional", "gps").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO checkout_session_items").
		WithArgs(int64(7), "vehicle", "veh-1", "Fiat Argo", 1, int64(45000), int64(45000)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO checkout_session_items").
		WithArgs(int64(7), "optional", "gps", "GPS", 3, int64(1500), int64(4500)).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec("UPDATE checkout_sessions SET total_cents").
		WithArgs(int64(49500), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := SessionItemRepository{DB: db}
	if err := repo.ReplaceItems(context.Background(), 7, items, 49500); err != nil {
		t.Fatalf("replace error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReplaceItemsEmptySnapshotClearsSession(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM checkout_session_items WHERE session_id").
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("UPDATE checkout_sessions SET total_cents").
		WithArgs(int64(0), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := SessionItemRepository{DB: db}
	if err := repo.ReplaceItems(context.Background(), 3, nil, 0); err != nil {
		t.Fatalf("replace error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReplaceItemsRollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM checkout_session_items").
		WillReturnError(context.DeadlineExceeded)
	mock.ExpectRollback()

	repo := SessionItemRepository{DB: db}
	items := []cart.Item{{ID: "gps", Kind: cart.KindOptional, Quantity: 1, UnitPriceCents: 1500, TotalCents: 1500}}
	if err := repo.ReplaceItems(context.Background(), 5, items, 1500); err == nil {
		t.Fatal("expected error to propagate")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
