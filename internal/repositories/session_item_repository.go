package repositories

import (
	"context"
	"database/sql"
	"strings"

	"backend/internal/cart"
	intconfig "backend/internal/config"
	"backend/internal/domain/models"
)

// SessionItemRepository mirrors cart lines into checkout_session_items.
// It implements cart.ItemStore for the syncer.
type SessionItemRepository struct {
	DB *sql.DB
}

func (r SessionItemRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// ReplaceItems upserts every line keyed by (session_id, item_type, item_id),
// deletes lines missing from the snapshot, and refreshes the session total —
// all in one transaction so a half-applied snapshot never persists.
func (r SessionItemRepository) ReplaceItems(ctx context.Context, sessionID int64, items []cart.Item, totalCents int64) error {
	db := r.db()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	keep := make([]string, 0, len(items))
	args := []any{sessionID}
	for _, it := range items {
		keep = append(keep, "(?,?)")
		args = append(args, string(it.Kind), it.ID)
	}

	if len(items) == 0 {
		if _, err := tx.ExecContext(ctx, `DELETE FROM checkout_session_items WHERE session_id=?`, sessionID); err != nil {
			return err
		}
	} else {
		del := `DELETE FROM checkout_session_items WHERE session_id=? AND (item_type, item_id) NOT IN (` +
			strings.Join(keep, ",") + `)`
		if _, err := tx.ExecContext(ctx, del, args...); err != nil {
			return err
		}

		for _, it := range items {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO checkout_session_items
					(session_id, item_type, item_id, label, quantity, unit_price_cents, total_cents)
				VALUES (?, ?, ?, ?, ?, ?, ?)
				ON DUPLICATE KEY UPDATE
					label=VALUES(label), quantity=VALUES(quantity),
					unit_price_cents=VALUES(unit_price_cents), total_cents=VALUES(total_cents)`,
				sessionID, string(it.Kind), it.ID, it.Label, it.Quantity, it.UnitPriceCents, it.TotalCents,
			); err != nil {
				return err
			}
		}
	}

	if _, err := tx.ExecContext(ctx, `UPDATE checkout_sessions SET total_cents=? WHERE id=?`, totalCents, sessionID); err != nil {
		return err
	}

	return tx.Commit()
}

// ListBySession returns the mirrored lines for the confirmation stage.
func (r SessionItemRepository) ListBySession(sessionID int64) ([]models.SessionItem, error) {
	rows, err := r.db().Query(`
		SELECT session_id, item_type, item_id, label, quantity, unit_price_cents, total_cents
		FROM checkout_session_items
		WHERE session_id=?
		ORDER BY id`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.SessionItem{}
	for rows.Next() {
		var it models.SessionItem
		if err := rows.Scan(&it.SessionID, &it.ItemType, &it.ItemID, &it.Label, &it.Quantity, &it.UnitPriceCents, &it.TotalCents); err != nil {
			return nil, err
		}
		list = append(list, it)
	}
	return list, rows.Err()
}
