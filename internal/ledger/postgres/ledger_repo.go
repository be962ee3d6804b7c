// Package postgres implements the ledger port on an append-only
// trip_records table.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"tripdesk/internal/domain"
	"tripdesk/internal/port"
)

type ledgerRepo struct {
	db *sqlx.DB
}

// NewLedgerRepo creates a PostgreSQL-backed port.Ledger.
func NewLedgerRepo(db *sqlx.DB) port.Ledger {
	return &ledgerRepo{db: db}
}

type tripRecordRow struct {
	ID         uuid.UUID `db:"id"`
	UserID     string    `db:"user_id"`
	Variant    string    `db:"variant"`
	Identifier string    `db:"identifier"`
	Record     []byte    `db:"record"`
	Items      []byte    `db:"items"`
	CreatedAt  time.Time `db:"created_at"`
}

func (r *ledgerRepo) Exists(ctx context.Context, userID string, variant domain.Variant, identifier string) (bool, error) {
	if identifier == "" {
		return false, nil
	}
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(
			SELECT 1 FROM trip_records
			WHERE user_id = $1 AND variant = $2 AND identifier = $3)`,
		userID, string(variant), identifier)
	if err != nil {
		return false, fmt.Errorf("ledgerRepo.Exists: %w", err)
	}
	return exists, nil
}

func (r *ledgerRepo) Append(ctx context.Context, rec *domain.LedgerRecord) error {
	recordJSON, err := json.Marshal(rec.Record)
	if err != nil {
		return fmt.Errorf("ledgerRepo.Append marshal record: %w", err)
	}
	items := rec.Items
	if items == nil {
		items = []domain.Fields{}
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("ledgerRepo.Append marshal items: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO trip_records (id, user_id, variant, identifier, record, items, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.New(), rec.UserID, string(rec.Variant), rec.Identifier,
		recordJSON, itemsJSON, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("ledgerRepo.Append: %w", err)
	}
	return nil
}

func (r *ledgerRepo) Snapshot(ctx context.Context, userID string) (string, error) {
	var rows []tripRecordRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT * FROM trip_records WHERE user_id = $1 ORDER BY created_at, id`, userID)
	if err != nil {
		return "", fmt.Errorf("ledgerRepo.Snapshot: %w", err)
	}

	snapshot := make(map[string][]map[string]interface{}, len(domain.Variants))
	for _, v := range domain.Variants {
		snapshot[v.SnapshotKey()] = []map[string]interface{}{}
	}

	for _, row := range rows {
		variant := domain.Variant(row.Variant)
		key := variant.SnapshotKey()
		if key == "" {
			continue
		}

		record := map[string]interface{}{}
		var fields domain.Fields
		if err := json.Unmarshal(row.Record, &fields); err != nil {
			return "", fmt.Errorf("ledgerRepo.Snapshot unmarshal record %s: %w", row.ID, err)
		}
		for k, val := range fields {
			record[k] = val
		}

		var items []map[string]interface{}
		if err := json.Unmarshal(row.Items, &items); err != nil {
			return "", fmt.Errorf("ledgerRepo.Snapshot unmarshal items %s: %w", row.ID, err)
		}
		if items == nil {
			items = []map[string]interface{}{}
		}
		record[variant.ItemsKey()] = items

		snapshot[key] = append(snapshot[key], record)
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("ledgerRepo.Snapshot marshal: %w", err)
	}
	return string(payload), nil
}

func (r *ledgerRepo) Clear(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM trip_records WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("ledgerRepo.Clear: %w", err)
	}
	return nil
}
