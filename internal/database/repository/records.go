package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/consultorio/painel/internal/database"
)

// RecordRow is one daily record as stored: a date key and its raw payload.
type RecordRow struct {
	Date    string
	Payload json.RawMessage
	Dirty   bool
}

// RecordRepo handles the daily_records table.
type RecordRepo struct {
	db *sql.DB
}

func NewRecordRepo(db *sql.DB) *RecordRepo { return &RecordRepo{db: db} }

// Get returns the stored payload for a date. ok is false when the date was
// never saved.
func (r *RecordRepo) Get(ctx context.Context, date string) (json.RawMessage, bool, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM daily_records WHERE date = ?`, date).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

// Put upserts a local edit and marks it dirty until the remote store
// acknowledges it.
func (r *RecordRepo) Put(ctx context.Context, date string, payload []byte) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO daily_records(date, payload, dirty, updated_at)
	VALUES(?, ?, 1, CURRENT_TIMESTAMP)
	ON CONFLICT(date) DO UPDATE SET
	 payload = excluded.payload,
	 dirty = 1,
	 updated_at = CURRENT_TIMESTAMP;
	`, date, payload)
	return err
}

// MarkClean clears the dirty flag after a successful remote push.
func (r *RecordRepo) MarkClean(ctx context.Context, date string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE daily_records SET dirty = 0 WHERE date = ?`, date)
	return err
}

// ListDirty returns rows edited locally but not yet pushed, oldest first.
func (r *RecordRepo) ListDirty(ctx context.Context) ([]RecordRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT date, payload FROM daily_records WHERE dirty = 1 ORDER BY date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []RecordRow
	for rows.Next() {
		row := RecordRow{Dirty: true}
		if err := rows.Scan(&row.Date, (*[]byte)(&row.Payload)); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// ApplyRemote overwrites local rows with the pulled remote set in a single
// transaction. Dirty rows keep the local edit; local-only dates survive.
func (r *RecordRepo) ApplyRemote(ctx context.Context, rows []RecordRow) error {
	return database.WithTx(r.db, func(tx *sql.Tx) error {
		for _, row := range rows {
			if _, err := tx.ExecContext(ctx, `
			INSERT INTO daily_records(date, payload, dirty, updated_at)
			VALUES(?, ?, 0, CURRENT_TIMESTAMP)
			ON CONFLICT(date) DO UPDATE SET
			 payload = excluded.payload,
			 updated_at = CURRENT_TIMESTAMP
			WHERE daily_records.dirty = 0;
			`, row.Date, []byte(row.Payload)); err != nil {
				return err
			}
		}
		return nil
	})
}
