package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/consultorio/painel/internal/database"
)

// GoalRow is one goal singleton as stored: a scope key and its raw payload.
type GoalRow struct {
	Scope   string
	Payload json.RawMessage
	Dirty   bool
}

// GoalRepo handles the goal_sets table.
type GoalRepo struct {
	db *sql.DB
}

func NewGoalRepo(db *sql.DB) *GoalRepo { return &GoalRepo{db: db} }

func (r *GoalRepo) Get(ctx context.Context, scope string) (json.RawMessage, bool, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM goal_sets WHERE scope = ?`, scope).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

func (r *GoalRepo) Put(ctx context.Context, scope string, payload []byte) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO goal_sets(scope, payload, dirty, updated_at)
	VALUES(?, ?, 1, CURRENT_TIMESTAMP)
	ON CONFLICT(scope) DO UPDATE SET
	 payload = excluded.payload,
	 dirty = 1,
	 updated_at = CURRENT_TIMESTAMP;
	`, scope, payload)
	return err
}

func (r *GoalRepo) MarkClean(ctx context.Context, scope string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE goal_sets SET dirty = 0 WHERE scope = ?`, scope)
	return err
}

func (r *GoalRepo) ListDirty(ctx context.Context) ([]GoalRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT scope, payload FROM goal_sets WHERE dirty = 1 ORDER BY scope`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []GoalRow
	for rows.Next() {
		row := GoalRow{Dirty: true}
		if err := rows.Scan(&row.Scope, (*[]byte)(&row.Payload)); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// ApplyRemote mirrors RecordRepo.ApplyRemote for the goal singletons.
func (r *GoalRepo) ApplyRemote(ctx context.Context, rows []GoalRow) error {
	return database.WithTx(r.db, func(tx *sql.Tx) error {
		for _, row := range rows {
			if _, err := tx.ExecContext(ctx, `
			INSERT INTO goal_sets(scope, payload, dirty, updated_at)
			VALUES(?, ?, 0, CURRENT_TIMESTAMP)
			ON CONFLICT(scope) DO UPDATE SET
			 payload = excluded.payload,
			 updated_at = CURRENT_TIMESTAMP
			WHERE goal_sets.dirty = 0;
			`, row.Scope, []byte(row.Payload)); err != nil {
				return err
			}
		}
		return nil
	})
}
