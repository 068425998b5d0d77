package persist

import (
	"context"
	"fmt"
)

// EventRow is one unit lifecycle event as stored in unit_events.
type EventRow struct {
	RunID    string
	Tick     uint64
	Kind     string // "spawned", "captured", "dropped", "killed", "exited", "player_hit"
	Unit     uint64
	Other    uint64 // the lander or human on the other side, if any
	UnitKind string
	Cause    string
	X, Y, Z  int
}

type JournalRepo struct {
	db *DB
}

func NewJournalRepo(db *DB) *JournalRepo {
	return &JournalRepo{db: db}
}

// WriteEvents inserts a batch of rows in a single transaction.
func (r *JournalRepo) WriteEvents(ctx context.Context, rows []EventRow) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("journal begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, e := range rows {
		if _, err := tx.Exec(ctx,
			`INSERT INTO unit_events (run_id, tick, kind, unit, other, unit_kind, cause, x, y, z)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			e.RunID, int64(e.Tick), e.Kind, int64(e.Unit), int64(e.Other), e.UnitKind, e.Cause, e.X, e.Y, e.Z,
		); err != nil {
			return fmt.Errorf("journal insert: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("journal commit: %w", err)
	}
	return nil
}

// CountEvents returns how many rows run has written.
func (r *JournalRepo) CountEvents(ctx context.Context, runID string) (int64, error) {
	var n int64
	err := r.db.Pool.QueryRow(ctx,
		`SELECT count(*) FROM unit_events WHERE run_id = $1`, runID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("journal count: %w", err)
	}
	return n, nil
}
