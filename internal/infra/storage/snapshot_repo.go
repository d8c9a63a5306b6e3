package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// SnapshotRepo keeps the registry in Postgres as append-only snapshot rows;
// Load reads the newest one. Each Save is a single INSERT, so the visible
// snapshot is always complete. History past `keep` rows is pruned on save
// (the janitor handles age-based pruning).
type SnapshotRepo struct {
	db   *sql.DB
	keep int
}

func NewSnapshotRepo(db *sql.DB) *SnapshotRepo { return &SnapshotRepo{db: db, keep: 20} }

func (r *SnapshotRepo) Load(ctx context.Context) (Snapshot, error) {
	var raw []byte
	err := r.db.QueryRowContext(ctx, `
SELECT data
  FROM registry_snapshots
 ORDER BY id DESC
 LIMIT 1
`).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("registry load: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptStore, err)
	}
	return snap, nil
}

func (r *SnapshotRepo) Save(ctx context.Context, snap Snapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, `
INSERT INTO registry_snapshots (data) VALUES ($1)
`, b); err != nil {
		return fmt.Errorf("registry save: %w", err)
	}
	return r.pruneHistory(ctx)
}

func (r *SnapshotRepo) pruneHistory(ctx context.Context) error {
	rows, err := r.db.QueryContext(ctx, `
SELECT id
  FROM registry_snapshots
 ORDER BY id DESC
OFFSET $1
`, r.keep)
	if err != nil {
		return err
	}
	defer rows.Close()

	var stale []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return err
		}
		stale = append(stale, id)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if len(stale) == 0 {
		return nil
	}
	_, err = r.db.ExecContext(ctx, `
DELETE FROM registry_snapshots WHERE id = ANY($1)
`, pq.Array(stale))
	return err
}
