package snapshot

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Wilfred007/ink-project/internal/model"
	"github.com/Wilfred007/ink-project/internal/store"
)

var ErrNoSnapshot = errors.New("no snapshot")

// Store persists and restores the complete task-store state. In the
// original deployment model the host runtime owns the state between
// calls; this interface is that host responsibility made explicit.
type Store interface {
	Load(ctx context.Context) (store.State, error)
	Save(ctx context.Context, st store.State) error
}

// PostgresStore keeps the state in two tables: one row per task
// (ordered by position, so insertion order survives a round trip) and a
// single-row store_meta table holding the next-id counter.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{
		pool: pool,
	}
}

func (p *PostgresStore) Load(ctx context.Context) (store.State, error) {
	var st store.State

	var nextID int64
	err := p.pool.QueryRow(ctx, `
		SELECT next_id FROM store_meta WHERE id = 1
	`).Scan(&nextID)

	if err == pgx.ErrNoRows {
		return st, ErrNoSnapshot
	}
	if err != nil {
		return st, err
	}
	st.NextID = uint32(nextID)

	rows, err := p.pool.Query(ctx, `
		SELECT id, description, completed
		FROM tasks
		ORDER BY position
	`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var t model.Task
		if err := rows.Scan(&id, &t.Description, &t.Completed); err != nil {
			return st, err
		}
		t.ID = uint32(id)
		st.Tasks = append(st.Tasks, t)
	}
	return st, rows.Err()
}

// Save replaces the persisted state atomically: either the whole
// snapshot lands or none of it does.
func (p *PostgresStore) Save(ctx context.Context, st store.State) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "TRUNCATE tasks"); err != nil {
		return err
	}

	for pos, t := range st.Tasks {
		_, err := tx.Exec(ctx, `
			INSERT INTO tasks (id, position, description, completed)
			VALUES ($1, $2, $3, $4)
		`, int64(t.ID), pos, t.Description, t.Completed)
		if err != nil {
			return err
		}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO store_meta (id, next_id, updated_at)
		VALUES (1, $1, now())
		ON CONFLICT (id) DO UPDATE SET next_id = EXCLUDED.next_id, updated_at = now()
	`, int64(st.NextID))
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}
