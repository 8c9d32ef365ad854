package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/liveboard/liveboard/internal/document"
	"github.com/liveboard/liveboard/internal/typeid"
)

// DefaultKeep is how many snapshot versions PostgresStore retains.
const DefaultKeep = 20

const schema = `
CREATE TABLE IF NOT EXISTS scene_snapshots (
	id         TEXT PRIMARY KEY,
	version    INTEGER NOT NULL UNIQUE,
	document   JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const (
	getLatestSnapshot = `SELECT document FROM scene_snapshots ORDER BY version DESC LIMIT 1`
	getLatestVersion  = `SELECT COALESCE(MAX(version), 0) FROM scene_snapshots`
	createSnapshot    = `INSERT INTO scene_snapshots (id, version, document) VALUES ($1, $2, $3)`
	pruneSnapshots    = `DELETE FROM scene_snapshots WHERE version <= $1`
)

// PostgresStore appends every save as a new versioned row; the latest row
// wins on load.
type PostgresStore struct {
	pool *pgxpool.Pool
	keep int
}

// NewPostgresStore connects and makes sure the table exists.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &PostgresStore{pool: pool, keep: DefaultKeep}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) Load(ctx context.Context) (*document.Snapshot, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, getLatestSnapshot).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get latest snapshot: %w", err)
	}
	var snap document.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

func (s *PostgresStore) Save(ctx context.Context, snap *document.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		var version int32
		if err := tx.QueryRow(ctx, getLatestVersion).Scan(&version); err != nil {
			return fmt.Errorf("get latest version: %w", err)
		}
		version++

		if _, err := tx.Exec(ctx, createSnapshot, typeid.NewSnapshotID(), version, data); err != nil {
			return fmt.Errorf("create snapshot: %w", err)
		}
		if s.keep > 0 {
			if _, err := tx.Exec(ctx, pruneSnapshots, version-int32(s.keep)); err != nil {
				return fmt.Errorf("prune snapshots: %w", err)
			}
		}
		return nil
	})
}
