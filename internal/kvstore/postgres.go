package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type postgresConfig struct {
	DSN   string `json:"dsn"`
	Table string `json:"table"`
}

type postgresStore struct {
	db    *sqlx.DB
	table string
}

func init() {
	Register("postgres", createPostgresStore)
}

func createPostgresStore(args interface{}) (Store, error) {
	cfg := &postgresConfig{}
	if err := decodeConfig(args, cfg); err != nil {
		return nil, err
	}
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgres kvstore dsn is required")
	}
	if cfg.Table == "" {
		cfg.Table = "kv_store"
	}
	db, err := sqlx.Connect("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	store := &postgresStore{db: db, table: cfg.Table}
	if err := store.ensureTable(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *postgresStore) ensureTable() error {
	schema := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		key TEXT PRIMARY KEY,
		value BYTEA NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`, s.table)
	_, err := s.db.Exec(schema)
	return err
}

func (s *postgresStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	query := fmt.Sprintf("SELECT value FROM %s WHERE key = $1", s.table)
	err := s.db.GetContext(ctx, &value, query, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (s *postgresStore) Set(ctx context.Context, key string, value []byte) error {
	query := fmt.Sprintf(`INSERT INTO %s (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`, s.table)
	_, err := s.db.ExecContext(ctx, query, key, value)
	return err
}

func (s *postgresStore) Delete(ctx context.Context, key string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE key = $1", s.table)
	_, err := s.db.ExecContext(ctx, query, key)
	return err
}

func (s *postgresStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	query := fmt.Sprintf("SELECT key FROM %s WHERE key LIKE $1 ORDER BY key", s.table)
	if err := s.db.SelectContext(ctx, &keys, query, prefix+"%"); err != nil {
		return nil, err
	}
	return keys, nil
}
