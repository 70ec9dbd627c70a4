package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// PostgresStore persists entries in the eventdesk_kv table.
type PostgresStore struct {
	conn *pgx.Conn
}

// OpenPostgresStore connects with the given connection string, checks the
// connection and creates the table if needed.
func OpenPostgresStore(ctx context.Context, connStr string) (*PostgresStore, error) {
	if connStr == "" {
		return nil, errors.New("DATABASE_URL is required for the postgres backend")
	}
	cfg, err := pgx.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse config error: %w", err)
	}

	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pgx connect error: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("pgx ping error: %w", err)
	}

	_, err = conn.Exec(ctx, `
CREATE TABLE IF NOT EXISTS eventdesk_kv (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
)`)
	if err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("create table: %w", err)
	}
	return &PostgresStore{conn: conn}, nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.conn.QueryRow(ctx, `SELECT value FROM eventdesk_kv WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	_, err := s.conn.Exec(ctx, `
INSERT INTO eventdesk_kv (key, value) VALUES ($1, $2)
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
`, key, value)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.conn.Close(context.Background())
}
