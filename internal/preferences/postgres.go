package preferences

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const (
	createTableSQL = `CREATE TABLE IF NOT EXISTS user_preferences (
	user_id    TEXT PRIMARY KEY,
	prefs      JSONB NOT NULL DEFAULT '{}'::jsonb,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

	selectPrefSQL = `SELECT prefs -> $2 FROM user_preferences WHERE user_id = $1`

	upsertPrefSQL = `INSERT INTO user_preferences (user_id, prefs)
VALUES ($1, jsonb_build_object($2::text, $3::jsonb))
ON CONFLICT (user_id) DO UPDATE
SET prefs = user_preferences.prefs || EXCLUDED.prefs, updated_at = now()`
)

// PostgresStore keeps one JSONB document per user row.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the preferences table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create user_preferences: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, userID, key string) (interface{}, bool, error) {
	var raw sql.NullString
	err := s.db.QueryRowContext(ctx, selectPrefSQL, userID, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select preference %s: %w", key, err)
	}
	if !raw.Valid {
		return nil, false, nil
	}
	return decodeValue(raw.String), true, nil
}

func (s *PostgresStore) Set(ctx context.Context, userID, key string, value interface{}) error {
	if err := validateKey(userID, key); err != nil {
		return err
	}
	raw, err := encodeValue(value)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, upsertPrefSQL, userID, key, raw); err != nil {
		return fmt.Errorf("upsert preference %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
