package database

import (
	"database/sql"
	"fmt"
	"time"

	"orianna-agent/internal/common/config"

	_ "github.com/lib/pq"
)

// OpenPostgres opens a lib/pq pool sized for preference lookups.
func OpenPostgres(cfg config.PostgresConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("open postgres %s/%s: %w", cfg.Host, cfg.Database, err)
	}
	maxOpen := cfg.MaxConnections
	if maxOpen <= 0 {
		maxOpen = 5
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(min(cfg.MaxIdle, maxOpen))
	db.SetConnMaxIdleTime(time.Minute)
	return db, nil
}
