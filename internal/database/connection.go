package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/viaflight/layover-planner/internal/config"
)

// RemoteDB defines the operations the remote-backend repositories need.
// Every call is context-bound so the fallback policy can impose a timeout.
type RemoteDB interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
	Ping() error
	Close() error
}

// PostgresDB implements the RemoteDB interface using sqlx
type PostgresDB struct {
	*sqlx.DB
}

// NewRemoteConnection connects to the hosted remote backend
func NewRemoteConnection(cfg config.RemoteConfig) (RemoteDB, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("remote database URL is required")
	}

	// Connection pooler compatibility; hosted backends commonly sit behind
	// Supavisor-style poolers that mishandle the extended protocol
	connectionURL := cfg.URL
	if !strings.Contains(connectionURL, "prefer_simple_protocol") {
		separator := "?"
		if strings.Contains(connectionURL, "?") {
			separator = "&"
		}
		connectionURL = connectionURL + separator + "prefer_simple_protocol=true"
	}

	db, err := sqlx.Connect("postgres", connectionURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to remote backend: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConnections)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxLifetime / 2)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping remote backend: %w", err)
	}

	return &PostgresDB{DB: db}, nil
}
