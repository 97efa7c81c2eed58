package database

import (
	"context"
	"fmt"
	"time"

	_ "github.com/ClickHouse/clickhouse-go/v2"
	"github.com/jmoiron/sqlx"
)

// ClickHouse wraps the ClickHouse connection used for tool usage metrics
type ClickHouse struct {
	conn *sqlx.DB
}

// NewClickHouse creates a new ClickHouse connection
func NewClickHouse(dsn string) (*ClickHouse, error) {
	conn, err := sqlx.Connect("clickhouse", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}

	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(10 * time.Minute)

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping clickhouse: %w", err)
	}

	return &ClickHouse{conn: conn}, nil
}

// DB returns the sqlx.DB instance for queries
func (c *ClickHouse) DB() *sqlx.DB {
	return c.conn
}

// Close closes the ClickHouse connection
func (c *ClickHouse) Close() error {
	return c.conn.Close()
}

// Health checks if ClickHouse is reachable
func (c *ClickHouse) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := c.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("clickhouse health check failed: %w", err)
	}

	return nil
}
