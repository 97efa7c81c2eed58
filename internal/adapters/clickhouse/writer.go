// Package clickhouse persists usage metrics. The driver turns a
// transaction with a prepared insert into one native batch, so every
// Write is a single round trip.
package clickhouse

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/selivandex/seller-bot/pkg/logger"
	"github.com/selivandex/seller-bot/pkg/metrics"
)

// Column order must match Metric.Values() for each table
var tableColumns = map[string][]string{
	"tool_usage_metrics": {
		"timestamp", "chat_id", "marketplace", "tool_name",
		"params", "result_count", "success", "execution_time_ms",
	},
	"question_metrics": {
		"timestamp", "chat_id", "intent", "marketplace",
		"tools_used", "latency_ms", "answered",
	},
}

// Writer implements metrics.Writer over a ClickHouse connection
type Writer struct {
	db *sqlx.DB
}

// NewWriter creates a metrics writer over an open ClickHouse connection
func NewWriter(db *sqlx.DB) *Writer {
	return &Writer{db: db}
}

// Write inserts a batch of metrics into the given table
func (w *Writer) Write(ctx context.Context, tableName string, batch []metrics.Metric) error {
	if len(batch) == 0 {
		return nil
	}

	columns, ok := tableColumns[tableName]
	if !ok {
		return fmt.Errorf("unknown metrics table: %s", tableName)
	}

	tx, err := w.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start batch: %w", err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	stmt, err := tx.Preparex(fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		tableName, strings.Join(columns, ", "), placeholders,
	))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, m := range batch {
		if _, err := stmt.ExecContext(ctx, m.Values()...); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to append metric row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}

	logger.Debug("metrics batch written",
		zap.String("table", tableName),
		zap.Int("count", len(batch)),
	)

	return nil
}

// Close is a no-op, the connection is owned by the caller
func (w *Writer) Close() error {
	return nil
}

// Rows older than the TTL are dropped by ClickHouse itself
var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS tool_usage_metrics (
		timestamp         DateTime,
		chat_id           Int64,
		marketplace       String,
		tool_name         String,
		params            String,
		result_count      Int64,
		success           Bool,
		execution_time_ms Int64
	) ENGINE = MergeTree()
	ORDER BY (timestamp, tool_name)
	TTL timestamp + INTERVAL 180 DAY`,

	`CREATE TABLE IF NOT EXISTS question_metrics (
		timestamp   DateTime,
		chat_id     Int64,
		intent      String,
		marketplace String,
		tools_used  Int64,
		latency_ms  Int64,
		answered    Bool
	) ENGINE = MergeTree()
	ORDER BY (timestamp, intent)
	TTL timestamp + INTERVAL 180 DAY`,
}

// EnsureSchema creates the metrics tables if they do not exist yet
func (w *Writer) EnsureSchema(ctx context.Context) error {
	for _, ddl := range schemaDDL {
		if _, err := w.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("failed to ensure metrics schema: %w", err)
		}
	}

	logger.Debug("metrics schema ensured", zap.Int("tables", len(schemaDDL)))

	return nil
}
