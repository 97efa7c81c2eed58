package metrics

import "context"

// Metric is one usage event destined for the analytics store
type Metric interface {
	// TableName returns the destination table for this metric
	TableName() string
	// Values returns column values in the table's column order
	Values() []interface{}
}

// Writer persists metric batches
type Writer interface {
	// Write sends one batch into the given table
	Write(ctx context.Context, tableName string, metrics []Metric) error
	// Close releases writer resources
	Close() error
}

// Buffer accumulates metrics and flushes them in batches
type Buffer interface {
	// Add appends a metric, flushing when the batch is full. Thread-safe.
	Add(metric Metric) error
	// Flush force-sends everything buffered so far
	Flush(ctx context.Context) error
	// Size returns the number of buffered metrics
	Size() int
	// Close flushes remaining metrics and stops the flush loop
	Close(ctx context.Context) error
}
