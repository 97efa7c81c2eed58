package metrics

import "time"

// Common metric types that can be reused across the system

// ToolUsageMetric represents a single analytics tool invocation for ClickHouse
type ToolUsageMetric struct {
	Timestamp       time.Time
	ChatID          int64
	Marketplace     string
	ToolName        string
	Params          string // JSON
	ResultCount     int
	Success         bool
	ExecutionTimeMs int64
}

func (m *ToolUsageMetric) TableName() string {
	return "tool_usage_metrics"
}

func (m *ToolUsageMetric) Values() []interface{} {
	return []interface{}{
		m.Timestamp,
		m.ChatID,
		m.Marketplace,
		m.ToolName,
		m.Params,
		m.ResultCount,
		m.Success,
		m.ExecutionTimeMs,
	}
}

// QuestionMetric tracks one answered question end to end
type QuestionMetric struct {
	Timestamp   time.Time
	ChatID      int64
	Intent      string
	Marketplace string
	ToolsUsed   int
	LatencyMs   int64
	Answered    bool
}

func (m *QuestionMetric) TableName() string {
	return "question_metrics"
}

func (m *QuestionMetric) Values() []interface{} {
	return []interface{}{
		m.Timestamp,
		m.ChatID,
		m.Intent,
		m.Marketplace,
		m.ToolsUsed,
		m.LatencyMs,
		m.Answered,
	}
}
