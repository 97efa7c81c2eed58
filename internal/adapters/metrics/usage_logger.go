package metrics

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/selivandex/seller-bot/pkg/logger"
	"github.com/selivandex/seller-bot/pkg/metrics"
)

// UsageLogger records tool and question metrics through the buffered writer.
// A nil UsageLogger is valid and drops everything, so the bot runs fine
// without ClickHouse configured.
type UsageLogger struct {
	buffer metrics.Buffer
}

// NewUsageLogger creates usage logger backed by a metrics buffer
func NewUsageLogger(buffer metrics.Buffer) *UsageLogger {
	return &UsageLogger{buffer: buffer}
}

// LogToolUsage records a single tool invocation
func (l *UsageLogger) LogToolUsage(ctx context.Context, chatID int64, marketplace, toolName string, params map[string]interface{}, resultCount int, success bool, executionTimeMs int64) {
	if l == nil || l.buffer == nil {
		return
	}

	paramsJSON, err := json.Marshal(params)
	if err != nil {
		paramsJSON = []byte("{}")
	}

	metric := &metrics.ToolUsageMetric{
		Timestamp:       time.Now().UTC(),
		ChatID:          chatID,
		Marketplace:     marketplace,
		ToolName:        toolName,
		Params:          string(paramsJSON),
		ResultCount:     resultCount,
		Success:         success,
		ExecutionTimeMs: executionTimeMs,
	}

	if err := l.buffer.Add(metric); err != nil {
		logger.Warn("failed to buffer tool usage metric",
			zap.String("tool", toolName),
			zap.Error(err),
		)
	}
}

// LogQuestion records one answered question
func (l *UsageLogger) LogQuestion(ctx context.Context, chatID int64, intent, marketplace string, toolsUsed int, latencyMs int64, answered bool) {
	if l == nil || l.buffer == nil {
		return
	}

	metric := &metrics.QuestionMetric{
		Timestamp:   time.Now().UTC(),
		ChatID:      chatID,
		Intent:      intent,
		Marketplace: marketplace,
		ToolsUsed:   toolsUsed,
		LatencyMs:   latencyMs,
		Answered:    answered,
	}

	if err := l.buffer.Add(metric); err != nil {
		logger.Warn("failed to buffer question metric",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// Close flushes remaining metrics
func (l *UsageLogger) Close(ctx context.Context) error {
	if l == nil || l.buffer == nil {
		return nil
	}
	return l.buffer.Close(ctx)
}
