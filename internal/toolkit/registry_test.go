package toolkit

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/selivandex/seller-bot/pkg/models"
)

// stubToolkit records the last dispatched call so wrapper wiring can be
// asserted without a database
type stubToolkit struct {
	called       string
	period       models.Period
	periodB      models.Period
	metric       string
	limit        int
	days         int
	nmID         int64
	campaignID   int64
	threshold    float64
	maxMargin    float64
	maxDRR       float64
	minCR        float64
	minViews     int64
	maxCR        float64
	chatID       int64
	feedbackType string
	comment      string

	result string
	err    error
}

func (s *stubToolkit) done(name string) (string, error) {
	s.called = name
	return s.result, s.err
}

func (s *stubToolkit) GetMarginSummary(_ context.Context, period models.Period) (string, error) {
	s.period = period
	return s.done("GetMarginSummary")
}

func (s *stubToolkit) GetTopProducts(_ context.Context, period models.Period, metric string, limit int) (string, error) {
	s.period, s.metric, s.limit = period, metric, limit
	return s.done("GetTopProducts")
}

func (s *stubToolkit) GetUnprofitableProducts(_ context.Context, period models.Period, maxMargin float64, limit int) (string, error) {
	s.period, s.maxMargin, s.limit = period, maxMargin, limit
	return s.done("GetUnprofitableProducts")
}

func (s *stubToolkit) GetMarginTrend(_ context.Context, days int, metric string) (string, error) {
	s.days, s.metric = days, metric
	return s.done("GetMarginTrend")
}

func (s *stubToolkit) CompareMarginPeriods(_ context.Context, periodA, periodB models.Period) (string, error) {
	s.period, s.periodB = periodA, periodB
	return s.done("CompareMarginPeriods")
}

func (s *stubToolkit) AnalyzeMarginChange(_ context.Context, daysBack int) (string, error) {
	s.days = daysBack
	return s.done("AnalyzeMarginChange")
}

func (s *stubToolkit) FindMarginAnomalies(_ context.Context, days int, metric string) (string, error) {
	s.days, s.metric = days, metric
	return s.done("FindMarginAnomalies")
}

func (s *stubToolkit) DiagnoseSKU(_ context.Context, nmID int64, daysBack int) (string, error) {
	s.nmID, s.days = nmID, daysBack
	return s.done("DiagnoseSKU")
}

func (s *stubToolkit) GetSalesFunnel(_ context.Context, period models.Period) (string, error) {
	s.period = period
	return s.done("GetSalesFunnel")
}

func (s *stubToolkit) GetStockSummary(_ context.Context) (string, error) {
	return s.done("GetStockSummary")
}

func (s *stubToolkit) GetLowConversionProducts(_ context.Context, period models.Period, minViews int64, maxCR float64) (string, error) {
	s.period, s.minViews, s.maxCR = period, minViews, maxCR
	return s.done("GetLowConversionProducts")
}

func (s *stubToolkit) GetAdsSummary(_ context.Context, period models.Period) (string, error) {
	s.period = period
	return s.done("GetAdsSummary")
}

func (s *stubToolkit) GetHighDRRCampaigns(_ context.Context, period models.Period, threshold float64) (string, error) {
	s.period, s.threshold = period, threshold
	return s.done("GetHighDRRCampaigns")
}

func (s *stubToolkit) GetScalableCampaigns(_ context.Context, period models.Period) (string, error) {
	s.period = period
	return s.done("GetScalableCampaigns")
}

func (s *stubToolkit) GetAdsTrend(_ context.Context, metric string, days int) (string, error) {
	s.metric, s.days = metric, days
	return s.done("GetAdsTrend")
}

func (s *stubToolkit) CompareAdsPeriods(_ context.Context, periodA, periodB models.Period) (string, error) {
	s.period, s.periodB = periodA, periodB
	return s.done("CompareAdsPeriods")
}

func (s *stubToolkit) GetPlanFact(_ context.Context) (string, error) {
	return s.done("GetPlanFact")
}

func (s *stubToolkit) GetPlanForecast(_ context.Context) (string, error) {
	return s.done("GetPlanForecast")
}

func (s *stubToolkit) GetUnderperformingProducts(_ context.Context, threshold float64) (string, error) {
	s.threshold = threshold
	return s.done("GetUnderperformingProducts")
}

func (s *stubToolkit) GetRecommendations(_ context.Context, period models.Period) (string, error) {
	s.period = period
	return s.done("GetRecommendations")
}

func (s *stubToolkit) GetOzonSummary(_ context.Context, period models.Period) (string, error) {
	s.period = period
	return s.done("GetOzonSummary")
}

func (s *stubToolkit) GetOzonTopProducts(_ context.Context, period models.Period, metric string, limit int) (string, error) {
	s.period, s.metric, s.limit = period, metric, limit
	return s.done("GetOzonTopProducts")
}

func (s *stubToolkit) GetOzonFunnel(_ context.Context, period models.Period) (string, error) {
	s.period = period
	return s.done("GetOzonFunnel")
}

func (s *stubToolkit) GetOzonLowConversionProducts(_ context.Context, period models.Period, minViews int64, maxCR float64) (string, error) {
	s.period, s.minViews, s.maxCR = period, minViews, maxCR
	return s.done("GetOzonLowConversionProducts")
}

func (s *stubToolkit) GetOzonAdsSummary(_ context.Context, period models.Period) (string, error) {
	s.period = period
	return s.done("GetOzonAdsSummary")
}

func (s *stubToolkit) GetOzonHighDRRProducts(_ context.Context, period models.Period, threshold float64) (string, error) {
	s.period, s.threshold = period, threshold
	return s.done("GetOzonHighDRRProducts")
}

func (s *stubToolkit) GetOzonScalableProducts(_ context.Context, period models.Period, maxDRR, minCR float64) (string, error) {
	s.period, s.maxDRR, s.minCR = period, maxDRR, minCR
	return s.done("GetOzonScalableProducts")
}

func (s *stubToolkit) GetOzonAdsTrend(_ context.Context, metric string, days int) (string, error) {
	s.metric, s.days = metric, days
	return s.done("GetOzonAdsTrend")
}

func (s *stubToolkit) GetOzonCampaignDetails(_ context.Context, campaignID int64, period models.Period) (string, error) {
	s.campaignID, s.period = campaignID, period
	return s.done("GetOzonCampaignDetails")
}

func (s *stubToolkit) RecordFeedback(_ context.Context, chatID int64, feedbackType, comment string) (string, error) {
	s.chatID, s.feedbackType, s.comment = chatID, feedbackType, comment
	return s.done("RecordFeedback")
}

type metricsEntry struct {
	chatID      int64
	marketplace string
	tool        string
	resultCount int
	success     bool
}

type stubMetrics struct {
	entries []metricsEntry
	closed  bool
}

func (s *stubMetrics) LogToolUsage(_ context.Context, chatID int64, marketplace, toolName string, _ map[string]interface{}, resultCount int, success bool, _ int64) {
	s.entries = append(s.entries, metricsEntry{chatID, marketplace, toolName, resultCount, success})
}

func (s *stubMetrics) Close(_ context.Context) error {
	s.closed = true
	return nil
}

func TestToolRegistry_Execute(t *testing.T) {
	pinClock(t, time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	t.Run("dispatches with parsed params", func(t *testing.T) {
		stub := &stubToolkit{result: "топ товаров"}
		reg := NewToolRegistry(stub)

		result, err := reg.Execute(ctx, 42, "GetTopProducts", map[string]interface{}{
			"date":   "2025-06-10",
			"metric": "orders",
			"limit":  float64(5), // JSON numbers decode as float64
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != "топ товаров" {
			t.Errorf("got %v, want toolkit result", result)
		}
		if stub.called != "GetTopProducts" {
			t.Errorf("dispatched to %q", stub.called)
		}
		if !stub.period.From.Equal(date(2025, 6, 10)) || !stub.period.To.Equal(date(2025, 6, 10)) {
			t.Errorf("period = %v..%v, want one-day 2025-06-10", stub.period.From, stub.period.To)
		}
		if stub.metric != "orders" || stub.limit != 5 {
			t.Errorf("metric=%q limit=%d", stub.metric, stub.limit)
		}
	})

	t.Run("omitted params become defaults", func(t *testing.T) {
		stub := &stubToolkit{result: "ok"}
		reg := NewToolRegistry(stub)

		if _, err := reg.Execute(ctx, 42, "GetTopProducts", map[string]interface{}{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !stub.period.From.Equal(date(2025, 6, 14)) {
			t.Errorf("date should default to yesterday, got %v", stub.period.From)
		}
		if stub.metric != "" || stub.limit != 0 {
			t.Errorf("metric=%q limit=%d, want zero values for toolkit defaults", stub.metric, stub.limit)
		}
	})

	t.Run("unknown tool", func(t *testing.T) {
		reg := NewToolRegistry(&stubToolkit{})

		_, err := reg.Execute(ctx, 42, "GetCandles", nil)
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "unknown tool") {
			t.Errorf("got %v", err)
		}
	})

	t.Run("validation failure skips toolkit", func(t *testing.T) {
		stub := &stubToolkit{result: "ok"}
		reg := NewToolRegistry(stub)

		_, err := reg.Execute(ctx, 42, "GetMarginSummary", map[string]interface{}{"date": 123})
		if err == nil {
			t.Fatal("expected error")
		}
		if !models.IsValidation(err) {
			t.Errorf("expected validation error, got %v", err)
		}
		if stub.called != "" {
			t.Errorf("toolkit should not be called on bad params, got %q", stub.called)
		}
	})

	t.Run("toolkit error wrapped with tool name", func(t *testing.T) {
		stub := &stubToolkit{err: errors.New("db down")}
		reg := NewToolRegistry(stub)

		_, err := reg.Execute(ctx, 42, "GetPlanFact", nil)
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "tool GetPlanFact failed") {
			t.Errorf("got %v", err)
		}
		if !strings.Contains(err.Error(), "db down") {
			t.Errorf("cause lost: %v", err)
		}
	})

	t.Run("feedback is chat-scoped", func(t *testing.T) {
		stub := &stubToolkit{result: "записано"}
		reg := NewToolRegistry(stub)

		_, err := reg.Execute(ctx, 777, "RecordFeedback", map[string]interface{}{
			"feedback_type": "incorrect_data",
			"comment":       "цифры за вчера не бьются с кабинетом",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stub.chatID != 777 {
			t.Errorf("chatID = %d, want 777", stub.chatID)
		}
		if stub.feedbackType != "incorrect_data" {
			t.Errorf("feedbackType = %q", stub.feedbackType)
		}
	})

	t.Run("compare periods require all boundaries", func(t *testing.T) {
		stub := &stubToolkit{result: "ok"}
		reg := NewToolRegistry(stub)

		_, err := reg.Execute(ctx, 42, "CompareMarginPeriods", map[string]interface{}{
			"start_a": "2025-06-01",
			"end_a":   "2025-06-07",
			"start_b": "2025-06-08",
		})
		if err == nil {
			t.Fatal("expected error for missing end_b")
		}
		if stub.called != "" {
			t.Errorf("toolkit should not be called, got %q", stub.called)
		}

		_, err = reg.Execute(ctx, 42, "CompareMarginPeriods", map[string]interface{}{
			"start_a": "2025-06-01",
			"end_a":   "2025-06-07",
			"start_b": "2025-06-08",
			"end_b":   "2025-06-14",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !stub.period.To.Equal(date(2025, 6, 7)) || !stub.periodB.From.Equal(date(2025, 6, 8)) {
			t.Errorf("periods = %v..%v and %v..%v", stub.period.From, stub.period.To, stub.periodB.From, stub.periodB.To)
		}
	})
}

func TestToolRegistry_Metadata(t *testing.T) {
	reg := NewToolRegistry(&stubToolkit{})

	if got := reg.GetToolCount(); got != 30 {
		t.Errorf("registered %d tools, want 30", got)
	}

	names := reg.ListTools()
	if !sort.StringsAreSorted(names) {
		t.Error("ListTools should be sorted for stable prompts")
	}

	for _, name := range names {
		meta, ok := reg.GetMetadata(name)
		if !ok {
			t.Errorf("no metadata for %s", name)
			continue
		}
		if meta.Name != name {
			t.Errorf("metadata name %q under key %q", meta.Name, name)
		}
		if meta.Description == "" {
			t.Errorf("%s has no description", name)
		}
		if meta.ReturnType != "string" {
			t.Errorf("%s returns %q", name, meta.ReturnType)
		}
	}

	meta, ok := reg.GetMetadata("DiagnoseSKU")
	if !ok {
		t.Fatal("DiagnoseSKU not registered")
	}
	if len(meta.Required) != 1 || meta.Required[0] != "nm_id" {
		t.Errorf("DiagnoseSKU required = %v, want [nm_id]", meta.Required)
	}
}

func TestToolRegistry_Definitions(t *testing.T) {
	reg := NewToolRegistry(&stubToolkit{})

	defs := reg.Definitions()
	if len(defs) != reg.GetToolCount() {
		t.Fatalf("exported %d definitions for %d tools", len(defs), reg.GetToolCount())
	}

	byName := make(map[string]models.ToolDef, len(defs))
	for _, def := range defs {
		if def.Type != "function" {
			t.Errorf("%s: type %q, want function", def.Function.Name, def.Type)
		}
		byName[def.Function.Name] = def
	}

	compare, ok := byName["CompareMarginPeriods"]
	if !ok {
		t.Fatal("CompareMarginPeriods not exported")
	}
	required, _ := compare.Function.Parameters["required"].([]string)
	if len(required) != 4 {
		t.Errorf("CompareMarginPeriods required = %v, want all four boundaries", required)
	}

	trend, ok := byName["GetMarginTrend"]
	if !ok {
		t.Fatal("GetMarginTrend not exported")
	}
	props, _ := trend.Function.Parameters["properties"].(map[string]interface{})
	days, _ := props["days"].(map[string]interface{})
	if days["type"] != "integer" {
		t.Errorf("days schema = %v, want integer", days)
	}

	diagnose := byName["DiagnoseSKU"]
	props, _ = diagnose.Function.Parameters["properties"].(map[string]interface{})
	nmID, _ := props["nm_id"].(map[string]interface{})
	if nmID["type"] != "integer" {
		t.Errorf("nm_id schema = %v, want integer", nmID)
	}
}

func TestToolRegistry_MetricsLogger(t *testing.T) {
	pinClock(t, time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	t.Run("success logged with marketplace and result size", func(t *testing.T) {
		stub := &stubToolkit{result: "строка 1\n\nстрока 2"}
		reg := NewToolRegistry(stub)
		ml := &stubMetrics{}
		reg.SetMetricsLogger(ml)

		if _, err := reg.Execute(ctx, 42, "GetMarginSummary", nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := reg.Execute(ctx, 42, "GetOzonSummary", nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(ml.entries) != 2 {
			t.Fatalf("logged %d entries, want 2", len(ml.entries))
		}
		first := ml.entries[0]
		if first.marketplace != "wb" || first.tool != "GetMarginSummary" {
			t.Errorf("first entry %+v", first)
		}
		if first.chatID != 42 || !first.success {
			t.Errorf("first entry %+v", first)
		}
		if first.resultCount != 2 {
			t.Errorf("resultCount = %d, want 2 non-empty lines", first.resultCount)
		}
		if ml.entries[1].marketplace != "ozon" {
			t.Errorf("second entry %+v", ml.entries[1])
		}
	})

	t.Run("failure logged with zero rows", func(t *testing.T) {
		stub := &stubToolkit{err: errors.New("boom")}
		reg := NewToolRegistry(stub)
		ml := &stubMetrics{}
		reg.SetMetricsLogger(ml)

		if _, err := reg.Execute(ctx, 42, "GetAdsSummary", nil); err == nil {
			t.Fatal("expected error")
		}

		if len(ml.entries) != 1 {
			t.Fatalf("logged %d entries, want 1", len(ml.entries))
		}
		entry := ml.entries[0]
		if entry.success || entry.resultCount != 0 {
			t.Errorf("entry %+v, want failed with zero rows", entry)
		}
	})

	t.Run("close flushes logger", func(t *testing.T) {
		reg := NewToolRegistry(&stubToolkit{})
		ml := &stubMetrics{}
		reg.SetMetricsLogger(ml)

		if err := reg.Close(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ml.closed {
			t.Error("metrics logger not closed")
		}
	})

	t.Run("close without logger", func(t *testing.T) {
		reg := NewToolRegistry(&stubToolkit{})
		if err := reg.Close(ctx); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestAnalyzeToolResult(t *testing.T) {
	cases := []struct {
		name   string
		result interface{}
		want   int
	}{
		{"empty string", "", 0},
		{"lines with blanks", "a\n\nb\n", 2},
		{"nil", nil, 0},
		{"non-string", 42, 1},
	}

	for _, tc := range cases {
		if got := analyzeToolResult(tc.result); got != tc.want {
			t.Errorf("%s: got %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestMarketplaceOf(t *testing.T) {
	cases := map[string]string{
		"GetMarginSummary":       "wb",
		"GetHighDRRCampaigns":    "wb",
		"GetOzonSummary":         "ozon",
		"GetOzonCampaignDetails": "ozon",
		"RecordFeedback":         "agent",
	}

	for name, want := range cases {
		if got := marketplaceOf(name); got != want {
			t.Errorf("marketplaceOf(%s) = %q, want %q", name, got, want)
		}
	}
}
