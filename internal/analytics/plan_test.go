package analytics

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/selivandex/seller-bot/internal/adapters/config"
)

func planConfig() config.PlanConfig {
	return config.PlanConfig{GoodPercent: 100, WarnPercent: 85, UnderperformPercent: 70}
}

func TestPlanCompletion(t *testing.T) {
	pct := PlanCompletion(850, 1000)
	if pct == nil {
		t.Fatal("expected completion to be defined")
	}
	if *pct != 85 {
		t.Errorf("expected 85%%, got %f", *pct)
	}

	if pct := PlanCompletion(500, 0); pct != nil {
		t.Errorf("expected completion undefined without a plan, got %f", *pct)
	}
}

func TestExpectedToDate(t *testing.T) {
	got := ExpectedToDate(3000, 10, 30)
	if got != 1000 {
		t.Errorf("expected 1000 by day 10 of 30, got %f", got)
	}

	// Past month end the whole plan is expected
	if got := ExpectedToDate(3000, 45, 30); got != 3000 {
		t.Errorf("expected full plan past month end, got %f", got)
	}
}

func TestForecastMonthEnd(t *testing.T) {
	// 1000 done in 10 days projects to 3000 over 30
	got := ForecastMonthEnd(1000, 10, 30)
	if got != 3000 {
		t.Errorf("expected forecast 3000, got %f", got)
	}

	// Day zero cannot be projected, forecast stays at fact
	if got := ForecastMonthEnd(500, 0, 30); got != 500 {
		t.Errorf("expected forecast to equal fact on day zero, got %f", got)
	}

	// Month already over, nothing left to add
	if got := ForecastMonthEnd(2000, 30, 30); got != 2000 {
		t.Errorf("expected forecast to equal fact at month end, got %f", got)
	}
}

func TestClassifyPlan(t *testing.T) {
	cases := []struct {
		completion float64
		want       PlanStatus
	}{
		{110, PlanOnTrack},
		{100, PlanOnTrack},
		{90, PlanAtRisk},
		{85, PlanAtRisk},
		{60, PlanBehind},
	}

	for _, tc := range cases {
		if got := ClassifyPlan(tc.completion, planConfig()); got != tc.want {
			t.Errorf("completion %.0f%%: expected %s, got %s", tc.completion, tc.want, got)
		}
	}
}

func TestPrioritizeByImpactTimesFeasibility(t *testing.T) {
	actions := []Action{
		{Description: "low", Impact: 0.3, Feasibility: 0.5},
		{Description: "high", Impact: 0.9, Feasibility: 0.8},
		{Description: "mid", Impact: 0.6, Feasibility: 0.7},
	}

	got := Prioritize(actions)

	if got[0].Description != "high" || got[1].Description != "mid" || got[2].Description != "low" {
		t.Errorf("unexpected order: [%s %s %s]", got[0].Description, got[1].Description, got[2].Description)
	}
}

func TestPrioritizeTieBreakByImpact(t *testing.T) {
	// Equal scores 0.4: impact 0.8 must come before impact 0.5
	actions := []Action{
		{Description: "feasible", Impact: 0.5, Feasibility: 0.8},
		{Description: "impactful", Impact: 0.8, Feasibility: 0.5},
	}

	got := Prioritize(actions)

	if got[0].Description != "impactful" {
		t.Errorf("expected impact to win the tie, got %s first", got[0].Description)
	}
}

func TestEstimatedSaving(t *testing.T) {
	saving := EstimatedSaving(decimal.NewFromInt(10000))
	if !saving.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("expected saving 3000 from spend 10000, got %s", saving)
	}
}

func TestEstimatedExtraOrders(t *testing.T) {
	if got := EstimatedExtraOrders(40); got != 20 {
		t.Errorf("expected 20 extra orders from 40, got %d", got)
	}
}

func TestSignificantMarginChange(t *testing.T) {
	thresholds := config.DriverThresholds{MarginChangePct: 10, AdSpendChangePct: 20, TrafficChangePct: 15, CRChangePP: 0.5, PriceChangePct: 5}

	if !SignificantMarginChange(1000, 800, thresholds) {
		t.Error("a 20% drop must be significant")
	}
	if SignificantMarginChange(1000, 950, thresholds) {
		t.Error("a 5% drop must not be significant")
	}
	if !SignificantMarginChange(0, 500, thresholds) {
		t.Error("margin appearing from zero must be significant")
	}
}

func TestExplainMarginChange(t *testing.T) {
	thresholds := config.DriverThresholds{MarginChangePct: 10, AdSpendChangePct: 20, TrafficChangePct: 15, CRChangePP: 0.5, PriceChangePct: 5}

	crBefore, crAfter := 5.0, 5.2
	priceBefore, priceAfter := 1000.0, 1200.0

	in := ChangeInputs{
		MarginBefore: 1000, MarginAfter: 700,
		AdSpendBefore: 100, AdSpendAfter: 180, // +80%, significant
		TrafficBefore: 10000, TrafficAfter: 9500, // -5%, below threshold
		CRBefore: &crBefore, CRAfter: &crAfter, // +0.2pp, below threshold
		PriceBefore: &priceBefore, PriceAfter: &priceAfter, // +20%, significant
	}

	drivers := ExplainMarginChange(in, thresholds)

	if len(drivers) != 2 {
		t.Fatalf("expected 2 drivers, got %d", len(drivers))
	}
	if drivers[0].Factor != "ad_spend" {
		t.Errorf("expected ad_spend driver first, got %s", drivers[0].Factor)
	}
	if drivers[1].Factor != "price" {
		t.Errorf("expected price driver second, got %s", drivers[1].Factor)
	}
}

func TestExplainMarginChangeCRInPercentagePoints(t *testing.T) {
	thresholds := config.DriverThresholds{CRChangePP: 0.5}

	crBefore, crAfter := 5.0, 4.0

	drivers := ExplainMarginChange(ChangeInputs{CRBefore: &crBefore, CRAfter: &crAfter}, thresholds)

	if len(drivers) != 1 {
		t.Fatalf("expected conversion driver, got %d drivers", len(drivers))
	}
	if drivers[0].ChangePP == nil || *drivers[0].ChangePP != -1 {
		t.Errorf("expected -1pp change, got %v", drivers[0].ChangePP)
	}
}
