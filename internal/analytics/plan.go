package analytics

import "github.com/selivandex/seller-bot/internal/adapters/config"

// PlanStatus describes progress against the monthly margin plan
type PlanStatus string

const (
	PlanOnTrack PlanStatus = "on_track"
	PlanAtRisk  PlanStatus = "at_risk"
	PlanBehind  PlanStatus = "behind"
)

// PlanCompletion returns fact as a percent of plan, nil when there is no plan
func PlanCompletion(fact, plan float64) *float64 {
	return RatioPtr(Ratio(fact, plan))
}

// ExpectedToDate is the share of plan that should be done by now
// assuming an even daily pace
func ExpectedToDate(plan float64, daysPassed, daysInMonth int) float64 {
	if daysInMonth <= 0 {
		return plan
	}
	if daysPassed > daysInMonth {
		daysPassed = daysInMonth
	}
	return plan * float64(daysPassed) / float64(daysInMonth)
}

// ForecastMonthEnd projects the month-end fact from the pace so far
func ForecastMonthEnd(fact float64, daysPassed, daysInMonth int) float64 {
	if daysPassed <= 0 {
		return fact
	}
	daysLeft := daysInMonth - daysPassed
	if daysLeft < 0 {
		daysLeft = 0
	}
	daily := fact / float64(daysPassed)
	return fact + daily*float64(daysLeft)
}

// ClassifyPlan maps a completion percent against the expected-to-date
// figure onto a status
func ClassifyPlan(completionPct float64, t config.PlanConfig) PlanStatus {
	switch {
	case completionPct >= t.GoodPercent:
		return PlanOnTrack
	case completionPct >= t.WarnPercent:
		return PlanAtRisk
	default:
		return PlanBehind
	}
}
