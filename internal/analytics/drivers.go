package analytics

import (
	"math"

	"github.com/selivandex/seller-bot/internal/adapters/config"
)

// Driver is one factor whose movement between two periods is large
// enough to explain a margin change
type Driver struct {
	Factor    string // "ad_spend", "traffic", "conversion", "price"
	Before    float64
	After     float64
	ChangePct *float64 // nil when the baseline is zero
	ChangePP  *float64 // set for conversion, measured in percentage points
}

// ChangeInputs carries the per-period figures the decomposition looks at
type ChangeInputs struct {
	MarginBefore, MarginAfter   float64
	AdSpendBefore, AdSpendAfter float64
	TrafficBefore, TrafficAfter float64
	CRBefore, CRAfter           *float64
	PriceBefore, PriceAfter     *float64
}

// SignificantMarginChange reports whether the margin moved enough
// to warrant a driver decomposition
func SignificantMarginChange(before, after float64, t config.DriverThresholds) bool {
	pct, ok := PercentChange(before, after)
	if !ok {
		// Margin appeared from zero or vanished, always worth explaining
		return after != before
	}
	return math.Abs(pct) >= t.MarginChangePct
}

// ExplainMarginChange returns factors whose movement crossed the
// significance thresholds, in a fixed factor order
func ExplainMarginChange(in ChangeInputs, t config.DriverThresholds) []Driver {
	var drivers []Driver

	if d, ok := pctDriver("ad_spend", in.AdSpendBefore, in.AdSpendAfter, t.AdSpendChangePct); ok {
		drivers = append(drivers, d)
	}
	if d, ok := pctDriver("traffic", in.TrafficBefore, in.TrafficAfter, t.TrafficChangePct); ok {
		drivers = append(drivers, d)
	}
	if in.CRBefore != nil && in.CRAfter != nil {
		pp := *in.CRAfter - *in.CRBefore
		if math.Abs(pp) >= t.CRChangePP {
			drivers = append(drivers, Driver{
				Factor:    "conversion",
				Before:    *in.CRBefore,
				After:     *in.CRAfter,
				ChangePct: RatioPtr(PercentChange(*in.CRBefore, *in.CRAfter)),
				ChangePP:  &pp,
			})
		}
	}
	if in.PriceBefore != nil && in.PriceAfter != nil {
		if d, ok := pctDriver("price", *in.PriceBefore, *in.PriceAfter, t.PriceChangePct); ok {
			drivers = append(drivers, d)
		}
	}

	return drivers
}

func pctDriver(factor string, before, after, thresholdPct float64) (Driver, bool) {
	pct, ok := PercentChange(before, after)
	if !ok {
		// Zero baseline: any appearance counts as significant movement
		if after == 0 {
			return Driver{}, false
		}
		return Driver{Factor: factor, Before: before, After: after}, true
	}
	if math.Abs(pct) < thresholdPct {
		return Driver{}, false
	}
	return Driver{Factor: factor, Before: before, After: after, ChangePct: &pct}, true
}
