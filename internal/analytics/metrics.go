// Package analytics implements the metric computation layer: derived
// ratios, ranking, threshold classification, period comparison, anomaly
// detection and plan math over marketplace rows. All functions are pure,
// rows go in, computed values come out, nothing is cached between calls.
package analytics

import "math"

// Ratio returns num/den*100. The second return is false when the
// denominator is zero and the ratio is undefined.
func Ratio(num, den float64) (float64, bool) {
	if den == 0 {
		return 0, false
	}
	return num / den * 100, true
}

// DRR is the ad-spend share of ad-attributed revenue.
// Undefined when ad revenue is zero, never infinity.
func DRR(adSpend, adRevenue float64) (float64, bool) {
	return Ratio(adSpend, adRevenue)
}

// CR is the click-to-order conversion rate
func CR(orders, clicks float64) (float64, bool) {
	return Ratio(orders, clicks)
}

// CTR is the click-through rate
func CTR(clicks, views float64) (float64, bool) {
	return Ratio(clicks, views)
}

// CPC is the cost per click in currency units, not a percentage
func CPC(adSpend, clicks float64) (float64, bool) {
	if clicks == 0 {
		return 0, false
	}
	return adSpend / clicks, true
}

// AdRevenueShare is the ad-attributed share of total revenue
func AdRevenueShare(adRevenue, totalRevenue float64) (float64, bool) {
	return Ratio(adRevenue, totalRevenue)
}

// MarginPercent is profit as a share of revenue
func MarginPercent(profit, revenue float64) (float64, bool) {
	return Ratio(profit, revenue)
}

// CartRate is the view-to-cart funnel stage conversion
func CartRate(cartAdds, views float64) (float64, bool) {
	return Ratio(cartAdds, views)
}

// OrderRate is the session-to-order funnel stage conversion
func OrderRate(orders, sessions float64) (float64, bool) {
	return Ratio(orders, sessions)
}

// BuyoutRate is the order-to-buyout conversion
func BuyoutRate(buyouts, orders float64) (float64, bool) {
	return Ratio(buyouts, orders)
}

// PercentChange returns (after-before)/before*100.
// Undefined when the baseline is zero.
func PercentChange(before, after float64) (float64, bool) {
	if before == 0 {
		return 0, false
	}
	return (after - before) / math.Abs(before) * 100, true
}

// RatioPtr converts a (value, ok) ratio result into a nullable pointer
func RatioPtr(v float64, ok bool) *float64 {
	if !ok {
		return nil
	}
	return &v
}

// Round2 rounds to two decimal places for report output
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round1 rounds to one decimal place
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
