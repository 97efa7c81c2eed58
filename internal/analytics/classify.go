package analytics

import "github.com/selivandex/seller-bot/internal/adapters/config"

// Label is a threshold classification attached to a campaign or product
type Label string

const (
	LabelHealthy         Label = "healthy"
	LabelOptimize        Label = "optimize"
	LabelUrgentOptimize  Label = "urgent-optimize"
	LabelScalable        Label = "scalable"
	LabelImproveListing  Label = "improve-listing"
	LabelPriceOrDelivery Label = "price-or-delivery-issue"
)

// ClassifyWBCampaign applies WB threshold rules as ordered checks,
// first match wins. A nil ratio never matches a rule.
func ClassifyWBCampaign(drr, cr *float64, t config.WBThresholds) Label {
	if drr != nil && *drr > t.MaxDRR {
		return LabelOptimize
	}
	if drr != nil && *drr < t.MaxDRR && cr != nil && *cr > t.MinScalableCR {
		return LabelScalable
	}
	return LabelHealthy
}

// ClassifyOzonCampaign applies Ozon campaign rules in severity order
func ClassifyOzonCampaign(drr, cr *float64, t config.OzonThresholds) Label {
	if drr != nil && *drr > t.UrgentDRR {
		return LabelUrgentOptimize
	}
	if drr != nil && *drr > t.MaxDRR {
		return LabelOptimize
	}
	if drr != nil && *drr < t.MaxDRR && cr != nil && *cr > t.MinScalableCR {
		return LabelScalable
	}
	return LabelHealthy
}

// ClassifyOzonProduct applies Ozon listing-quality rules to funnel figures.
// The cart-high/orders-low rule is a heuristic, checked after the hard
// low-conversion threshold.
func ClassifyOzonProduct(cr *float64, views int64, cartRate, orderRate *float64, t config.OzonThresholds) Label {
	if cr != nil && *cr < t.LowCR && views > t.MinViews {
		return LabelImproveListing
	}
	if cartRate != nil && *cartRate > t.HighCartRate && orderRate != nil && *orderRate < t.LowOrderRate {
		return LabelPriceOrDelivery
	}
	return LabelHealthy
}
