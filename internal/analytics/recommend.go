package analytics

import "github.com/shopspring/decimal"

// RecommendationType names the action class a recommendation proposes
type RecommendationType string

const (
	RecommendReduceBids     RecommendationType = "reduce_bids"
	RecommendScaleCampaign  RecommendationType = "scale_campaign"
	RecommendImproveListing RecommendationType = "improve_listing"
	RecommendEscalatePlan   RecommendationType = "escalate_plan"
)

// Recommendation is one prescriptive action with an estimated money effect
type Recommendation struct {
	Type   RecommendationType
	Target string
	Detail string
	Effect decimal.Decimal
}

// Assumed share of overspend recoverable by bid optimization
var savingRate = decimal.NewFromFloat(0.3)

// Assumed order uplift from scaling a proven campaign
var scaleUpliftRate = decimal.NewFromFloat(0.5)

// EstimatedSaving is the monthly spend recoverable from an
// overspending campaign
func EstimatedSaving(spend decimal.Decimal) decimal.Decimal {
	return spend.Mul(savingRate)
}

// EstimatedExtraOrders is the additional order volume expected from
// scaling a healthy campaign
func EstimatedExtraOrders(orders int64) int64 {
	extra := decimal.NewFromInt(orders).Mul(scaleUpliftRate)
	return extra.IntPart()
}
