package toolkit

import (
	"context"

	"github.com/selivandex/seller-bot/pkg/models"
)

// Wrappers convert the generic params map coming from the agent into
// typed toolkit calls. Validation failures surface before any query
// runs. Zero limits and thresholds mean "use the configured default".

// ============ WB Margin Tools ============

func (r *ToolRegistry) wrapGetMarginSummary(ctx context.Context, _ int64, params map[string]interface{}) (interface{}, error) {
	period, err := getToolPeriod(params)
	if err != nil {
		return nil, err
	}
	return r.toolkit.GetMarginSummary(ctx, period)
}

func (r *ToolRegistry) wrapGetTopProducts(ctx context.Context, _ int64, params map[string]interface{}) (interface{}, error) {
	period, err := getToolPeriod(params)
	if err != nil {
		return nil, err
	}
	metric, err := getStringOr(params, "metric", "")
	if err != nil {
		return nil, err
	}
	limit, err := getIntOr(params, "limit", 0)
	if err != nil {
		return nil, err
	}
	return r.toolkit.GetTopProducts(ctx, period, metric, limit)
}

func (r *ToolRegistry) wrapGetUnprofitableProducts(ctx context.Context, _ int64, params map[string]interface{}) (interface{}, error) {
	period, err := getToolPeriod(params)
	if err != nil {
		return nil, err
	}
	maxMargin, err := getFloatOr(params, "max_margin", 0)
	if err != nil {
		return nil, err
	}
	limit, err := getIntOr(params, "limit", 0)
	if err != nil {
		return nil, err
	}
	return r.toolkit.GetUnprofitableProducts(ctx, period, maxMargin, limit)
}

func (r *ToolRegistry) wrapGetMarginTrend(ctx context.Context, _ int64, params map[string]interface{}) (interface{}, error) {
	days, err := getIntOr(params, "days", 0)
	if err != nil {
		return nil, err
	}
	metric, err := getStringOr(params, "metric", "")
	if err != nil {
		return nil, err
	}
	return r.toolkit.GetMarginTrend(ctx, days, metric)
}

func (r *ToolRegistry) wrapCompareMarginPeriods(ctx context.Context, _ int64, params map[string]interface{}) (interface{}, error) {
	periodA, periodB, err := getComparePeriods(params)
	if err != nil {
		return nil, err
	}
	return r.toolkit.CompareMarginPeriods(ctx, periodA, periodB)
}

func (r *ToolRegistry) wrapAnalyzeMarginChange(ctx context.Context, _ int64, params map[string]interface{}) (interface{}, error) {
	daysBack, err := getIntOr(params, "days_back", 0)
	if err != nil {
		return nil, err
	}
	return r.toolkit.AnalyzeMarginChange(ctx, daysBack)
}

func (r *ToolRegistry) wrapFindMarginAnomalies(ctx context.Context, _ int64, params map[string]interface{}) (interface{}, error) {
	days, err := getIntOr(params, "days", 0)
	if err != nil {
		return nil, err
	}
	metric, err := getStringOr(params, "metric", "")
	if err != nil {
		return nil, err
	}
	return r.toolkit.FindMarginAnomalies(ctx, days, metric)
}

func (r *ToolRegistry) wrapDiagnoseSKU(ctx context.Context, _ int64, params map[string]interface{}) (interface{}, error) {
	nmID, err := getInt64(params, "nm_id")
	if err != nil {
		return nil, err
	}
	daysBack, err := getIntOr(params, "days_back", 0)
	if err != nil {
		return nil, err
	}
	return r.toolkit.DiagnoseSKU(ctx, nmID, daysBack)
}

// ============ WB Funnel Tools ============

func (r *ToolRegistry) wrapGetSalesFunnel(ctx context.Context, _ int64, params map[string]interface{}) (interface{}, error) {
	period, err := getPeriod(params)
	if err != nil {
		return nil, err
	}
	return r.toolkit.GetSalesFunnel(ctx, period)
}

func (r *ToolRegistry) wrapGetStockSummary(ctx context.Context, _ int64, _ map[string]interface{}) (interface{}, error) {
	return r.toolkit.GetStockSummary(ctx)
}

func (r *ToolRegistry) wrapGetLowConversionProducts(ctx context.Context, _ int64, params map[string]interface{}) (interface{}, error) {
	period, err := getPeriod(params)
	if err != nil {
		return nil, err
	}
	minViews, err := getInt64Or(params, "min_views", 0)
	if err != nil {
		return nil, err
	}
	maxCR, err := getFloatOr(params, "max_cr", 0)
	if err != nil {
		return nil, err
	}
	return r.toolkit.GetLowConversionProducts(ctx, period, minViews, maxCR)
}

// ============ WB Ads Tools ============

func (r *ToolRegistry) wrapGetAdsSummary(ctx context.Context, _ int64, params map[string]interface{}) (interface{}, error) {
	period, err := getToolPeriod(params)
	if err != nil {
		return nil, err
	}
	return r.toolkit.GetAdsSummary(ctx, period)
}

func (r *ToolRegistry) wrapGetHighDRRCampaigns(ctx context.Context, _ int64, params map[string]interface{}) (interface{}, error) {
	period, err := getToolPeriod(params)
	if err != nil {
		return nil, err
	}
	threshold, err := getFloatOr(params, "threshold", 0)
	if err != nil {
		return nil, err
	}
	return r.toolkit.GetHighDRRCampaigns(ctx, period, threshold)
}

func (r *ToolRegistry) wrapGetScalableCampaigns(ctx context.Context, _ int64, params map[string]interface{}) (interface{}, error) {
	period, err := getToolPeriod(params)
	if err != nil {
		return nil, err
	}
	return r.toolkit.GetScalableCampaigns(ctx, period)
}

func (r *ToolRegistry) wrapGetAdsTrend(ctx context.Context, _ int64, params map[string]interface{}) (interface{}, error) {
	metric, err := getStringOr(params, "metric", "")
	if err != nil {
		return nil, err
	}
	days, err := getIntOr(params, "days", 0)
	if err != nil {
		return nil, err
	}
	return r.toolkit.GetAdsTrend(ctx, metric, days)
}

func (r *ToolRegistry) wrapCompareAdsPeriods(ctx context.Context, _ int64, params map[string]interface{}) (interface{}, error) {
	periodA, periodB, err := getComparePeriods(params)
	if err != nil {
		return nil, err
	}
	return r.toolkit.CompareAdsPeriods(ctx, periodA, periodB)
}

// ============ WB Plan Tools ============

func (r *ToolRegistry) wrapGetPlanFact(ctx context.Context, _ int64, _ map[string]interface{}) (interface{}, error) {
	return r.toolkit.GetPlanFact(ctx)
}

func (r *ToolRegistry) wrapGetPlanForecast(ctx context.Context, _ int64, _ map[string]interface{}) (interface{}, error) {
	return r.toolkit.GetPlanForecast(ctx)
}

func (r *ToolRegistry) wrapGetUnderperformingProducts(ctx context.Context, _ int64, params map[string]interface{}) (interface{}, error) {
	threshold, err := getFloatOr(params, "threshold", 0)
	if err != nil {
		return nil, err
	}
	return r.toolkit.GetUnderperformingProducts(ctx, threshold)
}

func (r *ToolRegistry) wrapGetRecommendations(ctx context.Context, _ int64, params map[string]interface{}) (interface{}, error) {
	period, err := getToolPeriod(params)
	if err != nil {
		return nil, err
	}
	return r.toolkit.GetRecommendations(ctx, period)
}

// ============ Ozon Tools ============

func (r *ToolRegistry) wrapGetOzonSummary(ctx context.Context, _ int64, params map[string]interface{}) (interface{}, error) {
	period, err := getPeriod(params)
	if err != nil {
		return nil, err
	}
	return r.toolkit.GetOzonSummary(ctx, period)
}

func (r *ToolRegistry) wrapGetOzonTopProducts(ctx context.Context, _ int64, params map[string]interface{}) (interface{}, error) {
	period, err := getPeriod(params)
	if err != nil {
		return nil, err
	}
	metric, err := getStringOr(params, "metric", "")
	if err != nil {
		return nil, err
	}
	limit, err := getIntOr(params, "limit", 0)
	if err != nil {
		return nil, err
	}
	return r.toolkit.GetOzonTopProducts(ctx, period, metric, limit)
}

func (r *ToolRegistry) wrapGetOzonFunnel(ctx context.Context, _ int64, params map[string]interface{}) (interface{}, error) {
	period, err := getPeriod(params)
	if err != nil {
		return nil, err
	}
	return r.toolkit.GetOzonFunnel(ctx, period)
}

func (r *ToolRegistry) wrapGetOzonLowConversionProducts(ctx context.Context, _ int64, params map[string]interface{}) (interface{}, error) {
	period, err := getPeriod(params)
	if err != nil {
		return nil, err
	}
	minViews, err := getInt64Or(params, "min_views", 0)
	if err != nil {
		return nil, err
	}
	maxCR, err := getFloatOr(params, "max_cr", 0)
	if err != nil {
		return nil, err
	}
	return r.toolkit.GetOzonLowConversionProducts(ctx, period, minViews, maxCR)
}

func (r *ToolRegistry) wrapGetOzonAdsSummary(ctx context.Context, _ int64, params map[string]interface{}) (interface{}, error) {
	period, err := getPeriod(params)
	if err != nil {
		return nil, err
	}
	return r.toolkit.GetOzonAdsSummary(ctx, period)
}

func (r *ToolRegistry) wrapGetOzonHighDRRProducts(ctx context.Context, _ int64, params map[string]interface{}) (interface{}, error) {
	period, err := getPeriod(params)
	if err != nil {
		return nil, err
	}
	threshold, err := getFloatOr(params, "threshold", 0)
	if err != nil {
		return nil, err
	}
	return r.toolkit.GetOzonHighDRRProducts(ctx, period, threshold)
}

func (r *ToolRegistry) wrapGetOzonScalableProducts(ctx context.Context, _ int64, params map[string]interface{}) (interface{}, error) {
	period, err := getPeriod(params)
	if err != nil {
		return nil, err
	}
	maxDRR, err := getFloatOr(params, "max_drr", 0)
	if err != nil {
		return nil, err
	}
	minCR, err := getFloatOr(params, "min_cr", 0)
	if err != nil {
		return nil, err
	}
	return r.toolkit.GetOzonScalableProducts(ctx, period, maxDRR, minCR)
}

func (r *ToolRegistry) wrapGetOzonAdsTrend(ctx context.Context, _ int64, params map[string]interface{}) (interface{}, error) {
	metric, err := getStringOr(params, "metric", "")
	if err != nil {
		return nil, err
	}
	days, err := getIntOr(params, "days", 0)
	if err != nil {
		return nil, err
	}
	return r.toolkit.GetOzonAdsTrend(ctx, metric, days)
}

func (r *ToolRegistry) wrapGetOzonCampaignDetails(ctx context.Context, _ int64, params map[string]interface{}) (interface{}, error) {
	campaignID, err := getInt64(params, "campaign_id")
	if err != nil {
		return nil, err
	}
	period, err := getPeriod(params)
	if err != nil {
		return nil, err
	}
	return r.toolkit.GetOzonCampaignDetails(ctx, campaignID, period)
}

// ============ Agent Tools ============

func (r *ToolRegistry) wrapRecordFeedback(ctx context.Context, chatID int64, params map[string]interface{}) (interface{}, error) {
	feedbackType, err := getString(params, "feedback_type")
	if err != nil {
		return nil, err
	}
	comment, err := getString(params, "comment")
	if err != nil {
		return nil, err
	}
	return r.toolkit.RecordFeedback(ctx, chatID, feedbackType, comment)
}

// getComparePeriods reads the two explicit periods of a comparison
// tool. All four boundaries are required, there is nothing sensible to
// default a comparison to.
func getComparePeriods(params map[string]interface{}) (models.Period, models.Period, error) {
	startA, err := getRequiredDate(params, "start_a")
	if err != nil {
		return models.Period{}, models.Period{}, err
	}
	endA, err := getRequiredDate(params, "end_a")
	if err != nil {
		return models.Period{}, models.Period{}, err
	}
	startB, err := getRequiredDate(params, "start_b")
	if err != nil {
		return models.Period{}, models.Period{}, err
	}
	endB, err := getRequiredDate(params, "end_b")
	if err != nil {
		return models.Period{}, models.Period{}, err
	}
	return models.NewPeriod(startA, endA), models.NewPeriod(startB, endB), nil
}
