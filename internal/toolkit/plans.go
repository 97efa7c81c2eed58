package toolkit

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/selivandex/seller-bot/internal/adapters/config"
	"github.com/selivandex/seller-bot/internal/analytics"
	"github.com/selivandex/seller-bot/internal/reports"
	"github.com/selivandex/seller-bot/pkg/logger"
	"github.com/selivandex/seller-bot/pkg/models"
)

// How realistic each action class is to execute this week, on the
// impact-weighting scale
var feasibilityByType = map[analytics.RecommendationType]float64{
	analytics.RecommendReduceBids:     0.9,
	analytics.RecommendScaleCampaign:  0.7,
	analytics.RecommendImproveListing: 0.5,
	analytics.RecommendEscalatePlan:   0.6,
}

// GetPlanFact reports monthly margin plan against accumulated fact
func (t *LocalToolkit) GetPlanFact(ctx context.Context) (string, error) {
	logger.Debug("toolkit: get_plan_fact")

	rows, err := t.wbRepo.PlanFactRows(ctx)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "Нет плана по марже на текущий месяц.", nil
	}

	var totalPlan, totalFact float64
	lines := make([]reports.PlanFactLine, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, planFactLine(r, t.thresholds.Plan))
		totalPlan += models.ToFloat64(r.PlanMarginProfit)
		totalFact += models.ToFloat64(r.FactMarginProfit)
	}

	totalCompletion := analytics.PlanCompletion(totalFact, totalPlan)

	return reports.FormatPlanFact(lines, totalPlan, totalFact, totalCompletion), nil
}

// GetPlanForecast projects month-end margin per SKU at the current pace
func (t *LocalToolkit) GetPlanForecast(ctx context.Context) (string, error) {
	logger.Debug("toolkit: get_plan_forecast")

	rows, err := t.wbRepo.PlanFactRows(ctx)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "Нет плана по марже на текущий месяц.", nil
	}

	lines := make([]reports.PlanFactLine, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, planFactLine(r, t.thresholds.Plan))
	}

	return reports.FormatPlanForecast(lines), nil
}

// GetUnderperformingProducts lists SKUs whose to-date completion is
// below the threshold, furthest behind first
func (t *LocalToolkit) GetUnderperformingProducts(ctx context.Context, threshold float64) (string, error) {
	logger.Debug("toolkit: get_underperforming_products",
		zap.Float64("threshold", threshold),
	)

	if threshold <= 0 {
		threshold = t.thresholds.Plan.UnderperformPercent
	}

	rows, err := t.wbRepo.PlanFactRows(ctx)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "Нет плана по марже на текущий месяц.", nil
	}

	var lines []reports.PlanFactLine
	for _, r := range rows {
		if r.CompletionPercent == nil || *r.CompletionPercent >= threshold {
			continue
		}
		lines = append(lines, planFactLine(r, t.thresholds.Plan))
	}

	sort.SliceStable(lines, func(i, j int) bool { return *lines[i].Completion < *lines[j].Completion })

	return reports.FormatUnderperforming(lines, threshold), nil
}

// GetRecommendations composes prescriptive actions from the period's ads
// performance, funnel losses and plan progress, highest score first
func (t *LocalToolkit) GetRecommendations(ctx context.Context, period models.Period) (string, error) {
	logger.Debug("toolkit: get_recommendations",
		zap.Time("from", period.From),
		zap.Time("to", period.To),
	)

	var recs []analytics.Recommendation

	adsRows, err := t.wbRepo.AdsRows(ctx, period)
	if err != nil {
		return "", err
	}
	for _, g := range analytics.GroupAdsByCampaign(adsRows) {
		switch analytics.ClassifyWBCampaign(g.DRR, g.CR, t.thresholds.WB) {
		case analytics.LabelOptimize:
			recs = append(recs, analytics.Recommendation{
				Type:   analytics.RecommendReduceBids,
				Target: g.Name,
				Detail: fmt.Sprintf("Снизить ставки в кампании «%s»: ДРР %s при норме %.0f%%",
					g.Name, reports.Percent(g.DRR), t.thresholds.WB.MaxDRR),
				Effect: analytics.EstimatedSaving(g.AdSpend),
			})
		case analytics.LabelScalable:
			extra := analytics.EstimatedExtraOrders(g.Orders)
			recs = append(recs, analytics.Recommendation{
				Type:   analytics.RecommendScaleCampaign,
				Target: g.Name,
				Detail: fmt.Sprintf("Масштабировать кампанию «%s»: ДРР %s, CR %s, ≈ +%d заказов",
					g.Name, reports.Percent(g.DRR), reports.Percent(g.CR), extra),
				Effect: extraOrdersEffect(g, extra),
			})
		}
	}

	funnelRows, err := t.wbRepo.FunnelRows(ctx, period)
	if err != nil {
		return "", err
	}
	for _, g := range analytics.GroupFunnelBySKU(funnelRows) {
		if g.Views < defaultMinViews {
			continue
		}
		if g.ViewToOrder != nil && *g.ViewToOrder >= defaultMaxCR {
			continue
		}
		recs = append(recs, analytics.Recommendation{
			Type:   analytics.RecommendImproveListing,
			Target: g.Title,
			Detail: fmt.Sprintf("Улучшить карточку «%s» (арт. %d): конверсия %s при %s показов",
				g.Title, g.NmID, reports.Percent(g.ViewToOrder), reports.Count(g.Views)),
		})
	}

	planRows, err := t.wbRepo.PlanFactRows(ctx)
	if err != nil {
		return "", err
	}
	for _, r := range planRows {
		if r.CompletionPercent == nil || *r.CompletionPercent >= t.thresholds.Plan.UnderperformPercent {
			continue
		}
		gap := r.PlanToDate.Sub(r.FactMarginProfit)
		recs = append(recs, analytics.Recommendation{
			Type:   analytics.RecommendEscalatePlan,
			Target: r.Title,
			Detail: fmt.Sprintf("Разобраться с отстающим от плана товаром «%s» (арт. %d): выполнение %s",
				r.Title, r.NmID, reports.Percent(r.CompletionPercent)),
			Effect: gap,
		})
	}

	recs = rankRecommendations(recs)
	if len(recs) > defaultLimit {
		recs = recs[:defaultLimit]
	}

	return reports.FormatRecommendations(recs), nil
}

// rankRecommendations orders recommendations by impact times
// feasibility. Impact is the money effect normalized against the
// largest one in the batch; zero-effect actions get a floor so they
// keep a stable place at the tail.
func rankRecommendations(recs []analytics.Recommendation) []analytics.Recommendation {
	if len(recs) == 0 {
		return recs
	}

	var maxEffect float64
	for _, r := range recs {
		if e := models.ToFloat64(r.Effect); e > maxEffect {
			maxEffect = e
		}
	}

	byDetail := make(map[string]analytics.Recommendation, len(recs))
	actions := make([]analytics.Action, 0, len(recs))
	for _, r := range recs {
		impact := 0.1
		if maxEffect > 0 {
			if e := models.ToFloat64(r.Effect); e > 0 {
				impact = e / maxEffect
			}
		}
		byDetail[r.Detail] = r
		actions = append(actions, analytics.Action{
			Description: r.Detail,
			Impact:      impact,
			Feasibility: feasibilityByType[r.Type],
		})
	}

	ordered := make([]analytics.Recommendation, 0, len(recs))
	for _, a := range analytics.Prioritize(actions) {
		ordered = append(ordered, byDetail[a.Description])
	}

	return ordered
}

// extraOrdersEffect converts an order uplift into money using the
// campaign's average attributed check
func extraOrdersEffect(g analytics.CampaignTotals, extraOrders int64) decimal.Decimal {
	if g.Orders == 0 {
		return decimal.Zero
	}
	avgCheck := g.AdRevenue.Div(decimal.NewFromInt(g.Orders))
	return avgCheck.Mul(decimal.NewFromInt(extraOrders))
}

func planFactLine(r models.PlanFactRow, cfg config.PlanConfig) reports.PlanFactLine {
	// Undefined completion means the SKU has no plan amount, shown as
	// behind rather than invented as zero
	status := analytics.PlanBehind
	if r.CompletionPercent != nil {
		status = analytics.ClassifyPlan(*r.CompletionPercent, cfg)
	}

	fact := models.ToFloat64(r.FactMarginProfit)

	return reports.PlanFactLine{
		NmID:       r.NmID,
		Title:      r.Title,
		Plan:       models.ToFloat64(r.PlanMarginProfit),
		PlanToDate: models.ToFloat64(r.PlanToDate),
		Fact:       fact,
		Completion: r.CompletionPercent,
		Status:     status,
		Forecast:   analytics.ForecastMonthEnd(fact, r.DaysPassed, r.DaysInMonth),
	}
}
