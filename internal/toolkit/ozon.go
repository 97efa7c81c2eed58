package toolkit

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/selivandex/seller-bot/internal/analytics"
	"github.com/selivandex/seller-bot/internal/reports"
	"github.com/selivandex/seller-bot/pkg/logger"
	"github.com/selivandex/seller-bot/pkg/models"
)

// GetOzonSummary reports Ozon sales totals for a period
func (t *LocalToolkit) GetOzonSummary(ctx context.Context, period models.Period) (string, error) {
	logger.Debug("toolkit: get_ozon_summary",
		zap.Time("from", period.From),
		zap.Time("to", period.To),
	)

	rows, err := t.ozonRepo.ProductRows(ctx, period)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return reports.NoData("продажи Ozon", period), nil
	}

	return reports.FormatOzonSummary(analytics.SummarizeOzon(period, rows)), nil
}

// GetOzonTopProducts ranks Ozon SKUs by revenue, ordered units or views
func (t *LocalToolkit) GetOzonTopProducts(ctx context.Context, period models.Period, metric string, limit int) (string, error) {
	logger.Debug("toolkit: get_ozon_top_products",
		zap.String("metric", metric),
		zap.Int("limit", limit),
	)

	if limit <= 0 {
		limit = defaultLimit
	}

	rows, err := t.ozonRepo.ProductRows(ctx, period)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return reports.NoData("продажи Ozon", period), nil
	}

	groups := analytics.GroupOzonBySKU(rows)
	ranked := make([]analytics.Ranked, 0, len(groups))
	unit := "money"
	for _, g := range groups {
		r := analytics.Ranked{ID: g.SKU, Label: g.Name}
		switch metric {
		case "", analytics.MetricRevenue:
			r.Value = models.ToFloat64(g.Revenue)
		case analytics.MetricOrders:
			r.Value = float64(g.OrderedUnits)
			unit = "count"
		case analytics.MetricViews:
			r.Value = float64(g.Views)
			unit = "count"
		default:
			return "", models.NewValidationError("metric", fmt.Sprintf("unknown ranking metric %q, expected revenue, orders or views", metric))
		}
		ranked = append(ranked, r)
	}

	header := fmt.Sprintf("🏆 Топ-%d товаров Ozon по метрике «%s» за %s",
		min(limit, len(ranked)), topMetricTitle(metric), reports.PeriodLabel(period))

	return reports.FormatRanking(header, analytics.TopN(ranked, limit), unit), nil
}

// GetOzonFunnel reports the view/session/cart/order funnel for a period
func (t *LocalToolkit) GetOzonFunnel(ctx context.Context, period models.Period) (string, error) {
	logger.Debug("toolkit: get_ozon_funnel",
		zap.Time("from", period.From),
		zap.Time("to", period.To),
	)

	rows, err := t.ozonRepo.ProductRows(ctx, period)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return reports.NoData("воронка Ozon", period), nil
	}

	return reports.FormatOzonFunnel(analytics.SummarizeOzon(period, rows)), nil
}

// GetOzonLowConversionProducts lists Ozon SKUs with traffic above
// minViews converting below maxCR, with a listing verdict per SKU
func (t *LocalToolkit) GetOzonLowConversionProducts(ctx context.Context, period models.Period, minViews int64, maxCR float64) (string, error) {
	logger.Debug("toolkit: get_ozon_low_conversion_products",
		zap.Int64("min_views", minViews),
		zap.Float64("max_cr", maxCR),
	)

	ozonT := t.thresholds.Ozon
	if minViews <= 0 {
		minViews = ozonT.MinViews
	}
	if maxCR <= 0 {
		maxCR = ozonT.LowCR
	}

	rows, err := t.ozonRepo.ProductRows(ctx, period)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return reports.NoData("воронка Ozon", period), nil
	}

	var lines []reports.OzonProductLine
	for _, g := range analytics.GroupOzonBySKU(rows) {
		if g.Views < minViews {
			continue
		}
		if g.SessionToOrder != nil && *g.SessionToOrder >= maxCR {
			continue
		}
		lines = append(lines, reports.OzonProductLine{
			SKU:            g.SKU,
			Name:           g.Name,
			Views:          g.Views,
			Sessions:       g.Sessions,
			CartAdds:       g.CartAdds,
			OrderedUnits:   g.OrderedUnits,
			SessionToOrder: g.SessionToOrder,
			ViewToCart:     g.ViewToCart,
			Label:          analytics.ClassifyOzonProduct(g.SessionToOrder, g.Views, g.ViewToCart, g.SessionToOrder, ozonT),
		})
	}

	sort.SliceStable(lines, func(i, j int) bool { return lines[i].Views > lines[j].Views })

	return reports.FormatOzonLowConversionProducts(period, lines), nil
}

// GetOzonAdsSummary reports Ozon ad totals. Conversions are direct plus
// model, matching how the marketplace itself attributes them.
func (t *LocalToolkit) GetOzonAdsSummary(ctx context.Context, period models.Period) (string, error) {
	logger.Debug("toolkit: get_ozon_ads_summary",
		zap.Time("from", period.From),
		zap.Time("to", period.To),
	)

	rows, err := t.ozonRepo.CampaignRows(ctx, period)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return reports.NoData("реклама Ozon", period), nil
	}

	return reports.FormatOzonAdsSummary(analytics.SummarizeOzonAds(period, rows)), nil
}

// GetOzonHighDRRProducts lists ad placements above the DRR threshold,
// worst first, marking the ones past the urgent bound
func (t *LocalToolkit) GetOzonHighDRRProducts(ctx context.Context, period models.Period, threshold float64) (string, error) {
	logger.Debug("toolkit: get_ozon_high_drr_products",
		zap.Float64("threshold", threshold),
	)

	ozonT := t.thresholds.Ozon
	if threshold <= 0 {
		threshold = ozonT.MaxDRR
	}

	rows, err := t.ozonRepo.CampaignRows(ctx, period)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return reports.NoData("реклама Ozon", period), nil
	}

	var lines []reports.OzonCampaignLine
	for _, g := range analytics.GroupOzonByPlacement(rows) {
		if g.DRR == nil || *g.DRR <= threshold {
			continue
		}
		lines = append(lines, reports.OzonCampaignLine{
			CampaignID:  g.CampaignID,
			SKU:         g.SKU,
			Name:        g.Name,
			Spend:       models.ToFloat64(g.Spend),
			TotalOrders: g.TotalOrders,
			DRR:         g.DRR,
			CR:          g.CR,
			Label:       analytics.ClassifyOzonCampaign(g.DRR, g.CR, ozonT),
			Saving:      models.ToFloat64(analytics.EstimatedSaving(g.Spend)),
		})
	}

	sort.SliceStable(lines, func(i, j int) bool { return *lines[i].DRR > *lines[j].DRR })

	return reports.FormatOzonHighDRRProducts(period, lines, ozonT.UrgentDRR), nil
}

// GetOzonScalableProducts lists placements with DRR under maxDRR and
// conversion above minCR, best conversion first
func (t *LocalToolkit) GetOzonScalableProducts(ctx context.Context, period models.Period, maxDRR, minCR float64) (string, error) {
	logger.Debug("toolkit: get_ozon_scalable_products",
		zap.Float64("max_drr", maxDRR),
		zap.Float64("min_cr", minCR),
	)

	ozonT := t.thresholds.Ozon
	if maxDRR <= 0 {
		maxDRR = ozonT.MaxDRR
	}
	if minCR <= 0 {
		minCR = ozonT.MinScalableCR
	}

	rows, err := t.ozonRepo.CampaignRows(ctx, period)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return reports.NoData("реклама Ozon", period), nil
	}

	var lines []reports.OzonCampaignLine
	for _, g := range analytics.GroupOzonByPlacement(rows) {
		if g.DRR == nil || *g.DRR >= maxDRR {
			continue
		}
		if g.CR == nil || *g.CR <= minCR {
			continue
		}
		lines = append(lines, reports.OzonCampaignLine{
			CampaignID:  g.CampaignID,
			SKU:         g.SKU,
			Name:        g.Name,
			Spend:       models.ToFloat64(g.Spend),
			TotalOrders: g.TotalOrders,
			DRR:         g.DRR,
			CR:          g.CR,
			Label:       analytics.LabelScalable,
		})
	}

	sort.SliceStable(lines, func(i, j int) bool { return *lines[i].CR > *lines[j].CR })

	return reports.FormatOzonScalableProducts(period, lines), nil
}

// GetOzonAdsTrend reports the direction of a daily Ozon ads metric over
// the last days complete days
func (t *LocalToolkit) GetOzonAdsTrend(ctx context.Context, metric string, days int) (string, error) {
	logger.Debug("toolkit: get_ozon_ads_trend",
		zap.String("metric", metric),
		zap.Int("days", days),
	)

	if metric == "" {
		metric = analytics.MetricAdSpend
	}
	period := lastDays(days)

	rows, err := t.ozonRepo.CampaignRows(ctx, period)
	if err != nil {
		return "", err
	}

	points, err := analytics.OzonAdsDailySeries(rows, metric)
	if err != nil {
		return "", err
	}

	return reports.FormatTrend(metric, period, points), nil
}

// GetOzonCampaignDetails breaks one campaign down by SKU
func (t *LocalToolkit) GetOzonCampaignDetails(ctx context.Context, campaignID int64, period models.Period) (string, error) {
	logger.Debug("toolkit: get_ozon_campaign_details",
		zap.Int64("campaign_id", campaignID),
	)

	rows, err := t.ozonRepo.CampaignRowsByID(ctx, campaignID, period)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return reports.NoData(fmt.Sprintf("кампания %d", campaignID), period), nil
	}

	summary := analytics.SummarizeOzonAds(period, rows)

	groups := analytics.GroupOzonByPlacement(rows)
	lines := make([]reports.OzonCampaignLine, 0, len(groups))
	for _, g := range groups {
		lines = append(lines, reports.OzonCampaignLine{
			CampaignID:  g.CampaignID,
			SKU:         g.SKU,
			Name:        g.Name,
			Spend:       models.ToFloat64(g.Spend),
			TotalOrders: g.TotalOrders,
			DRR:         g.DRR,
			CR:          g.CR,
			Label:       analytics.ClassifyOzonCampaign(g.DRR, g.CR, t.thresholds.Ozon),
		})
	}

	return reports.FormatOzonCampaignDetails(campaignID, summary, lines), nil
}
