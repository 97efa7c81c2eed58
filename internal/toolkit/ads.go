package toolkit

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/selivandex/seller-bot/internal/analytics"
	"github.com/selivandex/seller-bot/internal/reports"
	"github.com/selivandex/seller-bot/pkg/logger"
	"github.com/selivandex/seller-bot/pkg/models"
)

// GetAdsSummary reports WB campaign spend, revenue and derived ratios
func (t *LocalToolkit) GetAdsSummary(ctx context.Context, period models.Period) (string, error) {
	logger.Debug("toolkit: get_ads_summary",
		zap.Time("from", period.From),
		zap.Time("to", period.To),
	)

	rows, err := t.wbRepo.AdsRows(ctx, period)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return reports.NoData("реклама WB", period), nil
	}

	return reports.FormatAdsSummary(analytics.SummarizeAds(period, rows)), nil
}

// GetHighDRRCampaigns lists campaigns whose DRR over the period exceeds
// the threshold, worst first, with the estimated saving per campaign
func (t *LocalToolkit) GetHighDRRCampaigns(ctx context.Context, period models.Period, threshold float64) (string, error) {
	logger.Debug("toolkit: get_high_drr_campaigns",
		zap.Float64("threshold", threshold),
	)

	if threshold <= 0 {
		threshold = t.thresholds.WB.MaxDRR
	}

	rows, err := t.wbRepo.AdsRows(ctx, period)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return reports.NoData("реклама WB", period), nil
	}

	var lines []reports.CampaignLine
	for _, g := range analytics.GroupAdsByCampaign(rows) {
		if g.DRR == nil || *g.DRR <= threshold {
			continue
		}
		lines = append(lines, reports.CampaignLine{
			Name:   g.Name,
			Spend:  models.ToFloat64(g.AdSpend),
			Orders: g.Orders,
			DRR:    g.DRR,
			CR:     g.CR,
			Label:  analytics.ClassifyWBCampaign(g.DRR, g.CR, t.thresholds.WB),
			Saving: models.ToFloat64(analytics.EstimatedSaving(g.AdSpend)),
		})
	}

	sort.SliceStable(lines, func(i, j int) bool { return *lines[i].DRR > *lines[j].DRR })

	return reports.FormatHighDRRCampaigns(period, lines, threshold), nil
}

// GetScalableCampaigns lists campaigns with DRR under the limit and
// conversion above the scalable bound, best conversion first
func (t *LocalToolkit) GetScalableCampaigns(ctx context.Context, period models.Period) (string, error) {
	logger.Debug("toolkit: get_scalable_campaigns")

	rows, err := t.wbRepo.AdsRows(ctx, period)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return reports.NoData("реклама WB", period), nil
	}

	var lines []reports.CampaignLine
	for _, g := range analytics.GroupAdsByCampaign(rows) {
		label := analytics.ClassifyWBCampaign(g.DRR, g.CR, t.thresholds.WB)
		if label != analytics.LabelScalable {
			continue
		}
		lines = append(lines, reports.CampaignLine{
			Name:   g.Name,
			Spend:  models.ToFloat64(g.AdSpend),
			Orders: g.Orders,
			DRR:    g.DRR,
			CR:     g.CR,
			Label:  label,
		})
	}

	sort.SliceStable(lines, func(i, j int) bool { return *lines[i].CR > *lines[j].CR })

	return reports.FormatScalableCampaigns(period, lines), nil
}

// GetAdsTrend reports the direction of a daily ads metric over the
// last days complete days
func (t *LocalToolkit) GetAdsTrend(ctx context.Context, metric string, days int) (string, error) {
	logger.Debug("toolkit: get_ads_trend",
		zap.String("metric", metric),
		zap.Int("days", days),
	)

	if metric == "" {
		metric = analytics.MetricAdSpend
	}
	period := lastDays(days)

	rows, err := t.wbRepo.AdsRows(ctx, period)
	if err != nil {
		return "", err
	}

	points, err := analytics.AdsDailySeries(rows, metric)
	if err != nil {
		return "", err
	}

	return reports.FormatTrend(metric, period, points), nil
}

// CompareAdsPeriods reports ads metric deltas between two periods
func (t *LocalToolkit) CompareAdsPeriods(ctx context.Context, periodA, periodB models.Period) (string, error) {
	logger.Debug("toolkit: compare_ads_periods",
		zap.Time("from_a", periodA.From),
		zap.Time("to_a", periodA.To),
		zap.Time("from_b", periodB.From),
		zap.Time("to_b", periodB.To),
	)

	rowsA, err := t.wbRepo.AdsRows(ctx, periodA)
	if err != nil {
		return "", err
	}
	rowsB, err := t.wbRepo.AdsRows(ctx, periodB)
	if err != nil {
		return "", err
	}
	if len(rowsA) == 0 && len(rowsB) == 0 {
		return reports.NoData("реклама WB", span(periodA, periodB)), nil
	}

	sumA := analytics.SummarizeAds(periodA, rowsA)
	sumB := analytics.SummarizeAds(periodB, rowsB)

	deltas := []analytics.MetricDelta{
		analytics.Delta(analytics.MetricAdSpend, models.ToFloat64(sumA.AdSpend), models.ToFloat64(sumB.AdSpend)),
		analytics.Delta(analytics.MetricAdRevenue, models.ToFloat64(sumA.AdRevenue), models.ToFloat64(sumB.AdRevenue)),
		analytics.Delta(analytics.MetricOrders, float64(sumA.Orders), float64(sumB.Orders)),
		analytics.Delta(analytics.MetricClicks, float64(sumA.Clicks), float64(sumB.Clicks)),
	}
	if sumA.DRR != nil && sumB.DRR != nil {
		deltas = append(deltas, analytics.Delta(analytics.MetricDRR, *sumA.DRR, *sumB.DRR))
	}
	if sumA.CR != nil && sumB.CR != nil {
		deltas = append(deltas, analytics.Delta(analytics.MetricCR, *sumA.CR, *sumB.CR))
	}

	return reports.FormatComparison("📊 Сравнение периодов: реклама WB", periodA, periodB, deltas), nil
}
