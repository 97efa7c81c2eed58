package toolkit

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/selivandex/seller-bot/internal/analytics"
	"github.com/selivandex/seller-bot/internal/reports"
	"github.com/selivandex/seller-bot/pkg/logger"
	"github.com/selivandex/seller-bot/pkg/models"
)

// CompareMarginPeriods reports sales metric deltas between two periods
func (t *LocalToolkit) CompareMarginPeriods(ctx context.Context, periodA, periodB models.Period) (string, error) {
	logger.Debug("toolkit: compare_margin_periods",
		zap.Time("from_a", periodA.From),
		zap.Time("to_a", periodA.To),
		zap.Time("from_b", periodB.From),
		zap.Time("to_b", periodB.To),
	)

	rowsA, err := t.wbRepo.MarginRows(ctx, periodA)
	if err != nil {
		return "", err
	}
	rowsB, err := t.wbRepo.MarginRows(ctx, periodB)
	if err != nil {
		return "", err
	}
	if len(rowsA) == 0 && len(rowsB) == 0 {
		return reports.NoData("маржа WB", span(periodA, periodB)), nil
	}

	sumA := analytics.SummarizeMargin(periodA, rowsA)
	sumB := analytics.SummarizeMargin(periodB, rowsB)

	deltas := []analytics.MetricDelta{
		analytics.Delta(analytics.MetricRevenue, models.ToFloat64(sumA.Revenue), models.ToFloat64(sumB.Revenue)),
		analytics.Delta(analytics.MetricOrders, float64(sumA.Orders), float64(sumB.Orders)),
		analytics.Delta(analytics.MetricAdSpend, models.ToFloat64(sumA.AdSpend), models.ToFloat64(sumB.AdSpend)),
		analytics.Delta(analytics.MetricMargin, models.ToFloat64(sumA.MarginProfit), models.ToFloat64(sumB.MarginProfit)),
	}

	return reports.FormatComparison("📊 Сравнение периодов: продажи WB", periodA, periodB, deltas), nil
}

// AnalyzeMarginChange compares the last daysBack days against the
// preceding window and names the factors behind the margin move
func (t *LocalToolkit) AnalyzeMarginChange(ctx context.Context, daysBack int) (string, error) {
	logger.Debug("toolkit: analyze_margin_change",
		zap.Int("days_back", daysBack),
	)

	periodB := lastDays(daysBack)
	periodA := precedingPeriod(periodB)

	rowsA, err := t.wbRepo.MarginRows(ctx, periodA)
	if err != nil {
		return "", err
	}
	rowsB, err := t.wbRepo.MarginRows(ctx, periodB)
	if err != nil {
		return "", err
	}
	if len(rowsA) == 0 || len(rowsB) == 0 {
		return reports.NoData("маржа WB для сравнения", span(periodA, periodB)), nil
	}

	sumA := analytics.SummarizeMargin(periodA, rowsA)
	sumB := analytics.SummarizeMargin(periodB, rowsB)

	marginBefore := models.ToFloat64(sumA.MarginProfit)
	marginAfter := models.ToFloat64(sumB.MarginProfit)
	marginDelta := analytics.Delta(analytics.MetricMargin, marginBefore, marginAfter)

	if !analytics.SignificantMarginChange(marginBefore, marginAfter, t.thresholds.Drivers) {
		return reports.FormatMarginStable(periodA, periodB, marginDelta), nil
	}

	in := analytics.ChangeInputs{
		MarginBefore:  marginBefore,
		MarginAfter:   marginAfter,
		AdSpendBefore: models.ToFloat64(sumA.AdSpend),
		AdSpendAfter:  models.ToFloat64(sumB.AdSpend),
	}

	// Traffic and conversion come from the funnel, price from the daily
	// price snapshots. Either source may be missing for the window;
	// the decomposition then simply skips that factor.
	funnelA, err := t.wbRepo.FunnelRows(ctx, periodA)
	if err != nil {
		return "", err
	}
	funnelB, err := t.wbRepo.FunnelRows(ctx, periodB)
	if err != nil {
		return "", err
	}
	if len(funnelA) > 0 && len(funnelB) > 0 {
		fa := analytics.SummarizeFunnel(periodA, funnelA)
		fb := analytics.SummarizeFunnel(periodB, funnelB)
		in.TrafficBefore = float64(fa.Views)
		in.TrafficAfter = float64(fb.Views)
		in.CRBefore = analytics.RatioPtr(analytics.Ratio(float64(fa.Orders), float64(fa.Views)))
		in.CRAfter = analytics.RatioPtr(analytics.Ratio(float64(fb.Orders), float64(fb.Views)))
	}

	priceA, err := t.wbRepo.AvgPrice(ctx, periodA)
	if err != nil {
		return "", err
	}
	priceB, err := t.wbRepo.AvgPrice(ctx, periodB)
	if err != nil {
		return "", err
	}
	in.PriceBefore = priceA
	in.PriceAfter = priceB

	drivers := analytics.ExplainMarginChange(in, t.thresholds.Drivers)

	return reports.FormatDrivers(periodA, periodB, marginDelta, drivers), nil
}

// FindMarginAnomalies flags days where a margin metric left its rolling
// z-score band over the last days complete days
func (t *LocalToolkit) FindMarginAnomalies(ctx context.Context, days int, metric string) (string, error) {
	logger.Debug("toolkit: find_margin_anomalies",
		zap.Int("days", days),
		zap.String("metric", metric),
	)

	if metric == "" {
		metric = analytics.MetricMargin
	}
	if days <= 0 {
		days = defaultAnomalyDays
	}
	period := lastDays(days)

	rows, err := t.wbRepo.MarginRows(ctx, period)
	if err != nil {
		return "", err
	}

	points, err := analytics.MarginDailySeries(rows, metric)
	if err != nil {
		return "", err
	}

	anomalies, err := analytics.DetectAnomalies(points, t.thresholds.Anomaly.Window, t.thresholds.Anomaly.ZScore)
	if err != nil {
		if errors.Is(err, analytics.ErrInsufficientSeries) {
			return reports.InsufficientData(metric, period), nil
		}
		return "", err
	}

	return reports.FormatAnomalies(metric, period, anomalies), nil
}

// DiagnoseSKU runs the per-article health check: margin, ads load,
// funnel and stock state over the last daysBack days
func (t *LocalToolkit) DiagnoseSKU(ctx context.Context, nmID int64, daysBack int) (string, error) {
	logger.Debug("toolkit: diagnose_sku",
		zap.Int64("nm_id", nmID),
		zap.Int("days_back", daysBack),
	)

	period := lastDays(daysBack)

	marginRows, err := t.wbRepo.MarginRowsBySKU(ctx, nmID, period)
	if err != nil {
		return "", err
	}
	funnelRows, err := t.wbRepo.FunnelRowsBySKU(ctx, nmID, period)
	if err != nil {
		return "", err
	}
	if len(marginRows) == 0 && len(funnelRows) == 0 {
		return reports.NoData(fmt.Sprintf("товар с артикулом %d", nmID), period), nil
	}

	d := reports.SKUDiagnosis{
		NmID:   nmID,
		Period: period,
		Margin: analytics.SummarizeMargin(period, marginRows),
	}
	if len(marginRows) > 0 {
		d.Title = marginRows[0].Title
	} else {
		d.Title = funnelRows[0].Title
	}

	wbT := t.thresholds.WB

	if d.Margin.MarginProfit.IsNegative() {
		d.Issues = append(d.Issues,
			fmt.Sprintf("товар убыточен: %s за период", reports.Money(models.ToFloat64(d.Margin.MarginProfit))))
	} else if d.Margin.MarginPercent != nil && *d.Margin.MarginPercent < wbT.LowMarginPercent {
		d.Issues = append(d.Issues,
			fmt.Sprintf("низкая маржинальность: %s при ориентире %.0f%%",
				reports.PercentValue(*d.Margin.MarginPercent), wbT.LowMarginPercent))
	}

	if d.Margin.AdShare != nil && *d.Margin.AdShare > wbT.HighAdShare {
		d.Issues = append(d.Issues,
			fmt.Sprintf("реклама съедает %s выручки", reports.PercentValue(*d.Margin.AdShare)))
	}

	if len(funnelRows) > 0 {
		f := analytics.SummarizeFunnel(period, funnelRows)
		d.Funnel = &f

		groups := analytics.GroupFunnelBySKU(funnelRows)
		if stocks := groups[0].Stocks; stocks < wbT.LowStock {
			d.Issues = append(d.Issues,
				fmt.Sprintf("остатки на исходе: %s шт. на складе", reports.Count(stocks)))
		}
	}

	d.Healthy = len(d.Issues) == 0

	return reports.FormatSKUDiagnosis(d), nil
}

// span returns the smallest period covering both arguments
func span(a, b models.Period) models.Period {
	out := a
	if b.From.Before(out.From) {
		out.From = b.From
	}
	if b.To.After(out.To) {
		out.To = b.To
	}
	return out
}
