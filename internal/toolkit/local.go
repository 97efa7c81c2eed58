package toolkit

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/selivandex/seller-bot/internal/adapters/config"
	"github.com/selivandex/seller-bot/internal/analytics"
	"github.com/selivandex/seller-bot/internal/feedback"
	"github.com/selivandex/seller-bot/internal/ozon"
	"github.com/selivandex/seller-bot/internal/reports"
	"github.com/selivandex/seller-bot/internal/wb"
	"github.com/selivandex/seller-bot/pkg/logger"
	"github.com/selivandex/seller-bot/pkg/models"
)

const defaultLimit = 10

// LocalToolkit implements SellerToolkit over the local data warehouse.
// Every tool is a query, compute, format flow: rows from a repository,
// figures from the analytics package, a Russian string from reports.
type LocalToolkit struct {
	wbRepo       *wb.Repository
	ozonRepo     *ozon.Repository
	feedbackRepo *feedback.Repository
	thresholds   config.ThresholdsConfig
}

// NewLocalToolkit creates the toolkit over warehouse repositories
func NewLocalToolkit(
	wbRepo *wb.Repository,
	ozonRepo *ozon.Repository,
	feedbackRepo *feedback.Repository,
	thresholds config.ThresholdsConfig,
) *LocalToolkit {
	return &LocalToolkit{
		wbRepo:       wbRepo,
		ozonRepo:     ozonRepo,
		feedbackRepo: feedbackRepo,
		thresholds:   thresholds,
	}
}

// ============ WB Margin Tools ============

// GetMarginSummary reports revenue, ad spend and margin totals for a period
func (t *LocalToolkit) GetMarginSummary(ctx context.Context, period models.Period) (string, error) {
	logger.Debug("toolkit: get_margin_summary",
		zap.Time("from", period.From),
		zap.Time("to", period.To),
	)

	rows, err := t.wbRepo.MarginRows(ctx, period)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return reports.NoData("маржа WB", period), nil
	}

	return reports.FormatMarginSummary(analytics.SummarizeMargin(period, rows)), nil
}

// GetTopProducts ranks SKUs by revenue, orders or margin over a period
func (t *LocalToolkit) GetTopProducts(ctx context.Context, period models.Period, metric string, limit int) (string, error) {
	logger.Debug("toolkit: get_top_products",
		zap.String("metric", metric),
		zap.Int("limit", limit),
	)

	if limit <= 0 {
		limit = defaultLimit
	}

	rows, err := t.wbRepo.MarginRows(ctx, period)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return reports.NoData("продажи WB", period), nil
	}

	groups := analytics.GroupMarginBySKU(rows)
	ranked := make([]analytics.Ranked, 0, len(groups))
	unit := "money"
	for _, g := range groups {
		r := analytics.Ranked{ID: g.NmID, Label: g.Title}
		switch metric {
		case "", analytics.MetricRevenue:
			r.Value = models.ToFloat64(g.Revenue)
		case analytics.MetricOrders:
			r.Value = float64(g.Orders)
			unit = "count"
		case analytics.MetricMargin:
			r.Value = models.ToFloat64(g.MarginProfit)
		default:
			return "", models.NewValidationError("metric", fmt.Sprintf("unknown ranking metric %q, expected revenue, orders or margin", metric))
		}
		ranked = append(ranked, r)
	}

	header := fmt.Sprintf("🏆 Топ-%d товаров WB по метрике «%s» за %s",
		min(limit, len(ranked)), topMetricTitle(metric), reports.PeriodLabel(period))

	return reports.FormatRanking(header, analytics.TopN(ranked, limit), unit), nil
}

func topMetricTitle(metric string) string {
	if metric == "" {
		return reports.MetricTitle(analytics.MetricRevenue)
	}
	return reports.MetricTitle(metric)
}

// GetUnprofitableProducts lists SKUs whose margin percent is below
// maxMargin, worst first. The zero default keeps only loss-making SKUs.
func (t *LocalToolkit) GetUnprofitableProducts(ctx context.Context, period models.Period, maxMargin float64, limit int) (string, error) {
	logger.Debug("toolkit: get_unprofitable_products",
		zap.Float64("max_margin", maxMargin),
		zap.Int("limit", limit),
	)

	if limit <= 0 {
		limit = defaultLimit
	}

	rows, err := t.wbRepo.MarginRows(ctx, period)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return reports.NoData("маржа WB", period), nil
	}

	var lines []reports.ProductMarginLine
	for _, g := range analytics.GroupMarginBySKU(rows) {
		below := g.MarginPercent != nil && *g.MarginPercent < maxMargin
		// SKUs with spend but no revenue have no margin percent yet
		// still lose money
		noRevenueLoss := g.MarginPercent == nil && g.MarginProfit.IsNegative()
		if !below && !noRevenueLoss {
			continue
		}
		lines = append(lines, reports.ProductMarginLine{
			NmID:          g.NmID,
			Title:         g.Title,
			Orders:        g.Orders,
			Revenue:       models.ToFloat64(g.Revenue),
			MarginProfit:  models.ToFloat64(g.MarginProfit),
			MarginPercent: g.MarginPercent,
		})
	}

	sort.SliceStable(lines, func(i, j int) bool { return lines[i].MarginProfit < lines[j].MarginProfit })
	if len(lines) > limit {
		lines = lines[:limit]
	}

	return reports.FormatUnprofitableProducts(period, lines), nil
}

// GetMarginTrend reports the direction of a daily margin metric over
// the last days complete days
func (t *LocalToolkit) GetMarginTrend(ctx context.Context, days int, metric string) (string, error) {
	logger.Debug("toolkit: get_margin_trend",
		zap.Int("days", days),
		zap.String("metric", metric),
	)

	if metric == "" {
		metric = analytics.MetricMargin
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

	return reports.FormatTrend(metric, period, points), nil
}
