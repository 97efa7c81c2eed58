package toolkit

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"

	"github.com/selivandex/seller-bot/internal/analytics"
	"github.com/selivandex/seller-bot/internal/reports"
	"github.com/selivandex/seller-bot/pkg/logger"
	"github.com/selivandex/seller-bot/pkg/models"
)

// Fallback bounds for the low-conversion filter when the caller
// passes none
const (
	defaultMinViews = 100
	defaultMaxCR    = 1.0
)

// GetSalesFunnel reports the view/cart/order/buyout funnel for a period
func (t *LocalToolkit) GetSalesFunnel(ctx context.Context, period models.Period) (string, error) {
	logger.Debug("toolkit: get_sales_funnel",
		zap.Time("from", period.From),
		zap.Time("to", period.To),
	)

	rows, err := t.wbRepo.FunnelRows(ctx, period)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return reports.NoData("воронка продаж WB", period), nil
	}

	return reports.FormatFunnelSummary(analytics.SummarizeFunnel(period, rows)), nil
}

// GetStockSummary reports remaining stock per SKU as of the latest
// funnel report date, most depleted first
func (t *LocalToolkit) GetStockSummary(ctx context.Context) (string, error) {
	logger.Debug("toolkit: get_stock_summary")

	latest, err := t.wbRepo.LatestFunnelDate(ctx)
	if err != nil {
		if errors.Is(err, models.ErrNoData) {
			return "Нет данных: остатки ещё не загружены.", nil
		}
		return "", err
	}

	onDate := models.Period{From: latest, To: latest}
	rows, err := t.wbRepo.FunnelRows(ctx, onDate)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return reports.NoData("остатки WB", onDate), nil
	}

	groups := analytics.GroupFunnelBySKU(rows)
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Stocks < groups[j].Stocks })

	var total int64
	lines := make([]reports.StockLine, 0, len(groups))
	for _, g := range groups {
		total += g.Stocks
		lines = append(lines, reports.StockLine{
			NmID:   g.NmID,
			Title:  g.Title,
			Stocks: g.Stocks,
			Low:    g.Stocks < t.thresholds.WB.LowStock,
		})
	}

	return reports.FormatStockSummary(reports.Date(latest), lines, total), nil
}

// GetLowConversionProducts lists SKUs that collect views above minViews
// but convert them to orders below maxCR percent
func (t *LocalToolkit) GetLowConversionProducts(ctx context.Context, period models.Period, minViews int64, maxCR float64) (string, error) {
	logger.Debug("toolkit: get_low_conversion_products",
		zap.Int64("min_views", minViews),
		zap.Float64("max_cr", maxCR),
	)

	if minViews <= 0 {
		minViews = defaultMinViews
	}
	if maxCR <= 0 {
		maxCR = defaultMaxCR
	}

	rows, err := t.wbRepo.FunnelRows(ctx, period)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return reports.NoData("воронка продаж WB", period), nil
	}

	var lines []reports.FunnelLine
	for _, g := range analytics.GroupFunnelBySKU(rows) {
		if g.Views < minViews {
			continue
		}
		if g.ViewToOrder != nil && *g.ViewToOrder >= maxCR {
			continue
		}
		lines = append(lines, reports.FunnelLine{
			NmID:       g.NmID,
			Title:      g.Title,
			Views:      g.Views,
			Carts:      g.Carts,
			Orders:     g.Orders,
			ViewToCart: g.ViewToCart,
			CartOrder:  g.CartToOrder,
		})
	}

	// Biggest wasted traffic first
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].Views > lines[j].Views })

	return reports.FormatLowConversionProducts(period, lines), nil
}
