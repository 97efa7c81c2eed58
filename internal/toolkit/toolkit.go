package toolkit

import (
	"context"

	"github.com/selivandex/seller-bot/pkg/models"
)

// SellerToolkit provides read-only analytics tools over the marketplace
// data warehouse. Every tool reads from local Postgres tables populated
// by the nightly ELT pipeline, never from marketplace APIs directly, and
// returns a formatted Russian report string ready to show the seller.
//
// Empty result sets come back as explicit "нет данных" strings, not
// errors. Thresholds and limits passed as zero or negative fall back to
// the configured defaults.
type SellerToolkit interface {
	// ============ WB Margin Tools (from wb_margin_daily) ============

	// GetMarginSummary reports revenue, ad spend and margin totals
	GetMarginSummary(ctx context.Context, period models.Period) (string, error)

	// GetTopProducts ranks SKUs by revenue, orders or margin
	GetTopProducts(ctx context.Context, period models.Period, metric string, limit int) (string, error)

	// GetUnprofitableProducts lists SKUs whose margin is below maxMargin percent
	GetUnprofitableProducts(ctx context.Context, period models.Period, maxMargin float64, limit int) (string, error)

	// GetMarginTrend reports the direction of a daily margin metric
	GetMarginTrend(ctx context.Context, days int, metric string) (string, error)

	// CompareMarginPeriods reports metric deltas between two periods
	CompareMarginPeriods(ctx context.Context, periodA, periodB models.Period) (string, error)

	// AnalyzeMarginChange decomposes a recent margin move into driver factors
	AnalyzeMarginChange(ctx context.Context, daysBack int) (string, error)

	// FindMarginAnomalies flags days where a metric left its usual range
	FindMarginAnomalies(ctx context.Context, days int, metric string) (string, error)

	// DiagnoseSKU runs the per-article health check
	DiagnoseSKU(ctx context.Context, nmID int64, daysBack int) (string, error)

	// ============ WB Funnel Tools (from wb_sales_funnel_products) ============

	// GetSalesFunnel reports the view/cart/order/buyout funnel
	GetSalesFunnel(ctx context.Context, period models.Period) (string, error)

	// GetStockSummary reports remaining stock as of the latest report date
	GetStockSummary(ctx context.Context) (string, error)

	// GetLowConversionProducts lists SKUs with traffic but weak conversion
	GetLowConversionProducts(ctx context.Context, period models.Period, minViews int64, maxCR float64) (string, error)

	// ============ WB Ads Tools (from v_ads_daily_performance) ============

	// GetAdsSummary reports campaign spend, revenue and derived ratios
	GetAdsSummary(ctx context.Context, period models.Period) (string, error)

	// GetHighDRRCampaigns lists campaigns burning budget above the threshold
	GetHighDRRCampaigns(ctx context.Context, period models.Period, threshold float64) (string, error)

	// GetScalableCampaigns lists campaigns worth raising budgets on
	GetScalableCampaigns(ctx context.Context, period models.Period) (string, error)

	// GetAdsTrend reports the direction of a daily ads metric
	GetAdsTrend(ctx context.Context, metric string, days int) (string, error)

	// CompareAdsPeriods reports ads metric deltas between two periods
	CompareAdsPeriods(ctx context.Context, periodA, periodB models.Period) (string, error)

	// ============ WB Plan Tools (from v_plan_fact_margin) ============

	// GetPlanFact reports monthly margin plan against accumulated fact
	GetPlanFact(ctx context.Context) (string, error)

	// GetPlanForecast projects month-end margin at the current daily pace
	GetPlanForecast(ctx context.Context) (string, error)

	// GetUnderperformingProducts lists SKUs behind plan by the threshold
	GetUnderperformingProducts(ctx context.Context, threshold float64) (string, error)

	// GetRecommendations composes prioritized actions from ads and plan state
	GetRecommendations(ctx context.Context, period models.Period) (string, error)

	// ============ Ozon Tools (from ozon_analytics_data, ozon_campaign_product_stats) ============

	// GetOzonSummary reports Ozon sales totals
	GetOzonSummary(ctx context.Context, period models.Period) (string, error)

	// GetOzonTopProducts ranks Ozon SKUs by revenue, units or views
	GetOzonTopProducts(ctx context.Context, period models.Period, metric string, limit int) (string, error)

	// GetOzonFunnel reports the view/session/cart/order funnel
	GetOzonFunnel(ctx context.Context, period models.Period) (string, error)

	// GetOzonLowConversionProducts lists Ozon SKUs with weak conversion
	// and a listing-quality verdict per SKU
	GetOzonLowConversionProducts(ctx context.Context, period models.Period, minViews int64, maxCR float64) (string, error)

	// GetOzonAdsSummary reports Ozon ad totals with combined conversions
	GetOzonAdsSummary(ctx context.Context, period models.Period) (string, error)

	// GetOzonHighDRRProducts lists ad placements above the DRR threshold
	GetOzonHighDRRProducts(ctx context.Context, period models.Period, threshold float64) (string, error)

	// GetOzonScalableProducts lists placements with low DRR and good CR
	GetOzonScalableProducts(ctx context.Context, period models.Period, maxDRR, minCR float64) (string, error)

	// GetOzonAdsTrend reports the direction of a daily Ozon ads metric
	GetOzonAdsTrend(ctx context.Context, metric string, days int) (string, error)

	// GetOzonCampaignDetails breaks one campaign down by SKU
	GetOzonCampaignDetails(ctx context.Context, campaignID int64, period models.Period) (string, error)

	// ============ Agent Tools ============

	// RecordFeedback stores a seller's complaint about an answer
	RecordFeedback(ctx context.Context, chatID int64, feedbackType, comment string) (string, error)
}
