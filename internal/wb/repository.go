// Package wb reads Wildberries analytics rows from the store.
// All queries are read-only; empty results are valid and mean
// "no data", not a failure.
package wb

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/selivandex/seller-bot/internal/adapters/database"
	"github.com/selivandex/seller-bot/pkg/models"
)

// Repository handles Wildberries data access
type Repository struct {
	db *database.DB
}

// NewRepository creates new WB repository
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// MarginRows returns per-SKU daily margin rows for a period
func (r *Repository) MarginRows(ctx context.Context, period models.Period) ([]models.WBMarginRow, error) {
	query := `
		SELECT nmid, title, date, ordercount, revenue_total, ad_spend,
		       margin_profit_after_ads, margin_percent_after_ads
		FROM wb_margin_daily
		WHERE date BETWEEN $1 AND $2
		ORDER BY date, nmid
	`

	var rows []models.WBMarginRow
	if err := r.db.DB().SelectContext(ctx, &rows, query, period.From, period.To); err != nil {
		return nil, models.NewQueryError("wb margin rows", err)
	}

	return rows, nil
}

// MarginRowsBySKU returns daily margin rows for one SKU
func (r *Repository) MarginRowsBySKU(ctx context.Context, nmID int64, period models.Period) ([]models.WBMarginRow, error) {
	query := `
		SELECT nmid, title, date, ordercount, revenue_total, ad_spend,
		       margin_profit_after_ads, margin_percent_after_ads
		FROM wb_margin_daily
		WHERE nmid = $1 AND date BETWEEN $2 AND $3
		ORDER BY date
	`

	var rows []models.WBMarginRow
	if err := r.db.DB().SelectContext(ctx, &rows, query, nmID, period.From, period.To); err != nil {
		return nil, models.NewQueryError("wb margin rows by sku", err)
	}

	return rows, nil
}

// AdsRows returns per-campaign daily performance rows for a period.
// Ratio columns come precomputed from the view with NULL for undefined.
func (r *Repository) AdsRows(ctx context.Context, period models.Period) ([]models.WBAdsRow, error) {
	query := `
		SELECT campaign_name, date, ad_spend, ad_revenue, orders, clicks, views,
		       drr, cr, ctr, cpc, ad_revenue_share, is_scalable,
		       bid_search_rub, bid_recommendations_rub
		FROM v_ads_daily_performance
		WHERE date BETWEEN $1 AND $2
		ORDER BY date, campaign_name
	`

	var rows []models.WBAdsRow
	if err := r.db.DB().SelectContext(ctx, &rows, query, period.From, period.To); err != nil {
		return nil, models.NewQueryError("wb ads rows", err)
	}

	return rows, nil
}

// FunnelRows returns per-SKU daily funnel rows for a period
func (r *Repository) FunnelRows(ctx context.Context, period models.Period) ([]models.WBFunnelRow, error) {
	query := `
		SELECT nmid, title, reportdate, opencount, cartcount, ordercount,
		       ordersum, buyoutcount, buyoutsum, stocks
		FROM wb_sales_funnel_products
		WHERE reportdate BETWEEN $1 AND $2
		ORDER BY reportdate, nmid
	`

	var rows []models.WBFunnelRow
	if err := r.db.DB().SelectContext(ctx, &rows, query, period.From, period.To); err != nil {
		return nil, models.NewQueryError("wb funnel rows", err)
	}

	return rows, nil
}

// FunnelRowsBySKU returns daily funnel rows for one SKU
func (r *Repository) FunnelRowsBySKU(ctx context.Context, nmID int64, period models.Period) ([]models.WBFunnelRow, error) {
	query := `
		SELECT nmid, title, reportdate, opencount, cartcount, ordercount,
		       ordersum, buyoutcount, buyoutsum, stocks
		FROM wb_sales_funnel_products
		WHERE nmid = $1 AND reportdate BETWEEN $2 AND $3
		ORDER BY reportdate
	`

	var rows []models.WBFunnelRow
	if err := r.db.DB().SelectContext(ctx, &rows, query, nmID, period.From, period.To); err != nil {
		return nil, models.NewQueryError("wb funnel rows by sku", err)
	}

	return rows, nil
}

// LatestFunnelDate returns the most recent funnel report date.
// Returns models.ErrNoData when the table is empty.
func (r *Repository) LatestFunnelDate(ctx context.Context) (time.Time, error) {
	query := `SELECT MAX(reportdate) FROM wb_sales_funnel_products`

	var latest sql.NullTime
	if err := r.db.DB().GetContext(ctx, &latest, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, models.ErrNoData
		}
		return time.Time{}, models.NewQueryError("wb latest funnel date", err)
	}

	if !latest.Valid {
		return time.Time{}, models.ErrNoData
	}

	return latest.Time, nil
}

// PriceRows returns daily final prices for one SKU
func (r *Repository) PriceRows(ctx context.Context, nmID int64, period models.Period) ([]models.WBPriceRow, error) {
	query := `
		SELECT nmid, date, finished_price
		FROM wb_spp_daily
		WHERE nmid = $1 AND date BETWEEN $2 AND $3
		ORDER BY date
	`

	var rows []models.WBPriceRow
	if err := r.db.DB().SelectContext(ctx, &rows, query, nmID, period.From, period.To); err != nil {
		return nil, models.NewQueryError("wb price rows", err)
	}

	return rows, nil
}

// AvgPrice returns the average customer price across all SKUs for a
// period, or nil when the table has no rows for it
func (r *Repository) AvgPrice(ctx context.Context, period models.Period) (*float64, error) {
	query := `
		SELECT AVG(finished_price)
		FROM wb_spp_daily
		WHERE date BETWEEN $1 AND $2
	`

	var avg sql.NullFloat64
	if err := r.db.DB().GetContext(ctx, &avg, query, period.From, period.To); err != nil {
		return nil, models.NewQueryError("wb avg price", err)
	}

	if !avg.Valid {
		return nil, nil
	}

	return &avg.Float64, nil
}

// PlanFactRows returns the current-month plan versus fact per SKU
func (r *Repository) PlanFactRows(ctx context.Context) ([]models.PlanFactRow, error) {
	query := `
		SELECT nmid, title, plan_margin_profit, plan_margin_to_date,
		       fact_margin_profit, plan_completion_percent,
		       days_passed, days_in_month
		FROM v_plan_fact_margin
		ORDER BY nmid
	`

	var rows []models.PlanFactRow
	if err := r.db.DB().SelectContext(ctx, &rows, query); err != nil {
		return nil, models.NewQueryError("wb plan fact rows", err)
	}

	return rows, nil
}
