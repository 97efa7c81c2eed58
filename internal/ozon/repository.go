// Package ozon reads Ozon analytics rows from the store
package ozon

import (
	"context"

	"github.com/selivandex/seller-bot/internal/adapters/database"
	"github.com/selivandex/seller-bot/pkg/models"
)

// Repository handles Ozon data access
type Repository struct {
	db *database.DB
}

// NewRepository creates new Ozon repository
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// ProductRows returns per-SKU daily analytics rows for a period
func (r *Repository) ProductRows(ctx context.Context, period models.Period) ([]models.OzonProductRow, error) {
	query := `
		SELECT sku, product_name, date, revenue, ordered_units, delivered_units,
		       hits_view, hits_view_search, hits_view_pdp, session_view,
		       hits_tocart, hits_tocart_search, hits_tocart_pdp, position_category
		FROM ozon_analytics_data
		WHERE date BETWEEN $1 AND $2
		ORDER BY date, sku
	`

	var rows []models.OzonProductRow
	if err := r.db.DB().SelectContext(ctx, &rows, query, period.From, period.To); err != nil {
		return nil, models.NewQueryError("ozon product rows", err)
	}

	return rows, nil
}

// ProductRowsBySKU returns daily analytics rows for one SKU
func (r *Repository) ProductRowsBySKU(ctx context.Context, sku int64, period models.Period) ([]models.OzonProductRow, error) {
	query := `
		SELECT sku, product_name, date, revenue, ordered_units, delivered_units,
		       hits_view, hits_view_search, hits_view_pdp, session_view,
		       hits_tocart, hits_tocart_search, hits_tocart_pdp, position_category
		FROM ozon_analytics_data
		WHERE sku = $1 AND date BETWEEN $2 AND $3
		ORDER BY date
	`

	var rows []models.OzonProductRow
	if err := r.db.DB().SelectContext(ctx, &rows, query, sku, period.From, period.To); err != nil {
		return nil, models.NewQueryError("ozon product rows by sku", err)
	}

	return rows, nil
}

// CampaignRows returns per-campaign daily advertising rows for a period.
// The stored drr column already reflects model conversions.
func (r *Repository) CampaignRows(ctx context.Context, period models.Period) ([]models.OzonCampaignRow, error) {
	query := `
		SELECT campaign_id, sku, product_name, date, cost, orders, model_orders,
		       revenue, model_revenue, clicks, impressions, add_to_cart,
		       drr, ctr, avg_cpc, price
		FROM ozon_campaign_product_stats
		WHERE date BETWEEN $1 AND $2
		ORDER BY date, campaign_id, sku
	`

	var rows []models.OzonCampaignRow
	if err := r.db.DB().SelectContext(ctx, &rows, query, period.From, period.To); err != nil {
		return nil, models.NewQueryError("ozon campaign rows", err)
	}

	return rows, nil
}

// CampaignRowsByID returns daily advertising rows for one campaign
func (r *Repository) CampaignRowsByID(ctx context.Context, campaignID int64, period models.Period) ([]models.OzonCampaignRow, error) {
	query := `
		SELECT campaign_id, sku, product_name, date, cost, orders, model_orders,
		       revenue, model_revenue, clicks, impressions, add_to_cart,
		       drr, ctr, avg_cpc, price
		FROM ozon_campaign_product_stats
		WHERE campaign_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date, sku
	`

	var rows []models.OzonCampaignRow
	if err := r.db.DB().SelectContext(ctx, &rows, query, campaignID, period.From, period.To); err != nil {
		return nil, models.NewQueryError("ozon campaign rows by id", err)
	}

	return rows, nil
}
