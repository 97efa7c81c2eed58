package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OzonProductRow is one SKU on one date from ozon_analytics_data
type OzonProductRow struct {
	SKU              int64           `db:"sku"`
	ProductName      string          `db:"product_name"`
	Date             time.Time       `db:"date"`
	Revenue          decimal.Decimal `db:"revenue"`
	OrderedUnits     int64           `db:"ordered_units"`
	DeliveredUnits   int64           `db:"delivered_units"`
	HitsView         int64           `db:"hits_view"`
	HitsViewSearch   int64           `db:"hits_view_search"`
	HitsViewPDP      int64           `db:"hits_view_pdp"`
	SessionView      int64           `db:"session_view"`
	HitsToCart       int64           `db:"hits_tocart"`
	HitsToCartSearch int64           `db:"hits_tocart_search"`
	HitsToCartPDP    int64           `db:"hits_tocart_pdp"`
	PositionCategory *float64        `db:"position_category"`
}

// OzonCampaignRow is one campaign/SKU pair on one date from
// ozon_campaign_product_stats. Orders and revenue split into direct and
// model (associated) conversions; DRR is stored by the pipeline over the
// combined figures and must not be recomputed from the direct-only ones.
type OzonCampaignRow struct {
	CampaignID   int64           `db:"campaign_id"`
	SKU          int64           `db:"sku"`
	ProductName  string          `db:"product_name"`
	Date         time.Time       `db:"date"`
	Cost         decimal.Decimal `db:"cost"`
	Orders       int64           `db:"orders"`
	ModelOrders  int64           `db:"model_orders"`
	Revenue      decimal.Decimal `db:"revenue"`
	ModelRevenue decimal.Decimal `db:"model_revenue"`
	Clicks       int64           `db:"clicks"`
	Impressions  int64           `db:"impressions"`
	AddToCart    int64           `db:"add_to_cart"`
	DRR          *float64        `db:"drr"`
	CTR          *float64        `db:"ctr"`
	AvgCPC       *float64        `db:"avg_cpc"`
	Price        decimal.Decimal `db:"price"`
}

// TotalOrders returns direct plus model (associated) orders
func (r *OzonCampaignRow) TotalOrders() int64 {
	return r.Orders + r.ModelOrders
}

// TotalRevenue returns direct plus model (associated) revenue
func (r *OzonCampaignRow) TotalRevenue() decimal.Decimal {
	return r.Revenue.Add(r.ModelRevenue)
}
