package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WBMarginRow is one Wildberries SKU on one date from wb_margin_daily.
// Margin percent is NULL in the store when the day had no revenue.
type WBMarginRow struct {
	NmID          int64           `db:"nmid"`
	Title         string          `db:"title"`
	Date          time.Time       `db:"date"`
	OrderCount    int64           `db:"ordercount"`
	Revenue       decimal.Decimal `db:"revenue_total"`
	AdSpend       decimal.Decimal `db:"ad_spend"`
	MarginProfit  decimal.Decimal `db:"margin_profit_after_ads"`
	MarginPercent *float64        `db:"margin_percent_after_ads"`
}

// WBAdsRow is one campaign on one date from the v_ads_daily_performance view.
// Ratio columns are NULL when the view's denominator was zero; they are
// carried through as-is, never recomputed here.
type WBAdsRow struct {
	CampaignName   string          `db:"campaign_name"`
	Date           time.Time       `db:"date"`
	AdSpend        decimal.Decimal `db:"ad_spend"`
	AdRevenue      decimal.Decimal `db:"ad_revenue"`
	Orders         int64           `db:"orders"`
	Clicks         int64           `db:"clicks"`
	Views          int64           `db:"views"`
	DRR            *float64        `db:"drr"`
	CR             *float64        `db:"cr"`
	CTR            *float64        `db:"ctr"`
	CPC            *float64        `db:"cpc"`
	AdRevenueShare *float64        `db:"ad_revenue_share"`
	IsScalable     bool            `db:"is_scalable"`
	BidSearch      decimal.Decimal `db:"bid_search_rub"`
	BidRecommend   decimal.Decimal `db:"bid_recommendations_rub"`
}

// WBFunnelRow is one SKU on one date from wb_sales_funnel_products
type WBFunnelRow struct {
	NmID        int64           `db:"nmid"`
	Title       string          `db:"title"`
	ReportDate  time.Time       `db:"reportdate"`
	OpenCount   int64           `db:"opencount"`
	CartCount   int64           `db:"cartcount"`
	OrderCount  int64           `db:"ordercount"`
	OrderSum    decimal.Decimal `db:"ordersum"`
	BuyoutCount int64           `db:"buyoutcount"`
	BuyoutSum   decimal.Decimal `db:"buyoutsum"`
	Stocks      int64           `db:"stocks"`
}

// WBPriceRow is one SKU price point from wb_spp_daily
type WBPriceRow struct {
	NmID          int64           `db:"nmid"`
	Date          time.Time       `db:"date"`
	FinishedPrice decimal.Decimal `db:"finished_price"`
}

// PlanFactRow is one SKU from the v_plan_fact_margin view: monthly margin
// plan against accumulated fact, with a linear to-date plan baseline.
type PlanFactRow struct {
	NmID              int64           `db:"nmid"`
	Title             string          `db:"title"`
	PlanMarginProfit  decimal.Decimal `db:"plan_margin_profit"`
	PlanToDate        decimal.Decimal `db:"plan_margin_to_date"`
	FactMarginProfit  decimal.Decimal `db:"fact_margin_profit"`
	CompletionPercent *float64        `db:"plan_completion_percent"`
	DaysPassed        int             `db:"days_passed"`
	DaysInMonth       int             `db:"days_in_month"`
}
