package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/selivandex/seller-bot/pkg/models"
)

// MarginSummary aggregates WB margin rows over a period
type MarginSummary struct {
	Period        models.Period
	Products      int
	Orders        int64
	Revenue       decimal.Decimal
	AdSpend       decimal.Decimal
	MarginProfit  decimal.Decimal
	MarginPercent *float64 // profit / revenue, recomputed from totals
	AdShare       *float64 // ad spend / revenue
}

// SummarizeMargin builds a period aggregate from daily WB margin rows
func SummarizeMargin(period models.Period, rows []models.WBMarginRow) MarginSummary {
	s := MarginSummary{Period: period}

	seen := make(map[int64]struct{})
	for _, r := range rows {
		seen[r.NmID] = struct{}{}
		s.Orders += r.OrderCount
		s.Revenue = s.Revenue.Add(r.Revenue)
		s.AdSpend = s.AdSpend.Add(r.AdSpend)
		s.MarginProfit = s.MarginProfit.Add(r.MarginProfit)
	}
	s.Products = len(seen)

	s.MarginPercent = RatioPtr(MarginPercent(models.ToFloat64(s.MarginProfit), models.ToFloat64(s.Revenue)))
	s.AdShare = RatioPtr(Ratio(models.ToFloat64(s.AdSpend), models.ToFloat64(s.Revenue)))

	return s
}

// AdsSummary aggregates WB campaign rows over a period
type AdsSummary struct {
	Period    models.Period
	Campaigns int
	AdSpend   decimal.Decimal
	AdRevenue decimal.Decimal
	Orders    int64
	Clicks    int64
	Views     int64
	DRR       *float64
	CR        *float64
	CTR       *float64
	CPC       *float64
}

// SummarizeAds builds a period aggregate from daily WB campaign rows
func SummarizeAds(period models.Period, rows []models.WBAdsRow) AdsSummary {
	s := AdsSummary{Period: period}

	seen := make(map[string]struct{})
	for _, r := range rows {
		seen[r.CampaignName] = struct{}{}
		s.AdSpend = s.AdSpend.Add(r.AdSpend)
		s.AdRevenue = s.AdRevenue.Add(r.AdRevenue)
		s.Orders += r.Orders
		s.Clicks += r.Clicks
		s.Views += r.Views
	}
	s.Campaigns = len(seen)

	s.DRR = RatioPtr(DRR(models.ToFloat64(s.AdSpend), models.ToFloat64(s.AdRevenue)))
	s.CR = RatioPtr(CR(float64(s.Orders), float64(s.Clicks)))
	s.CTR = RatioPtr(CTR(float64(s.Clicks), float64(s.Views)))
	s.CPC = RatioPtr(CPC(models.ToFloat64(s.AdSpend), float64(s.Clicks)))

	return s
}

// FunnelSummary aggregates WB funnel rows over a period
type FunnelSummary struct {
	Period        models.Period
	Products      int
	Views         int64
	Carts         int64
	Orders        int64
	OrderSum      decimal.Decimal
	Buyouts       int64
	BuyoutSum     decimal.Decimal
	Stocks        int64
	ViewToCart    *float64
	CartToOrder   *float64
	OrderToBuyout *float64
}

// SummarizeFunnel builds a period aggregate from daily WB funnel rows
func SummarizeFunnel(period models.Period, rows []models.WBFunnelRow) FunnelSummary {
	s := FunnelSummary{Period: period}

	seen := make(map[int64]struct{})
	for _, r := range rows {
		seen[r.NmID] = struct{}{}
		s.Views += r.OpenCount
		s.Carts += r.CartCount
		s.Orders += r.OrderCount
		s.OrderSum = s.OrderSum.Add(r.OrderSum)
		s.Buyouts += r.BuyoutCount
		s.BuyoutSum = s.BuyoutSum.Add(r.BuyoutSum)
		s.Stocks += r.Stocks
	}
	s.Products = len(seen)

	s.ViewToCart = RatioPtr(CartRate(float64(s.Carts), float64(s.Views)))
	s.CartToOrder = RatioPtr(Ratio(float64(s.Orders), float64(s.Carts)))
	s.OrderToBuyout = RatioPtr(BuyoutRate(float64(s.Buyouts), float64(s.Orders)))

	return s
}

// OzonSummary aggregates Ozon product rows over a period
type OzonSummary struct {
	Period         models.Period
	Products       int
	Revenue        decimal.Decimal
	OrderedUnits   int64
	DeliveredUnits int64
	Views          int64
	Sessions       int64
	CartAdds       int64
	ViewToCart     *float64
	SessionToOrder *float64
}

// SummarizeOzon builds a period aggregate from daily Ozon product rows
func SummarizeOzon(period models.Period, rows []models.OzonProductRow) OzonSummary {
	s := OzonSummary{Period: period}

	seen := make(map[int64]struct{})
	for _, r := range rows {
		seen[r.SKU] = struct{}{}
		s.Revenue = s.Revenue.Add(r.Revenue)
		s.OrderedUnits += r.OrderedUnits
		s.DeliveredUnits += r.DeliveredUnits
		s.Views += r.HitsView
		s.Sessions += r.SessionView
		s.CartAdds += r.HitsToCart
	}
	s.Products = len(seen)

	s.ViewToCart = RatioPtr(CartRate(float64(s.CartAdds), float64(s.Views)))
	s.SessionToOrder = RatioPtr(OrderRate(float64(s.OrderedUnits), float64(s.Sessions)))

	return s
}

// OzonAdsSummary aggregates Ozon campaign rows over a period.
// Orders and revenue always include model (associated) conversions,
// so the aggregate DRR is never computed from direct-only figures.
type OzonAdsSummary struct {
	Period       models.Period
	Campaigns    int
	Spend        decimal.Decimal
	Orders       int64
	ModelOrders  int64
	TotalOrders  int64
	Revenue      decimal.Decimal
	ModelRevenue decimal.Decimal
	TotalRevenue decimal.Decimal
	Clicks       int64
	Impressions  int64
	DRR          *float64
	CR           *float64
	CTR          *float64
	CPC          *float64
}

// SummarizeOzonAds builds a period aggregate from daily Ozon campaign rows
func SummarizeOzonAds(period models.Period, rows []models.OzonCampaignRow) OzonAdsSummary {
	s := OzonAdsSummary{Period: period}

	seen := make(map[int64]struct{})
	for _, r := range rows {
		seen[r.CampaignID] = struct{}{}
		s.Spend = s.Spend.Add(r.Cost)
		s.Orders += r.Orders
		s.ModelOrders += r.ModelOrders
		s.Revenue = s.Revenue.Add(r.Revenue)
		s.ModelRevenue = s.ModelRevenue.Add(r.ModelRevenue)
		s.Clicks += r.Clicks
		s.Impressions += r.Impressions
	}
	s.Campaigns = len(seen)
	s.TotalOrders = s.Orders + s.ModelOrders
	s.TotalRevenue = s.Revenue.Add(s.ModelRevenue)

	s.DRR = RatioPtr(DRR(models.ToFloat64(s.Spend), models.ToFloat64(s.TotalRevenue)))
	s.CR = RatioPtr(CR(float64(s.TotalOrders), float64(s.Clicks)))
	s.CTR = RatioPtr(CTR(float64(s.Clicks), float64(s.Impressions)))
	s.CPC = RatioPtr(CPC(models.ToFloat64(s.Spend), float64(s.Clicks)))

	return s
}
