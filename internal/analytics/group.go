package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/selivandex/seller-bot/pkg/models"
)

// SKUMargin is one SKU's margin totals over a period
type SKUMargin struct {
	NmID          int64
	Title         string
	Orders        int64
	Revenue       decimal.Decimal
	AdSpend       decimal.Decimal
	MarginProfit  decimal.Decimal
	MarginPercent *float64
	AdShare       *float64
}

// GroupMarginBySKU folds daily margin rows into per-SKU totals.
// Output is sorted by article so downstream stable sorts break ties
// the same way on every call.
func GroupMarginBySKU(rows []models.WBMarginRow) []SKUMargin {
	byID := make(map[int64]*SKUMargin)
	for _, r := range rows {
		g, ok := byID[r.NmID]
		if !ok {
			g = &SKUMargin{NmID: r.NmID, Title: r.Title}
			byID[r.NmID] = g
		}
		g.Orders += r.OrderCount
		g.Revenue = g.Revenue.Add(r.Revenue)
		g.AdSpend = g.AdSpend.Add(r.AdSpend)
		g.MarginProfit = g.MarginProfit.Add(r.MarginProfit)
	}

	out := make([]SKUMargin, 0, len(byID))
	for _, g := range byID {
		g.MarginPercent = RatioPtr(MarginPercent(models.ToFloat64(g.MarginProfit), models.ToFloat64(g.Revenue)))
		g.AdShare = RatioPtr(Ratio(models.ToFloat64(g.AdSpend), models.ToFloat64(g.Revenue)))
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NmID < out[j].NmID })

	return out
}

// CampaignTotals is one WB campaign's totals over a period
type CampaignTotals struct {
	Name      string
	AdSpend   decimal.Decimal
	AdRevenue decimal.Decimal
	Orders    int64
	Clicks    int64
	Views     int64
	DRR       *float64
	CR        *float64
	CTR       *float64
}

// GroupAdsByCampaign folds daily campaign rows into per-campaign totals,
// recomputing ratios from the summed figures. Sorted by campaign name.
func GroupAdsByCampaign(rows []models.WBAdsRow) []CampaignTotals {
	byName := make(map[string]*CampaignTotals)
	for _, r := range rows {
		g, ok := byName[r.CampaignName]
		if !ok {
			g = &CampaignTotals{Name: r.CampaignName}
			byName[r.CampaignName] = g
		}
		g.AdSpend = g.AdSpend.Add(r.AdSpend)
		g.AdRevenue = g.AdRevenue.Add(r.AdRevenue)
		g.Orders += r.Orders
		g.Clicks += r.Clicks
		g.Views += r.Views
	}

	out := make([]CampaignTotals, 0, len(byName))
	for _, g := range byName {
		g.DRR = RatioPtr(DRR(models.ToFloat64(g.AdSpend), models.ToFloat64(g.AdRevenue)))
		g.CR = RatioPtr(CR(float64(g.Orders), float64(g.Clicks)))
		g.CTR = RatioPtr(CTR(float64(g.Clicks), float64(g.Views)))
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out
}

// SKUFunnel is one SKU's funnel totals over a period. Stocks is a
// point-in-time value taken from the latest report date, never summed.
type SKUFunnel struct {
	NmID        int64
	Title       string
	Views       int64
	Carts       int64
	Orders      int64
	OrderSum    decimal.Decimal
	Buyouts     int64
	Stocks      int64
	ViewToCart  *float64
	CartToOrder *float64
	ViewToOrder *float64

	lastDate time.Time
}

// GroupFunnelBySKU folds daily funnel rows into per-SKU totals,
// sorted by article.
func GroupFunnelBySKU(rows []models.WBFunnelRow) []SKUFunnel {
	byID := make(map[int64]*SKUFunnel)
	for _, r := range rows {
		g, ok := byID[r.NmID]
		if !ok {
			g = &SKUFunnel{NmID: r.NmID, Title: r.Title}
			byID[r.NmID] = g
		}
		g.Views += r.OpenCount
		g.Carts += r.CartCount
		g.Orders += r.OrderCount
		g.OrderSum = g.OrderSum.Add(r.OrderSum)
		g.Buyouts += r.BuyoutCount
		if !r.ReportDate.Before(g.lastDate) {
			g.lastDate = r.ReportDate
			g.Stocks = r.Stocks
		}
	}

	out := make([]SKUFunnel, 0, len(byID))
	for _, g := range byID {
		g.ViewToCart = RatioPtr(CartRate(float64(g.Carts), float64(g.Views)))
		g.CartToOrder = RatioPtr(Ratio(float64(g.Orders), float64(g.Carts)))
		g.ViewToOrder = RatioPtr(Ratio(float64(g.Orders), float64(g.Views)))
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NmID < out[j].NmID })

	return out
}

// OzonSKU is one Ozon SKU's totals over a period
type OzonSKU struct {
	SKU            int64
	Name           string
	Revenue        decimal.Decimal
	OrderedUnits   int64
	DeliveredUnits int64
	Views          int64
	Sessions       int64
	CartAdds       int64
	ViewToCart     *float64
	SessionToOrder *float64
}

// GroupOzonBySKU folds daily Ozon analytics rows into per-SKU totals,
// sorted by SKU.
func GroupOzonBySKU(rows []models.OzonProductRow) []OzonSKU {
	byID := make(map[int64]*OzonSKU)
	for _, r := range rows {
		g, ok := byID[r.SKU]
		if !ok {
			g = &OzonSKU{SKU: r.SKU, Name: r.ProductName}
			byID[r.SKU] = g
		}
		g.Revenue = g.Revenue.Add(r.Revenue)
		g.OrderedUnits += r.OrderedUnits
		g.DeliveredUnits += r.DeliveredUnits
		g.Views += r.HitsView
		g.Sessions += r.SessionView
		g.CartAdds += r.HitsToCart
	}

	out := make([]OzonSKU, 0, len(byID))
	for _, g := range byID {
		g.ViewToCart = RatioPtr(CartRate(float64(g.CartAdds), float64(g.Views)))
		g.SessionToOrder = RatioPtr(OrderRate(float64(g.OrderedUnits), float64(g.Sessions)))
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })

	return out
}

// OzonPlacement is one campaign/SKU pair's ad totals over a period.
// Order and revenue figures are direct plus model conversions; DRR and
// CR come from the combined totals.
type OzonPlacement struct {
	CampaignID   int64
	SKU          int64
	Name         string
	Spend        decimal.Decimal
	Orders       int64
	ModelOrders  int64
	TotalOrders  int64
	TotalRevenue decimal.Decimal
	Clicks       int64
	Impressions  int64
	DRR          *float64
	CR           *float64
}

// GroupOzonByPlacement folds daily Ozon campaign rows into per
// campaign/SKU totals, sorted by campaign then SKU.
func GroupOzonByPlacement(rows []models.OzonCampaignRow) []OzonPlacement {
	type key struct {
		campaign int64
		sku      int64
	}

	byKey := make(map[key]*OzonPlacement)
	for i := range rows {
		r := &rows[i]
		k := key{campaign: r.CampaignID, sku: r.SKU}
		g, ok := byKey[k]
		if !ok {
			g = &OzonPlacement{CampaignID: r.CampaignID, SKU: r.SKU, Name: r.ProductName}
			byKey[k] = g
		}
		g.Spend = g.Spend.Add(r.Cost)
		g.Orders += r.Orders
		g.ModelOrders += r.ModelOrders
		g.TotalRevenue = g.TotalRevenue.Add(r.TotalRevenue())
		g.Clicks += r.Clicks
		g.Impressions += r.Impressions
	}

	out := make([]OzonPlacement, 0, len(byKey))
	for _, g := range byKey {
		g.TotalOrders = g.Orders + g.ModelOrders
		g.DRR = RatioPtr(DRR(models.ToFloat64(g.Spend), models.ToFloat64(g.TotalRevenue)))
		g.CR = RatioPtr(CR(float64(g.TotalOrders), float64(g.Clicks)))
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CampaignID != out[j].CampaignID {
			return out[i].CampaignID < out[j].CampaignID
		}
		return out[i].SKU < out[j].SKU
	})

	return out
}
