package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/selivandex/seller-bot/pkg/models"
)

func testPeriod() models.Period {
	return models.NewPeriod(
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC),
	)
}

func TestSummarizeMargin(t *testing.T) {
	rows := []models.WBMarginRow{
		{NmID: 1, OrderCount: 10, Revenue: decimal.NewFromInt(1000), AdSpend: decimal.NewFromInt(100), MarginProfit: decimal.NewFromInt(200)},
		{NmID: 1, OrderCount: 5, Revenue: decimal.NewFromInt(500), AdSpend: decimal.NewFromInt(50), MarginProfit: decimal.NewFromInt(100)},
		{NmID: 2, OrderCount: 20, Revenue: decimal.NewFromInt(2500), AdSpend: decimal.NewFromInt(250), MarginProfit: decimal.NewFromInt(700)},
	}

	s := SummarizeMargin(testPeriod(), rows)

	if s.Products != 2 {
		t.Errorf("expected 2 distinct products, got %d", s.Products)
	}
	if s.Orders != 35 {
		t.Errorf("expected 35 orders, got %d", s.Orders)
	}
	if !s.Revenue.Equal(decimal.NewFromInt(4000)) {
		t.Errorf("expected revenue 4000, got %s", s.Revenue)
	}
	if !s.MarginProfit.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("expected profit 1000, got %s", s.MarginProfit)
	}
	if s.MarginPercent == nil {
		t.Fatal("expected margin percent to be defined")
	}
	if *s.MarginPercent != 25 {
		t.Errorf("expected margin 25%%, got %f", *s.MarginPercent)
	}
}

func TestSummarizeMarginEmptyRows(t *testing.T) {
	s := SummarizeMargin(testPeriod(), nil)

	if s.Products != 0 || s.Orders != 0 {
		t.Error("empty input must produce zero counts")
	}
	if s.MarginPercent != nil {
		t.Error("margin percent must be undefined without revenue")
	}
}

func TestSummarizeAdsDerivedRatios(t *testing.T) {
	rows := []models.WBAdsRow{
		{CampaignName: "auto", AdSpend: decimal.NewFromInt(300), AdRevenue: decimal.NewFromInt(1500), Orders: 30, Clicks: 600, Views: 30000},
		{CampaignName: "search", AdSpend: decimal.NewFromInt(200), AdRevenue: decimal.NewFromInt(500), Orders: 10, Clicks: 400, Views: 20000},
	}

	s := SummarizeAds(testPeriod(), rows)

	if s.Campaigns != 2 {
		t.Errorf("expected 2 campaigns, got %d", s.Campaigns)
	}
	if s.DRR == nil || *s.DRR != 25 {
		t.Errorf("expected aggregate DRR 25%% (500/2000), got %v", s.DRR)
	}
	if s.CR == nil || *s.CR != 4 {
		t.Errorf("expected aggregate CR 4%% (40/1000), got %v", s.CR)
	}
	if s.CTR == nil || *s.CTR != 2 {
		t.Errorf("expected aggregate CTR 2%% (1000/50000), got %v", s.CTR)
	}
	if s.CPC == nil || *s.CPC != 0.5 {
		t.Errorf("expected aggregate CPC 0.5 (500/1000), got %v", s.CPC)
	}
}

func TestSummarizeOzonAdsCombinedConversions(t *testing.T) {
	rows := []models.OzonCampaignRow{
		{
			CampaignID:   7,
			Cost:         decimal.NewFromInt(260),
			Orders:       10,
			ModelOrders:  5,
			Revenue:      decimal.NewFromInt(1000),
			ModelRevenue: decimal.NewFromInt(300),
			Clicks:       500,
			Impressions:  25000,
		},
	}

	s := SummarizeOzonAds(testPeriod(), rows)

	if s.TotalOrders != 15 {
		t.Errorf("expected total orders 15 (10 direct + 5 model), got %d", s.TotalOrders)
	}
	if !s.TotalRevenue.Equal(decimal.NewFromInt(1300)) {
		t.Errorf("expected total revenue 1300 (1000 + 300), got %s", s.TotalRevenue)
	}
	if s.DRR == nil {
		t.Fatal("expected DRR to be defined")
	}
	// DRR uses combined revenue, never the direct-only figure
	if *s.DRR != 20 {
		t.Errorf("expected DRR 20%% (260/1300), got %f", *s.DRR)
	}
}

func TestSummarizeFunnelStages(t *testing.T) {
	rows := []models.WBFunnelRow{
		{
			NmID:        1,
			OpenCount:   1000,
			CartCount:   100,
			OrderCount:  20,
			OrderSum:    decimal.NewFromInt(18000),
			BuyoutCount: 15,
			BuyoutSum:   decimal.NewFromInt(13500),
			Stocks:      40,
		},
	}

	s := SummarizeFunnel(testPeriod(), rows)

	if s.ViewToCart == nil || *s.ViewToCart != 10 {
		t.Errorf("expected view-to-cart 10%%, got %v", s.ViewToCart)
	}
	if s.CartToOrder == nil || *s.CartToOrder != 20 {
		t.Errorf("expected cart-to-order 20%%, got %v", s.CartToOrder)
	}
	if s.OrderToBuyout == nil || *s.OrderToBuyout != 75 {
		t.Errorf("expected order-to-buyout 75%%, got %v", s.OrderToBuyout)
	}
}

func TestSummarizeOzonFunnel(t *testing.T) {
	rows := []models.OzonProductRow{
		{SKU: 123, Revenue: decimal.NewFromInt(5000), OrderedUnits: 10, HitsView: 2000, SessionView: 800, HitsToCart: 200},
		{SKU: 456, Revenue: decimal.NewFromInt(3000), OrderedUnits: 6, HitsView: 1000, SessionView: 200, HitsToCart: 100},
	}

	s := SummarizeOzon(testPeriod(), rows)

	if s.Products != 2 {
		t.Errorf("expected 2 products, got %d", s.Products)
	}
	if s.ViewToCart == nil || *s.ViewToCart != 10 {
		t.Errorf("expected view-to-cart 10%% (300/3000), got %v", s.ViewToCart)
	}
	if s.SessionToOrder == nil || *s.SessionToOrder != 1.6 {
		t.Errorf("expected session-to-order 1.6%% (16/1000), got %v", s.SessionToOrder)
	}
}
