package analytics

import (
	"testing"

	"github.com/selivandex/seller-bot/internal/adapters/config"
)

func wbThresholds() config.WBThresholds {
	return config.WBThresholds{MaxDRR: 15, MinScalableCR: 8, HighAdShare: 50, LowMarginPercent: 20, LowStock: 50}
}

func ozonThresholds() config.OzonThresholds {
	return config.OzonThresholds{
		UrgentDRR:     30,
		MaxDRR:        15,
		MinScalableCR: 5,
		LowCR:         1,
		MinViews:      100,
		HighCartRate:  10,
		LowOrderRate:  2,
	}
}

func fptr(v float64) *float64 { return &v }

func TestClassifyWBCampaignOrderedRules(t *testing.T) {
	// High DRR wins even when CR also qualifies for scaling
	label := ClassifyWBCampaign(fptr(20), fptr(10), wbThresholds())
	if label != LabelOptimize {
		t.Errorf("DRR 20%% with CR 10%% must classify optimize, got %s", label)
	}
}

func TestClassifyWBCampaignScalable(t *testing.T) {
	label := ClassifyWBCampaign(fptr(10), fptr(12), wbThresholds())
	if label != LabelScalable {
		t.Errorf("DRR 10%% with CR 12%% must classify scalable, got %s", label)
	}
}

func TestClassifyWBCampaignHealthy(t *testing.T) {
	label := ClassifyWBCampaign(fptr(10), fptr(5), wbThresholds())
	if label != LabelHealthy {
		t.Errorf("DRR 10%% with CR 5%% must stay healthy, got %s", label)
	}
}

func TestClassifyWBCampaignNilRatios(t *testing.T) {
	if label := ClassifyWBCampaign(nil, fptr(12), wbThresholds()); label != LabelHealthy {
		t.Errorf("undefined DRR must never match a rule, got %s", label)
	}
	if label := ClassifyWBCampaign(fptr(10), nil, wbThresholds()); label != LabelHealthy {
		t.Errorf("undefined CR must not classify scalable, got %s", label)
	}
}

func TestClassifyOzonCampaignSeverityOrder(t *testing.T) {
	cases := []struct {
		drr  float64
		cr   float64
		want Label
	}{
		{35, 10, LabelUrgentOptimize},
		{20, 10, LabelOptimize},
		{10, 7, LabelScalable},
		{10, 3, LabelHealthy},
	}

	for _, tc := range cases {
		got := ClassifyOzonCampaign(fptr(tc.drr), fptr(tc.cr), ozonThresholds())
		if got != tc.want {
			t.Errorf("DRR %.0f%% CR %.0f%%: expected %s, got %s", tc.drr, tc.cr, tc.want, got)
		}
	}
}

func TestClassifyOzonProductLowConversion(t *testing.T) {
	label := ClassifyOzonProduct(fptr(0.5), 500, nil, nil, ozonThresholds())
	if label != LabelImproveListing {
		t.Errorf("CR 0.5%% with 500 views must flag listing, got %s", label)
	}

	// Not enough traffic to judge the listing
	label = ClassifyOzonProduct(fptr(0.5), 50, nil, nil, ozonThresholds())
	if label != LabelHealthy {
		t.Errorf("CR 0.5%% with 50 views must stay healthy, got %s", label)
	}
}

func TestClassifyOzonProductCartHeuristic(t *testing.T) {
	label := ClassifyOzonProduct(fptr(1.5), 500, fptr(15), fptr(1), ozonThresholds())
	if label != LabelPriceOrDelivery {
		t.Errorf("high cart rate with low order rate must flag price/delivery, got %s", label)
	}
}
