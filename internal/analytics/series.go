package analytics

import (
	"sort"
	"time"

	"github.com/selivandex/seller-bot/pkg/models"
)

// Metric names accepted by the series builders
const (
	MetricMargin    = "margin"
	MetricRevenue   = "revenue"
	MetricOrders    = "orders"
	MetricAdSpend   = "ad_spend"
	MetricAdRevenue = "ad_revenue"
	MetricDRR       = "drr"
	MetricCR        = "cr"
	MetricClicks    = "clicks"
	MetricViews     = "views"
)

type dayTotals struct {
	a, b float64 // numerator and denominator for ratio metrics
}

// MarginDailySeries groups WB margin rows by date and extracts one metric
// as an ordered daily series
func MarginDailySeries(rows []models.WBMarginRow, metric string) ([]DailyPoint, error) {
	switch metric {
	case MetricMargin, MetricRevenue, MetricOrders, MetricAdSpend:
	default:
		return nil, models.NewValidationError("metric", "unknown margin metric "+metric)
	}

	totals := make(map[time.Time]*dayTotals)
	for _, r := range rows {
		d := dayOf(r.Date)
		t := totals[d]
		if t == nil {
			t = &dayTotals{}
			totals[d] = t
		}
		switch metric {
		case MetricMargin:
			t.a += models.ToFloat64(r.MarginProfit)
		case MetricRevenue:
			t.a += models.ToFloat64(r.Revenue)
		case MetricOrders:
			t.a += float64(r.OrderCount)
		case MetricAdSpend:
			t.a += models.ToFloat64(r.AdSpend)
		}
	}

	return collectSeries(totals, false), nil
}

// AdsDailySeries groups WB campaign rows by date and extracts one metric.
// Ratio metrics are recomputed from the summed daily numerator and
// denominator; days with an undefined ratio are skipped.
func AdsDailySeries(rows []models.WBAdsRow, metric string) ([]DailyPoint, error) {
	switch metric {
	case MetricAdSpend, MetricAdRevenue, MetricOrders, MetricClicks, MetricViews, MetricDRR, MetricCR:
	default:
		return nil, models.NewValidationError("metric", "unknown ads metric "+metric)
	}

	totals := make(map[time.Time]*dayTotals)
	for _, r := range rows {
		d := dayOf(r.Date)
		t := totals[d]
		if t == nil {
			t = &dayTotals{}
			totals[d] = t
		}
		switch metric {
		case MetricAdSpend:
			t.a += models.ToFloat64(r.AdSpend)
		case MetricAdRevenue:
			t.a += models.ToFloat64(r.AdRevenue)
		case MetricOrders:
			t.a += float64(r.Orders)
		case MetricClicks:
			t.a += float64(r.Clicks)
		case MetricViews:
			t.a += float64(r.Views)
		case MetricDRR:
			t.a += models.ToFloat64(r.AdSpend)
			t.b += models.ToFloat64(r.AdRevenue)
		case MetricCR:
			t.a += float64(r.Orders)
			t.b += float64(r.Clicks)
		}
	}

	return collectSeries(totals, metric == MetricDRR || metric == MetricCR), nil
}

// OzonAdsDailySeries groups Ozon campaign rows by date and extracts one
// metric. Orders and revenue include model conversions.
func OzonAdsDailySeries(rows []models.OzonCampaignRow, metric string) ([]DailyPoint, error) {
	switch metric {
	case MetricAdSpend, MetricRevenue, MetricOrders, MetricClicks, MetricDRR, MetricCR:
	default:
		return nil, models.NewValidationError("metric", "unknown ads metric "+metric)
	}

	totals := make(map[time.Time]*dayTotals)
	for _, r := range rows {
		d := dayOf(r.Date)
		t := totals[d]
		if t == nil {
			t = &dayTotals{}
			totals[d] = t
		}
		switch metric {
		case MetricAdSpend:
			t.a += models.ToFloat64(r.Cost)
		case MetricRevenue:
			t.a += models.ToFloat64(r.TotalRevenue())
		case MetricOrders:
			t.a += float64(r.TotalOrders())
		case MetricClicks:
			t.a += float64(r.Clicks)
		case MetricDRR:
			t.a += models.ToFloat64(r.Cost)
			t.b += models.ToFloat64(r.TotalRevenue())
		case MetricCR:
			t.a += float64(r.TotalOrders())
			t.b += float64(r.Clicks)
		}
	}

	return collectSeries(totals, metric == MetricDRR || metric == MetricCR), nil
}

func collectSeries(totals map[time.Time]*dayTotals, ratio bool) []DailyPoint {
	points := make([]DailyPoint, 0, len(totals))
	for d, t := range totals {
		if ratio {
			v, ok := Ratio(t.a, t.b)
			if !ok {
				continue
			}
			points = append(points, DailyPoint{Date: d, Value: v})
			continue
		}
		points = append(points, DailyPoint{Date: d, Value: t.a})
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})

	return points
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
