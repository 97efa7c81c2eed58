package reports

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/selivandex/seller-bot/internal/analytics"
	"github.com/selivandex/seller-bot/pkg/models"
)

func reportPeriod() models.Period {
	return models.NewPeriod(
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC),
	)
}

func TestMoneyGroupsThousands(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{1234567, "1 234 567 ₽"},
		{999, "999 ₽"},
		{-12500, "-12 500 ₽"},
		{0, "0 ₽"},
		{1499.7, "1 500 ₽"},
	}

	for _, tc := range cases {
		if got := Money(tc.in); got != tc.want {
			t.Errorf("Money(%f): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestPercentRendersDashForUndefined(t *testing.T) {
	if got := Percent(nil); got != "—" {
		t.Errorf("expected dash for nil, got %q", got)
	}

	v := 12.34
	if got := Percent(&v); got != "12.3%" {
		t.Errorf("expected 12.3%%, got %q", got)
	}
}

func TestSigned(t *testing.T) {
	if got := Signed(2500); got != "+2 500" {
		t.Errorf("expected +2 500, got %q", got)
	}
	if got := Signed(-2500); got != "-2 500" {
		t.Errorf("expected -2 500, got %q", got)
	}
}

func TestPeriodLabelSingleDay(t *testing.T) {
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	p := models.NewPeriod(day, day)

	if got := PeriodLabel(p); got != "01.06.2025" {
		t.Errorf("expected single date, got %q", got)
	}
}

func TestFormatMarginSummaryContainsFigures(t *testing.T) {
	margin := 25.0
	s := analytics.MarginSummary{
		Period:        reportPeriod(),
		Products:      3,
		Orders:        150,
		Revenue:       decimal.NewFromInt(400000),
		AdSpend:       decimal.NewFromInt(40000),
		MarginProfit:  decimal.NewFromInt(100000),
		MarginPercent: &margin,
	}

	out := FormatMarginSummary(s)

	for _, want := range []string{"400 000 ₽", "100 000 ₽", "25.0%", "150"} {
		if !strings.Contains(out, want) {
			t.Errorf("report must contain %q, got:\n%s", want, out)
		}
	}
}

func TestFormatRankingNumbersItems(t *testing.T) {
	items := []analytics.Ranked{
		{ID: 10, Label: "Платье летнее", Value: 50000},
		{ID: 20, Label: "Футболка", Value: 30000},
	}

	out := FormatRanking("🏆 Топ товаров по выручке", items, "money")

	if !strings.Contains(out, "1. Платье летнее — 50 000 ₽") {
		t.Errorf("expected numbered first line, got:\n%s", out)
	}
	if !strings.Contains(out, "2. Футболка — 30 000 ₽") {
		t.Errorf("expected numbered second line, got:\n%s", out)
	}
}

func TestFormatUnprofitableProductsEmpty(t *testing.T) {
	out := FormatUnprofitableProducts(reportPeriod(), nil)

	if !strings.Contains(out, "не найдено") {
		t.Errorf("empty input must render the explicit all-clear message, got:\n%s", out)
	}
}

func TestFormatComparisonShowsDeltaWithoutPercentOnZeroBaseline(t *testing.T) {
	deltas := []analytics.MetricDelta{
		analytics.Delta(analytics.MetricOrders, 0, 42),
	}

	out := FormatComparison("Сравнение периодов", reportPeriod(), reportPeriod(), deltas)

	if !strings.Contains(out, "+42") {
		t.Errorf("expected absolute delta, got:\n%s", out)
	}
	if strings.Contains(out, "%") && strings.Contains(out, "+Inf") {
		t.Errorf("zero baseline must not leak a percent, got:\n%s", out)
	}
}

func TestFormatAnomaliesEmpty(t *testing.T) {
	out := FormatAnomalies(analytics.MetricRevenue, reportPeriod(), nil)

	if !strings.Contains(out, "не обнаружено") {
		t.Errorf("expected all-clear message, got:\n%s", out)
	}
}

func TestNoData(t *testing.T) {
	out := NoData("продажи", reportPeriod())

	if !strings.Contains(out, "Нет данных") {
		t.Errorf("expected explicit no-data message, got %q", out)
	}
	if !strings.Contains(out, "01.06.2025 – 07.06.2025") {
		t.Errorf("expected period in message, got %q", out)
	}
}

func TestFormatDailyDigestSkipsMissingSections(t *testing.T) {
	out := FormatDailyDigest(DigestData{Date: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)})

	if !strings.Contains(out, "Данных за вчера пока нет") {
		t.Errorf("expected empty digest fallback, got:\n%s", out)
	}

	margin := 20.0
	withData := DigestData{
		Date: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		WBMargin: &analytics.MarginSummary{
			Orders:        10,
			Revenue:       decimal.NewFromInt(50000),
			MarginProfit:  decimal.NewFromInt(10000),
			MarginPercent: &margin,
		},
	}

	out = FormatDailyDigest(withData)
	if !strings.Contains(out, "Wildberries") {
		t.Errorf("expected WB section, got:\n%s", out)
	}
	if strings.Contains(out, "Ozon:") {
		t.Errorf("missing Ozon data must not render a section, got:\n%s", out)
	}
}

func TestPlanStatusMarks(t *testing.T) {
	completion := 95.0
	lines := []PlanFactLine{
		{NmID: 1, Title: "Платье", PlanToDate: 1000, Fact: 950, Completion: &completion, Status: analytics.PlanAtRisk},
	}

	out := FormatPlanFact(lines, 3000, 950, &completion)

	if !strings.Contains(out, "🟡") {
		t.Errorf("at-risk plan must render yellow marker, got:\n%s", out)
	}
}
