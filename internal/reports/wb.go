package reports

import (
	"fmt"
	"strings"

	"github.com/selivandex/seller-bot/internal/analytics"
	"github.com/selivandex/seller-bot/pkg/models"
)

// FormatMarginSummary renders the WB margin overview
func FormatMarginSummary(s analytics.MarginSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📊 Маржа WB за %s\n\n", PeriodLabel(s.Period))
	fmt.Fprintf(&b, "• Товаров: %d\n", s.Products)
	fmt.Fprintf(&b, "• Заказов: %s\n", Count(s.Orders))
	fmt.Fprintf(&b, "• Выручка: %s\n", Money(models.ToFloat64(s.Revenue)))
	fmt.Fprintf(&b, "• Расходы на рекламу: %s\n", Money(models.ToFloat64(s.AdSpend)))
	fmt.Fprintf(&b, "• Маржинальная прибыль: %s\n", Money(models.ToFloat64(s.MarginProfit)))
	fmt.Fprintf(&b, "• Маржинальность: %s", Percent(s.MarginPercent))
	if s.AdShare != nil {
		fmt.Fprintf(&b, "\n• Доля рекламы в выручке: %s", Percent(s.AdShare))
	}

	return b.String()
}

// FormatRanking renders a numbered top/bottom list. Unit selects how the
// value column is formatted: "money", "percent" or "count".
func FormatRanking(header string, items []analytics.Ranked, unit string) string {
	var b strings.Builder

	b.WriteString(header)
	b.WriteString("\n")
	for i, item := range items {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%d. %s — %s", i+1, item.Label, rankedValue(item.Value, unit))
	}

	return b.String()
}

func rankedValue(v float64, unit string) string {
	switch unit {
	case "percent":
		return PercentValue(v)
	case "count":
		return Count(int64(v))
	default:
		return Money(v)
	}
}

// ProductMarginLine is one SKU row prepared for a margin report
type ProductMarginLine struct {
	NmID          int64
	Title         string
	Orders        int64
	Revenue       float64
	MarginProfit  float64
	MarginPercent *float64
}

// FormatUnprofitableProducts renders SKUs with negative margin
func FormatUnprofitableProducts(p models.Period, lines []ProductMarginLine) string {
	if len(lines) == 0 {
		return fmt.Sprintf("✅ Убыточных товаров за период %s не найдено.", PeriodLabel(p))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🔻 Убыточные товары за %s\n", PeriodLabel(p))
	for i, l := range lines {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%d. %s (арт. %d)\n", i+1, l.Title, l.NmID)
		fmt.Fprintf(&b, "   Убыток: %s, выручка: %s, маржа: %s",
			Money(l.MarginProfit), Money(l.Revenue), Percent(l.MarginPercent))
	}

	return b.String()
}

// FormatTrend renders a daily metric series with its direction
func FormatTrend(metricName string, p models.Period, points []analytics.DailyPoint) string {
	if len(points) == 0 {
		return NoData("динамика метрики «"+MetricTitle(metricName)+"»", p)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Динамика: %s за %s\n", MetricTitle(metricName), PeriodLabel(p))
	fmt.Fprintf(&b, "Тренд: %s\n", trendLabel(analytics.Direction(points)))
	for _, pt := range points {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%s: %s", Date(pt.Date), metricValue(metricName, pt.Value))
	}

	return b.String()
}

func trendLabel(d analytics.TrendDirection) string {
	switch d {
	case analytics.TrendUp:
		return "растёт 📈"
	case analytics.TrendDown:
		return "падает 📉"
	default:
		return "стабилен ➖"
	}
}

// FormatComparison renders per-metric deltas between two periods
func FormatComparison(title string, periodA, periodB models.Period, deltas []analytics.MetricDelta) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", title)
	fmt.Fprintf(&b, "Период A: %s\n", PeriodLabel(periodA))
	fmt.Fprintf(&b, "Период B: %s\n", PeriodLabel(periodB))

	for _, d := range deltas {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%s %s: %s → %s (%s",
			Arrow(d.Delta), MetricTitle(d.Name), metricValue(d.Name, d.Before), metricValue(d.Name, d.After), Signed(d.Delta))
		if pct := SignedPercent(d.PercentDelta); pct != "" {
			fmt.Fprintf(&b, ", %s", pct)
		}
		b.WriteString(")")
	}

	return b.String()
}

// MetricTitle returns the Russian display name for a series metric
func MetricTitle(name string) string {
	switch name {
	case analytics.MetricMargin:
		return "Маржа"
	case analytics.MetricRevenue:
		return "Выручка"
	case analytics.MetricOrders:
		return "Заказы"
	case analytics.MetricAdSpend:
		return "Расходы на рекламу"
	case analytics.MetricAdRevenue:
		return "Выручка с рекламы"
	case analytics.MetricDRR:
		return "ДРР"
	case analytics.MetricCR:
		return "CR"
	case analytics.MetricClicks:
		return "Клики"
	case analytics.MetricViews:
		return "Показы"
	default:
		return name
	}
}

func metricValue(name string, v float64) string {
	switch name {
	case analytics.MetricDRR, analytics.MetricCR:
		return PercentValue(v)
	case analytics.MetricOrders, analytics.MetricClicks, analytics.MetricViews:
		return Count(int64(v))
	default:
		return Money(v)
	}
}

// FormatMarginStable renders the no-decomposition outcome: the margin
// moved less than the significance threshold
func FormatMarginStable(periodA, periodB models.Period, d analytics.MetricDelta) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Маржа существенно не изменилась между периодами %s и %s.\n",
		PeriodLabel(periodA), PeriodLabel(periodB))
	fmt.Fprintf(&b, "Маржа: %s → %s (%s", Money(d.Before), Money(d.After), Signed(d.Delta))
	if pct := SignedPercent(d.PercentDelta); pct != "" {
		fmt.Fprintf(&b, ", %s", pct)
	}
	b.WriteString(")")

	return b.String()
}

// FormatDrivers renders the margin change decomposition
func FormatDrivers(periodA, periodB models.Period, marginDelta analytics.MetricDelta, drivers []analytics.Driver) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🔎 Разбор изменения маржи\n")
	fmt.Fprintf(&b, "Период A: %s, период B: %s\n", PeriodLabel(periodA), PeriodLabel(periodB))
	fmt.Fprintf(&b, "Маржа: %s → %s (%s",
		Money(marginDelta.Before), Money(marginDelta.After), Signed(marginDelta.Delta))
	if pct := SignedPercent(marginDelta.PercentDelta); pct != "" {
		fmt.Fprintf(&b, ", %s", pct)
	}
	b.WriteString(")\n")

	if len(drivers) == 0 {
		b.WriteString("\nЗначимых изменений в расходах, трафике, конверсии и ценах не найдено.")
		return b.String()
	}

	b.WriteString("\nЗначимые факторы:")
	for _, d := range drivers {
		b.WriteString("\n")
		fmt.Fprintf(&b, "• %s: %s → %s", driverTitle(d.Factor), driverValue(d), driverValueAfter(d))
		if d.ChangePP != nil {
			fmt.Fprintf(&b, " (%+.1f п.п.)", *d.ChangePP)
		} else if pct := SignedPercent(d.ChangePct); pct != "" {
			fmt.Fprintf(&b, " (%s)", pct)
		}
	}

	return b.String()
}

func driverTitle(factor string) string {
	switch factor {
	case "ad_spend":
		return "Расходы на рекламу"
	case "traffic":
		return "Трафик"
	case "conversion":
		return "Конверсия"
	case "price":
		return "Цена"
	default:
		return factor
	}
}

func driverValue(d analytics.Driver) string {
	if d.Factor == "conversion" {
		return PercentValue(d.Before)
	}
	if d.Factor == "traffic" {
		return Count(int64(d.Before))
	}
	return Money(d.Before)
}

func driverValueAfter(d analytics.Driver) string {
	if d.Factor == "conversion" {
		return PercentValue(d.After)
	}
	if d.Factor == "traffic" {
		return Count(int64(d.After))
	}
	return Money(d.After)
}

// FormatAnomalies renders detected metric anomalies
func FormatAnomalies(metricName string, p models.Period, anomalies []analytics.Anomaly) string {
	if len(anomalies) == 0 {
		return fmt.Sprintf("✅ Аномалий по метрике «%s» за период %s не обнаружено.", MetricTitle(metricName), PeriodLabel(p))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "⚠️ Аномалии: %s за %s\n", MetricTitle(metricName), PeriodLabel(p))
	for _, a := range anomalies {
		b.WriteString("\n")
		fmt.Fprintf(&b, "• %s: %s при среднем %s (отклонение %.1fσ)",
			Date(a.Date), metricValue(metricName, a.Value), metricValue(metricName, a.Mean), a.ZScore)
	}

	return b.String()
}

// InsufficientData renders the explicit short-series message
func InsufficientData(metricName string, p models.Period) string {
	return fmt.Sprintf("Недостаточно данных по метрике «%s» за период %s для поиска аномалий (нужно минимум 2 дня).",
		MetricTitle(metricName), PeriodLabel(p))
}

// FormatFunnelSummary renders the WB sales funnel overview
func FormatFunnelSummary(s analytics.FunnelSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🛒 Воронка продаж WB за %s\n\n", PeriodLabel(s.Period))
	fmt.Fprintf(&b, "• Переходы в карточку: %s\n", Count(s.Views))
	fmt.Fprintf(&b, "• Добавления в корзину: %s (%s)\n", Count(s.Carts), Percent(s.ViewToCart))
	fmt.Fprintf(&b, "• Заказы: %s (%s из корзины)\n", Count(s.Orders), Percent(s.CartToOrder))
	fmt.Fprintf(&b, "• Выкупы: %s (%s из заказов)\n", Count(s.Buyouts), Percent(s.OrderToBuyout))
	fmt.Fprintf(&b, "• Сумма заказов: %s\n", Money(models.ToFloat64(s.OrderSum)))
	fmt.Fprintf(&b, "• Сумма выкупов: %s", Money(models.ToFloat64(s.BuyoutSum)))

	return b.String()
}

// StockLine is one SKU stock row
type StockLine struct {
	NmID   int64
	Title  string
	Stocks int64
	Low    bool
}

// FormatStockSummary renders remaining stock with low-stock flags
func FormatStockSummary(onDate string, lines []StockLine, total int64) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📦 Остатки на %s\n", onDate)
	fmt.Fprintf(&b, "Всего: %s шт.\n", Count(total))

	for _, l := range lines {
		b.WriteString("\n")
		fmt.Fprintf(&b, "• %s (арт. %d): %s шт.", l.Title, l.NmID, Count(l.Stocks))
		if l.Low {
			b.WriteString(" ⚠️ мало")
		}
	}

	return b.String()
}

// FunnelLine is one SKU conversion row
type FunnelLine struct {
	NmID       int64
	Title      string
	Views      int64
	Carts      int64
	Orders     int64
	ViewToCart *float64
	CartOrder  *float64
}

// FormatLowConversionProducts renders SKUs with weak funnel conversion
func FormatLowConversionProducts(p models.Period, lines []FunnelLine) string {
	if len(lines) == 0 {
		return fmt.Sprintf("✅ Товаров с низкой конверсией за период %s не найдено.", PeriodLabel(p))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🐌 Низкая конверсия за %s\n", PeriodLabel(p))
	for i, l := range lines {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%d. %s (арт. %d)\n", i+1, l.Title, l.NmID)
		fmt.Fprintf(&b, "   Переходы: %s, корзина: %s (%s), заказы: %s (%s)",
			Count(l.Views), Count(l.Carts), Percent(l.ViewToCart), Count(l.Orders), Percent(l.CartOrder))
	}

	return b.String()
}

// FormatAdsSummary renders the WB advertising overview
func FormatAdsSummary(s analytics.AdsSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📣 Реклама WB за %s\n\n", PeriodLabel(s.Period))
	fmt.Fprintf(&b, "• Кампаний: %d\n", s.Campaigns)
	fmt.Fprintf(&b, "• Расход: %s\n", Money(models.ToFloat64(s.AdSpend)))
	fmt.Fprintf(&b, "• Выручка с рекламы: %s\n", Money(models.ToFloat64(s.AdRevenue)))
	fmt.Fprintf(&b, "• Заказы: %s\n", Count(s.Orders))
	fmt.Fprintf(&b, "• ДРР: %s\n", Percent(s.DRR))
	fmt.Fprintf(&b, "• CR: %s, CTR: %s", Percent(s.CR), Percent(s.CTR))
	if s.CPC != nil {
		fmt.Fprintf(&b, ", CPC: %.2f ₽", *s.CPC)
	}

	return b.String()
}

// CampaignLine is one campaign row prepared for an ads report
type CampaignLine struct {
	Name   string
	Spend  float64
	Orders int64
	DRR    *float64
	CR     *float64
	Label  analytics.Label
	Saving float64
}

// FormatHighDRRCampaigns renders campaigns burning budget above the threshold
func FormatHighDRRCampaigns(p models.Period, lines []CampaignLine, maxDRR float64) string {
	if len(lines) == 0 {
		return fmt.Sprintf("✅ Кампаний с ДРР выше %.0f%% за период %s нет.", maxDRR, PeriodLabel(p))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🔥 Кампании с ДРР выше %.0f%% за %s\n", maxDRR, PeriodLabel(p))
	for i, l := range lines {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%d. %s\n", i+1, l.Name)
		fmt.Fprintf(&b, "   ДРР: %s, расход: %s", Percent(l.DRR), Money(l.Spend))
		if l.Saving > 0 {
			fmt.Fprintf(&b, ", потенциальная экономия: %s", Money(l.Saving))
		}
	}

	return b.String()
}

// FormatScalableCampaigns renders campaigns worth extra budget
func FormatScalableCampaigns(p models.Period, lines []CampaignLine) string {
	if len(lines) == 0 {
		return fmt.Sprintf("Масштабируемых кампаний за период %s не найдено.", PeriodLabel(p))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🚀 Кампании для масштабирования за %s\n", PeriodLabel(p))
	for i, l := range lines {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%d. %s\n", i+1, l.Name)
		fmt.Fprintf(&b, "   ДРР: %s, CR: %s, заказов: %s", Percent(l.DRR), Percent(l.CR), Count(l.Orders))
	}

	return b.String()
}

// PlanFactLine is one SKU of the plan/fact report
type PlanFactLine struct {
	NmID       int64
	Title      string
	Plan       float64
	PlanToDate float64
	Fact       float64
	Completion *float64
	Status     analytics.PlanStatus
	Forecast   float64
}

// FormatPlanFact renders plan versus fact per SKU with status markers
func FormatPlanFact(lines []PlanFactLine, totalPlan, totalFact float64, totalCompletion *float64) string {
	var b strings.Builder

	b.WriteString("🎯 План/факт по марже (текущий месяц)\n\n")
	fmt.Fprintf(&b, "Итого: %s из %s (%s)\n", Money(totalFact), Money(totalPlan), Percent(totalCompletion))

	for _, l := range lines {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%s %s (арт. %d): %s из %s (%s)",
			planStatusMark(l.Status), l.Title, l.NmID, Money(l.Fact), Money(l.PlanToDate), Percent(l.Completion))
	}

	return b.String()
}

func planStatusMark(s analytics.PlanStatus) string {
	switch s {
	case analytics.PlanOnTrack:
		return "✅"
	case analytics.PlanAtRisk:
		return "🟡"
	default:
		return "🔴"
	}
}

// FormatPlanForecast renders month-end projections against the plan
func FormatPlanForecast(lines []PlanFactLine) string {
	if len(lines) == 0 {
		return "Нет плана на текущий месяц."
	}

	var b strings.Builder
	b.WriteString("🔮 Прогноз выполнения плана к концу месяца\n")
	for _, l := range lines {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%s %s (арт. %d): прогноз %s при плане %s",
			planStatusMark(l.Status), l.Title, l.NmID, Money(l.Forecast), Money(l.Plan))
	}

	return b.String()
}

// FormatUnderperforming renders SKUs far behind the to-date plan
func FormatUnderperforming(lines []PlanFactLine, threshold float64) string {
	if len(lines) == 0 {
		return fmt.Sprintf("✅ Все товары идут не хуже %.0f%% плана.", threshold)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🔴 Товары с выполнением плана ниже %.0f%%\n", threshold)
	for i, l := range lines {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%d. %s (арт. %d): %s из %s (%s)",
			i+1, l.Title, l.NmID, Money(l.Fact), Money(l.PlanToDate), Percent(l.Completion))
	}

	return b.String()
}

// FormatRecommendations renders prescriptive actions with money estimates
func FormatRecommendations(recs []analytics.Recommendation) string {
	if len(recs) == 0 {
		return "✅ Срочных действий не требуется: реклама и план в норме."
	}

	var b strings.Builder
	b.WriteString("💡 Рекомендации\n")
	for i, r := range recs {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%d. %s", i+1, r.Detail)
		if !r.Effect.IsZero() {
			fmt.Fprintf(&b, " (эффект: %s)", Money(models.ToFloat64(r.Effect)))
		}
	}

	return b.String()
}

// SKUDiagnosis carries everything the per-SKU health check found
type SKUDiagnosis struct {
	NmID    int64
	Title   string
	Period  models.Period
	Margin  analytics.MarginSummary
	Funnel  *analytics.FunnelSummary
	Issues  []string
	Healthy bool
}

// FormatSKUDiagnosis renders the per-SKU health check
func FormatSKUDiagnosis(d SKUDiagnosis) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🩺 Диагностика товара %s (арт. %d) за %s\n\n", d.Title, d.NmID, PeriodLabel(d.Period))
	fmt.Fprintf(&b, "• Заказы: %s\n", Count(d.Margin.Orders))
	fmt.Fprintf(&b, "• Выручка: %s\n", Money(models.ToFloat64(d.Margin.Revenue)))
	fmt.Fprintf(&b, "• Маржа: %s (%s)\n", Money(models.ToFloat64(d.Margin.MarginProfit)), Percent(d.Margin.MarginPercent))

	if d.Funnel != nil {
		fmt.Fprintf(&b, "• Воронка: %s переходов → %s корзин (%s) → %s заказов\n",
			Count(d.Funnel.Views), Count(d.Funnel.Carts), Percent(d.Funnel.ViewToCart), Count(d.Funnel.Orders))
		fmt.Fprintf(&b, "• Остатки: %s шт.\n", Count(d.Funnel.Stocks))
	}

	if d.Healthy {
		b.WriteString("\n✅ Проблем не обнаружено.")
		return b.String()
	}

	b.WriteString("\nНайденные проблемы:")
	for _, issue := range d.Issues {
		b.WriteString("\n")
		fmt.Fprintf(&b, "⚠️ %s", issue)
	}

	return b.String()
}
