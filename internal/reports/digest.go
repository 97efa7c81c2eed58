package reports

import (
	"fmt"
	"strings"
	"time"

	"github.com/selivandex/seller-bot/internal/analytics"
	"github.com/selivandex/seller-bot/pkg/models"
)

// DigestData collects yesterday's figures for the morning digest.
// Sections with nil data are skipped.
type DigestData struct {
	Date     time.Time
	WBMargin *analytics.MarginSummary
	WBAds    *analytics.AdsSummary
	Ozon     *analytics.OzonSummary
	Warnings []string
}

// FormatDailyDigest renders the scheduled morning summary
func FormatDailyDigest(d DigestData) string {
	var b strings.Builder

	fmt.Fprintf(&b, "☀️ Утренняя сводка за %s\n", Date(d.Date))

	if d.WBMargin != nil {
		b.WriteString("\nWildberries:\n")
		fmt.Fprintf(&b, "• Заказы: %s, выручка: %s\n", Count(d.WBMargin.Orders), Money(models.ToFloat64(d.WBMargin.Revenue)))
		fmt.Fprintf(&b, "• Маржа: %s (%s)\n", Money(models.ToFloat64(d.WBMargin.MarginProfit)), Percent(d.WBMargin.MarginPercent))
	}

	if d.WBAds != nil {
		fmt.Fprintf(&b, "• Реклама: %s, ДРР %s\n", Money(models.ToFloat64(d.WBAds.AdSpend)), Percent(d.WBAds.DRR))
	}

	if d.Ozon != nil {
		b.WriteString("\nOzon:\n")
		fmt.Fprintf(&b, "• Заказано: %s шт., выручка: %s\n", Count(d.Ozon.OrderedUnits), Money(models.ToFloat64(d.Ozon.Revenue)))
	}

	if len(d.Warnings) > 0 {
		b.WriteString("\nТребует внимания:\n")
		for _, w := range d.Warnings {
			fmt.Fprintf(&b, "⚠️ %s\n", w)
		}
	}

	if d.WBMargin == nil && d.WBAds == nil && d.Ozon == nil {
		b.WriteString("\nДанных за вчера пока нет.")
	}

	return strings.TrimRight(b.String(), "\n")
}

// FormatAnomalyAlert renders one push notification about a metric anomaly
func FormatAnomalyAlert(marketplace, metricName string, a analytics.Anomaly) string {
	direction := "выше"
	if a.Value < a.Mean {
		direction = "ниже"
	}

	return fmt.Sprintf("🚨 %s: %s за %s — %s, это заметно %s обычного уровня (%s).",
		marketplace, MetricTitle(metricName), Date(a.Date),
		metricValue(metricName, a.Value), direction, metricValue(metricName, a.Mean))
}
