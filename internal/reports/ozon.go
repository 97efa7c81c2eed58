package reports

import (
	"fmt"
	"strings"

	"github.com/selivandex/seller-bot/internal/analytics"
	"github.com/selivandex/seller-bot/pkg/models"
)

// FormatOzonSummary renders the Ozon sales overview
func FormatOzonSummary(s analytics.OzonSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📊 Продажи Ozon за %s\n\n", PeriodLabel(s.Period))
	fmt.Fprintf(&b, "• Товаров: %d\n", s.Products)
	fmt.Fprintf(&b, "• Выручка: %s\n", Money(models.ToFloat64(s.Revenue)))
	fmt.Fprintf(&b, "• Заказано: %s шт.\n", Count(s.OrderedUnits))
	fmt.Fprintf(&b, "• Доставлено: %s шт.\n", Count(s.DeliveredUnits))
	fmt.Fprintf(&b, "• Показы: %s, сессии: %s\n", Count(s.Views), Count(s.Sessions))
	fmt.Fprintf(&b, "• Конверсия в корзину: %s\n", Percent(s.ViewToCart))
	fmt.Fprintf(&b, "• Конверсия в заказ: %s", Percent(s.SessionToOrder))

	return b.String()
}

// FormatOzonFunnel renders the Ozon product funnel
func FormatOzonFunnel(s analytics.OzonSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🛒 Воронка Ozon за %s\n\n", PeriodLabel(s.Period))
	fmt.Fprintf(&b, "• Показы: %s\n", Count(s.Views))
	fmt.Fprintf(&b, "• Сессии: %s\n", Count(s.Sessions))
	fmt.Fprintf(&b, "• В корзину: %s (%s от показов)\n", Count(s.CartAdds), Percent(s.ViewToCart))
	fmt.Fprintf(&b, "• Заказано: %s шт. (%s от сессий)", Count(s.OrderedUnits), Percent(s.SessionToOrder))

	return b.String()
}

// OzonProductLine is one SKU conversion row for Ozon reports
type OzonProductLine struct {
	SKU            int64
	Name           string
	Views          int64
	Sessions       int64
	CartAdds       int64
	OrderedUnits   int64
	SessionToOrder *float64
	ViewToCart     *float64
	Label          analytics.Label
}

// FormatOzonLowConversionProducts renders Ozon SKUs with weak conversion
// and the listing-quality verdict per SKU
func FormatOzonLowConversionProducts(p models.Period, lines []OzonProductLine) string {
	if len(lines) == 0 {
		return fmt.Sprintf("✅ Товаров с низкой конверсией за период %s не найдено.", PeriodLabel(p))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🐌 Низкая конверсия Ozon за %s\n", PeriodLabel(p))
	for i, l := range lines {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%d. %s (SKU %d)\n", i+1, l.Name, l.SKU)
		fmt.Fprintf(&b, "   Показы: %s, в корзину: %s, заказано: %s шт., CR: %s",
			Count(l.Views), Percent(l.ViewToCart), Count(l.OrderedUnits), Percent(l.SessionToOrder))
		if hint := ozonLabelHint(l.Label); hint != "" {
			b.WriteString("\n   ")
			b.WriteString(hint)
		}
	}

	return b.String()
}

func ozonLabelHint(label analytics.Label) string {
	switch label {
	case analytics.LabelImproveListing:
		return "💡 Трафик есть, заказов нет: стоит доработать карточку (фото, описание, отзывы)."
	case analytics.LabelPriceOrDelivery:
		return "💡 В корзину кладут, но не заказывают: проверьте цену и сроки доставки."
	default:
		return ""
	}
}

// FormatOzonAdsSummary renders the Ozon advertising overview.
// Orders and revenue include model (associated) conversions.
func FormatOzonAdsSummary(s analytics.OzonAdsSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📣 Реклама Ozon за %s\n\n", PeriodLabel(s.Period))
	fmt.Fprintf(&b, "• Кампаний: %d\n", s.Campaigns)
	fmt.Fprintf(&b, "• Расход: %s\n", Money(models.ToFloat64(s.Spend)))
	fmt.Fprintf(&b, "• Заказы: %s (из них модельных: %s)\n", Count(s.TotalOrders), Count(s.ModelOrders))
	fmt.Fprintf(&b, "• Выручка: %s (модельная: %s)\n",
		Money(models.ToFloat64(s.TotalRevenue)), Money(models.ToFloat64(s.ModelRevenue)))
	fmt.Fprintf(&b, "• ДРР: %s\n", Percent(s.DRR))
	fmt.Fprintf(&b, "• CR: %s, CTR: %s", Percent(s.CR), Percent(s.CTR))
	if s.CPC != nil {
		fmt.Fprintf(&b, ", CPC: %.2f ₽", *s.CPC)
	}

	return b.String()
}

// OzonCampaignLine is one campaign/SKU row for Ozon ads reports
type OzonCampaignLine struct {
	CampaignID  int64
	SKU         int64
	Name        string
	Spend       float64
	TotalOrders int64
	DRR         *float64
	CR          *float64
	Label       analytics.Label
	Saving      float64
}

// FormatOzonHighDRRProducts renders Ozon ad placements burning budget
func FormatOzonHighDRRProducts(p models.Period, lines []OzonCampaignLine, urgentDRR float64) string {
	if len(lines) == 0 {
		return fmt.Sprintf("✅ Товаров с высоким ДРР в рекламе Ozon за период %s нет.", PeriodLabel(p))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🔥 Высокий ДРР в рекламе Ozon за %s\n", PeriodLabel(p))
	for i, l := range lines {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%d. %s (SKU %d, кампания %d)\n", i+1, l.Name, l.SKU, l.CampaignID)
		fmt.Fprintf(&b, "   ДРР: %s, расход: %s", Percent(l.DRR), Money(l.Spend))
		if l.Label == analytics.LabelUrgentOptimize {
			fmt.Fprintf(&b, " 🚨 срочно (выше %.0f%%)", urgentDRR)
		}
		if l.Saving > 0 {
			fmt.Fprintf(&b, ", потенциальная экономия: %s", Money(l.Saving))
		}
	}

	return b.String()
}

// FormatOzonScalableProducts renders Ozon placements worth extra budget
func FormatOzonScalableProducts(p models.Period, lines []OzonCampaignLine) string {
	if len(lines) == 0 {
		return fmt.Sprintf("Масштабируемых размещений Ozon за период %s не найдено.", PeriodLabel(p))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🚀 Реклама Ozon для масштабирования за %s\n", PeriodLabel(p))
	for i, l := range lines {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%d. %s (SKU %d)\n", i+1, l.Name, l.SKU)
		fmt.Fprintf(&b, "   ДРР: %s, CR: %s, заказов: %s", Percent(l.DRR), Percent(l.CR), Count(l.TotalOrders))
	}

	return b.String()
}

// FormatOzonCampaignDetails renders one campaign with per-SKU breakdown
func FormatOzonCampaignDetails(campaignID int64, s analytics.OzonAdsSummary, lines []OzonCampaignLine) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📋 Кампания %d за %s\n\n", campaignID, PeriodLabel(s.Period))
	fmt.Fprintf(&b, "Расход: %s, заказы: %s, ДРР: %s\n",
		Money(models.ToFloat64(s.Spend)), Count(s.TotalOrders), Percent(s.DRR))

	for _, l := range lines {
		b.WriteString("\n")
		fmt.Fprintf(&b, "• %s (SKU %d): расход %s, заказов %s, ДРР %s",
			l.Name, l.SKU, Money(l.Spend), Count(l.TotalOrders), Percent(l.DRR))
	}

	return b.String()
}
