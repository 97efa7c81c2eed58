// Package reports renders computed analytics into the Russian report
// strings returned to the reasoning loop and to Telegram. No computation
// happens here: values come in ready, only presentation is decided.
package reports

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/selivandex/seller-bot/pkg/models"
)

const dateLayout = "02.01.2006"

// Money renders a rounded ruble amount with thousands grouping: 1 234 567 ₽
func Money(v float64) string {
	return groupThousands(int64(v+signOf(v)*0.5)) + " ₽"
}

// Count renders an integer with thousands grouping
func Count(v int64) string {
	return groupThousands(v)
}

// Percent renders a nullable ratio with one decimal, dash when undefined
func Percent(p *float64) string {
	if p == nil {
		return "—"
	}
	return fmt.Sprintf("%.1f%%", *p)
}

// PercentValue renders a defined ratio with one decimal
func PercentValue(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// Signed renders a delta with an explicit sign: +12 345 or -12 345
func Signed(v float64) string {
	rounded := int64(v + signOf(v)*0.5)
	if rounded >= 0 {
		return "+" + groupThousands(rounded)
	}
	return groupThousands(rounded)
}

// SignedPercent renders a nullable percent delta with sign, empty when undefined
func SignedPercent(p *float64) string {
	if p == nil {
		return ""
	}
	if *p >= 0 {
		return fmt.Sprintf("+%.1f%%", *p)
	}
	return fmt.Sprintf("%.1f%%", *p)
}

// Arrow picks a direction marker for a delta
func Arrow(delta float64) string {
	switch {
	case delta > 0:
		return "📈"
	case delta < 0:
		return "📉"
	default:
		return "➖"
	}
}

// Date renders a day in the report format
func Date(t time.Time) string {
	return t.Format(dateLayout)
}

// PeriodLabel renders a period as a single date or a range
func PeriodLabel(p models.Period) string {
	if p.From.Equal(p.To) {
		return p.From.Format(dateLayout)
	}
	return p.From.Format(dateLayout) + " – " + p.To.Format(dateLayout)
}

// NoData renders the explicit empty-result message. An empty result is
// a valid answer, not an error.
func NoData(what string, p models.Period) string {
	return fmt.Sprintf("Нет данных: %s за период %s.", what, PeriodLabel(p))
}

func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s[i : i+3])
	}

	if neg {
		return "-" + b.String()
	}
	return b.String()
}

func signOf(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
