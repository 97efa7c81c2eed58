package agents

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/selivandex/seller-bot/pkg/models"
)

var (
	// WB article numbers are 8-9 digit runs, Ozon SKU up to 12.
	// Shorter runs are day counts and years, longer ones are noise.
	skuPattern = regexp.MustCompile(`\b\d{5,12}\b`)

	isoDatePattern    = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	dottedDatePattern = regexp.MustCompile(`\b\d{2}\.\d{2}\.\d{4}\b`)
	lastNDaysPattern  = regexp.MustCompile(`(?:за|последн\S*)\s+(\d{1,3})\s+(?:дней|дня|день|дн)`)
)

// extractEntities pulls marketplace, time range and article number out
// of free-form question text. now anchors relative phrases like "вчера".
func extractEntities(question string, now time.Time) Entities {
	lower := strings.ToLower(question)

	e := Entities{Marketplace: models.MarketplaceWB}
	if strings.Contains(lower, "озон") || strings.Contains(lower, "ozon") {
		e.Marketplace = models.MarketplaceOzon
	}

	if m := skuPattern.FindString(stripDates(lower)); m != "" {
		e.NmID, _ = strconv.ParseInt(m, 10, 64)
	}

	e.Period, e.HasPeriod = extractPeriod(lower, now)
	e.Topic = topicOf(lower)
	return e
}

// stripDates blanks explicit dates so their digit runs are not
// mistaken for article numbers
func stripDates(s string) string {
	s = isoDatePattern.ReplaceAllString(s, " ")
	return dottedDatePattern.ReplaceAllString(s, " ")
}

// extractPeriod resolves date words and explicit dates into a period.
// Explicit dates win over relative phrases. The second return is false
// when the question names no time range at all.
func extractPeriod(lower string, now time.Time) (models.Period, bool) {
	today := midnight(now)
	yesterday := today.AddDate(0, 0, -1)

	if dates := explicitDates(lower); len(dates) > 0 {
		if len(dates) == 1 {
			return models.Period{From: dates[0], To: dates[0]}, true
		}
		return models.NewPeriod(dates[0], dates[1]), true
	}

	if m := lastNDaysPattern.FindStringSubmatch(lower); m != nil {
		n, _ := strconv.Atoi(m[1])
		if n > 0 {
			return models.Period{From: yesterday.AddDate(0, 0, -(n - 1)), To: yesterday}, true
		}
	}

	// "позавчера" contains "вчера", longest phrase first
	switch {
	case strings.Contains(lower, "позавчера"):
		d := yesterday.AddDate(0, 0, -1)
		return models.Period{From: d, To: d}, true

	case strings.Contains(lower, "прошл") && strings.Contains(lower, "недел"):
		monday := startOfWeek(today).AddDate(0, 0, -7)
		return models.Period{From: monday, To: monday.AddDate(0, 0, 6)}, true

	case strings.Contains(lower, "недел"):
		return models.Period{From: yesterday.AddDate(0, 0, -6), To: yesterday}, true

	case strings.Contains(lower, "прошл") && strings.Contains(lower, "месяц"):
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
		return models.Period{From: first, To: first.AddDate(0, 1, -1)}, true

	case strings.Contains(lower, "месяц"):
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		if yesterday.Before(first) {
			// The 1st has no complete days yet, report the previous month
			prev := first.AddDate(0, -1, 0)
			return models.Period{From: prev, To: first.AddDate(0, 0, -1)}, true
		}
		return models.Period{From: first, To: yesterday}, true

	case strings.Contains(lower, "сегодня"):
		return models.Period{From: today, To: today}, true

	case strings.Contains(lower, "вчера"):
		return models.Period{From: yesterday, To: yesterday}, true
	}

	return models.Period{}, false
}

// explicitDates collects ISO and DD.MM.YYYY dates in text order
func explicitDates(lower string) []time.Time {
	var dates []time.Time
	for _, m := range isoDatePattern.FindAllString(lower, 2) {
		if t, err := time.Parse("2006-01-02", m); err == nil {
			dates = append(dates, t)
		}
	}
	for _, m := range dottedDatePattern.FindAllString(lower, 2) {
		if t, err := time.Parse("02.01.2006", m); err == nil {
			dates = append(dates, t)
		}
	}
	return dates
}

func midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// startOfWeek is the Monday of the week containing d
func startOfWeek(d time.Time) time.Time {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// topicKeywords maps question stems to a topic label. Order matters,
// the first hit wins, so margin outranks the generic sales stem.
var topicKeywords = []struct {
	stem  string
	topic string
}{
	{"марж", "маржа"},
	{"прибыл", "маржа"},
	{"план", "план"},
	{"прогноз", "план"},
	{"отстающ", "отстающие"},
	{"убыточ", "убыточные"},
	{"минус", "убыточные"},
	{"топ", "топ"},
	{"лучш", "топ"},
	{"воронк", "воронка"},
	{"конверси", "воронка"},
	{"выкуп", "воронка"},
	{"остат", "остатки"},
	{"склад", "остатки"},
	{"реклам", "реклама"},
	{"дрр", "реклама"},
	{"ставк", "реклама"},
	{"кампани", "реклама"},
	{"динамик", "динамика"},
	{"тренд", "динамика"},
	{"выручк", "продажи"},
	{"заказ", "продажи"},
	{"продаж", "продажи"},
}

func topicOf(lower string) string {
	for _, kw := range topicKeywords {
		if strings.Contains(lower, kw.stem) {
			return kw.topic
		}
	}
	return ""
}
