package agents

import (
	"testing"
	"time"

	"github.com/selivandex/seller-bot/pkg/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestExtractEntitiesMarketplace(t *testing.T) {
	now := day(2025, 6, 15)

	cases := []struct {
		question string
		want     models.Marketplace
	}{
		{"какая маржа вчера", models.MarketplaceWB},
		{"что с рекламой на озоне", models.MarketplaceOzon},
		{"ozon топ товаров", models.MarketplaceOzon},
		{"Озон: воронка за неделю", models.MarketplaceOzon},
	}
	for _, tc := range cases {
		if got := extractEntities(tc.question, now).Marketplace; got != tc.want {
			t.Errorf("extractEntities(%q).Marketplace = %s, want %s", tc.question, got, tc.want)
		}
	}
}

func TestExtractEntitiesSKU(t *testing.T) {
	now := day(2025, 6, 15)

	e := extractEntities("что случилось с товаром 172637812", now)
	if e.NmID != 172637812 {
		t.Errorf("NmID = %d, want 172637812", e.NmID)
	}

	// Dates must not leak into the article number
	e = extractEntities("маржа за 2025-06-01", now)
	if e.NmID != 0 {
		t.Errorf("ISO date mistaken for an article: %d", e.NmID)
	}
	e = extractEntities("маржа за 01.06.2025", now)
	if e.NmID != 0 {
		t.Errorf("dotted date mistaken for an article: %d", e.NmID)
	}

	// Short digit runs are day counts, not articles
	e = extractEntities("динамика за 30 дней", now)
	if e.NmID != 0 {
		t.Errorf("day count mistaken for an article: %d", e.NmID)
	}
}

func TestExtractPeriod(t *testing.T) {
	// 2025-06-15 is a Sunday, the current ISO week starts 2025-06-09
	now := time.Date(2025, 6, 15, 13, 45, 0, 0, time.UTC)

	cases := []struct {
		name     string
		question string
		from, to time.Time
	}{
		{"yesterday", "какая маржа вчера", day(2025, 6, 14), day(2025, 6, 14)},
		{"today", "что по заказам сегодня", day(2025, 6, 15), day(2025, 6, 15)},
		{"day before yesterday", "сравни с позавчера", day(2025, 6, 13), day(2025, 6, 13)},
		{"last 7 days", "воронка за неделю", day(2025, 6, 8), day(2025, 6, 14)},
		{"previous week", "что было на прошлой неделе", day(2025, 6, 2), day(2025, 6, 8)},
		{"month to date", "план за месяц", day(2025, 6, 1), day(2025, 6, 14)},
		{"previous month", "выручка в прошлом месяце", day(2025, 5, 1), day(2025, 5, 31)},
		{"last n days", "реклама за 30 дней", day(2025, 5, 16), day(2025, 6, 14)},
		{"explicit iso range", "маржа с 2025-06-01 по 2025-06-07", day(2025, 6, 1), day(2025, 6, 7)},
		{"explicit single date", "что было 03.06.2025", day(2025, 6, 3), day(2025, 6, 3)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, ok := extractPeriod(tc.question, now)
			if !ok {
				t.Fatalf("extractPeriod(%q) found nothing", tc.question)
			}
			if !p.From.Equal(tc.from) || !p.To.Equal(tc.to) {
				t.Errorf("extractPeriod(%q) = %s..%s, want %s..%s",
					tc.question,
					p.From.Format("2006-01-02"), p.To.Format("2006-01-02"),
					tc.from.Format("2006-01-02"), tc.to.Format("2006-01-02"))
			}
		})
	}

	t.Run("no period named", func(t *testing.T) {
		if _, ok := extractPeriod("какая маржа", now); ok {
			t.Error("question without dates should leave the period unset")
		}
	})

	t.Run("month phrase on the first", func(t *testing.T) {
		// The 1st has no complete days in the current month yet
		p, ok := extractPeriod("итоги за месяц", time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC))
		if !ok {
			t.Fatal("expected a period")
		}
		if !p.From.Equal(day(2025, 6, 1)) || !p.To.Equal(day(2025, 6, 30)) {
			t.Errorf("got %s..%s, want the full previous month",
				p.From.Format("2006-01-02"), p.To.Format("2006-01-02"))
		}
	})
}

func TestTopicOf(t *testing.T) {
	cases := []struct {
		question string
		want     string
	}{
		{"какая маржинальность вчера", "маржа"},
		{"что с дрр по кампаниям", "реклама"},
		{"покажи остатки на складе", "остатки"},
		{"динамика по дням", "динамика"},
		{"сколько заказов", "продажи"},
		{"как выполняется план", "план"},
		{"привет", ""},
		// Margin stems outrank the generic sales stem
		{"маржа и продажи", "маржа"},
	}
	for _, tc := range cases {
		if got := topicOf(tc.question); got != tc.want {
			t.Errorf("topicOf(%q) = %q, want %q", tc.question, got, tc.want)
		}
	}
}
