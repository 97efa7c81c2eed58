package toolkit

import (
	"strings"
	"testing"
	"time"

	"github.com/selivandex/seller-bot/pkg/models"
)

// pinClock fixes "now" so date defaults are deterministic
func pinClock(t *testing.T, now time.Time) {
	t.Helper()
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = time.Now })
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGetInt64(t *testing.T) {
	cases := []struct {
		name    string
		val     interface{}
		want    int64
		wantErr bool
	}{
		{"json number", float64(173052891), 173052891, false},
		{"plain int", 42, 42, false},
		{"digit string", "173052891", 173052891, false},
		{"padded digit string", " 99 ", 99, false},
		{"word string", "сорок два", 0, true},
		{"bool", true, 0, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := getInt64(map[string]interface{}{"nm_id": tc.val}, "nm_id")
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %v", tc.val)
				}
				if !models.IsValidation(err) {
					t.Errorf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %d, want %d", got, tc.want)
			}
		})
	}

	if _, err := getInt64(map[string]interface{}{}, "nm_id"); err == nil {
		t.Error("expected error for missing parameter")
	}
}

func TestGetIntOr(t *testing.T) {
	params := map[string]interface{}{"limit": float64(5)}

	got, err := getIntOr(params, "limit", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 5 {
		t.Errorf("got %d, want 5", got)
	}

	got, err = getIntOr(params, "days", 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 7 {
		t.Errorf("missing key: got %d, want default 7", got)
	}

	if _, err := getIntOr(map[string]interface{}{"limit": "пять"}, "limit", 10); err == nil {
		t.Error("expected error for non-numeric value")
	}
}

func TestGetStringOr(t *testing.T) {
	got, err := getStringOr(map[string]interface{}{"metric": "orders"}, "metric", "revenue")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "orders" {
		t.Errorf("got %q, want orders", got)
	}

	got, err = getStringOr(map[string]interface{}{"metric": "  "}, "metric", "revenue")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "revenue" {
		t.Errorf("blank value: got %q, want default revenue", got)
	}

	if _, err := getStringOr(map[string]interface{}{"metric": 7}, "metric", "revenue"); err == nil {
		t.Error("expected error for non-string value")
	}
}

func TestParseDate(t *testing.T) {
	pinClock(t, time.Date(2025, 6, 15, 13, 45, 0, 0, time.UTC))

	cases := []struct {
		in   string
		want time.Time
	}{
		{"2025-06-01", date(2025, 6, 1)},
		{"01.06.2025", date(2025, 6, 1)},
		{"сегодня", date(2025, 6, 15)},
		{"Вчера", date(2025, 6, 14)},
		{"позавчера", date(2025, 6, 13)},
		{" today ", date(2025, 6, 15)},
	}

	for _, tc := range cases {
		got, err := parseDate(tc.in)
		if err != nil {
			t.Errorf("parseDate(%q): unexpected error: %v", tc.in, err)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("parseDate(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}

	_, err := parseDate("июнь")
	if err == nil {
		t.Fatal("expected error for unparseable date")
	}
	if !strings.Contains(err.Error(), "YYYY-MM-DD") {
		t.Errorf("error should name the expected layout, got %v", err)
	}
}

func TestGetPeriod(t *testing.T) {
	pinClock(t, time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC))

	t.Run("defaults to yesterday", func(t *testing.T) {
		p, err := getPeriod(map[string]interface{}{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := date(2025, 6, 14)
		if !p.From.Equal(want) || !p.To.Equal(want) {
			t.Errorf("got %v..%v, want one-day %v", p.From, p.To, want)
		}
	})

	t.Run("start only extends to yesterday", func(t *testing.T) {
		p, err := getPeriod(map[string]interface{}{"date_from": "2025-06-01"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !p.From.Equal(date(2025, 6, 1)) || !p.To.Equal(date(2025, 6, 14)) {
			t.Errorf("got %v..%v, want 2025-06-01..2025-06-14", p.From, p.To)
		}
	})

	t.Run("reversed bounds are swapped", func(t *testing.T) {
		p, err := getPeriod(map[string]interface{}{
			"date_from": "2025-06-10",
			"date_to":   "2025-06-01",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !p.From.Equal(date(2025, 6, 1)) || !p.To.Equal(date(2025, 6, 10)) {
			t.Errorf("got %v..%v, want swapped 2025-06-01..2025-06-10", p.From, p.To)
		}
	})

	t.Run("non-string date rejected", func(t *testing.T) {
		_, err := getPeriod(map[string]interface{}{"date_to": 20250601})
		if err == nil {
			t.Fatal("expected validation error")
		}
		if !models.IsValidation(err) {
			t.Errorf("expected validation error, got %v", err)
		}
	})
}

func TestGetSingleDate(t *testing.T) {
	pinClock(t, time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC))

	p, err := getSingleDate(map[string]interface{}{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.From.Equal(date(2025, 6, 14)) || !p.To.Equal(date(2025, 6, 14)) {
		t.Errorf("default should be yesterday, got %v..%v", p.From, p.To)
	}

	p, err = getSingleDate(map[string]interface{}{"date": "10.06.2025"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.From.Equal(date(2025, 6, 10)) || !p.To.Equal(date(2025, 6, 10)) {
		t.Errorf("got %v..%v, want one-day 2025-06-10", p.From, p.To)
	}
}

func TestGetToolPeriod(t *testing.T) {
	pinClock(t, time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC))

	p, err := getToolPeriod(map[string]interface{}{"date": "2025-06-10"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.From.Equal(date(2025, 6, 10)) || !p.To.Equal(date(2025, 6, 10)) {
		t.Errorf("single date: got %v..%v", p.From, p.To)
	}

	p, err = getToolPeriod(map[string]interface{}{
		"date_from": "2025-06-01",
		"date_to":   "2025-06-07",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.From.Equal(date(2025, 6, 1)) || !p.To.Equal(date(2025, 6, 7)) {
		t.Errorf("range: got %v..%v", p.From, p.To)
	}

	// Range params win over the single date when a caller sends both
	p, err = getToolPeriod(map[string]interface{}{
		"date":      "2025-06-10",
		"date_from": "2025-06-01",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.From.Equal(date(2025, 6, 1)) || !p.To.Equal(date(2025, 6, 14)) {
		t.Errorf("mixed params: got %v..%v, want 2025-06-01..yesterday", p.From, p.To)
	}
}

func TestLastDays(t *testing.T) {
	pinClock(t, time.Date(2025, 6, 15, 23, 59, 0, 0, time.UTC))

	p := lastDays(7)
	if !p.From.Equal(date(2025, 6, 8)) || !p.To.Equal(date(2025, 6, 14)) {
		t.Errorf("lastDays(7) = %v..%v, want 2025-06-08..2025-06-14", p.From, p.To)
	}
	if p.Days() != 7 {
		t.Errorf("lastDays(7) spans %d days", p.Days())
	}

	p = lastDays(0)
	if p.Days() != defaultTrendDays {
		t.Errorf("lastDays(0) should fall back to %d days, got %d", defaultTrendDays, p.Days())
	}

	p = lastDays(1)
	if !p.From.Equal(p.To) || !p.To.Equal(date(2025, 6, 14)) {
		t.Errorf("lastDays(1) = %v..%v, want one-day yesterday", p.From, p.To)
	}
}

func TestPrecedingPeriod(t *testing.T) {
	p := models.Period{From: date(2025, 6, 8), To: date(2025, 6, 14)}

	prev := precedingPeriod(p)
	if !prev.From.Equal(date(2025, 6, 1)) || !prev.To.Equal(date(2025, 6, 7)) {
		t.Errorf("got %v..%v, want 2025-06-01..2025-06-07", prev.From, prev.To)
	}
	if prev.Days() != p.Days() {
		t.Errorf("preceding period spans %d days, want %d", prev.Days(), p.Days())
	}

	single := models.Period{From: date(2025, 6, 14), To: date(2025, 6, 14)}
	prev = precedingPeriod(single)
	if !prev.From.Equal(date(2025, 6, 13)) || !prev.To.Equal(date(2025, 6, 13)) {
		t.Errorf("single day: got %v..%v, want 2025-06-13", prev.From, prev.To)
	}
}

func TestGetComparePeriods(t *testing.T) {
	params := map[string]interface{}{
		"start_a": "2025-06-01",
		"end_a":   "2025-06-07",
		"start_b": "2025-06-08",
		"end_b":   "2025-06-14",
	}

	a, b, err := getComparePeriods(params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !a.From.Equal(date(2025, 6, 1)) || !a.To.Equal(date(2025, 6, 7)) {
		t.Errorf("period A = %v..%v", a.From, a.To)
	}
	if !b.From.Equal(date(2025, 6, 8)) || !b.To.Equal(date(2025, 6, 14)) {
		t.Errorf("period B = %v..%v", b.From, b.To)
	}

	delete(params, "end_b")
	_, _, err = getComparePeriods(params)
	if err == nil {
		t.Fatal("expected error for missing boundary")
	}
	if !strings.Contains(err.Error(), "end_b") {
		t.Errorf("error should name the missing parameter, got %v", err)
	}
}
