// Integration coverage for the Postgres repositories, running against a
// real database with migrations applied by the harness. Skipped unless
// TEST_DATABASE_URL is set.
package test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/selivandex/seller-bot/internal/conversations"
	"github.com/selivandex/seller-bot/internal/feedback"
	"github.com/selivandex/seller-bot/internal/subscriptions"
	"github.com/selivandex/seller-bot/internal/wb"
	"github.com/selivandex/seller-bot/pkg/models"
	"github.com/selivandex/seller-bot/test/testdb"
)

func TestWarehouseRepositories(t *testing.T) {
	db := testdb.Setup(t)
	ctx := context.Background()
	repo := wb.NewRepository(db)

	jun1 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	jun2 := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	t.Run("margin rows for a period", func(t *testing.T) {
		testdb.Truncate(t, db, "wb_margin_daily")

		mp := 24.5
		testdb.SeedMarginDay(t, db, 101, "Куртка зимняя", jun1, 5, "12500.00", "900.00", "3062.50", &mp)
		testdb.SeedMarginDay(t, db, 101, "Куртка зимняя", jun2, 3, "7500.00", "600.00", "1800.00", &mp)
		testdb.SeedMarginDay(t, db, 202, "Ботинки", jun2, 0, "0.00", "150.00", "-150.00", nil)

		rows, err := repo.MarginRows(ctx, models.NewPeriod(jun1, jun2))
		if err != nil {
			t.Fatalf("MarginRows: %v", err)
		}
		if len(rows) != 3 {
			t.Fatalf("expected 3 rows, got %d", len(rows))
		}
		if rows[0].NmID != 101 || !rows[0].Date.Equal(jun1) {
			t.Errorf("expected first row SKU 101 on June 1, got %d on %s", rows[0].NmID, rows[0].Date)
		}
		if !rows[0].Revenue.Equal(decimal.RequireFromString("12500.00")) {
			t.Errorf("expected revenue 12500.00, got %s", rows[0].Revenue)
		}
		if rows[2].MarginPercent != nil {
			t.Errorf("expected NULL margin percent on a zero-revenue day, got %v", *rows[2].MarginPercent)
		}
	})

	t.Run("margin rows by sku", func(t *testing.T) {
		rows, err := repo.MarginRowsBySKU(ctx, 101, models.NewPeriod(jun1, jun2))
		if err != nil {
			t.Fatalf("MarginRowsBySKU: %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("expected 2 rows for SKU 101, got %d", len(rows))
		}
		if !rows[1].MarginProfit.Equal(decimal.RequireFromString("1800.00")) {
			t.Errorf("expected margin 1800.00 on the second day, got %s", rows[1].MarginProfit)
		}
	})

	t.Run("latest funnel date", func(t *testing.T) {
		testdb.Truncate(t, db, "wb_sales_funnel_products")

		if _, err := repo.LatestFunnelDate(ctx); !errors.Is(err, models.ErrNoData) {
			t.Errorf("expected ErrNoData on empty table, got %v", err)
		}

		testdb.SeedFunnelDay(t, db, 101, "Куртка зимняя", jun1, 100, 20, 5, "12500.00", 4, "10000.00", 40)
		testdb.SeedFunnelDay(t, db, 101, "Куртка зимняя", jun2, 80, 15, 3, "7500.00", 3, "7500.00", 37)

		latest, err := repo.LatestFunnelDate(ctx)
		if err != nil {
			t.Fatalf("LatestFunnelDate: %v", err)
		}
		if !latest.Equal(jun2) {
			t.Errorf("expected June 2, got %s", latest)
		}
	})
}

func TestBotRepositories(t *testing.T) {
	db := testdb.Setup(t)
	ctx := context.Background()

	t.Run("subscription toggles keep the other flag", func(t *testing.T) {
		testdb.Truncate(t, db, "chat_subscriptions")
		repo := subscriptions.NewRepository(db)

		sub, err := repo.Get(ctx, 404)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if sub != nil {
			t.Fatalf("expected nil for an unknown chat, got %+v", sub)
		}

		if err := repo.SetDigest(ctx, 7, true); err != nil {
			t.Fatalf("SetDigest: %v", err)
		}
		sub, err = repo.Get(ctx, 7)
		if err != nil || sub == nil {
			t.Fatalf("Get after SetDigest: sub=%v err=%v", sub, err)
		}
		if !sub.DigestEnabled || sub.AlertsEnabled {
			t.Errorf("expected digest on and alerts off, got digest=%v alerts=%v",
				sub.DigestEnabled, sub.AlertsEnabled)
		}

		if err := repo.SetAlerts(ctx, 7, true); err != nil {
			t.Fatalf("SetAlerts: %v", err)
		}
		if err := repo.SetDigest(ctx, 7, false); err != nil {
			t.Fatalf("SetDigest off: %v", err)
		}
		sub, err = repo.Get(ctx, 7)
		if err != nil || sub == nil {
			t.Fatalf("Get after toggles: sub=%v err=%v", sub, err)
		}
		if sub.DigestEnabled || !sub.AlertsEnabled {
			t.Errorf("expected digest off and alerts on, got digest=%v alerts=%v",
				sub.DigestEnabled, sub.AlertsEnabled)
		}

		alerts, err := repo.ListAlertsEnabled(ctx)
		if err != nil {
			t.Fatalf("ListAlertsEnabled: %v", err)
		}
		if len(alerts) != 1 || alerts[0].ChatID != 7 {
			t.Errorf("expected only chat 7 in the alerts list, got %+v", alerts)
		}

		digests, err := repo.ListDigestEnabled(ctx)
		if err != nil {
			t.Fatalf("ListDigestEnabled: %v", err)
		}
		if len(digests) != 0 {
			t.Errorf("expected empty digest list, got %+v", digests)
		}
	})

	t.Run("feedback lifecycle", func(t *testing.T) {
		testdb.Truncate(t, db, "agent_feedback")
		repo := feedback.NewRepository(db)

		first := &models.FeedbackRecord{
			ChatID:       7,
			FeedbackType: models.FeedbackIncorrectData,
			Comment:      "ДРР за вчера не совпадает с кабинетом",
			CreatedAt:    time.Now().UTC().Add(-time.Hour),
		}
		if err := repo.Save(ctx, first); err != nil {
			t.Fatalf("Save: %v", err)
		}

		second := &models.FeedbackRecord{ChatID: 8, FeedbackType: "whatever", Comment: "просто не то"}
		if err := repo.Save(ctx, second); err != nil {
			t.Fatalf("Save: %v", err)
		}

		recent, err := repo.Recent(ctx, 10)
		if err != nil {
			t.Fatalf("Recent: %v", err)
		}
		if len(recent) != 2 {
			t.Fatalf("expected 2 records, got %d", len(recent))
		}
		if recent[0].ChatID != 8 {
			t.Errorf("expected the newest record first, got chat %d", recent[0].ChatID)
		}
		if recent[0].FeedbackType != models.FeedbackOther {
			t.Errorf("expected unknown type normalized to other, got %s", recent[0].FeedbackType)
		}

		if err := repo.MarkReviewed(ctx, first.ID); err != nil {
			t.Fatalf("MarkReviewed: %v", err)
		}
		if err := repo.MarkReviewed(ctx, uuid.New()); !errors.Is(err, models.ErrNoData) {
			t.Errorf("expected ErrNoData for an unknown id, got %v", err)
		}

		stats, err := repo.Stats(ctx, time.Now().UTC().Add(-24*time.Hour))
		if err != nil {
			t.Fatalf("Stats: %v", err)
		}
		if len(stats) != 2 {
			t.Errorf("expected 2 stat groups, got %d", len(stats))
		}
	})

	t.Run("conversation history and sessions", func(t *testing.T) {
		testdb.Truncate(t, db, "agent_conversations")

		// No Redis here, the cache path has its own unit coverage
		repo := conversations.NewRepository(db, nil)

		session := uuid.New()
		base := time.Now().UTC().Add(-10 * time.Minute)
		for i := 0; i < 3; i++ {
			entry := &models.ConversationEntry{
				ChatID:    9,
				SessionID: session,
				Question:  fmt.Sprintf("вопрос %d", i+1),
				Response:  "ответ",
				ToolsUsed: pq.StringArray{"get_margin_summary"},
				CreatedAt: base.Add(time.Duration(i) * time.Minute),
			}
			if err := repo.Save(ctx, entry); err != nil {
				t.Fatalf("Save: %v", err)
			}
		}

		recent, err := repo.Recent(ctx, 9, 2)
		if err != nil {
			t.Fatalf("Recent: %v", err)
		}
		if len(recent) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(recent))
		}
		if recent[0].Question != "вопрос 3" {
			t.Errorf("expected the newest entry first, got %q", recent[0].Question)
		}

		active, err := repo.ActiveSession(ctx, 9)
		if err != nil {
			t.Fatalf("ActiveSession: %v", err)
		}
		if active != session {
			t.Errorf("expected the open session to continue, got %s", active)
		}

		count, err := repo.CountSince(ctx, 9, base)
		if err != nil {
			t.Fatalf("CountSince: %v", err)
		}
		if count != 3 {
			t.Errorf("expected 3 entries counted, got %d", count)
		}

		stale := &models.ConversationEntry{
			ChatID:    10,
			SessionID: uuid.New(),
			Question:  "старый вопрос",
			Response:  "ответ",
			CreatedAt: time.Now().UTC().Add(-2 * time.Hour),
		}
		if err := repo.Save(ctx, stale); err != nil {
			t.Fatalf("Save: %v", err)
		}
		active, err = repo.ActiveSession(ctx, 10)
		if err != nil {
			t.Fatalf("ActiveSession: %v", err)
		}
		if active == stale.SessionID {
			t.Error("expected a fresh session after the idle gap")
		}

		usage, err := repo.Stats(ctx, time.Now().UTC().Add(-24*time.Hour))
		if err != nil {
			t.Fatalf("Stats: %v", err)
		}
		if usage.Questions != 4 || usage.Chats != 2 {
			t.Errorf("expected 4 questions over 2 chats, got %+v", usage)
		}
	})
}
