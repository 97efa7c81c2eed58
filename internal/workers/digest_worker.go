// Package workers holds the scheduled jobs: the morning digest and the
// anomaly alert scan. Both deliver through the bot and read the same
// warehouse tables the toolkit does.
package workers

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/selivandex/seller-bot/internal/adapters/config"
	"github.com/selivandex/seller-bot/internal/analytics"
	"github.com/selivandex/seller-bot/internal/ozon"
	"github.com/selivandex/seller-bot/internal/reports"
	"github.com/selivandex/seller-bot/internal/subscriptions"
	"github.com/selivandex/seller-bot/internal/wb"
	"github.com/selivandex/seller-bot/pkg/logger"
	"github.com/selivandex/seller-bot/pkg/models"
)

// Sender delivers rendered messages to chats
type Sender interface {
	SendMarkdown(chatID int64, text string)
}

// DigestWorker sends the morning summary of yesterday's performance to
// subscribed chats
type DigestWorker struct {
	subs       *subscriptions.Repository
	wbRepo     *wb.Repository
	ozonRepo   *ozon.Repository
	sender     Sender
	thresholds config.ThresholdsConfig
}

// NewDigestWorker creates the digest worker
func NewDigestWorker(
	subs *subscriptions.Repository,
	wbRepo *wb.Repository,
	ozonRepo *ozon.Repository,
	sender Sender,
	thresholds config.ThresholdsConfig,
) *DigestWorker {
	return &DigestWorker{
		subs:       subs,
		wbRepo:     wbRepo,
		ozonRepo:   ozonRepo,
		sender:     sender,
		thresholds: thresholds,
	}
}

// Name returns worker name
func (w *DigestWorker) Name() string {
	return "daily_digest"
}

// Run builds one digest and fans it out. Section queries fail soft,
// subscribers still get whatever sections resolved.
func (w *DigestWorker) Run(ctx context.Context) error {
	subs, err := w.subs.ListDigestEnabled(ctx)
	if err != nil {
		return fmt.Errorf("failed to list digest subscribers: %w", err)
	}
	if len(subs) == 0 {
		logger.Debug("no digest subscribers, skipping")
		return nil
	}

	text := w.buildDigest(ctx)

	for _, sub := range subs {
		w.sender.SendMarkdown(sub.ChatID, text)
	}

	logger.Info("digest delivered", zap.Int("chats", len(subs)))
	return nil
}

func (w *DigestWorker) buildDigest(ctx context.Context) string {
	yesterday := midnightUTC(time.Now()).AddDate(0, 0, -1)
	period := models.Period{From: yesterday, To: yesterday}

	data := reports.DigestData{Date: yesterday}

	if rows, err := w.wbRepo.MarginRows(ctx, period); err != nil {
		logger.Warn("digest margin query failed", zap.Error(err))
	} else if len(rows) > 0 {
		s := analytics.SummarizeMargin(period, rows)
		data.WBMargin = &s
	}

	if rows, err := w.wbRepo.AdsRows(ctx, period); err != nil {
		logger.Warn("digest ads query failed", zap.Error(err))
	} else if len(rows) > 0 {
		s := analytics.SummarizeAds(period, rows)
		data.WBAds = &s
	}

	if rows, err := w.ozonRepo.ProductRows(ctx, period); err != nil {
		logger.Warn("digest ozon query failed", zap.Error(err))
	} else if len(rows) > 0 {
		s := analytics.SummarizeOzon(period, rows)
		data.Ozon = &s
	}

	data.Warnings = w.collectWarnings(ctx, data)

	return reports.FormatDailyDigest(data)
}

// collectWarnings flags the two things a seller wants shoved in their
// face at breakfast: ad spend out of line and SKUs falling off plan
func (w *DigestWorker) collectWarnings(ctx context.Context, data reports.DigestData) []string {
	var warnings []string

	if data.WBAds != nil && data.WBAds.DRR != nil && *data.WBAds.DRR > w.thresholds.WB.MaxDRR {
		warnings = append(warnings, fmt.Sprintf("ДРР %s выше нормы %.0f%%",
			reports.Percent(data.WBAds.DRR), w.thresholds.WB.MaxDRR))
	}

	planRows, err := w.wbRepo.PlanFactRows(ctx)
	if err != nil {
		logger.Warn("digest plan query failed", zap.Error(err))
		return warnings
	}

	behind := 0
	for _, r := range planRows {
		if r.CompletionPercent != nil && *r.CompletionPercent < w.thresholds.Plan.UnderperformPercent {
			behind++
		}
	}
	if behind > 0 {
		warnings = append(warnings, fmt.Sprintf("%d SKU отстают от плана по марже", behind))
	}

	return warnings
}

func midnightUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
