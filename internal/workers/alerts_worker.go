package workers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/selivandex/seller-bot/internal/adapters/config"
	"github.com/selivandex/seller-bot/internal/adapters/redis"
	"github.com/selivandex/seller-bot/internal/analytics"
	"github.com/selivandex/seller-bot/internal/reports"
	"github.com/selivandex/seller-bot/internal/subscriptions"
	"github.com/selivandex/seller-bot/internal/wb"
	"github.com/selivandex/seller-bot/pkg/logger"
	"github.com/selivandex/seller-bot/pkg/models"
)

// A day's alert stays deduped long enough to outlive every rescan of
// that day
const alertDedupTTL = 48 * time.Hour

// Metrics scanned for anomalies on every pass
var watchedMetrics = []string{
	analytics.MetricMargin,
	analytics.MetricRevenue,
	analytics.MetricOrders,
}

// AlertsWorker scans yesterday's figures for anomalies and pushes
// notifications to subscribed chats. The scan runs several times a day
// because warehouse loads land at odd hours; a Redis key keeps it at
// one alert per metric per day across pods and restarts.
type AlertsWorker struct {
	subs    *subscriptions.Repository
	wbRepo  *wb.Repository
	cache   *redis.Client
	sender  Sender
	anomaly config.AnomalyConfig
}

// NewAlertsWorker creates the anomaly alerts worker
func NewAlertsWorker(
	subs *subscriptions.Repository,
	wbRepo *wb.Repository,
	cache *redis.Client,
	sender Sender,
	anomaly config.AnomalyConfig,
) *AlertsWorker {
	return &AlertsWorker{
		subs:    subs,
		wbRepo:  wbRepo,
		cache:   cache,
		sender:  sender,
		anomaly: anomaly,
	}
}

// Name returns worker name
func (w *AlertsWorker) Name() string {
	return "anomaly_alerts"
}

// Run scans each watched metric and alerts on anomalies dated yesterday
func (w *AlertsWorker) Run(ctx context.Context) error {
	subs, err := w.subs.ListAlertsEnabled(ctx)
	if err != nil {
		return fmt.Errorf("failed to list alert subscribers: %w", err)
	}
	if len(subs) == 0 {
		return nil
	}

	yesterday := midnightUTC(time.Now()).AddDate(0, 0, -1)

	// The baseline needs well more history than the rolling window
	days := w.anomaly.Window * 4
	if days < 14 {
		days = 14
	}
	period := models.Period{From: yesterday.AddDate(0, 0, -(days - 1)), To: yesterday}

	rows, err := w.wbRepo.MarginRows(ctx, period)
	if err != nil {
		return fmt.Errorf("failed to load margin rows: %w", err)
	}

	sent := 0
	for _, metric := range watchedMetrics {
		points, err := analytics.MarginDailySeries(rows, metric)
		if err != nil {
			logger.Warn("alert series build failed", zap.String("metric", metric), zap.Error(err))
			continue
		}

		anomalies, err := analytics.DetectAnomalies(points, w.anomaly.Window, w.anomaly.ZScore)
		if err != nil {
			if !errors.Is(err, analytics.ErrInsufficientSeries) {
				logger.Warn("anomaly detection failed", zap.String("metric", metric), zap.Error(err))
			}
			continue
		}

		anomaly, ok := anomalyOn(anomalies, yesterday)
		if !ok {
			continue
		}
		if w.alreadySent(ctx, metric, yesterday) {
			continue
		}

		text := reports.FormatAnomalyAlert("Wildberries", metric, anomaly)
		for _, sub := range subs {
			w.sender.SendMarkdown(sub.ChatID, text)
		}
		w.markSent(ctx, metric, yesterday)
		sent++

		logger.Info("anomaly alert delivered",
			zap.String("metric", metric),
			zap.Float64("z_score", anomaly.ZScore),
			zap.Int("chats", len(subs)),
		)
	}

	if sent == 0 {
		logger.Debug("no fresh anomalies", zap.Time("day", yesterday))
	}
	return nil
}

// anomalyOn finds the anomaly dated exactly day, if any
func anomalyOn(anomalies []analytics.Anomaly, day time.Time) (analytics.Anomaly, bool) {
	for _, a := range anomalies {
		if a.Date.Equal(day) {
			return a, true
		}
	}
	return analytics.Anomaly{}, false
}

func (w *AlertsWorker) alreadySent(ctx context.Context, metric string, day time.Time) bool {
	if w.cache == nil {
		return false
	}
	n, err := w.cache.Exists(ctx, alertKey(metric, day)).Result()
	if err != nil {
		// Better a rare duplicate than a silent miss
		logger.Debug("alert dedupe check failed", zap.Error(err))
		return false
	}
	return n > 0
}

func (w *AlertsWorker) markSent(ctx context.Context, metric string, day time.Time) {
	if w.cache == nil {
		return
	}
	if err := w.cache.Set(ctx, alertKey(metric, day), "1", alertDedupTTL).Err(); err != nil {
		logger.Debug("alert dedupe mark failed", zap.Error(err))
	}
}

func alertKey(metric string, day time.Time) string {
	return fmt.Sprintf("alert:sent:%s:%s", metric, day.Format("2006-01-02"))
}
