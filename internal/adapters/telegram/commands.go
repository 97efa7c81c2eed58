package telegram

import (
	"context"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/selivandex/seller-bot/pkg/logger"
	"github.com/selivandex/seller-bot/pkg/models"
)

// handleCommand routes slash commands
func (b *Bot) handleCommand(message *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	chatID := message.Chat.ID
	cmd := message.Command()

	logger.Debug("command received",
		zap.Int64("chat_id", chatID),
		zap.String("command", cmd),
	)

	switch cmd {
	case "start":
		b.handleStart(ctx, chatID, message.From.FirstName)
	case "help":
		b.sendTemplate(chatID, "help.tmpl", nil)
	case "digest":
		b.handleToggle(ctx, chatID, "digest", message.CommandArguments())
	case "alerts":
		b.handleToggle(ctx, chatID, "alerts", message.CommandArguments())
	case "feedback":
		b.handleFeedback(ctx, chatID, message.CommandArguments())
	case "stats":
		if !b.isAdmin(message.From.ID) {
			b.sendMessage(chatID, "Команда доступна только администратору.")
			return
		}
		b.handleStats(ctx, chatID)
	default:
		b.sendTemplate(chatID, "help.tmpl", nil)
	}
}

// handleStart greets the chat and subscribes it to scheduled messages.
// Repeated /start keeps the existing subscription choices.
func (b *Bot) handleStart(ctx context.Context, chatID int64, firstName string) {
	sub, err := b.subs.Get(ctx, chatID)
	if err != nil {
		logger.Error("subscription lookup failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
	if sub == nil && err == nil {
		if err := b.subs.SetDigest(ctx, chatID, true); err != nil {
			logger.Error("digest subscribe failed", zap.Int64("chat_id", chatID), zap.Error(err))
		}
		if err := b.subs.SetAlerts(ctx, chatID, true); err != nil {
			logger.Error("alerts subscribe failed", zap.Int64("chat_id", chatID), zap.Error(err))
		}
	}

	b.sendTemplate(chatID, "welcome.tmpl", map[string]interface{}{
		"Name": firstName,
	})
}

// handleToggle flips the digest or alerts subscription. Without an
// argument it reports the current state.
func (b *Bot) handleToggle(ctx context.Context, chatID int64, kind, args string) {
	arg := strings.ToLower(strings.TrimSpace(args))

	if arg == "" {
		b.sendSubscriptionStatus(ctx, chatID)
		return
	}

	var enabled bool
	switch arg {
	case "on", "вкл", "включить":
		enabled = true
	case "off", "выкл", "выключить":
		enabled = false
	default:
		b.sendMessage(chatID, "Используйте: /"+kind+" on или /"+kind+" off")
		return
	}

	var err error
	if kind == "digest" {
		err = b.subs.SetDigest(ctx, chatID, enabled)
	} else {
		err = b.subs.SetAlerts(ctx, chatID, enabled)
	}
	if err != nil {
		logger.Error("subscription update failed",
			zap.Int64("chat_id", chatID),
			zap.String("kind", kind),
			zap.Error(err),
		)
		b.sendTemplate(chatID, "error.tmpl", nil)
		return
	}

	b.sendSubscriptionStatus(ctx, chatID)
}

func (b *Bot) sendSubscriptionStatus(ctx context.Context, chatID int64) {
	sub, err := b.subs.Get(ctx, chatID)
	if err != nil {
		logger.Error("subscription lookup failed", zap.Int64("chat_id", chatID), zap.Error(err))
		b.sendTemplate(chatID, "error.tmpl", nil)
		return
	}

	data := map[string]interface{}{"Digest": false, "Alerts": false}
	if sub != nil {
		data["Digest"] = sub.DigestEnabled
		data["Alerts"] = sub.AlertsEnabled
	}
	b.sendTemplate(chatID, "subscription.tmpl", data)
}

// handleFeedback records a complaint about the last answer. The first
// word may name a feedback type, anything else lands in "other".
func (b *Bot) handleFeedback(ctx context.Context, chatID int64, args string) {
	text := strings.TrimSpace(args)
	if text == "" {
		b.sendTemplate(chatID, "feedback_usage.tmpl", nil)
		return
	}

	feedbackType, comment := splitFeedback(text)

	rec := &models.FeedbackRecord{
		ChatID:       chatID,
		FeedbackType: feedbackType,
		Comment:      comment,
	}

	// Attach the exchange being complained about
	if recent, err := b.convos.Recent(ctx, chatID, 1); err == nil && len(recent) > 0 {
		rec.Question = recent[0].Question
		rec.Response = recent[0].Response
		rec.ToolsUsed = recent[0].ToolsUsed
	}

	if err := b.feedback.Save(ctx, rec); err != nil {
		logger.Error("feedback save failed", zap.Int64("chat_id", chatID), zap.Error(err))
		b.sendTemplate(chatID, "error.tmpl", nil)
		return
	}

	b.sendTemplate(chatID, "feedback_thanks.tmpl", nil)
}

// splitFeedback peels a leading feedback type off the text. Sellers
// rarely know the taxonomy, so a plain complaint becomes type other
// with the full text as the comment.
func splitFeedback(text string) (string, string) {
	fields := strings.Fields(text)
	first := strings.ToLower(fields[0])

	switch first {
	case models.FeedbackIncorrectData, models.FeedbackWrongRecommendation,
		models.FeedbackMissingInfo, models.FeedbackWrongCalculation, models.FeedbackOther:
		return first, strings.TrimSpace(strings.TrimPrefix(text, fields[0]))
	default:
		return models.FeedbackOther, text
	}
}

// handleStats sends the admin activity report for the last 7 days
func (b *Bot) handleStats(ctx context.Context, chatID int64) {
	since := time.Now().UTC().AddDate(0, 0, -7)

	usage, err := b.convos.Stats(ctx, since)
	if err != nil {
		logger.Error("usage stats failed", zap.Error(err))
		b.sendTemplate(chatID, "error.tmpl", nil)
		return
	}

	fbStats, err := b.feedback.Stats(ctx, since)
	if err != nil {
		logger.Error("feedback stats failed", zap.Error(err))
		b.sendTemplate(chatID, "error.tmpl", nil)
		return
	}

	b.sendTemplate(chatID, "stats.tmpl", map[string]interface{}{
		"Days":      7,
		"Questions": usage.Questions,
		"Chats":     usage.Chats,
		"Feedback":  fbStats,
	})
}
