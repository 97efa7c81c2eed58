package telegram

import (
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/selivandex/seller-bot/pkg/logger"
)

// Telegram rejects messages above 4096 UTF-16 units. Splitting at
// 4096 bytes stays under it for any text.
const maxMessageLength = 4096

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		logger.Warn("telegram send failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// sendMessageMarkdown sends with Markdown parsing. Model output with
// stray underscores breaks Telegram's parser, so a rejected message is
// resent plain rather than dropped.
func (b *Bot) sendMessageMarkdown(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	if _, err := b.api.Send(msg); err != nil {
		logger.Warn("markdown send failed, retrying plain",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		b.sendMessage(chatID, text)
	}
}

// SendMarkdown delivers text to a chat, splitting at the message size
// limit. Exported for the scheduled workers.
func (b *Bot) SendMarkdown(chatID int64, text string) {
	for _, part := range splitMessage(text, maxMessageLength) {
		b.sendMessageMarkdown(chatID, part)
	}
}

func (b *Bot) sendTemplate(chatID int64, name string, data interface{}) {
	text, err := b.templates.ExecuteTemplate(name, data)
	if err != nil {
		logger.Error("failed to render template",
			zap.String("template", name),
			zap.Error(err),
		)
		return
	}
	b.sendMessageMarkdown(chatID, text)
}

// sendTyping shows the typing indicator while tools and the model run
func (b *Bot) sendTyping(chatID int64) {
	action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
	if _, err := b.api.Request(action); err != nil {
		logger.Debug("typing action failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// splitMessage breaks text into chunks under limit bytes, preferring
// paragraph then line boundaries, never cutting inside a rune
func splitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	var parts []string
	for len(text) > limit {
		cut := strings.LastIndex(text[:limit], "\n\n")
		if cut < limit/2 {
			cut = strings.LastIndex(text[:limit], "\n")
		}
		if cut < limit/2 {
			cut = limit
			for cut > 0 && !utf8.RuneStart(text[cut]) {
				cut--
			}
		}

		part := strings.TrimSpace(text[:cut])
		if part != "" {
			parts = append(parts, part)
		}
		text = strings.TrimSpace(text[cut:])
	}
	if text != "" {
		parts = append(parts, text)
	}
	return parts
}
