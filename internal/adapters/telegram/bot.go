// Package telegram is the bot front end: it long-polls updates, routes
// commands, and feeds free-form questions to the agent.
package telegram

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/selivandex/seller-bot/internal/adapters/config"
	"github.com/selivandex/seller-bot/internal/adapters/redis"
	"github.com/selivandex/seller-bot/internal/conversations"
	"github.com/selivandex/seller-bot/internal/feedback"
	"github.com/selivandex/seller-bot/internal/subscriptions"
	"github.com/selivandex/seller-bot/pkg/logger"
	"github.com/selivandex/seller-bot/pkg/templates"
)

// Answering a question means LLM round trips plus warehouse queries,
// commands are a single DB hit
const (
	questionTimeout = 2 * time.Minute
	commandTimeout  = 15 * time.Second
)

// QuestionAnswerer is the agent surface the bot needs
type QuestionAnswerer interface {
	Answer(ctx context.Context, chatID int64, question string) (string, error)
}

// Bot handles Telegram updates for the seller analytics assistant
type Bot struct {
	api       *tgbotapi.BotAPI
	cfg       *config.Config
	agent     QuestionAnswerer
	subs      *subscriptions.Repository
	feedback  *feedback.Repository
	convos    *conversations.Repository
	locks     redis.LockFactory
	templates templates.Renderer
}

// NewBot creates the Telegram bot
func NewBot(
	cfg *config.Config,
	agent QuestionAnswerer,
	subs *subscriptions.Repository,
	feedbackRepo *feedback.Repository,
	convos *conversations.Repository,
	locks redis.LockFactory,
	templateRenderer templates.Renderer,
) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	bot.Debug = false

	logger.Info("Telegram bot authorized",
		zap.String("username", bot.Self.UserName),
		zap.Bool("admin_enabled", cfg.Telegram.AdminID != 0),
	)

	return &Bot{
		api:       bot,
		cfg:       cfg,
		agent:     agent,
		subs:      subs,
		feedback:  feedbackRepo,
		convos:    convos,
		locks:     locks,
		templates: templateRenderer,
	}, nil
}

// Start runs the long-poll loop until the context dies
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	logger.Info("Bot started, listening for questions...")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()

		case update := <-updates:
			if update.Message == nil || update.Message.Text == "" {
				continue
			}

			if update.Message.IsCommand() {
				go b.handleCommand(update.Message)
				continue
			}

			go b.handleQuestion(update.Message)
		}
	}
}

// handleQuestion feeds one free-form message through the agent. The
// per-chat lock keeps a second question from racing the first one
// across pods.
func (b *Bot) handleQuestion(message *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), questionTimeout)
	defer cancel()

	chatID := message.Chat.ID

	lock := b.locks.CreateChatLock(chatID)
	acquired, err := lock.TryAcquire(ctx)
	if err != nil {
		// A dead Redis should not mute the bot
		logger.Warn("chat lock unavailable, answering without it",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	} else if !acquired {
		b.sendTemplate(chatID, "busy.tmpl", nil)
		return
	} else {
		defer func() {
			if err := lock.Release(context.Background()); err != nil {
				logger.Warn("chat lock release failed", zap.Int64("chat_id", chatID), zap.Error(err))
			}
		}()
	}

	b.sendTyping(chatID)

	answer, err := b.agent.Answer(ctx, chatID, message.Text)
	if err != nil {
		logger.Error("question processing failed",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		b.sendTemplate(chatID, "error.tmpl", nil)
		return
	}

	b.SendMarkdown(chatID, answer)
}

func (b *Bot) isAdmin(telegramID int64) bool {
	return b.cfg.Telegram.AdminID != 0 && telegramID == b.cfg.Telegram.AdminID
}
