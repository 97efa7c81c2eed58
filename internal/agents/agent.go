// Package agents answers seller questions over the analytics toolkit.
// A question is classified into an intent, the intent drives either
// the staged pipeline or a model-driven react loop, and the collected
// reports are synthesized into a short Russian reply.
package agents

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/selivandex/seller-bot/internal/adapters/ai"
	"github.com/selivandex/seller-bot/internal/adapters/config"
	"github.com/selivandex/seller-bot/pkg/logger"
	"github.com/selivandex/seller-bot/pkg/metrics"
	"github.com/selivandex/seller-bot/pkg/models"
)

// toolExecutor is the slice of the tool registry the agent needs.
// Narrow on purpose, tests plug in a stub.
type toolExecutor interface {
	Execute(ctx context.Context, chatID int64, name string, params map[string]interface{}) (interface{}, error)
	Definitions() []models.ToolDef
}

// ConversationStore persists question/answer exchanges for follow-up
// context. A nil store disables memory, the agent still answers.
type ConversationStore interface {
	Save(ctx context.Context, entry *models.ConversationEntry) error
	Recent(ctx context.Context, chatID int64, limit int) ([]models.ConversationEntry, error)
	ActiveSession(ctx context.Context, chatID int64) (uuid.UUID, error)
}

// Agent is the reasoning loop behind the bot
type Agent struct {
	classifier *Classifier
	pipeline   *Pipeline
	registry   toolExecutor
	provider   ai.Provider
	convos     ConversationStore
	cfg        config.AgentConfig
}

// NewAgent wires the agent. provider may be nil or disabled, then the
// keyword classifier and raw report joining keep the bot functional.
func NewAgent(registry toolExecutor, provider ai.Provider, convos ConversationStore, cfg config.AgentConfig) *Agent {
	return &Agent{
		classifier: NewClassifier(provider),
		pipeline:   NewPipeline(registry, cfg.MaxToolCalls),
		registry:   registry,
		provider:   provider,
		convos:     convos,
		cfg:        cfg,
	}
}

// Answer handles one question end to end: classify, run tools,
// synthesize, remember. It returns user-facing text; internal tool
// failures degrade the answer instead of failing it.
func (a *Agent) Answer(ctx context.Context, chatID int64, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "Задайте вопрос о продажах, марже, рекламе или плане.", nil
	}

	started := time.Now()
	history := a.history(ctx, chatID)

	intent := a.classifier.Classify(ctx, question, timeNow())
	entities, _ := intent.EntitiesOf()
	metrics.QuestionsTotal.WithLabelValues(string(intent.Kind), string(entities.Marketplace)).Inc()

	logger.Info("question received",
		zap.Int64("chat_id", chatID),
		zap.String("intent", string(intent.Kind)),
		zap.String("marketplace", string(entities.Marketplace)),
		zap.String("topic", entities.Topic),
	)

	if intent.Kind == IntentClarify {
		return intent.Clarify.Question, nil
	}

	response, tools, err := a.answer(ctx, chatID, question, intent, history)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(response) == "" {
		response = "Не получилось составить ответ. Попробуйте переформулировать вопрос."
	}

	a.remember(ctx, chatID, question, response, tools)

	logger.Info("question answered",
		zap.Int64("chat_id", chatID),
		zap.String("intent", string(intent.Kind)),
		zap.Strings("tools", tools),
		zap.Duration("took", time.Since(started)),
	)

	return response, nil
}

// answer routes between the react loop and the staged pipeline
func (a *Agent) answer(ctx context.Context, chatID int64, question string, intent Intent, history []models.ConversationEntry) (string, []string, error) {
	if a.cfg.Mode == "react" && a.providerUp() {
		return a.answerReact(ctx, chatID, question, history)
	}

	stages := a.pipeline.Run(ctx, chatID, question, intent)
	tools := toolsOf(stages)
	if len(stages) == 0 {
		return "Не удалось получить данные из хранилища. Попробуйте позже.", tools, nil
	}

	return a.synthesize(ctx, question, history, stages), tools, nil
}

// synthesize turns stage reports into the final reply. Without a
// provider the raw reports go out joined, numbers beat silence.
func (a *Agent) synthesize(ctx context.Context, question string, history []models.ConversationEntry, stages []StageReport) string {
	joined := joinReports(stages)
	if !a.providerUp() {
		return joined
	}

	messages := make([]models.ChatMessage, 0, 2*len(history)+2)
	messages = append(messages, models.ChatMessage{Role: models.RoleSystem, Content: synthesisSystemPrompt})
	messages = append(messages, historyMessages(history)...)
	messages = append(messages, models.ChatMessage{
		Role:    models.RoleUser,
		Content: question + "\n\nОтчёты по данным:\n\n" + joined,
	})

	text, err := a.provider.Complete(ctx, messages)
	if err != nil {
		logger.Warn("synthesis failed, returning raw reports", zap.Error(err))
		return joined
	}
	return text
}

// history loads recent exchanges, newest first. Memory failures are
// logged and swallowed, a blank context is better than no answer.
func (a *Agent) history(ctx context.Context, chatID int64) []models.ConversationEntry {
	if a.convos == nil || a.cfg.HistoryDepth <= 0 {
		return nil
	}
	entries, err := a.convos.Recent(ctx, chatID, a.cfg.HistoryDepth)
	if err != nil {
		logger.Warn("history load failed", zap.Int64("chat_id", chatID), zap.Error(err))
		return nil
	}
	return entries
}

// remember persists the exchange under the chat's active session
func (a *Agent) remember(ctx context.Context, chatID int64, question, response string, tools []string) {
	if a.convos == nil {
		return
	}

	sessionID, err := a.convos.ActiveSession(ctx, chatID)
	if err != nil {
		logger.Warn("session lookup failed", zap.Int64("chat_id", chatID), zap.Error(err))
		sessionID = uuid.New()
	}

	entry := &models.ConversationEntry{
		ChatID:    chatID,
		SessionID: sessionID,
		Question:  question,
		Response:  response,
		ToolsUsed: pq.StringArray(tools),
	}
	if err := a.convos.Save(ctx, entry); err != nil {
		logger.Warn("conversation save failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (a *Agent) providerUp() bool {
	return a.provider != nil && a.provider.Enabled()
}

// historyMessages renders stored exchanges oldest first, the order
// models expect chat context in
func historyMessages(history []models.ConversationEntry) []models.ChatMessage {
	messages := make([]models.ChatMessage, 0, 2*len(history))
	for i := len(history) - 1; i >= 0; i-- {
		h := history[i]
		if h.Question == "" || h.Response == "" {
			continue
		}
		messages = append(messages,
			models.ChatMessage{Role: models.RoleUser, Content: h.Question},
			models.ChatMessage{Role: models.RoleAssistant, Content: h.Response},
		)
	}
	return messages
}

func joinReports(stages []StageReport) string {
	var parts []string
	for _, s := range stages {
		parts = append(parts, s.Reports...)
	}
	return strings.Join(parts, "\n\n")
}

func toolsOf(stages []StageReport) []string {
	var tools []string
	for _, s := range stages {
		tools = append(tools, s.Tools...)
	}
	return tools
}
