package agents

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/selivandex/seller-bot/internal/adapters/ai"
	"github.com/selivandex/seller-bot/pkg/logger"
	"github.com/selivandex/seller-bot/pkg/models"
)

// Classifier turns a free-form question into an Intent. The LLM does
// the heavy lifting when a provider is up; a keyword pass covers the
// rest so the bot keeps answering through provider outages.
type Classifier struct {
	provider ai.Provider
}

// NewClassifier builds a classifier. provider may be nil, then only
// the keyword fallback runs.
func NewClassifier(provider ai.Provider) *Classifier {
	return &Classifier{provider: provider}
}

// Classify determines the intent of a question. It never fails: any
// LLM trouble degrades to the deterministic keyword classification.
func (c *Classifier) Classify(ctx context.Context, question string, now time.Time) Intent {
	entities := extractEntities(question, now)

	if c.provider != nil && c.provider.Enabled() {
		if intent, ok := c.classifyLLM(ctx, question, entities); ok {
			return intent
		}
	}

	return keywordClassify(question, entities)
}

// classifyLLM asks the model for a JSON verdict. The second return is
// false whenever the reply cannot be trusted.
func (c *Classifier) classifyLLM(ctx context.Context, question string, entities Entities) (Intent, bool) {
	messages := []models.ChatMessage{
		{Role: models.RoleSystem, Content: classifySystemPrompt},
		{Role: models.RoleUser, Content: question},
	}

	raw, err := c.provider.Complete(ctx, messages)
	if err != nil {
		logger.Warn("intent classification failed, falling back to keywords", zap.Error(err))
		return Intent{}, false
	}

	var verdict struct {
		Intent             string `json:"intent"`
		Topic              string `json:"topic"`
		ClarifyingQuestion string `json:"clarifying_question"`
	}
	if err := json.Unmarshal([]byte(extractJSON(raw)), &verdict); err != nil {
		logger.Warn("intent reply is not JSON, falling back to keywords",
			zap.String("reply", truncate(raw, 200)),
		)
		return Intent{}, false
	}

	if verdict.Topic != "" && entities.Topic == "" {
		entities.Topic = verdict.Topic
	}

	switch verdict.Intent {
	case "describe":
		return NewDescribeIntent(DescribePayload{Entities: entities}), true
	case "diagnose":
		return NewDiagnoseIntent(DiagnosePayload{Entities: entities}), true
	case "prescribe":
		return NewPrescribeIntent(PrescribePayload{Entities: entities, Goal: verdict.Topic}), true
	case "clarify":
		q := strings.TrimSpace(verdict.ClarifyingQuestion)
		if q == "" {
			q = defaultClarifyQuestion
		}
		return NewClarifyIntent(ClarifyPayload{Question: q}), true
	default:
		logger.Warn("unknown intent from model, falling back to keywords",
			zap.String("intent", verdict.Intent),
		)
		return Intent{}, false
	}
}

// keywordClassify is the deterministic fallback. Cause words beat
// advice words beat the describe default.
func keywordClassify(question string, entities Entities) Intent {
	lower := strings.ToLower(question)

	switch {
	case containsAny(lower, "почему", "причин", "что случилось", "что произошло", "из-за чего", "отчего"):
		return NewDiagnoseIntent(DiagnosePayload{Entities: entities})
	case containsAny(lower, "что делать", "рекоменд", "как улучшить", "как поднять", "как увеличить", "как исправить", "что посоветуе", "стоит ли"):
		return NewPrescribeIntent(PrescribePayload{Entities: entities})
	default:
		return NewDescribeIntent(DescribePayload{Entities: entities})
	}
}

// extractJSON cuts the outermost {...} block out of a reply that may
// wrap JSON in markdown fences or prose
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
