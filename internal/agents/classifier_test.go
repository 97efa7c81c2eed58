package agents

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/selivandex/seller-bot/pkg/models"
)

func TestClassifyLLM(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("model verdict wins", func(t *testing.T) {
		provider := &stubProvider{
			enabled: true,
			completeFn: func(_ []models.ChatMessage) (string, error) {
				return `{"intent": "prescribe", "topic": "реклама"}`, nil
			},
		}
		intent := NewClassifier(provider).Classify(context.Background(), "глянь что у меня там", now)
		if intent.Kind != IntentPrescribe {
			t.Fatalf("Kind = %s, want prescribe", intent.Kind)
		}
		if intent.Prescribe.Topic != "реклама" {
			t.Errorf("model topic should fill the blank, got %q", intent.Prescribe.Topic)
		}
	})

	t.Run("extracted topic outranks the model one", func(t *testing.T) {
		provider := &stubProvider{
			enabled: true,
			completeFn: func(_ []models.ChatMessage) (string, error) {
				return `{"intent": "describe", "topic": "реклама"}`, nil
			},
		}
		intent := NewClassifier(provider).Classify(context.Background(), "какая маржа", now)
		if intent.Describe.Topic != "маржа" {
			t.Errorf("Topic = %q, want the keyword-extracted маржа", intent.Describe.Topic)
		}
	})

	t.Run("json inside markdown fences", func(t *testing.T) {
		provider := &stubProvider{
			enabled: true,
			completeFn: func(_ []models.ChatMessage) (string, error) {
				return "```json\n{\"intent\": \"diagnose\"}\n```", nil
			},
		}
		intent := NewClassifier(provider).Classify(context.Background(), "хм", now)
		if intent.Kind != IntentDiagnose {
			t.Errorf("Kind = %s, want diagnose", intent.Kind)
		}
	})

	t.Run("clarify fills a default question", func(t *testing.T) {
		provider := &stubProvider{
			enabled: true,
			completeFn: func(_ []models.ChatMessage) (string, error) {
				return `{"intent": "clarify", "clarifying_question": ""}`, nil
			},
		}
		intent := NewClassifier(provider).Classify(context.Background(), "ну", now)
		if intent.Kind != IntentClarify {
			t.Fatalf("Kind = %s, want clarify", intent.Kind)
		}
		if intent.Clarify.Question == "" {
			t.Error("empty clarifying question must get the default")
		}
	})

	t.Run("provider error falls back to keywords", func(t *testing.T) {
		provider := &stubProvider{
			enabled: true,
			completeFn: func(_ []models.ChatMessage) (string, error) {
				return "", errors.New("timeout")
			},
		}
		intent := NewClassifier(provider).Classify(context.Background(), "почему упала маржа", now)
		if intent.Kind != IntentDiagnose {
			t.Errorf("Kind = %s, want the keyword diagnose", intent.Kind)
		}
	})

	t.Run("garbage reply falls back to keywords", func(t *testing.T) {
		provider := &stubProvider{
			enabled: true,
			completeFn: func(_ []models.ChatMessage) (string, error) {
				return "Конечно! Вот мой анализ вашего вопроса...", nil
			},
		}
		intent := NewClassifier(provider).Classify(context.Background(), "что делать с рекламой", now)
		if intent.Kind != IntentPrescribe {
			t.Errorf("Kind = %s, want the keyword prescribe", intent.Kind)
		}
	})

	t.Run("unknown intent label falls back to keywords", func(t *testing.T) {
		provider := &stubProvider{
			enabled: true,
			completeFn: func(_ []models.ChatMessage) (string, error) {
				return `{"intent": "summarize"}`, nil
			},
		}
		intent := NewClassifier(provider).Classify(context.Background(), "какая маржа", now)
		if intent.Kind != IntentDescribe {
			t.Errorf("Kind = %s, want describe", intent.Kind)
		}
	})

	t.Run("nil provider uses keywords only", func(t *testing.T) {
		intent := NewClassifier(nil).Classify(context.Background(), "почему просела выручка", now)
		if intent.Kind != IntentDiagnose {
			t.Errorf("Kind = %s, want diagnose", intent.Kind)
		}
	})
}

func TestKeywordClassify(t *testing.T) {
	cases := []struct {
		question string
		want     IntentKind
	}{
		{"почему упала маржа", IntentDiagnose},
		{"в чем причина падения заказов", IntentDiagnose},
		{"что случилось с рекламой", IntentDiagnose},
		{"что делать с ДРР", IntentPrescribe},
		{"дай рекомендации по ставкам", IntentPrescribe},
		{"как улучшить конверсию", IntentPrescribe},
		{"стоит ли масштабировать кампанию", IntentPrescribe},
		{"какая маржа вчера", IntentDescribe},
		{"покажи топ товаров", IntentDescribe},
		{"привет", IntentDescribe},
	}

	for _, tc := range cases {
		entities := extractEntities(tc.question, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC))
		intent := keywordClassify(tc.question, entities)
		if intent.Kind != tc.want {
			t.Errorf("keywordClassify(%q) = %s, want %s", tc.question, intent.Kind, tc.want)
		}
		if !intent.Valid() {
			t.Errorf("keywordClassify(%q) produced an invalid intent", tc.question)
		}
	}
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{`{"a": 1}`, `{"a": 1}`},
		{"```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{`Вот ответ: {"a": {"b": 2}} — готово`, `{"a": {"b": 2}}`},
		{"никакого json тут нет", "никакого json тут нет"},
	}
	for _, tc := range cases {
		if got := extractJSON(tc.in); got != tc.want {
			t.Errorf("extractJSON(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
