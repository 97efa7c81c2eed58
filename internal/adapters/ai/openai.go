package ai

import (
	"context"

	"github.com/selivandex/seller-bot/internal/adapters/config"
	"github.com/selivandex/seller-bot/pkg/models"
)

const (
	openaiAPIURL       = "https://api.openai.com/v1/chat/completions"
	openaiDefaultModel = "gpt-4o-mini"
)

// OpenAIProvider implements Provider for OpenAI
type OpenAIProvider struct {
	chatClient
}

// NewOpenAIProvider creates new OpenAI provider
func NewOpenAIProvider(cfg config.ProviderConfig) *OpenAIProvider {
	apiURL := cfg.BaseURL
	if apiURL == "" {
		apiURL = openaiAPIURL
	}
	model := cfg.Model
	if model == "" {
		model = openaiDefaultModel
	}

	return &OpenAIProvider{
		chatClient: newChatClient("openai", apiURL, model, cfg.APIKey),
	}
}

func (o *OpenAIProvider) Name() string {
	return "openai"
}

func (o *OpenAIProvider) Enabled() bool {
	return o.enabled
}

func (o *OpenAIProvider) Complete(ctx context.Context, messages []models.ChatMessage) (string, error) {
	return o.complete(ctx, messages)
}

func (o *OpenAIProvider) CompleteWithTools(ctx context.Context, messages []models.ChatMessage, tools []models.ToolDef) (*models.ChatMessage, error) {
	return o.completeWithTools(ctx, messages, tools)
}
