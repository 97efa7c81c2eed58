package ai

import (
	"context"

	"github.com/selivandex/seller-bot/internal/adapters/config"
	"github.com/selivandex/seller-bot/pkg/models"
)

const (
	deepseekAPIURL       = "https://api.deepseek.com/v1/chat/completions"
	deepseekDefaultModel = "deepseek-chat"
)

// DeepSeekProvider implements Provider for DeepSeek
type DeepSeekProvider struct {
	chatClient
}

// NewDeepSeekProvider creates new DeepSeek provider
func NewDeepSeekProvider(cfg config.ProviderConfig) *DeepSeekProvider {
	apiURL := cfg.BaseURL
	if apiURL == "" {
		apiURL = deepseekAPIURL
	}
	model := cfg.Model
	if model == "" {
		model = deepseekDefaultModel
	}

	return &DeepSeekProvider{
		chatClient: newChatClient("deepseek", apiURL, model, cfg.APIKey),
	}
}

func (d *DeepSeekProvider) Name() string {
	return "deepseek"
}

func (d *DeepSeekProvider) Enabled() bool {
	return d.enabled
}

func (d *DeepSeekProvider) Complete(ctx context.Context, messages []models.ChatMessage) (string, error) {
	return d.complete(ctx, messages)
}

func (d *DeepSeekProvider) CompleteWithTools(ctx context.Context, messages []models.ChatMessage, tools []models.ToolDef) (*models.ChatMessage, error) {
	return d.completeWithTools(ctx, messages, tools)
}
