// Package ai holds LLM chat-completion providers. All providers speak
// the OpenAI wire protocol; the reasoning layer depends only on the
// Provider interface.
package ai

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/selivandex/seller-bot/pkg/logger"
	"github.com/selivandex/seller-bot/pkg/models"
)

// Provider represents an LLM backend
type Provider interface {
	// Name returns provider name for logging and metrics
	Name() string

	// Enabled returns whether provider is configured
	Enabled() bool

	// Complete runs a plain chat completion and returns the text
	Complete(ctx context.Context, messages []models.ChatMessage) (string, error)

	// CompleteWithTools runs a completion with function-calling enabled
	// and returns the raw assistant message, tool calls included
	CompleteWithTools(ctx context.Context, messages []models.ChatMessage, tools []models.ToolDef) (*models.ChatMessage, error)
}

// Failover tries providers in order until one answers. A dead primary
// degrades latency, not availability.
type Failover struct {
	providers []Provider
}

// NewFailover creates a failover chain from the enabled providers
func NewFailover(providers ...Provider) *Failover {
	enabled := make([]Provider, 0, len(providers))
	for _, p := range providers {
		if p.Enabled() {
			enabled = append(enabled, p)
		}
	}

	return &Failover{providers: enabled}
}

func (f *Failover) Name() string {
	return "failover"
}

func (f *Failover) Enabled() bool {
	return len(f.providers) > 0
}

// Providers returns the enabled chain, primary first
func (f *Failover) Providers() []Provider {
	return f.providers
}

func (f *Failover) Complete(ctx context.Context, messages []models.ChatMessage) (string, error) {
	var lastErr error
	for _, p := range f.providers {
		text, err := p.Complete(ctx, messages)
		if err != nil {
			lastErr = err
			logger.Warn("llm provider failed, trying next",
				zap.String("provider", p.Name()),
				zap.Error(err),
			)
			continue
		}
		return text, nil
	}

	if lastErr == nil {
		return "", fmt.Errorf("no llm providers configured")
	}
	return "", fmt.Errorf("all llm providers failed: %w", lastErr)
}

func (f *Failover) CompleteWithTools(ctx context.Context, messages []models.ChatMessage, tools []models.ToolDef) (*models.ChatMessage, error) {
	var lastErr error
	for _, p := range f.providers {
		msg, err := p.CompleteWithTools(ctx, messages, tools)
		if err != nil {
			lastErr = err
			logger.Warn("llm provider failed, trying next",
				zap.String("provider", p.Name()),
				zap.Error(err),
			)
			continue
		}
		return msg, nil
	}

	if lastErr == nil {
		return nil, fmt.Errorf("no llm providers configured")
	}
	return nil, fmt.Errorf("all llm providers failed: %w", lastErr)
}
