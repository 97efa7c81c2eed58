package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/selivandex/seller-bot/pkg/logger"
	"github.com/selivandex/seller-bot/pkg/metrics"
	"github.com/selivandex/seller-bot/pkg/models"
)

const (
	requestTimeout = 30 * time.Second

	// Analytics answers must stay anchored to tool output, so hold the
	// temperature down
	temperature = 0.2
	maxTokens   = 1200
)

// chatClient is a raw HTTP client for OpenAI-compatible completion APIs
type chatClient struct {
	name    string
	apiURL  string
	model   string
	apiKey  string
	enabled bool
	client  *http.Client
}

func newChatClient(name, apiURL, model, apiKey string) chatClient {
	return chatClient{
		name:    name,
		apiURL:  apiURL,
		model:   model,
		apiKey:  apiKey,
		enabled: apiKey != "",
		client: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

func (c *chatClient) complete(ctx context.Context, messages []models.ChatMessage) (string, error) {
	msg, err := c.send(ctx, map[string]interface{}{
		"model":       c.model,
		"messages":    messages,
		"temperature": temperature,
		"max_tokens":  maxTokens,
	})
	if err != nil {
		return "", err
	}
	return msg.Content, nil
}

func (c *chatClient) completeWithTools(ctx context.Context, messages []models.ChatMessage, tools []models.ToolDef) (*models.ChatMessage, error) {
	return c.send(ctx, map[string]interface{}{
		"model":       c.model,
		"messages":    messages,
		"tools":       tools,
		"tool_choice": "auto",
		"temperature": temperature,
		"max_tokens":  maxTokens,
	})
}

func (c *chatClient) send(ctx context.Context, reqBody map[string]interface{}) (*models.ChatMessage, error) {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))

	startTime := time.Now()
	resp, err := c.client.Do(req)
	latency := time.Since(startTime)

	metrics.LLMLatency.WithLabelValues(c.name).Observe(latency.Seconds())

	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(c.name, "error").Inc()
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.LLMRequestsTotal.WithLabelValues(c.name, "error").Inc()
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		Choices []struct {
			Message models.ChatMessage `json:"message"`
		} `json:"choices"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(c.name, "error").Inc()
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Choices) == 0 {
		metrics.LLMRequestsTotal.WithLabelValues(c.name, "error").Inc()
		return nil, fmt.Errorf("no choices in response")
	}

	metrics.LLMRequestsTotal.WithLabelValues(c.name, "ok").Inc()

	message := result.Choices[0].Message

	logger.Debug("llm response",
		zap.String("provider", c.name),
		zap.Duration("latency", latency),
		zap.Int("tool_calls", len(message.ToolCalls)),
	)

	return &message, nil
}
