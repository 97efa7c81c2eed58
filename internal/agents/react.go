package agents

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/selivandex/seller-bot/pkg/logger"
	"github.com/selivandex/seller-bot/pkg/models"
)

// answerReact lets the model drive tool selection through function
// calling. Registry metadata goes out as JSON-schema definitions, tool
// results and tool errors come back as tool-role messages. The loop is
// capped at MaxToolCalls so a confused model cannot spin on the
// warehouse.
func (a *Agent) answerReact(ctx context.Context, chatID int64, question string, history []models.ConversationEntry) (string, []string, error) {
	messages := make([]models.ChatMessage, 0, 2*len(history)+2)
	messages = append(messages, models.ChatMessage{
		Role:    models.RoleSystem,
		Content: fmt.Sprintf(reactSystemPrompt, timeNow().UTC().Format("2006-01-02")),
	})
	messages = append(messages, historyMessages(history)...)
	messages = append(messages, models.ChatMessage{Role: models.RoleUser, Content: question})

	defs := a.registry.Definitions()
	budget := a.cfg.MaxToolCalls
	var used []string

	for {
		reply, err := a.provider.CompleteWithTools(ctx, messages, defs)
		if err != nil {
			return "", used, fmt.Errorf("completion failed: %w", err)
		}

		if len(reply.ToolCalls) == 0 {
			return reply.Content, used, nil
		}

		messages = append(messages, *reply)

		for _, call := range reply.ToolCalls {
			content, ran := a.execToolCall(ctx, chatID, call, &budget)
			if ran {
				used = append(used, call.Function.Name)
			}
			messages = append(messages, models.ChatMessage{
				Role:       models.RoleTool,
				Content:    content,
				ToolCallID: call.ID,
			})
		}

		if budget <= 0 {
			logger.Debug("react budget spent, forcing the final answer",
				zap.Int64("chat_id", chatID),
				zap.Strings("tools", used),
			)
			messages = append(messages, models.ChatMessage{Role: models.RoleUser, Content: finalAnswerPrompt})
			text, err := a.provider.Complete(ctx, messages)
			if err != nil {
				return "", used, fmt.Errorf("final completion failed: %w", err)
			}
			return text, used, nil
		}
	}
}

// execToolCall runs one requested tool. Failures become reply text so
// the model can route around a broken tool instead of the loop dying.
// The second return reports whether the tool actually executed.
func (a *Agent) execToolCall(ctx context.Context, chatID int64, call models.ToolCall, budget *int) (string, bool) {
	if *budget <= 0 {
		return "Лимит вызовов инструментов исчерпан, отвечай по уже полученным данным.", false
	}
	*budget--

	params := map[string]interface{}{}
	if call.Function.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Function.Arguments), &params); err != nil {
			logger.Warn("tool call arguments are not JSON",
				zap.String("tool", call.Function.Name),
				zap.String("arguments", truncate(call.Function.Arguments, 200)),
			)
			return fmt.Sprintf("ошибка разбора аргументов: %v", err), false
		}
	}

	result, err := a.registry.Execute(ctx, chatID, call.Function.Name, params)
	if err != nil {
		return fmt.Sprintf("ошибка инструмента: %v", err), true
	}

	if text, ok := result.(string); ok {
		return text, true
	}
	return fmt.Sprintf("%v", result), true
}
