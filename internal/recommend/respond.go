package recommend

import (
	"context"
	"strings"

	"reelchat/internal/logging"
	"reelchat/internal/services/llm"
)

// generalRespond handles non-recommendation turns by passing the whole
// conversation to the model. A model failure degrades to a fixed apology.
func (e *Engine) generalRespond(ctx context.Context, messages []Message) string {
	history := make([]llm.Message, 0, len(messages))
	for _, msg := range messages {
		role := "user"
		if strings.EqualFold(msg.Role, "assistant") {
			role = "assistant"
		}
		history = append(history, llm.Message{Role: role, Content: msg.Text})
	}
	content, err := e.chat.Complete(ctx, llm.Request{
		System:      generalAssistantPrompt,
		Messages:    history,
		Temperature: 0.7,
		MaxTokens:   512,
	})
	if err != nil {
		e.logger.Warn("general response failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "serving fixed apology text"))
		return generalApology
	}
	if content = strings.TrimSpace(content); content == "" {
		return generalApology
	}
	return content
}
