package recommend

import (
	"context"
	"fmt"
	"strings"

	"reelchat/internal/catalog"
	"reelchat/internal/logging"
	"reelchat/internal/services/llm"
)

// summaryItemLimit caps how many retrieved titles are surfaced to the model.
const summaryItemLimit = 5

const summaryApology = "Sorry, I couldn't put together a recommendation just now. Please try again."

const generalApology = "Sorry, I'm having trouble responding right now. Please try again."

// summarize grounds a conversational reply in the retrieved titles. An empty
// result set short-circuits to a fixed message without a model call, and a
// model failure degrades to a fixed apology.
func (e *Engine) summarize(ctx context.Context, message string, items []catalog.Item, intent Intent) string {
	kind := intent.MediaKind()
	if len(items) == 0 {
		return noMatchesMessage(kind)
	}
	content, err := e.chat.Complete(ctx, llm.Request{
		System: resultSummaryPrompt,
		Messages: []llm.Message{
			{Role: "user", Content: summaryInput(message, items)},
		},
		Temperature: 0.7,
		MaxTokens:   512,
	})
	if err != nil {
		e.logger.Warn("summary generation failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "serving fixed apology text"))
		return summaryApology
	}
	if content = strings.TrimSpace(content); content == "" {
		return summaryApology
	}
	return content
}

func noMatchesMessage(kind catalog.MediaKind) string {
	subject := "movies"
	if kind == catalog.MediaKindTV {
		subject = "TV shows"
	}
	return fmt.Sprintf("I couldn't find any %s matching that request. Try loosening a constraint, like the year range or minimum rating.", subject)
}

func summaryInput(message string, items []catalog.Item) string {
	var b strings.Builder
	b.WriteString("User request: ")
	b.WriteString(message)
	b.WriteString("\n\nMatching titles:\n")
	limit := len(items)
	if limit > summaryItemLimit {
		limit = summaryItemLimit
	}
	for _, item := range items[:limit] {
		b.WriteString("- ")
		b.WriteString(item.Title())
		if date := item.ReleaseDate(); len(date) >= 4 {
			fmt.Fprintf(&b, " (%s)", date[:4])
		}
		if rating := item.VoteAverage(); rating > 0 {
			fmt.Fprintf(&b, ", rated %.1f", rating)
		}
		if overview := item.Overview(); overview != "" {
			b.WriteString(": ")
			b.WriteString(overview)
		}
		b.WriteString("\n")
	}
	return b.String()
}
