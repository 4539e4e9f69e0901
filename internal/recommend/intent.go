package recommend

import (
	"context"
	"strings"

	"reelchat/internal/catalog"
	"reelchat/internal/logging"
	"reelchat/internal/services/llm"
)

// Intent is the coarse routing decision for a user message.
type Intent string

const (
	IntentMovie Intent = "movie"
	IntentTV    Intent = "tv"
	IntentOther Intent = "other"
)

// MediaKind maps a recommendation intent onto its catalog taxonomy.
func (i Intent) MediaKind() catalog.MediaKind {
	if i == IntentTV {
		return catalog.MediaKindTV
	}
	return catalog.MediaKindMovie
}

func (e *Engine) classify(ctx context.Context, message string) Intent {
	content, err := e.chat.Complete(ctx, llm.Request{
		System:    intentClassificationPrompt,
		Messages:  []llm.Message{{Role: "user", Content: message}},
		MaxTokens: 8,
	})
	if err != nil {
		e.logger.Warn("intent classification failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "falling back to general conversation"))
		return IntentOther
	}
	return parseIntent(content)
}

// parseIntent normalizes a model completion down to one of the three intent
// labels. Anything that does not clearly name a label reads as other.
func parseIntent(content string) Intent {
	label := strings.ToLower(strings.TrimSpace(content))
	label = strings.Trim(label, "\"'`.,!: \t\r\n")
	switch label {
	case "movie", "movies", "film":
		return IntentMovie
	case "tv", "tv show", "tv shows", "show", "series":
		return IntentTV
	}
	switch {
	case strings.Contains(label, "movie"):
		return IntentMovie
	case strings.Contains(label, "tv") || strings.Contains(label, "series"):
		return IntentTV
	}
	return IntentOther
}
