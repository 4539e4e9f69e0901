package recommend

import (
	"context"

	"reelchat/internal/logging"
	"reelchat/internal/services/llm"
)

// synthesize asks the model for discovery parameters and post-processes the
// result: name fields become numeric id filters and are removed from the
// query. Any model or parse failure yields an empty query, which downstream
// turns into an unfiltered discovery call.
func (e *Engine) synthesize(ctx context.Context, message string, intent Intent) StructuredQuery {
	kind := intent.MediaKind()
	content, err := e.chat.Complete(ctx, llm.Request{
		System:    synthesisPrompt(kind, e.genrePromptLines(kind)),
		Messages:  []llm.Message{{Role: "user", Content: message}},
		JSONOnly:  true,
		MaxTokens: 512,
	})
	if err != nil {
		e.logger.Warn("query synthesis failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "discovering without filters"))
		return StructuredQuery{}
	}
	query, err := ParseModelQuery(content)
	if err != nil {
		e.logger.Warn("query synthesis returned unparseable payload",
			logging.Error(err),
			logging.String(logging.FieldImpact, "discovering without filters"))
		return StructuredQuery{}
	}
	e.resolveNameFields(ctx, query)
	return query
}

func (e *Engine) resolveNameFields(ctx context.Context, query StructuredQuery) {
	if raw, ok := query[FieldCastNames]; ok {
		delete(query, FieldCastNames)
		if ids := e.resolver.ResolvePersons(ctx, splitNames(raw), query[FieldLanguage]); len(ids) > 0 {
			query[FieldWithCast] = joinIDs(ids, ",")
		}
	}
	if raw, ok := query[FieldKeywordNames]; ok {
		delete(query, FieldKeywordNames)
		ids := e.resolver.ResolveKeywords(ctx, splitNames(raw))
		if merged := mergeIDList(query[FieldWithKeywords], ids); merged != "" {
			query[FieldWithKeywords] = merged
		}
	}
}
