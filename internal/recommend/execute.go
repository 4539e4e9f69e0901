package recommend

import (
	"context"
	"net/url"
	"strings"

	"golang.org/x/text/language"

	"reelchat/internal/catalog"
	"reelchat/internal/logging"
)

const defaultResponseLanguage = "en-US"

// execute turns the structured query into a discovery request. Only
// allow-listed fields are forwarded; empty values and unknown keys are
// dropped. A transport failure yields an empty item set so the turn can
// still produce a response.
func (e *Engine) execute(ctx context.Context, query StructuredQuery, intent Intent) []catalog.Item {
	kind := intent.MediaKind()
	params := url.Values{}
	for field, value := range query {
		remote, allowed := discoverParamAllowList[field]
		if !allowed {
			e.logger.Debug("dropping unrecognized query field",
				logging.String("field", field))
			continue
		}
		if value = strings.TrimSpace(value); value == "" {
			continue
		}
		if remote == "language" {
			value = normalizeLocale(value)
		}
		params.Set(remote, value)
	}
	if params.Get("language") == "" {
		params.Set("language", defaultResponseLanguage)
	}

	resp, err := e.catalog.Discover(ctx, kind, params)
	if err != nil {
		e.logger.Error("discovery request failed",
			logging.Error(err),
			logging.String(logging.FieldMediaKind, string(kind)),
			logging.String(logging.FieldImpact, "responding without catalog results"))
		return nil
	}
	return resp.Results
}

// normalizeLocale canonicalizes a model-emitted locale tag, falling back to
// the default response language when it does not parse.
func normalizeLocale(value string) string {
	tag, err := language.Parse(value)
	if err != nil {
		return defaultResponseLanguage
	}
	return tag.String()
}
