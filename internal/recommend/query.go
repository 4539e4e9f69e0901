package recommend

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"reelchat/internal/services/llm"
)

// StructuredQuery holds the synthesized discovery parameters as flat string
// pairs. Keys use internal field names; the executor maps them onto remote
// parameter names through a fixed allow-list.
type StructuredQuery map[string]string

// Internal query field names the synthesizer is allowed to emit.
const (
	FieldQuery            = "query"
	FieldWithGenres       = "with_genres"
	FieldWithKeywords     = "with_keywords"
	FieldWithCast         = "with_cast"
	FieldSortBy           = "sort_by"
	FieldOriginalLanguage = "with_original_language"
	FieldLanguage         = "language"

	FieldReleaseDateGTE  = "primary_release_date_gte"
	FieldReleaseDateLTE  = "primary_release_date_lte"
	FieldFirstAirDateGTE = "first_air_date_gte"
	FieldFirstAirDateLTE = "first_air_date_lte"
	FieldVoteAverageGTE  = "vote_average_gte"
	FieldVoteAverageLTE  = "vote_average_lte"
	FieldVoteCountGTE    = "vote_count_gte"
	FieldRuntimeGTE      = "with_runtime_gte"
	FieldRuntimeLTE      = "with_runtime_lte"

	// Name fields are resolved to numeric ids during synthesis and never
	// reach the executor.
	FieldCastNames    = "cast_names"
	FieldKeywordNames = "keyword_names"
)

// discoverParamAllowList maps internal field names onto the remote discovery
// parameter names. Fields absent from this table are dropped before any
// request leaves the process.
var discoverParamAllowList = map[string]string{
	FieldQuery:            "query",
	FieldWithGenres:       "with_genres",
	FieldWithKeywords:     "with_keywords",
	FieldWithCast:         "with_cast",
	FieldSortBy:           "sort_by",
	FieldOriginalLanguage: "with_original_language",
	FieldLanguage:         "language",
	FieldReleaseDateGTE:   "primary_release_date.gte",
	FieldReleaseDateLTE:   "primary_release_date.lte",
	FieldFirstAirDateGTE:  "first_air_date.gte",
	FieldFirstAirDateLTE:  "first_air_date.lte",
	FieldVoteAverageGTE:   "vote_average.gte",
	FieldVoteAverageLTE:   "vote_average.lte",
	FieldVoteCountGTE:     "vote_count.gte",
	FieldRuntimeGTE:       "with_runtime.gte",
	FieldRuntimeLTE:       "with_runtime.lte",
}

// ParseModelQuery decodes a model completion into a structured query,
// tolerating the formatting quirks of chat-tuned models. Non-scalar values
// are flattened where possible and dropped otherwise.
func ParseModelQuery(payload string) (StructuredQuery, error) {
	var raw map[string]any
	if err := llm.DecodeLLMJSON(payload, &raw); err != nil {
		return nil, err
	}
	query := make(StructuredQuery, len(raw))
	for key, value := range raw {
		text, ok := stringifyQueryValue(value)
		if !ok {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			query[strings.TrimSpace(key)] = text
		}
	}
	return query, nil
}

func stringifyQueryValue(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	case []any:
		parts := make([]string, 0, len(v))
		for _, element := range v {
			text, ok := stringifyQueryValue(element)
			if !ok {
				return "", false
			}
			if text = strings.TrimSpace(text); text != "" {
				parts = append(parts, text)
			}
		}
		return strings.Join(parts, ","), len(parts) > 0
	default:
		return "", false
	}
}

// splitNames breaks a model-provided name list on commas, trimming blanks.
func splitNames(raw string) []string {
	parts := strings.Split(raw, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			names = append(names, part)
		}
	}
	return names
}

func joinIDs(ids []int64, separator string) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, separator)
}

// mergeIDList folds resolved ids into an existing pipe-separated id list,
// preserving order and dropping duplicates. Comma separators in the existing
// value are tolerated since models occasionally emit them.
func mergeIDList(existing string, ids []int64) string {
	seen := make(map[string]struct{})
	var merged []string
	appendID := func(id string) {
		if id == "" {
			return
		}
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		merged = append(merged, id)
	}
	for _, part := range strings.FieldsFunc(existing, func(r rune) bool { return r == '|' || r == ',' }) {
		appendID(strings.TrimSpace(part))
	}
	for _, id := range ids {
		appendID(strconv.FormatInt(id, 10))
	}
	return strings.Join(merged, "|")
}

// String renders the query for logs and audit rows.
func (q StructuredQuery) String() string {
	if len(q) == 0 {
		return "{}"
	}
	keys := make([]string, 0, len(q))
	for key := range q {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", key, q[key]))
	}
	return "{" + strings.Join(parts, " ") + "}"
}
