package catalog

import "strings"

// mediaTypeKey is the attribute stamped onto discovery results: TMDB does not
// label items per-kind in discover responses.
const mediaTypeKey = "media_type"

// Item is a single catalog record. Discovery payloads vary by media kind and
// are forwarded to the UI untouched, so the record stays schemaless and only
// the media kind is stamped locally.
type Item map[string]any

// StampMediaType records the media kind on the item, overwriting any value
// the catalog may have supplied.
func (i Item) StampMediaType(kind MediaKind) {
	if i == nil {
		return
	}
	i[mediaTypeKey] = kind.String()
}

// MediaType returns the stamped media kind, or empty when unstamped.
func (i Item) MediaType() string {
	return i.stringValue(mediaTypeKey)
}

// ID returns the catalog identifier, or 0 when absent.
func (i Item) ID() int64 {
	return int64(i.floatValue("id"))
}

// Title returns the movie title or series name.
func (i Item) Title() string {
	if title := i.stringValue("title"); title != "" {
		return title
	}
	return i.stringValue("name")
}

// ReleaseDate returns the movie release date or series first-air date.
func (i Item) ReleaseDate() string {
	if date := i.stringValue("release_date"); date != "" {
		return date
	}
	return i.stringValue("first_air_date")
}

// Overview returns the catalog synopsis.
func (i Item) Overview() string {
	return i.stringValue("overview")
}

// VoteAverage returns the catalog rating, or 0 when absent.
func (i Item) VoteAverage() float64 {
	return i.floatValue("vote_average")
}

// VoteCount returns the number of catalog votes, or 0 when absent.
func (i Item) VoteCount() int64 {
	return int64(i.floatValue("vote_count"))
}

// Popularity returns the catalog popularity score, or 0 when absent.
func (i Item) Popularity() float64 {
	return i.floatValue("popularity")
}

func (i Item) stringValue(key string) string {
	if i == nil {
		return ""
	}
	value, ok := i[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(value)
}

func (i Item) floatValue(key string) float64 {
	if i == nil {
		return 0
	}
	switch value := i[key].(type) {
	case float64:
		return value
	case int64:
		return float64(value)
	case int:
		return float64(value)
	default:
		return 0
	}
}
