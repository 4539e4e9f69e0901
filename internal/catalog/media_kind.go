package catalog

import (
	"fmt"
	"strings"
)

// MediaKind identifies one of the two supported content categories.
type MediaKind string

const (
	MediaKindMovie MediaKind = "movie"
	MediaKindTV    MediaKind = "tv"
)

func (k MediaKind) String() string {
	return string(k)
}

// Valid reports whether the kind is one of the two supported categories.
func (k MediaKind) Valid() bool {
	return k == MediaKindMovie || k == MediaKindTV
}

// ParseMediaKind converts a route or payload value into a MediaKind.
func ParseMediaKind(value string) (MediaKind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "movie":
		return MediaKindMovie, nil
	case "tv":
		return MediaKindTV, nil
	default:
		return "", fmt.Errorf("media kind must be %q or %q, got %q", MediaKindMovie, MediaKindTV, value)
	}
}
