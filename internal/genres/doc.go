// Package genres maintains the process-wide genre directory: a lowercase
// genre-name to catalog-id mapping for both taxonomies, refreshed on a fixed
// interval and swapped in as a complete snapshot. A failed refresh keeps the
// previous snapshot; a stale directory is preferred over an empty one.
package genres
