// Package catalog provides the TMDB client used by the recommendation
// pipeline: genre taxonomies, person and keyword search, filterable discovery
// per media kind, and single-title detail lookups with credits attached.
package catalog
