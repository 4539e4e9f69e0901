// Package namecache persists resolved person and keyword name-to-id mappings
// between runs. The catalog's identifiers for a given name are stable, so a
// hit here saves one remote search per name per request.
//
// The cache is a JSON file rewritten atomically on every store. When no path
// is configured all operations become no-ops and every name is resolved
// remotely.
package namecache
