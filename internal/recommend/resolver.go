package recommend

import (
	"context"
	"log/slog"
	"sync"

	"reelchat/internal/logging"
	"reelchat/internal/namecache"
)

// Resolver turns person and keyword names into catalog ids, consulting the
// optional name cache before issuing a search. Names resolve concurrently and
// a failed lookup never poisons its siblings.
type Resolver struct {
	catalog Catalog
	cache   *namecache.Cache
	logger  *slog.Logger
}

func newResolver(cat Catalog, logger *slog.Logger) *Resolver {
	return &Resolver{catalog: cat, logger: logger}
}

// ResolvePersons maps actor names to person ids, preserving input order.
// Names that fail to resolve are dropped.
func (r *Resolver) ResolvePersons(ctx context.Context, names []string, language string) []int64 {
	return r.resolve(ctx, namecache.KindPerson, names, func(ctx context.Context, name string) (int64, bool) {
		results, err := r.catalog.SearchPerson(ctx, name, language)
		if err != nil {
			r.logger.Warn("person lookup failed",
				logging.Error(err),
				logging.String("name", name),
				logging.String(logging.FieldImpact, "cast filter omits this person"))
			return 0, false
		}
		if len(results) == 0 {
			return 0, false
		}
		return results[0].ID, true
	})
}

// ResolveKeywords maps plot keywords to keyword ids, preserving input order.
func (r *Resolver) ResolveKeywords(ctx context.Context, names []string) []int64 {
	return r.resolve(ctx, namecache.KindKeyword, names, func(ctx context.Context, name string) (int64, bool) {
		results, err := r.catalog.SearchKeyword(ctx, name)
		if err != nil {
			r.logger.Warn("keyword lookup failed",
				logging.Error(err),
				logging.String("name", name),
				logging.String(logging.FieldImpact, "keyword filter omits this term"))
			return 0, false
		}
		if len(results) == 0 {
			return 0, false
		}
		return results[0].ID, true
	})
}

func (r *Resolver) resolve(ctx context.Context, kind namecache.EntityKind, names []string, lookup func(context.Context, string) (int64, bool)) []int64 {
	if len(names) == 0 {
		return nil
	}
	resolved := make([]int64, len(names))
	found := make([]bool, len(names))
	var wg sync.WaitGroup
	for i, name := range names {
		if r.cache != nil {
			if id, ok := r.cache.Lookup(kind, name); ok {
				resolved[i] = id
				found[i] = true
				continue
			}
		}
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			id, ok := lookup(ctx, name)
			if !ok {
				return
			}
			resolved[i] = id
			found[i] = true
			if r.cache != nil {
				if err := r.cache.Store(kind, name, id); err != nil {
					r.logger.Debug("name cache store failed", logging.Error(err))
				}
			}
		}(i, name)
	}
	wg.Wait()

	ids := make([]int64, 0, len(names))
	for i := range names {
		if found[i] {
			ids = append(ids, resolved[i])
		}
	}
	return ids
}
