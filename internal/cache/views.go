package cache

import "context"

// Key scheme for cached public view payloads. Rendered package content is
// identical for every authorized viewer, so entries are keyed by slug only.
const viewKeyPrefix = "view:"

// ViewKey returns the cache key for a package's rendered public view.
func ViewKey(slug string) string {
	return viewKeyPrefix + slug
}

// InvalidateView drops the cached view for one package slug.
func InvalidateView(ctx context.Context, c Cache, slug string) error {
	return c.Delete(ctx, ViewKey(slug))
}

// InvalidateAllViews drops every cached public view. Used after bulk
// operations such as demo seeding.
func InvalidateAllViews(ctx context.Context, c Cache) error {
	return c.DeleteByPrefix(ctx, viewKeyPrefix)
}
