package domain

import (
	"context"
	"time"
)

// CatalogRepository provides the product catalog. Implementations load the
// catalog once; the returned slice must be treated as read-only.
type CatalogRepository interface {
	List(ctx context.Context) ([]CatalogEntry, error)
}

// SessionStore keeps match sessions between requests.
type SessionStore interface {
	Get(ctx context.Context, id string) (*MatchSession, error)
	Set(ctx context.Context, session *MatchSession, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

// CatalogMatchingService maps one extracted item to the catalog. The
// implementation is chosen once at startup and injected where matching runs.
type CatalogMatchingService interface {
	Match(item ExtractedItem, catalog []CatalogEntry, threshold float64) MatchResult
}
