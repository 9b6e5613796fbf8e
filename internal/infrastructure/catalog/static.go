package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/earlybirddelivery/EARLYAPP-sub001/internal/domain"
)

// Static is an in-memory catalog loaded once and shared read-only.
type Static struct {
	entries []domain.CatalogEntry
}

var _ domain.CatalogRepository = (*Static)(nil)

// NewStatic validates entries and wraps them in a repository. The slice is
// copied so later changes by the caller are not observed.
func NewStatic(entries []domain.CatalogEntry) (*Static, error) {
	copied := append([]domain.CatalogEntry(nil), entries...)
	if err := validate(copied); err != nil {
		return nil, err
	}
	return &Static{entries: copied}, nil
}

// List returns the catalog in load order. Callers must not modify it.
func (s *Static) List(ctx context.Context) ([]domain.CatalogEntry, error) {
	return s.entries, nil
}

// Len returns the number of entries.
func (s *Static) Len() int {
	return len(s.entries)
}

// validate rejects entries without an id or name and duplicate ids, and
// drops blank aliases since an empty name would contain every input.
func validate(entries []domain.CatalogEntry) error {
	seen := make(map[string]bool, len(entries))
	for i := range entries {
		e := &entries[i]
		if strings.TrimSpace(e.ID) == "" {
			return fmt.Errorf("%w: entry %d has no id", domain.ErrInvalidCatalog, i)
		}
		if strings.TrimSpace(e.CanonicalName) == "" {
			return fmt.Errorf("%w: entry %s has no name", domain.ErrInvalidCatalog, e.ID)
		}
		if seen[e.ID] {
			return fmt.Errorf("%w: duplicate id %s", domain.ErrInvalidCatalog, e.ID)
		}
		seen[e.ID] = true

		aliases := e.Aliases[:0:0]
		for _, alias := range e.Aliases {
			if strings.TrimSpace(alias) != "" {
				aliases = append(aliases, alias)
			}
		}
		e.Aliases = aliases
	}
	return nil
}
