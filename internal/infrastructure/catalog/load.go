package catalog

import (
	"context"
	"fmt"
)

// Load opens the catalog named by source ("builtin", "yaml" or "sqlite").
// path is ignored for the builtin catalog.
func Load(ctx context.Context, source, path string) (*Static, error) {
	switch source {
	case "", "builtin":
		return Builtin(), nil
	case "yaml":
		return LoadYAML(path)
	case "sqlite":
		return LoadSQLite(ctx, path)
	default:
		return nil, fmt.Errorf("unknown catalog source %q", source)
	}
}
