package catalog

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/earlybirddelivery/EARLYAPP-sub001/internal/domain"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS catalog_entries (
	id                  TEXT PRIMARY KEY,
	name                TEXT NOT NULL,
	unit_price          REAL NOT NULL DEFAULT 0,
	price_per_base_unit REAL NOT NULL DEFAULT 0,
	category            TEXT NOT NULL DEFAULT '',
	position            INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS catalog_aliases (
	entry_id TEXT NOT NULL REFERENCES catalog_entries(id),
	alias    TEXT NOT NULL,
	position INTEGER NOT NULL
);`

// LoadSQLite reads the whole catalog from a SQLite database once. Entries
// keep the order of their position column, which first-candidate matching
// depends on.
func LoadSQLite(ctx context.Context, path string) (*Static, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog db %s: %w", path, err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
		SELECT id, name, unit_price, price_per_base_unit, category
		FROM catalog_entries
		ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("%w: query entries: %v", domain.ErrCatalogUnavailable, err)
	}

	var entries []domain.CatalogEntry
	index := make(map[string]int)
	for rows.Next() {
		var e domain.CatalogEntry
		if err := rows.Scan(&e.ID, &e.CanonicalName, &e.UnitPrice, &e.PricePerBaseUnit, &e.Category); err != nil {
			rows.Close()
			return nil, fmt.Errorf("%w: scan entry: %v", domain.ErrCatalogUnavailable, err)
		}
		index[e.ID] = len(entries)
		entries = append(entries, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	aliasRows, err := db.QueryContext(ctx, `
		SELECT entry_id, alias FROM catalog_aliases ORDER BY entry_id, position`)
	if err != nil {
		return nil, fmt.Errorf("%w: query aliases: %v", domain.ErrCatalogUnavailable, err)
	}
	defer aliasRows.Close()

	for aliasRows.Next() {
		var entryID, alias string
		if err := aliasRows.Scan(&entryID, &alias); err != nil {
			return nil, fmt.Errorf("%w: scan alias: %v", domain.ErrCatalogUnavailable, err)
		}
		i, ok := index[entryID]
		if !ok {
			continue
		}
		entries[i].Aliases = append(entries[i].Aliases, alias)
	}
	if err := aliasRows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	return NewStatic(entries)
}

// SeedSQLite creates the catalog schema in path and writes entries into it,
// replacing any existing rows.
func SeedSQLite(ctx context.Context, path string, entries []domain.CatalogEntry) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open catalog db %s: %w", path, err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM catalog_aliases`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM catalog_entries`); err != nil {
		return err
	}

	for pos, e := range entries {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO catalog_entries (id, name, unit_price, price_per_base_unit, category, position)
			VALUES (?, ?, ?, ?, ?, ?)`,
			e.ID, e.CanonicalName, e.UnitPrice, e.PricePerBaseUnit, e.Category, pos); err != nil {
			return fmt.Errorf("insert entry %s: %w", e.ID, err)
		}
		for aliasPos, alias := range e.Aliases {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO catalog_aliases (entry_id, alias, position) VALUES (?, ?, ?)`,
				e.ID, alias, aliasPos); err != nil {
				return fmt.Errorf("insert alias for %s: %w", e.ID, err)
			}
		}
	}

	return tx.Commit()
}
