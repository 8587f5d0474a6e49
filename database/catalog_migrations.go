package database

import (
	"fmt"

	"catalogserver/normalization"
)

// Миграции схемы каталога. Выполняются при каждом открытии базы,
// все выражения идемпотентны.
var catalogMigrations = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id    INTEGER PRIMARY KEY AUTOINCREMENT,
		name  TEXT NOT NULL UNIQUE,
		slug  TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id                INTEGER PRIMARY KEY AUTOINCREMENT,
		sku               TEXT NOT NULL UNIQUE,
		name              TEXT NOT NULL,
		slug              TEXT NOT NULL DEFAULT '',
		price             REAL NOT NULL DEFAULT 0,
		original_price    REAL NOT NULL DEFAULT 0,
		currency          TEXT NOT NULL DEFAULT '',
		description       TEXT NOT NULL DEFAULT '',
		short_description TEXT NOT NULL DEFAULT '',
		image_url         TEXT NOT NULL DEFAULT '',
		category_id       INTEGER REFERENCES categories(id),
		is_active         INTEGER NOT NULL DEFAULT 1,
		stock             INTEGER NOT NULL DEFAULT 0,
		tag               TEXT NOT NULL DEFAULT '',
		specs             TEXT NOT NULL DEFAULT '',
		search_keywords   TEXT NOT NULL DEFAULT '',
		created_at        TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at        TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id)`,
	`CREATE INDEX IF NOT EXISTS idx_products_slug ON products(slug)`,
	`CREATE TABLE IF NOT EXISTS import_runs (
		id                TEXT PRIMARY KEY,
		filename          TEXT NOT NULL DEFAULT '',
		format            TEXT NOT NULL DEFAULT '',
		total             INTEGER NOT NULL DEFAULT 0,
		accepted          INTEGER NOT NULL DEFAULT 0,
		skipped           INTEGER NOT NULL DEFAULT 0,
		encoding          TEXT NOT NULL DEFAULT '',
		encoding_fallback INTEGER NOT NULL DEFAULT 0,
		started           TIMESTAMP,
		completed         TIMESTAMP,
		created_at        TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_import_runs_started ON import_runs(started)`,
}

// migrate применяет миграции схемы каталога.
func (db *CatalogDB) migrate() error {
	db.migrationMutex.Lock()
	defer db.migrationMutex.Unlock()

	for i, stmt := range catalogMigrations {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}

// slugForCategory строит слаг категории тем же генератором, что и для
// товаров, чтобы адреса каталога были единообразными.
func slugForCategory(name string) string {
	return normalization.Slugify(name)
}
