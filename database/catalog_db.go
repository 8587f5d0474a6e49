package database

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"catalogserver/importer"
)

// DBConfig конфигурация подключения к БД каталога.
type DBConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// CatalogDB обертка для работы с базой каталога товаров.
type CatalogDB struct {
	conn           *sql.DB
	migrationMutex sync.Mutex // Защита DDL от параллельных запусков
}

// Product запись товара в каталоге.
type Product struct {
	ID               int       `json:"id"`
	SKU              string    `json:"sku"`
	Name             string    `json:"name"`
	Slug             string    `json:"slug"`
	Price            float64   `json:"price"`
	OriginalPrice    float64   `json:"original_price,omitempty"`
	Currency         string    `json:"currency,omitempty"`
	Description      string    `json:"description,omitempty"`
	ShortDescription string    `json:"short_description,omitempty"`
	ImageURL         string    `json:"image_url,omitempty"`
	CategoryID       *int      `json:"category_id,omitempty"`
	IsActive         bool      `json:"is_active"`
	Stock            int       `json:"stock"`
	Tag              string    `json:"tag,omitempty"`
	Specs            string    `json:"specs,omitempty"`
	SearchKeywords   string    `json:"search_keywords,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Category категория каталога.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ImportRun сохраненная сводка одного прогона импорта.
type ImportRun struct {
	ID               string    `json:"id"`
	Filename         string    `json:"filename"`
	Format           string    `json:"format"`
	Total            int       `json:"total"`
	Accepted         int       `json:"accepted"`
	Skipped          int       `json:"skipped"`
	Encoding         string    `json:"encoding,omitempty"`
	EncodingFallback bool      `json:"encoding_fallback"`
	Started          time.Time `json:"started"`
	Completed        time.Time `json:"completed"`
}

// NewCatalogDB открывает базу каталога и применяет миграции.
func NewCatalogDB(path string, config DBConfig) (*CatalogDB, error) {
	conn, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}

	if config.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(config.MaxOpenConns)
	}
	if config.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(config.MaxIdleConns)
	}
	if config.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(config.ConnMaxLifetime)
	}

	db := &CatalogDB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to migrate catalog database: %w", err)
	}

	return db, nil
}

// Close закрывает подключение к базе.
func (db *CatalogDB) Close() error {
	return db.conn.Close()
}

// FindOrCreateCategory возвращает идентификатор категории по имени,
// создавая ее при необходимости. Привязка categoryName -> categoryId
// выполняется здесь, а не в конвейере импорта.
func (db *CatalogDB) FindOrCreateCategory(name string) (int, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("category name is empty")
	}

	var id int
	err := db.conn.QueryRow("SELECT id FROM categories WHERE name = ?", name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to look up category: %w", err)
	}

	res, err := db.conn.Exec(
		"INSERT INTO categories (name, slug) VALUES (?, ?)",
		name, slugForCategory(name),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create category %q: %w", name, err)
	}
	newID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get category id: %w", err)
	}
	return int(newID), nil
}

// SaveProducts сохраняет принятые товары одной транзакцией. Товар с уже
// известным артикулом обновляется, новый вставляется. Возвращает число
// вставленных и обновленных записей.
func (db *CatalogDB) SaveProducts(products []importer.NormalizedProduct) (inserted, updated int, err error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	// Карта категорий живет в пределах одного сохранения: импорты
	// независимы и не делят состояние.
	categoryCache := make(map[string]int)

	upsert, err := tx.Prepare(`
		INSERT INTO products (
			sku, name, slug, price, original_price, currency,
			description, short_description, image_url, category_id,
			is_active, stock, tag, specs, search_keywords, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(sku) DO UPDATE SET
			name = excluded.name,
			slug = excluded.slug,
			price = excluded.price,
			original_price = excluded.original_price,
			currency = excluded.currency,
			description = excluded.description,
			short_description = excluded.short_description,
			image_url = excluded.image_url,
			category_id = excluded.category_id,
			is_active = excluded.is_active,
			stock = excluded.stock,
			tag = excluded.tag,
			specs = excluded.specs,
			search_keywords = excluded.search_keywords,
			updated_at = CURRENT_TIMESTAMP`)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer upsert.Close()

	for _, p := range products {
		var categoryID interface{}
		if p.CategoryName != "" {
			id, ok := categoryCache[p.CategoryName]
			if !ok {
				id, err = db.findOrCreateCategoryTx(tx, p.CategoryName)
				if err != nil {
					log.Printf("Failed to resolve category %q: %v", p.CategoryName, err)
					err = nil
				} else {
					categoryCache[p.CategoryName] = id
					ok = true
				}
			}
			if ok {
				categoryID = id
			}
		}

		var exists int
		if scanErr := tx.QueryRow("SELECT COUNT(*) FROM products WHERE sku = ?", p.SKU).Scan(&exists); scanErr == nil && exists > 0 {
			updated++
		} else {
			inserted++
		}

		if _, err = upsert.Exec(
			p.SKU, p.Name, p.Slug, p.Price, p.OriginalPrice, p.Currency,
			p.Description, p.ShortDescription, p.ImageURL, categoryID,
			p.IsActive, p.Stock, p.Tag, p.Specs, p.SearchKeywords,
		); err != nil {
			return 0, 0, fmt.Errorf("failed to save product %q: %w", p.SKU, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("failed to commit: %w", err)
	}
	return inserted, updated, nil
}

func (db *CatalogDB) findOrCreateCategoryTx(tx *sql.Tx, name string) (int, error) {
	var id int
	err := tx.QueryRow("SELECT id FROM categories WHERE name = ?", name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}

	res, err := tx.Exec("INSERT INTO categories (name, slug) VALUES (?, ?)", name, slugForCategory(name))
	if err != nil {
		return 0, err
	}
	newID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return int(newID), nil
}

// SaveImportRun сохраняет сводку прогона для истории оператора.
func (db *CatalogDB) SaveImportRun(id, filename string, summary *importer.ImportSummary) error {
	_, err := db.conn.Exec(`
		INSERT INTO import_runs (
			id, filename, format, total, accepted, skipped,
			encoding, encoding_fallback, started, completed
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, filename, string(summary.Format), summary.Total, summary.Accepted, summary.Skipped,
		summary.EncodingDetected, summary.EncodingFallback,
		summary.Started.UTC().Format(time.RFC3339), summary.Completed.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save import run: %w", err)
	}
	return nil
}

// GetImportRun возвращает сводку прогона по идентификатору.
func (db *CatalogDB) GetImportRun(id string) (*ImportRun, error) {
	row := db.conn.QueryRow(`
		SELECT id, filename, format, total, accepted, skipped,
		       encoding, encoding_fallback, started, completed
		FROM import_runs WHERE id = ?`, id)

	// Колонки TIMESTAMP драйвер возвращает как time.Time.
	var run ImportRun
	if err := row.Scan(&run.ID, &run.Filename, &run.Format, &run.Total, &run.Accepted,
		&run.Skipped, &run.Encoding, &run.EncodingFallback, &run.Started, &run.Completed); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("import run %q not found", id)
		}
		return nil, fmt.Errorf("failed to load import run: %w", err)
	}
	return &run, nil
}

// ListImportRuns возвращает последние прогоны импорта.
func (db *CatalogDB) ListImportRuns(limit int) ([]ImportRun, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.conn.Query(`
		SELECT id, filename, format, total, accepted, skipped,
		       encoding, encoding_fallback, started, completed
		FROM import_runs ORDER BY started DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list import runs: %w", err)
	}
	defer rows.Close()

	var runs []ImportRun
	for rows.Next() {
		var run ImportRun
		if err := rows.Scan(&run.ID, &run.Filename, &run.Format, &run.Total, &run.Accepted,
			&run.Skipped, &run.Encoding, &run.EncodingFallback, &run.Started, &run.Completed); err != nil {
			return nil, fmt.Errorf("failed to scan import run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// ListProducts возвращает страницу каталога в порядке добавления.
func (db *CatalogDB) ListProducts(limit, offset int) ([]Product, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := db.conn.Query(`
		SELECT id, sku, name, slug, price, original_price, currency,
		       description, short_description, image_url, category_id,
		       is_active, stock, tag, specs, search_keywords,
		       created_at, updated_at
		FROM products ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		var categoryID sql.NullInt64
		if err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.Slug, &p.Price, &p.OriginalPrice,
			&p.Currency, &p.Description, &p.ShortDescription, &p.ImageURL, &categoryID,
			&p.IsActive, &p.Stock, &p.Tag, &p.Specs, &p.SearchKeywords,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		if categoryID.Valid {
			id := int(categoryID.Int64)
			p.CategoryID = &id
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// CountProducts возвращает размер каталога.
func (db *CatalogDB) CountProducts() (int, error) {
	var count int
	if err := db.conn.QueryRow("SELECT COUNT(*) FROM products").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}
