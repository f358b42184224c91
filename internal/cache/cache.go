// Package cache keeps an offline sqlite snapshot of the last data the
// backend served. It is written after every successful fetch and read only
// when the backend is unreachable, so stale pages can still be shown.
package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/pricetrack/pricetrack-tui/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	kind       TEXT NOT NULL,
	key        TEXT NOT NULL,
	payload    TEXT NOT NULL,
	fetched_at TEXT NOT NULL,
	PRIMARY KEY (kind, key)
);
`

const (
	kindListing = "listing"
	kindProduct = "product"
	kindHistory = "history"
)

// Store is the snapshot database. A nil *Store is valid and turns every
// operation into a no-op miss, so callers can run cacheless.
type Store struct {
	db *sql.DB
}

// Open creates or opens the snapshot database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) put(kind, key string, value any) error {
	if s == nil || s.db == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO snapshots (kind, key, payload, fetched_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(kind, key) DO UPDATE SET
			payload = excluded.payload,
			fetched_at = excluded.fetched_at`,
		kind, key, string(payload), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

func (s *Store) get(kind, key string, out any) (time.Time, bool) {
	if s == nil || s.db == nil {
		return time.Time{}, false
	}
	var payload, fetchedAt string
	err := s.db.QueryRow(
		"SELECT payload, fetched_at FROM snapshots WHERE kind = ? AND key = ?",
		kind, key).Scan(&payload, &fetchedAt)
	if err != nil {
		return time.Time{}, false
	}
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return time.Time{}, false
	}
	at, _ := time.Parse(time.RFC3339, fetchedAt)
	return at, true
}

// listingKey canonicalizes a listing query so equivalent requests share a
// snapshot row.
func listingKey(q, site string, page, perPage int, orderBy string, reversed bool) string {
	return fmt.Sprintf("q=%s|site=%s|page=%d|per=%d|order=%s|rev=%t", q, site, page, perPage, orderBy, reversed)
}

// SaveListing stores one fetched listing page.
func (s *Store) SaveListing(q, site string, page, perPage int, orderBy string, reversed bool, data *models.ProductPage) error {
	return s.put(kindListing, listingKey(q, site, page, perPage, orderBy, reversed), data)
}

// LoadListing returns the snapshot for a listing query, if one exists, and
// when it was fetched.
func (s *Store) LoadListing(q, site string, page, perPage int, orderBy string, reversed bool) (*models.ProductPage, time.Time, bool) {
	var data models.ProductPage
	at, ok := s.get(kindListing, listingKey(q, site, page, perPage, orderBy, reversed), &data)
	if !ok {
		return nil, time.Time{}, false
	}
	return &data, at, true
}

// SaveProduct stores one fetched product record.
func (s *Store) SaveProduct(p *models.Product) error {
	return s.put(kindProduct, strconv.Itoa(p.ID), p)
}

// LoadProduct returns the snapshot for a product, if one exists.
func (s *Store) LoadProduct(id int) (*models.Product, time.Time, bool) {
	var p models.Product
	at, ok := s.get(kindProduct, strconv.Itoa(id), &p)
	if !ok {
		return nil, time.Time{}, false
	}
	return &p, at, true
}

// SaveHistory stores the fetched price history of a product.
func (s *Store) SaveHistory(productID int, points []models.PricePoint) error {
	return s.put(kindHistory, strconv.Itoa(productID), points)
}

// LoadHistory returns the history snapshot for a product, if one exists.
func (s *Store) LoadHistory(productID int) ([]models.PricePoint, time.Time, bool) {
	var points []models.PricePoint
	at, ok := s.get(kindHistory, strconv.Itoa(productID), &points)
	if !ok {
		return nil, time.Time{}, false
	}
	return points, at, true
}
