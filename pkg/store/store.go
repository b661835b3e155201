// Package store persists content item snapshots in SQLite and loads
// fixture snapshots from YAML. It implements the content source the
// CLI feeds into the compiler; the compiler itself does no I/O.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/protocontext/compiler/models"
)

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;

CREATE TABLE IF NOT EXISTS items (
    item_id INTEGER PRIMARY KEY,
    kind TEXT NOT NULL,
    slug TEXT NOT NULL UNIQUE,
    parent_slug TEXT,
    title TEXT NOT NULL,
    body TEXT,
    excerpt TEXT,
    terms TEXT,
    tags TEXT,
    modified TIMESTAMP,
    fields TEXT,
    product TEXT
);

CREATE INDEX IF NOT EXISTS idx_items_kind ON items(kind);
CREATE INDEX IF NOT EXISTS idx_items_parent ON items(parent_slug);
`

// Store is a SQLite-backed content snapshot database.
type Store struct {
	*sql.DB
	path string
}

// Open opens or creates the snapshot database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &Store{DB: db, path: path}, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// UpsertItem inserts or replaces one content item by slug.
func (s *Store) UpsertItem(item *models.ContentItem) error {
	return upsertItem(s.DB, item)
}

func upsertItem(db execer, item *models.ContentItem) error {
	if item == nil || item.Slug == "" {
		return errors.New("item must have a slug")
	}

	fields, err := models.EncodeFieldTree(item.Fields)
	if err != nil {
		return err
	}
	product, err := encodeProduct(item.Product)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT INTO items (item_id, kind, slug, parent_slug, title, body, excerpt, terms, tags, modified, fields, product)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(slug) DO UPDATE SET
			kind = excluded.kind,
			parent_slug = excluded.parent_slug,
			title = excluded.title,
			body = excluded.body,
			excerpt = excluded.excerpt,
			terms = excluded.terms,
			tags = excluded.tags,
			modified = excluded.modified,
			fields = excluded.fields,
			product = excluded.product
	`, item.ID, string(item.Kind), item.Slug, item.ParentSlug, item.Title, item.Body,
		item.Excerpt, joinList(item.Terms), joinList(item.Tags),
		item.Modified.UTC().Format(time.RFC3339), fields, product)
	if err != nil {
		return fmt.Errorf("failed to upsert item %q: %w", item.Slug, err)
	}
	return nil
}

// ItemBySlug fetches one item. A missing slug returns (nil, nil) so
// callers can map absence to a not-found response.
func (s *Store) ItemBySlug(slug string) (*models.ContentItem, error) {
	row := s.QueryRow(`
		SELECT item_id, kind, slug, parent_slug, title, body, excerpt, terms, tags, modified, fields, product
		FROM items WHERE slug = ?
	`, slug)

	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load item %q: %w", slug, err)
	}
	return item, nil
}

// AllItems returns every stored item ordered by id.
func (s *Store) AllItems() ([]*models.ContentItem, error) {
	rows, err := s.Query(`
		SELECT item_id, kind, slug, parent_slug, title, body, excerpt, terms, tags, modified, fields, product
		FROM items ORDER BY item_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []*models.ContentItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ChildrenOf returns the direct children of a slug, ordered by id.
func (s *Store) ChildrenOf(slug string) ([]*models.ContentItem, error) {
	all, err := s.AllItems()
	if err != nil {
		return nil, err
	}
	var children []*models.ContentItem
	for _, it := range all {
		if it.ParentSlug == slug {
			children = append(children, it)
		}
	}
	return children, nil
}

// Import upserts a batch of items inside one transaction.
func (s *Store) Import(items []*models.ContentItem) error {
	tx, err := s.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, item := range items {
		if err := upsertItem(tx, item); err != nil {
			return err
		}
	}
	return tx.Commit()
}

type scannable interface {
	Scan(dest ...any) error
}

func scanItem(row scannable) (*models.ContentItem, error) {
	var (
		item                models.ContentItem
		kind                string
		parent, terms, tags sql.NullString
		body, excerpt       sql.NullString
		modified            sql.NullString
		fieldsRaw, prodRaw  sql.NullString
	)

	err := row.Scan(&item.ID, &kind, &item.Slug, &parent, &item.Title,
		&body, &excerpt, &terms, &tags, &modified, &fieldsRaw, &prodRaw)
	if err != nil {
		return nil, err
	}

	item.Kind = models.Kind(kind)
	item.ParentSlug = parent.String
	item.Body = body.String
	item.Excerpt = excerpt.String
	item.Terms = splitList(terms.String)
	item.Tags = splitList(tags.String)
	if modified.String != "" {
		if ts, err := time.Parse(time.RFC3339, modified.String); err == nil {
			item.Modified = ts
		}
	}

	item.Fields, err = models.DecodeFieldTree(fieldsRaw.String)
	if err != nil {
		return nil, err
	}
	item.Product, err = decodeProduct(prodRaw.String)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func encodeProduct(p *models.ProductData) (string, error) {
	if p == nil {
		return "", nil
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to encode product data: %w", err)
	}
	return string(raw), nil
}

func decodeProduct(raw string) (*models.ProductData, error) {
	if raw == "" {
		return nil, nil
	}
	var p models.ProductData
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("failed to decode product data: %w", err)
	}
	return &p, nil
}

func joinList(values []string) string {
	return strings.Join(values, "\x1f")
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, "\x1f")
}
