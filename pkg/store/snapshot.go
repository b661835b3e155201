package store

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/protocontext/compiler/models"
)

// snapshotItem mirrors ContentItem with YAML-friendly field types.
// Dates are "2006-01-02" or RFC 3339; field trees decode through the
// ordered FieldValue unmarshaller so source key order survives.
type snapshotItem struct {
	ID         int64               `yaml:"id"`
	Kind       string              `yaml:"kind"`
	Slug       string              `yaml:"slug"`
	Title      string              `yaml:"title"`
	Body       string              `yaml:"body"`
	Excerpt    string              `yaml:"excerpt"`
	ParentSlug string              `yaml:"parent_slug"`
	Terms      []string            `yaml:"terms"`
	Tags       []string            `yaml:"tags"`
	Modified   string              `yaml:"modified"`
	Fields     *models.FieldValue  `yaml:"fields"`
	Product    *models.ProductData `yaml:"product"`
}

type snapshotFile struct {
	Items []snapshotItem `yaml:"items"`
}

// LoadSnapshot reads a YAML content snapshot and returns its items in
// file order.
func LoadSnapshot(path string) ([]*models.ContentItem, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var file snapshotFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", path, err)
	}

	items := make([]*models.ContentItem, 0, len(file.Items))
	for i, raw := range file.Items {
		item, err := raw.toItem()
		if err != nil {
			return nil, fmt.Errorf("snapshot item %d (%s): %w", i, raw.Slug, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func (s snapshotItem) toItem() (*models.ContentItem, error) {
	if s.Slug == "" {
		return nil, fmt.Errorf("missing slug")
	}
	kind := models.Kind(s.Kind)
	switch kind {
	case models.KindPage, models.KindPost, models.KindProduct, models.KindCategory:
	case "":
		kind = models.KindPage
	default:
		return nil, fmt.Errorf("unknown kind %q", s.Kind)
	}

	item := &models.ContentItem{
		ID:         s.ID,
		Kind:       kind,
		Slug:       s.Slug,
		Title:      s.Title,
		Body:       s.Body,
		Excerpt:    s.Excerpt,
		ParentSlug: s.ParentSlug,
		Terms:      s.Terms,
		Tags:       s.Tags,
		Fields:     s.Fields,
		Product:    s.Product,
	}

	if s.Modified != "" {
		ts, err := parseDate(s.Modified)
		if err != nil {
			return nil, err
		}
		item.Modified = ts
	}
	return item, nil
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}
