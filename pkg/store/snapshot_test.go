package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/protocontext/compiler/models"
)

func writeSnapshot(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoadSnapshot(t *testing.T) {
	path := writeSnapshot(t, `
items:
  - id: 1
    kind: page
    slug: about
    title: About
    body: Our story in a paragraph.
    modified: "2026-02-01"
  - id: 2
    kind: product
    slug: oak-table
    title: Oak Table
    modified: "2026-02-03T10:00:00Z"
    fields:
      headline: Built to last
      description: Solid oak, hand finished in our own workshop.
    product:
      sku: OAK-01
      price: "299.00"
      in_stock: true
`)

	items, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}

	if items[0].Kind != models.KindPage || items[0].Slug != "about" {
		t.Errorf("items[0] = %+v", items[0])
	}
	if got := items[0].Modified.Format("2006-01-02"); got != "2026-02-01" {
		t.Errorf("Modified = %q, want %q", got, "2026-02-01")
	}

	prod := items[1]
	if prod.Kind != models.KindProduct {
		t.Errorf("Kind = %q, want product", prod.Kind)
	}
	if prod.Product == nil || prod.Product.SKU != "OAK-01" || !prod.Product.InStock {
		t.Errorf("Product = %+v", prod.Product)
	}
	if prod.Fields == nil {
		t.Fatal("Fields = nil, want tree")
	}
	if len(prod.Fields.Map) != 2 || prod.Fields.Map[0].Key != "headline" || prod.Fields.Map[1].Key != "description" {
		t.Errorf("field order = %v", prod.Fields.Map)
	}
}

func TestLoadSnapshotDefaultsKindToPage(t *testing.T) {
	path := writeSnapshot(t, `
items:
  - id: 1
    slug: plain
    title: Plain
`)
	items, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot() error = %v", err)
	}
	if items[0].Kind != models.KindPage {
		t.Errorf("Kind = %q, want page", items[0].Kind)
	}
}

func TestLoadSnapshotRejectsBadItems(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing slug", "items:\n  - id: 1\n    title: No Slug\n"},
		{"unknown kind", "items:\n  - id: 1\n    kind: widget\n    slug: w\n"},
		{"bad date", "items:\n  - id: 1\n    slug: a\n    modified: sometime\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadSnapshot(writeSnapshot(t, tt.body)); err == nil {
				t.Error("LoadSnapshot() error = nil, want error")
			}
		})
	}
}

func TestLoadSnapshotMissingFile(t *testing.T) {
	if _, err := LoadSnapshot(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("LoadSnapshot() error = nil, want error")
	}
}
