package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/protocontext/compiler/models"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "snapshot.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUpsertAndFetchRoundtrip(t *testing.T) {
	s := setupTestStore(t)

	fields := models.MapVal(
		models.Entry("intro", models.StringVal("A longer introduction paragraph for the launch.")),
	)
	item := &models.ContentItem{
		ID:         7,
		Kind:       models.KindPost,
		Slug:       "launch-notes",
		Title:      "Launch Notes",
		Body:       "We shipped the first release today.",
		Excerpt:    "Release announcement",
		ParentSlug: "blog",
		Terms:      []string{"news", "releases"},
		Tags:       []string{"v1"},
		Modified:   time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Fields:     &fields,
	}
	if err := s.UpsertItem(item); err != nil {
		t.Fatalf("UpsertItem() error = %v", err)
	}

	got, err := s.ItemBySlug("launch-notes")
	if err != nil {
		t.Fatalf("ItemBySlug() error = %v", err)
	}
	if got == nil {
		t.Fatal("ItemBySlug() = nil, want item")
	}
	if got.ID != 7 || got.Kind != models.KindPost || got.Title != "Launch Notes" {
		t.Errorf("fetched item = %+v", got)
	}
	if got.ParentSlug != "blog" {
		t.Errorf("ParentSlug = %q, want %q", got.ParentSlug, "blog")
	}
	if len(got.Terms) != 2 || got.Terms[0] != "news" || got.Terms[1] != "releases" {
		t.Errorf("Terms = %v", got.Terms)
	}
	if !got.Modified.Equal(item.Modified) {
		t.Errorf("Modified = %v, want %v", got.Modified, item.Modified)
	}
	if got.Fields == nil {
		t.Fatal("Fields = nil, want decoded tree")
	}
	intro, ok := got.Fields.Lookup("intro")
	if !ok || intro.Text() != "A longer introduction paragraph for the launch." {
		t.Errorf("Fields intro = %v", intro)
	}
}

func TestProductRoundtrip(t *testing.T) {
	s := setupTestStore(t)

	item := &models.ContentItem{
		ID:    12,
		Kind:  models.KindProduct,
		Slug:  "oak-table",
		Title: "Oak Table",
		Product: &models.ProductData{
			SKU:      "OAK-01",
			Price:    "299.00",
			Currency: "EUR",
			InStock:  true,
			Attributes: []models.Attribute{
				{Name: "Material", Value: "Oak"},
			},
		},
	}
	if err := s.UpsertItem(item); err != nil {
		t.Fatalf("UpsertItem() error = %v", err)
	}

	got, err := s.ItemBySlug("oak-table")
	if err != nil {
		t.Fatalf("ItemBySlug() error = %v", err)
	}
	if got.Product == nil {
		t.Fatal("Product = nil, want data")
	}
	if got.Product.SKU != "OAK-01" || got.Product.Price != "299.00" || !got.Product.InStock {
		t.Errorf("Product = %+v", got.Product)
	}
	if len(got.Product.Attributes) != 1 || got.Product.Attributes[0].Name != "Material" {
		t.Errorf("Attributes = %v", got.Product.Attributes)
	}
}

func TestItemBySlugMissing(t *testing.T) {
	s := setupTestStore(t)

	got, err := s.ItemBySlug("nope")
	if err != nil {
		t.Fatalf("ItemBySlug() error = %v", err)
	}
	if got != nil {
		t.Errorf("ItemBySlug() = %+v, want nil", got)
	}
}

func TestUpsertReplacesBySlug(t *testing.T) {
	s := setupTestStore(t)

	first := &models.ContentItem{ID: 1, Kind: models.KindPage, Slug: "about", Title: "About"}
	second := &models.ContentItem{ID: 1, Kind: models.KindPage, Slug: "about", Title: "About Us"}
	if err := s.UpsertItem(first); err != nil {
		t.Fatalf("UpsertItem() error = %v", err)
	}
	if err := s.UpsertItem(second); err != nil {
		t.Fatalf("UpsertItem() error = %v", err)
	}

	all, err := s.AllItems()
	if err != nil {
		t.Fatalf("AllItems() error = %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("len(AllItems()) = %d, want 1", len(all))
	}
	if all[0].Title != "About Us" {
		t.Errorf("Title = %q, want %q", all[0].Title, "About Us")
	}
}

func TestUpsertRejectsMissingSlug(t *testing.T) {
	s := setupTestStore(t)

	if err := s.UpsertItem(&models.ContentItem{Title: "No Slug"}); err == nil {
		t.Error("UpsertItem() error = nil, want error")
	}
	if err := s.UpsertItem(nil); err == nil {
		t.Error("UpsertItem(nil) error = nil, want error")
	}
}

func TestImportAndChildren(t *testing.T) {
	s := setupTestStore(t)

	items := []*models.ContentItem{
		{ID: 1, Kind: models.KindPage, Slug: "services", Title: "Services"},
		{ID: 2, Kind: models.KindPage, Slug: "consulting", ParentSlug: "services", Title: "Consulting"},
		{ID: 3, Kind: models.KindPage, Slug: "training", ParentSlug: "services", Title: "Training"},
		{ID: 4, Kind: models.KindPost, Slug: "hello", Title: "Hello"},
	}
	if err := s.Import(items); err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	all, err := s.AllItems()
	if err != nil {
		t.Fatalf("AllItems() error = %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("len(AllItems()) = %d, want 4", len(all))
	}
	if all[0].Slug != "services" || all[3].Slug != "hello" {
		t.Errorf("AllItems() order = %q ... %q", all[0].Slug, all[3].Slug)
	}

	children, err := s.ChildrenOf("services")
	if err != nil {
		t.Fatalf("ChildrenOf() error = %v", err)
	}
	if len(children) != 2 {
		t.Fatalf("len(ChildrenOf()) = %d, want 2", len(children))
	}
	if children[0].Slug != "consulting" || children[1].Slug != "training" {
		t.Errorf("children = %q, %q", children[0].Slug, children[1].Slug)
	}
}

func TestImportRollsBackOnBadItem(t *testing.T) {
	s := setupTestStore(t)

	items := []*models.ContentItem{
		{ID: 1, Kind: models.KindPage, Slug: "ok", Title: "OK"},
		{ID: 2, Kind: models.KindPage, Slug: "", Title: "Broken"},
	}
	if err := s.Import(items); err == nil {
		t.Fatal("Import() error = nil, want error")
	}

	all, err := s.AllItems()
	if err != nil {
		t.Fatalf("AllItems() error = %v", err)
	}
	if len(all) != 0 {
		t.Errorf("len(AllItems()) after failed import = %d, want 0", len(all))
	}
}
