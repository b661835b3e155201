// Package compiler turns content item snapshots into context.txt
// documents. Compile calls are pure: they read one immutable snapshot
// and return a fresh Document, so concurrent compiles never interact.
package compiler

import (
	"strings"

	"github.com/protocontext/compiler/models"
	"github.com/protocontext/compiler/pkg/commerce"
	"github.com/protocontext/compiler/pkg/detector"
	"github.com/protocontext/compiler/pkg/fieldtree"
	"github.com/protocontext/compiler/pkg/normalizer"
	"github.com/protocontext/compiler/pkg/segmenter"
)

// ContentSource supplies content item snapshots. Implementations are
// external to the compiler; pkg/store provides a SQLite-backed one.
type ContentSource interface {
	ItemBySlug(slug string) (*models.ContentItem, error)
	AllItems() ([]*models.ContentItem, error)
}

// Compiler compiles content items against one site configuration.
type Compiler struct {
	cfg models.SiteConfig
	ext *fieldtree.Extractor
}

// New returns a Compiler for the given configuration.
func New(cfg models.SiteConfig) *Compiler {
	cfg.ApplyDefaults()
	return &Compiler{cfg: cfg, ext: fieldtree.New()}
}

// Compile builds the document for a single item. Children are the
// item's direct descendants, used for the child-links section. A nil
// item yields a nil document; the caller maps that to not-found.
func (c *Compiler) Compile(item *models.ContentItem, children []*models.ContentItem) *models.Document {
	if item == nil {
		return nil
	}

	fragments := c.ext.Extract(item.Fields)
	body := normalizer.Normalize(item.Body)
	prose := joinContent(fragments, body)

	sections := segmenter.Segment(prose, item.Title)
	sections = append(sections, commerce.Sections(item, c.cfg)...)
	if child := c.childLinksSection(children); child != nil {
		sections = append(sections, *child)
	}

	doc := &models.Document{
		Title:       item.Title,
		Description: c.itemDescription(item, prose),
		Sections:    sections,
	}
	doc.Metadata = c.metadata(item, prose)
	return doc
}

// joinContent prefixes the normalized body with extractor fragments.
func joinContent(fragments []string, body string) string {
	if len(fragments) == 0 {
		return body
	}
	joined := strings.Join(fragments, "\n")
	if body == "" {
		return joined
	}
	return joined + "\n\n" + body
}

// itemDescription prefers the explicit excerpt, then the first line of
// prose. The assembler enforces the length cap at render time.
func (c *Compiler) itemDescription(item *models.ContentItem, prose string) string {
	if item.Excerpt != "" {
		return normalizer.Normalize(item.Excerpt)
	}
	for _, line := range strings.Split(prose, "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "- "))
		if len(line) >= 20 {
			return line
		}
	}
	if item.Title != "" {
		return item.Title
	}
	return c.cfg.Description
}

// metadata assembles the ordered @key lines: required keys first, then
// the optional and compiler-specific ones.
func (c *Compiler) metadata(item *models.ContentItem, prose string) []models.MetaEntry {
	lang := c.cfg.Lang
	if lang == "" {
		if lang = detector.Language(prose); lang == "" {
			lang = "en"
		}
	}

	updated := c.cfg.Now
	if item != nil && !item.Modified.IsZero() {
		updated = item.Modified
	}

	meta := []models.MetaEntry{
		{Key: "lang", Value: lang},
		{Key: "version", Value: c.cfg.Version},
		{Key: "updated", Value: updated.Format("2006-01-02")},
	}

	if c.cfg.BaseURL != "" {
		canonical := strings.TrimSuffix(c.cfg.BaseURL, "/") + "/context.txt"
		if item != nil {
			canonical = strings.TrimSuffix(c.cfg.BaseURL, "/") + "/" + item.RelPath() + "/context.txt"
		}
		meta = append(meta, models.MetaEntry{Key: "canonical", Value: canonical})
	}
	if len(c.cfg.Topics) > 0 {
		meta = append(meta, models.MetaEntry{Key: "topics", Value: strings.Join(c.cfg.Topics, ", ")})
	}

	if item != nil {
		meta = append(meta, models.MetaEntry{Key: "content_type", Value: contentType(item.Kind)})
	}

	industry := c.cfg.Industry
	if industry == "" {
		industry = detector.Industry(prose)
	}
	if industry != "" {
		meta = append(meta, models.MetaEntry{Key: "industry", Value: industry})
	}

	if item != nil && item.Kind == models.KindProduct {
		currency := c.cfg.Currency
		if item.Product != nil && item.Product.Currency != "" {
			currency = item.Product.Currency
		}
		if currency != "" {
			meta = append(meta, models.MetaEntry{Key: "currency", Value: currency})
		}
	}

	return meta
}

func contentType(kind models.Kind) string {
	switch kind {
	case models.KindPost:
		return "article"
	case models.KindProduct:
		return "product"
	case models.KindCategory:
		return "category"
	default:
		return "website"
	}
}

// childLinksSection lists an item's direct children so agents can
// discover their documents. Nil when there are no children.
func (c *Compiler) childLinksSection(children []*models.ContentItem) *models.Section {
	if len(children) == 0 {
		return nil
	}
	lines := make([]string, 0, len(children))
	for _, child := range children {
		if child == nil {
			continue
		}
		lines = append(lines, "- "+child.Title+": "+absoluteURL(c.cfg, child.RelPath()))
	}
	if len(lines) == 0 {
		return nil
	}
	return &models.Section{Title: "Subpages", Body: strings.Join(lines, "\n")}
}

// absoluteURL joins the configured base URL with a relative path.
func absoluteURL(cfg models.SiteConfig, relPath string) string {
	base := strings.TrimSuffix(cfg.BaseURL, "/")
	if base == "" {
		return "/" + relPath
	}
	return base + "/" + relPath
}

// CompileIndex builds the root index document over the full item set:
// site header plus the grouped site map section.
func (c *Compiler) CompileIndex(items []*models.ContentItem) *models.Document {
	prose := c.cfg.SiteName + " " + c.cfg.Description

	doc := &models.Document{
		Title:       c.cfg.SiteName,
		Description: c.indexDescription(),
		Metadata:    c.metadata(nil, prose),
		Sections:    []models.Section{BuildSitemap(items, c.cfg)},
	}
	return doc
}

func (c *Compiler) indexDescription() string {
	if c.cfg.Description != "" {
		return c.cfg.Description
	}
	return "Structured content index for " + c.cfg.SiteName
}
