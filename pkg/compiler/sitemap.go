package compiler

import (
	"strings"

	"github.com/protocontext/compiler/models"
	"github.com/protocontext/compiler/pkg/normalizer"
	"github.com/protocontext/compiler/pkg/segmenter"
)

// BuildSitemap enumerates all compilable items and renders the single
// "Site Map" section of the index document: entries grouped by type
// label in first-seen order, each with its title, an optional derived
// description, and the absolute URL on the following indented line.
func BuildSitemap(items []*models.ContentItem, cfg models.SiteConfig) models.Section {
	entries := sitemapEntries(items)
	if len(entries) == 0 {
		return models.Section{
			Title: "Site Map",
			Body:  "No published content was found for this site.",
		}
	}

	var groupOrder []string
	grouped := make(map[string][]models.SitemapEntry)
	for _, e := range entries {
		if _, seen := grouped[e.TypeLabel]; !seen {
			groupOrder = append(groupOrder, e.TypeLabel)
		}
		grouped[e.TypeLabel] = append(grouped[e.TypeLabel], e)
	}

	var sb strings.Builder
	for gi, label := range groupOrder {
		if gi > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(label + ":")
		for _, e := range grouped[label] {
			sb.WriteString("\n- " + e.Title)
			if e.Description != "" {
				sb.WriteString(": " + e.Description)
			}
			sb.WriteString("\n  " + absoluteURL(cfg, e.Path))
		}
	}

	return models.Section{Title: "Site Map", Body: sb.String()}
}

// sitemapEntries converts items into link rows, skipping items without
// a slug or title.
func sitemapEntries(items []*models.ContentItem) []models.SitemapEntry {
	entries := make([]models.SitemapEntry, 0, len(items))
	for _, it := range items {
		if it == nil || it.Slug == "" || it.Title == "" {
			continue
		}
		entries = append(entries, models.SitemapEntry{
			Title:       it.Title,
			Path:        it.RelPath(),
			TypeLabel:   it.Kind.GroupLabel(),
			Description: entryDescription(it),
		})
	}
	return entries
}

// entryDescription derives a short description from the excerpt or the
// first characters of the normalized body.
func entryDescription(it *models.ContentItem) string {
	source := it.Excerpt
	if source == "" {
		source = it.Body
	}
	text := strings.ReplaceAll(normalizer.Normalize(source), "\n", " ")
	// Budget for the ellipsis so a hard cut still lands within the cap.
	return segmenter.TruncateBody(text, models.MaxSitemapDescChars-3)
}
