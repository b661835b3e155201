package compiler

import (
	"strings"
	"unicode/utf8"

	"github.com/protocontext/compiler/models"
)

const descEllipsis = "..."

// Render serializes a document to context.txt wire format and enforces
// the global size ceiling. Oversized documents lose whole trailing
// sections first; a raw cut on a rune boundary is the last resort.
func Render(doc *models.Document) string {
	if doc == nil {
		return ""
	}

	sections := doc.Sections
	out := renderParts(doc, sections)
	for len(out) > models.MaxDocumentBytes && len(sections) > 1 {
		sections = sections[:len(sections)-1]
		out = renderParts(doc, sections)
	}
	if len(out) > models.MaxDocumentBytes {
		out = cutOnRuneBoundary(out, models.MaxDocumentBytes)
	}
	return out
}

func renderParts(doc *models.Document, sections []models.Section) string {
	parts := make([]string, 0, len(sections)+2)

	header := "# " + doc.Title + "\n> " + capDescription(doc.Description)
	parts = append(parts, header)

	if len(doc.Metadata) > 0 {
		lines := make([]string, 0, len(doc.Metadata))
		for _, m := range doc.Metadata {
			lines = append(lines, "@"+m.Key+": "+m.Value)
		}
		parts = append(parts, strings.Join(lines, "\n"))
	}

	for _, s := range sections {
		if s.Title == "" || s.Body == "" {
			continue
		}
		parts = append(parts, "## section: "+s.Title+"\n\n"+s.Body)
	}

	return strings.Join(parts, "\n\n") + "\n"
}

// capDescription enforces the 160-char recommendation: anything longer
// is cut to 157 chars plus an ellipsis.
func capDescription(desc string) string {
	runes := []rune(desc)
	if len(runes) <= models.MaxDescriptionChars {
		return desc
	}
	return string(runes[:models.MaxDescriptionChars-len(descEllipsis)]) + descEllipsis
}

// cutOnRuneBoundary truncates a string to at most max bytes without
// splitting a multi-byte sequence.
func cutOnRuneBoundary(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
