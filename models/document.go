package models

import "strings"

// Wire-format limits for compiled documents.
const (
	// MaxDocumentBytes is the hard ceiling on a serialized document.
	MaxDocumentBytes = 500 * 1024
	// MaxDescriptionChars is the recommended description length; longer
	// descriptions are cut to 157 chars plus an ellipsis.
	MaxDescriptionChars = 160
	// MaxSitemapDescChars caps derived sitemap entry descriptions.
	MaxSitemapDescChars = 120
)

// Document is the compiled knowledge artifact for one item or for the
// site index. It is created fresh per compile and discarded after
// serialization.
type Document struct {
	Title       string
	Description string
	Metadata    []MetaEntry
	Sections    []Section
}

// MetaEntry is one "@key: value" metadata line. Order is significant:
// required keys come first.
type MetaEntry struct {
	Key   string
	Value string
}

// Section is a titled block of document body text. Title and body are
// both non-empty in a well-formed document.
type Section struct {
	Title string
	Body  string
}

// BlockPair is one "KEY: value" line of a structured block. Keys are
// fixed uppercase identifiers; values are plain scalars, never markup.
type BlockPair struct {
	Key   string
	Value string
}

// StructuredBlock is an ordered sequence of KEY: value pairs describing
// a transactional entity. Downstream consumers parse entries by exact
// key name.
type StructuredBlock struct {
	Pairs []BlockPair
}

// Add appends a pair, skipping empty values so optional keys are simply
// omitted rather than emitted blank.
func (b *StructuredBlock) Add(key, value string) {
	if value == "" {
		return
	}
	b.Pairs = append(b.Pairs, BlockPair{Key: key, Value: value})
}

// Render serializes the block as newline-joined KEY: value lines.
func (b *StructuredBlock) Render() string {
	lines := make([]string, 0, len(b.Pairs))
	for _, p := range b.Pairs {
		lines = append(lines, p.Key+": "+p.Value)
	}
	return strings.Join(lines, "\n")
}

// SitemapEntry is one link row of the site map section.
type SitemapEntry struct {
	Title       string
	Path        string
	TypeLabel   string
	Description string
}
