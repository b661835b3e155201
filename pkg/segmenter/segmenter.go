// Package segmenter splits normalized prose into titled sections using
// a heading-likeness heuristic.
package segmenter

import (
	"strings"
	"unicode"

	"github.com/protocontext/compiler/models"
)

const (
	// SoftCap is the target maximum body length of one section.
	SoftCap = 1000
	// MinBodyLen is the floor below which a section is dropped.
	MinBodyLen = 30

	minHeadingLen = 4
	maxHeadingLen = 79
	maxTitleWords = 8

	ellipsis = "..."
)

// Segment scans prose line by line and groups it into sections. Lines
// that look like headings open a new section; everything else
// accumulates under the current title. When nothing heading-like is
// found the whole text becomes one section titled fallbackTitle.
func Segment(text, fallbackTitle string) []models.Section {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var sections []models.Section
	title := fallbackTitle
	var body []string

	flush := func() {
		content := TruncateBody(strings.TrimSpace(strings.Join(body, "\n")), SoftCap)
		if len(content) > MinBodyLen {
			sections = append(sections, models.Section{Title: title, Body: content})
		}
		body = body[:0]
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if IsHeadingLike(trimmed) {
			if len(body) > 0 {
				flush()
			}
			title = trimmed
			continue
		}
		if trimmed == "" && len(body) == 0 {
			continue
		}
		body = append(body, trimmed)
	}
	flush()

	if len(sections) == 0 {
		content := TruncateBody(text, SoftCap)
		return []models.Section{{Title: fallbackTitle, Body: content}}
	}
	return sections
}

// IsHeadingLike reports whether a trimmed line reads as a section
// heading: short, no terminal punctuation, not a bullet, and either
// fully upper-case or title-cased. The upper-case branch does not
// bypass the length and punctuation guards.
func IsHeadingLike(line string) bool {
	runes := []rune(line)
	if len(runes) < minHeadingLen || len(runes) > maxHeadingLen {
		return false
	}
	if strings.ContainsRune(".,:;!?", runes[len(runes)-1]) {
		return false
	}
	if strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*") || strings.HasPrefix(line, "•") {
		return false
	}
	return isAllCaps(line) || isTitleCase(line)
}

func isAllCaps(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

// smallWords may stay lower-case inside a title-cased heading.
var smallWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "of": {},
	"to": {}, "in": {}, "on": {}, "for": {}, "with": {}, "&": {},
}

func isTitleCase(s string) bool {
	words := strings.Fields(s)
	if len(words) == 0 || len(words) > maxTitleWords {
		return false
	}
	for i, w := range words {
		r := []rune(w)[0]
		if unicode.IsUpper(r) || unicode.IsDigit(r) {
			continue
		}
		if _, small := smallWords[strings.ToLower(w)]; small && i > 0 {
			continue
		}
		return false
	}
	return true
}

// TruncateBody cuts body down to roughly cap characters. It prefers the
// last sentence end or line break inside the window, as long as that
// boundary is past half the cap; otherwise it hard-cuts and appends an
// ellipsis.
func TruncateBody(body string, limit int) string {
	runes := []rune(body)
	if len(runes) <= limit {
		return body
	}

	window := string(runes[:limit])
	cut := strings.LastIndex(window, ".")
	if nl := strings.LastIndex(window, "\n"); nl > cut {
		cut = nl
	}
	// cut is a byte offset, so the halfway mark must be in bytes too.
	if cut > len(window)/2 {
		return strings.TrimSpace(window[:cut+1])
	}
	return window + ellipsis
}
