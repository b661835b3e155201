// Package validator checks context.txt documents against the format
// rules: header, description, metadata, and section structure.
package validator

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/protocontext/compiler/models"
)

const sectionWarnSize = 1000

var requiredMetadata = []string{"lang", "version", "updated"}

var knownMetadata = map[string]struct{}{
	"lang": {}, "version": {}, "updated": {}, "canonical": {},
	"topics": {}, "contact": {}, "license": {},
	"content_type": {}, "industry": {}, "currency": {},
	"location": {}, "property_type": {}, "store_type": {},
}

var (
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	metaPattern = regexp.MustCompile(`^@(\w+):\s*(.+)$`)
	htmlPattern = regexp.MustCompile(`(?i)<\s*(script|style|div|span|html|body|head)\b`)
)

// Result collects validation findings. Errors make the document
// invalid; warnings are advisory.
type Result struct {
	Errors   []string
	Warnings []string
}

// Valid reports whether no errors were found.
func (r *Result) Valid() bool { return len(r.Errors) == 0 }

func (r *Result) errorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) warnf(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Validate checks a serialized document against the format rules.
func Validate(content string) *Result {
	result := &Result{}

	if size := len(content); size > models.MaxDocumentBytes {
		result.errorf("file exceeds 500KB limit (%d bytes)", size)
	}
	if htmlPattern.MatchString(content) {
		result.errorf("file contains HTML or script content; only plain text and basic markdown are allowed")
	}

	lines := strings.Split(strings.TrimSpace(content), "\n")
	idx := 0
	skipBlank := func() {
		for idx < len(lines) && strings.TrimSpace(lines[idx]) == "" {
			idx++
		}
	}

	skipBlank()
	if idx >= len(lines) || !strings.HasPrefix(lines[idx], "# ") {
		result.errorf("missing header: file must start with '# Site Name'")
		return result
	}
	if title := strings.TrimSpace(lines[idx][2:]); title == "" {
		result.errorf("header title is empty")
	}
	idx++

	skipBlank()
	if idx >= len(lines) || !strings.HasPrefix(lines[idx], "> ") {
		result.errorf("missing description: expected '> One line description' after the title")
	} else {
		desc := strings.TrimSpace(lines[idx][2:])
		if desc == "" {
			result.errorf("description line is empty")
		}
		if n := len([]rune(desc)); n > models.MaxDescriptionChars {
			result.warnf("description is %d chars; recommended max is %d", n, models.MaxDescriptionChars)
		}
		idx++
	}

	skipBlank()
	metadata := map[string]string{}
	for idx < len(lines) && strings.HasPrefix(lines[idx], "@") {
		m := metaPattern.FindStringSubmatch(lines[idx])
		if m == nil {
			result.warnf("malformed metadata line: %q", lines[idx])
		} else {
			metadata[m[1]] = strings.TrimSpace(m[2])
		}
		idx++
	}

	for _, key := range requiredMetadata {
		if _, ok := metadata[key]; !ok {
			result.errorf("missing required metadata: @%s", key)
		}
	}
	if updated, ok := metadata["updated"]; ok {
		if !datePattern.MatchString(updated) {
			result.errorf("@updated must be YYYY-MM-DD format, got %q", updated)
		} else if _, err := time.Parse("2006-01-02", updated); err != nil {
			result.errorf("@updated is not a valid date: %q", updated)
		}
	}
	for key := range metadata {
		if _, ok := knownMetadata[key]; !ok {
			result.warnf("unknown metadata field: @%s", key)
		}
	}

	validateSections(lines[idx:], result)
	return result
}

type section struct {
	title string
	body  []string
}

func validateSections(lines []string, result *Result) {
	var sections []section
	for _, line := range lines {
		if strings.HasPrefix(line, "## section:") {
			title := strings.TrimSpace(strings.TrimPrefix(line, "## section:"))
			if title == "" {
				result.errorf("section title is empty")
			}
			sections = append(sections, section{title: title})
			continue
		}
		if len(sections) > 0 {
			s := &sections[len(sections)-1]
			s.body = append(s.body, line)
		}
	}

	if len(sections) == 0 {
		result.errorf("no sections found; need at least one '## section: Title' block")
		return
	}

	for _, s := range sections {
		body := strings.TrimSpace(strings.Join(s.body, "\n"))
		if body == "" {
			result.errorf("section %q has no content", s.title)
		}
		if n := len(body); n > sectionWarnSize {
			result.warnf("section %q is %d chars; recommended max is ~%d for optimal chunking", s.title, n, sectionWarnSize)
		}
	}
}
