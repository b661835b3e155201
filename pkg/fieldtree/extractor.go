// Package fieldtree extracts prose fragments from nested builder and
// custom-field trees.
package fieldtree

import (
	"regexp"
	"strings"

	"github.com/protocontext/compiler/models"
	"github.com/protocontext/compiler/pkg/normalizer"
)

// Traversal bounds. The depth limit guards against cyclic or
// pathologically deep trees.
const (
	DefaultMaxDepth = 16
	DefaultMinLen   = 20
)

// defaultAllowKeys are the field names whose string values carry prose
// worth extracting.
var defaultAllowKeys = []string{
	"title", "subtitle", "heading", "sub_heading", "description",
	"content", "text", "editor", "caption", "excerpt", "summary",
	"body", "intro", "label", "answer", "question",
}

// repeaterKeys name ordered lists of sub-trees (tabs, bullets,
// accordion entries) that emit one bulleted fragment per entry.
var repeaterKeys = []string{
	"tabs", "items", "list_items", "slides", "accordion", "accordions",
	"features", "steps", "cards", "faqs",
}

var serializedRe = regexp.MustCompile(`^(?:[asObid]:\d+[:;]|\{|\[|data:)`)

// Extractor walks field trees and pulls out text fragments. The zero
// value is not usable; call New.
type Extractor struct {
	allow    map[string]struct{}
	repeater map[string]struct{}
	maxDepth int
	minLen   int
}

// New returns an Extractor with the default allow-list and bounds.
func New() *Extractor {
	return NewWithKeys(defaultAllowKeys)
}

// NewWithKeys returns an Extractor using a custom allow-list.
func NewWithKeys(allowKeys []string) *Extractor {
	e := &Extractor{
		allow:    make(map[string]struct{}, len(allowKeys)),
		repeater: make(map[string]struct{}, len(repeaterKeys)),
		maxDepth: DefaultMaxDepth,
		minLen:   DefaultMinLen,
	}
	for _, k := range allowKeys {
		e.allow[k] = struct{}{}
	}
	for _, k := range repeaterKeys {
		e.repeater[k] = struct{}{}
	}
	return e
}

type frame struct {
	key   string
	value models.FieldValue
	depth int
}

// Extract walks the tree depth-first and returns text fragments in
// traversal order. A nil tree or a node with an unexpected shape yields
// nothing; Extract never fails.
func (e *Extractor) Extract(tree *models.FieldValue) []string {
	if tree == nil {
		return nil
	}

	var fragments []string

	// Explicit work-queue traversal instead of recursion. Children are
	// pushed in reverse so pop order matches source order.
	stack := []frame{{value: *tree}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.depth > e.maxDepth {
			continue
		}

		switch f.value.Kind {
		case models.FieldString:
			if frag := e.fragment(f.key, f.value.Str); frag != "" {
				fragments = append(fragments, frag)
			}

		case models.FieldMap:
			for i := len(f.value.Map) - 1; i >= 0; i-- {
				entry := f.value.Map[i]
				if strings.HasPrefix(entry.Key, "_") {
					continue
				}
				stack = append(stack, frame{key: entry.Key, value: entry.Value, depth: f.depth + 1})
			}

		case models.FieldList:
			// Repeater shapes emit one bulleted fragment per sub-entry.
			if e.isRepeater(f.key) {
				for _, sub := range f.value.List {
					if frag := e.entryFragment(sub, f.depth+1); frag != "" {
						fragments = append(fragments, frag)
					}
				}
				continue
			}
			for i := len(f.value.List) - 1; i >= 0; i-- {
				stack = append(stack, frame{key: f.key, value: f.value.List[i], depth: f.depth + 1})
			}
		}
		// Number and bool leaves are raw serialized values, not prose.
	}

	return fragments
}

// entryFragment flattens one repeater sub-entry (a tab, bullet item, or
// accordion pane) into a single bulleted fragment.
func (e *Extractor) entryFragment(entry models.FieldValue, depth int) string {
	var parts []string

	stack := []frame{{value: entry, depth: depth}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.depth > e.maxDepth {
			continue
		}

		switch f.value.Kind {
		case models.FieldString:
			if frag := e.fragment(f.key, f.value.Str); frag != "" {
				parts = append(parts, frag)
			}
		case models.FieldMap:
			for i := len(f.value.Map) - 1; i >= 0; i-- {
				me := f.value.Map[i]
				if strings.HasPrefix(me.Key, "_") {
					continue
				}
				stack = append(stack, frame{key: me.Key, value: me.Value, depth: f.depth + 1})
			}
		case models.FieldList:
			for i := len(f.value.List) - 1; i >= 0; i-- {
				stack = append(stack, frame{key: f.key, value: f.value.List[i], depth: f.depth + 1})
			}
		}
	}

	if len(parts) == 0 {
		return ""
	}
	return "- " + strings.Join(parts, " ")
}

// fragment validates and normalizes one candidate string value.
func (e *Extractor) fragment(key, raw string) string {
	if _, ok := e.allow[key]; !ok {
		return ""
	}
	if len(raw) < e.minLen || looksSerialized(raw) {
		return ""
	}
	text := normalizer.Normalize(raw)
	if len(text) < e.minLen {
		return ""
	}
	return text
}

func (e *Extractor) isRepeater(key string) bool {
	_, ok := e.repeater[key]
	return ok
}

// looksSerialized reports whether a value is a URL, a length-prefixed
// serialization, a JSON blob, or a spaceless blob rather than prose.
func looksSerialized(s string) bool {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return true
	}
	if serializedRe.MatchString(s) {
		return true
	}
	if len(s) > 100 && !strings.ContainsAny(s, " \n\t") {
		return true
	}
	return false
}
