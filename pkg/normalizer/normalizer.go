// Package normalizer turns raw CMS bodies (builder markup, shortcodes,
// HTML fragments) into plain newline-delimited text.
package normalizer

import (
	"html"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

var (
	shortcodeRe = regexp.MustCompile(`\[/?[a-zA-Z][a-zA-Z0-9_-]*(?:\s[^\[\]]*)?\]`)
	templateRe  = regexp.MustCompile(`\{\{[^{}]*\}\}`)
	commentRe   = regexp.MustCompile(`(?s)<!--.*?-->`)
	styleRe     = regexp.MustCompile(`(?is)<style\b[^>]*>.*?</style>`)
	scriptRe    = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
	breakRe     = regexp.MustCompile(`(?i)<(?:br\s*/?|/p|/div|/h[1-6]|/li|/tr|/blockquote)>`)
	listOpenRe  = regexp.MustCompile(`(?i)<li\b[^>]*>`)
	tagRe       = regexp.MustCompile(`<[^<>]+>`)
	spaceRunRe  = regexp.MustCompile(`[ \t]+`)
	leadSpaceRe = regexp.MustCompile(`\n[ \t]+`)
	blankRunRe  = regexp.MustCompile(`\n{3,}`)

	fullDocRe = regexp.MustCompile(`(?i)<!DOCTYPE|<html\b`)
)

// Normalize strips builder markup and tags from a raw body and returns
// plain text. It never fails: malformed input degrades to an emptier
// string.
func Normalize(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	// Full HTML documents go through readability first so navigation
	// and chrome never reach the text pipeline.
	if fullDocRe.MatchString(raw) {
		if main := extractMainContent(raw); main != "" {
			raw = main
		}
	}

	// Order matters: each step operates on the previous step's output.
	text := shortcodeRe.ReplaceAllString(raw, " ")
	text = templateRe.ReplaceAllString(text, " ")
	text = commentRe.ReplaceAllString(text, " ")
	text = styleRe.ReplaceAllString(text, " ")
	text = scriptRe.ReplaceAllString(text, " ")
	text = breakRe.ReplaceAllString(text, "\n")
	text = listOpenRe.ReplaceAllString(text, "- ")
	text = tagRe.ReplaceAllString(text, " ")
	text = html.UnescapeString(text)
	text = stripInvisible(text)
	text = spaceRunRe.ReplaceAllString(text, " ")
	text = leadSpaceRe.ReplaceAllString(text, "\n")
	text = strings.ReplaceAll(text, " \n", "\n")
	text = blankRunRe.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}

// extractMainContent isolates the article body of a complete HTML
// document via readability, then drops leftover non-content subtrees
// with goquery. Returns "" when nothing useful was found.
func extractMainContent(rawHTML string) string {
	pageURL, _ := url.Parse("https://localhost/")

	parser := readability.NewParser()
	article, err := parser.Parse(strings.NewReader(rawHTML), pageURL)
	if err != nil || article.Content == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(article.Content))
	if err != nil {
		return article.Content
	}
	doc.Find("style,script,noscript,iframe,svg,nav,footer").Remove()

	cleaned, err := doc.Find("body").Html()
	if err != nil || strings.TrimSpace(cleaned) == "" {
		return article.Content
	}
	return cleaned
}

// stripInvisible replaces zero-width and non-breaking space code points
// with a plain space.
func stripInvisible(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\u00a0', '\u200b', '\u200c', '\u200d', '\ufeff', '\u00ad':
			return ' '
		}
		return r
	}, s)
}
