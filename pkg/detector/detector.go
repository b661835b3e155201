// Package detector classifies compiled content: industry tagging for
// the @industry metadata key and language detection for @lang.
package detector

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/pemistahl/lingua-go"
)

// Industry tags recognized by downstream consumers.
const (
	IndustryHospitality = "hospitality"
	IndustryEcommerce   = "ecommerce"
	IndustryTours       = "tours"
)

// industryThreshold is the minimum keyword score before any tag is
// assigned.
const industryThreshold = 3

const sampleSize = 5000

var hospitalitySignals = []string{
	"hotel", "resort", "check-in", "check-out", "room type", "suite",
	"booking", "guest", "accommodation", "spa", "concierge", "amenities",
	"bed and breakfast", "hostel", "villa", "lodge",
}

var ecommerceSignals = []string{
	"add to cart", "shopping cart", "checkout", "product", "price",
	"buy now", "shop", "store", "shipping", "returns policy", "refund",
	"order", "inventory", "sku", "catalog",
}

var tourSignals = []string{
	"tour", "excursion", "itinerary", "experience", "adventure",
	"guided", "sightseeing", "day trip", "cruise", "safari",
	"activity", "attractions",
}

// Industry scores a content sample against per-industry keyword lists
// and returns the best tag, or "" when no industry reaches the
// threshold.
func Industry(content string) string {
	sample := sampleText(strings.ToLower(content))

	best, bestScore := "", 0
	for _, candidate := range []struct {
		tag     string
		signals []string
	}{
		{IndustryHospitality, hospitalitySignals},
		{IndustryEcommerce, ecommerceSignals},
		{IndustryTours, tourSignals},
	} {
		score := 0
		for _, w := range candidate.signals {
			if strings.Contains(sample, w) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = candidate.tag, score
		}
	}

	if bestScore >= industryThreshold {
		return best
	}
	return ""
}

// sampleText caps the classified text at sampleSize bytes without
// splitting a multi-byte rune.
func sampleText(s string) string {
	if len(s) <= sampleSize {
		return s
	}
	end := sampleSize
	for end > 0 && !utf8.RuneStart(s[end]) {
		end--
	}
	return s[:end]
}

// languageDetector is built once; lingua model data loads lazily.
var languageDetector = sync.OnceValue(func() lingua.LanguageDetector {
	return lingua.NewLanguageDetectorBuilder().
		FromLanguages(
			lingua.English, lingua.Spanish, lingua.Italian,
			lingua.French, lingua.German, lingua.Portuguese,
		).
		Build()
})

// Language returns the ISO 639-1 code of the dominant language of the
// sample, or "" when detection is inconclusive.
func Language(content string) string {
	sample := sampleText(strings.TrimSpace(content))
	if sample == "" {
		return ""
	}

	lang, ok := languageDetector().DetectLanguageOf(sample)
	if !ok {
		return ""
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}
