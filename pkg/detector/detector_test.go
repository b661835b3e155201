package detector

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestIndustry(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "empty", content: "", want: ""},
		{
			name:    "plain prose stays untagged",
			content: "we write about software engineering and distributed systems design",
			want:    "",
		},
		{
			name:    "hospitality",
			content: "Our hotel offers a spa, concierge service, and late check-out for every guest suite.",
			want:    IndustryHospitality,
		},
		{
			name:    "ecommerce",
			content: "Add to cart and head to checkout. Every product ships free and our returns policy covers refunds.",
			want:    IndustryEcommerce,
		},
		{
			name:    "tours",
			content: "Join a guided tour or full-day excursion. Each itinerary covers the major attractions by cruise.",
			want:    IndustryTours,
		},
		{
			name:    "below threshold",
			content: "the hotel was mentioned once in passing",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Industry(tt.content); got != tt.want {
				t.Fatalf("Industry(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}

func TestLanguage(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "empty", content: "", want: ""},
		{
			name:    "english",
			content: "The workshop builds handmade furniture and ships it all over the world.",
			want:    "en",
		},
		{
			name:    "italian",
			content: "Il nostro ristorante propone una cucina tradizionale toscana con pasta fatta a mano e carne alla griglia.",
			want:    "it",
		},
		{
			name:    "german",
			content: "Unsere Werkstatt fertigt handgemachte Möbel aus Eichenholz und liefert sie in die ganze Welt.",
			want:    "de",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Language(tt.content); got != tt.want {
				t.Fatalf("Language(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}

func TestSampleTextKeepsRunesWhole(t *testing.T) {
	// 3-byte runes; sampleSize is not a multiple of 3, so a plain byte
	// slice would end mid-sequence.
	long := strings.Repeat("世", sampleSize)

	got := sampleText(long)
	if len(got) > sampleSize {
		t.Fatalf("len(sampleText()) = %d, want <= %d", len(got), sampleSize)
	}
	if !utf8.ValidString(got) {
		t.Fatalf("sampleText() produced invalid UTF-8 tail: %q", got[len(got)-6:])
	}

	short := "plain ascii"
	if sampleText(short) != short {
		t.Fatalf("sampleText(%q) altered short input", short)
	}
}
