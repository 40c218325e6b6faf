package extract

import (
	"strings"
	"testing"
)

func TestIsValidKeyword(t *testing.T) {
	tests := []struct {
		keyword string
		want    bool
	}{
		{"junk removal", true},
		{"same day junk removal phoenix", true},
		{"hot tub removal milwaukee wi", true},
		{"removal", false},                               // single word
		{"fast same day junk removal phoenix az", false}, // six words
		{"best junk removal", false},                     // praise
		{"our team rocks", false},                        // branding
		{"#junkremoval phoenix", false},
		{"", false},
		{"   ", false},
	}

	for _, tt := range tests {
		if got := IsValidKeyword(tt.keyword); got != tt.want {
			t.Errorf("IsValidKeyword(%q) = %v, want %v", tt.keyword, got, tt.want)
		}
	}
}

func TestKeywords_RanksByFrequency(t *testing.T) {
	text := strings.Repeat("We do garage cleanout every week. ", 4) +
		"Occasionally we handle appliance removal too."

	keywords := Keywords(text, "")
	if len(keywords) == 0 {
		t.Fatal("Expected keywords, got none")
	}
	if !strings.Contains(keywords[0], "cleanout") {
		t.Errorf("Expected most frequent phrase first, got %q", keywords[0])
	}
}

func TestKeywords_AddsCityVariants(t *testing.T) {
	text := strings.Repeat("Hot tub removal is our specialty. ", 3)

	keywords := Keywords(text, "Phoenix")

	var geo bool
	for _, kw := range keywords {
		if strings.HasSuffix(kw, " phoenix") {
			geo = true
		}
	}
	if !geo {
		t.Errorf("Expected a city-suffixed variant in %v", keywords)
	}
}

func TestKeywords_EmptyText(t *testing.T) {
	if kws := Keywords("", "Phoenix"); len(kws) != 0 {
		t.Errorf("Expected no keywords for empty text, got %v", kws)
	}
	if kws := Keywords("Our friendly team provides great service", ""); len(kws) != 0 {
		t.Errorf("Expected no keywords for praise-only text, got %v", kws)
	}
}
