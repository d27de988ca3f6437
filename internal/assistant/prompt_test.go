package assistant

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSnippetKeepsRunesWhole(t *testing.T) {
	// "ł" is two bytes; an 11-byte budget lands inside the sixth one.
	s := strings.Repeat("ł", 10)
	got := snippet(s, 11)
	if !utf8.ValidString(got) {
		t.Fatalf("truncation produced invalid UTF-8: %q", got)
	}
	if want := strings.Repeat("ł", 5) + "…"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestSnippetShortStringUntouched(t *testing.T) {
	if got := snippet("krótki", 600); got != "krótki" {
		t.Fatalf("short content must pass through, got %q", got)
	}
}
