package chunk

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestPagesRoundTrip(t *testing.T) {
	inputs := []string{
		"a",
		"hello world",
		strings.Repeat("x", 3999),
		strings.Repeat("x", 4000),
		strings.Repeat("x", 4001),
		strings.Repeat("привет мир ", 1200),
		strings.Repeat("日本語テキスト", 900),
	}

	for _, text := range inputs {
		for _, size := range []int{1, 7, 4000} {
			pages := Pages(text, size)
			if got := strings.Join(pages, ""); got != text {
				t.Errorf("round trip failed for len=%d size=%d", len(text), size)
			}
		}
	}
}

func TestPagesBounds(t *testing.T) {
	text := strings.Repeat("я", 8500)
	pages := Pages(text, 4000)

	if len(pages) != 3 {
		t.Fatalf("pages: got %d, want 3", len(pages))
	}
	for i, p := range pages {
		n := utf8.RuneCountInString(p)
		if i < len(pages)-1 && n != 4000 {
			t.Errorf("page %d: got %d runes, want exactly 4000", i, n)
		}
		if n > 4000 {
			t.Errorf("page %d: %d runes exceeds max", i, n)
		}
	}
	if got := utf8.RuneCountInString(pages[2]); got != 500 {
		t.Errorf("last page: got %d runes, want 500", got)
	}
}

func TestPagesExactMultiple(t *testing.T) {
	pages := Pages(strings.Repeat("x", 8000), 4000)
	if len(pages) != 2 {
		t.Fatalf("pages: got %d, want 2", len(pages))
	}
}

func TestPagesEmptyInput(t *testing.T) {
	pages := Pages("", 4000)
	if len(pages) != 1 {
		t.Fatalf("pages: got %d, want 1", len(pages))
	}
	if pages[0] != "" {
		t.Errorf("page 0: got %q, want empty", pages[0])
	}
}

func TestPagesMultiByteNoSplit(t *testing.T) {
	// Splitting must never land inside a multi-byte rune.
	text := strings.Repeat("é", 10)
	pages := Pages(text, 3)
	for i, p := range pages {
		if !utf8.ValidString(p) {
			t.Errorf("page %d is not valid UTF-8", i)
		}
	}
	if len(pages) != 4 {
		t.Errorf("pages: got %d, want 4", len(pages))
	}
}

func TestPagesDefaultSize(t *testing.T) {
	text := strings.Repeat("x", DefaultPageSize+1)
	pages := Pages(text, 0)
	if len(pages) != 2 {
		t.Errorf("pages with default size: got %d, want 2", len(pages))
	}
}

func TestCount(t *testing.T) {
	cases := []struct {
		text string
		size int
		want int
	}{
		{"", 4000, 1},
		{"abc", 4000, 1},
		{strings.Repeat("x", 4000), 4000, 1},
		{strings.Repeat("x", 4001), 4000, 2},
		{strings.Repeat("я", 8500), 4000, 3},
	}
	for _, c := range cases {
		if got := Count(c.text, c.size); got != c.want {
			t.Errorf("Count(len=%d, %d): got %d, want %d", len(c.text), c.size, got, c.want)
		}
		if got := len(Pages(c.text, c.size)); got != c.want {
			t.Errorf("Count disagrees with Pages for len=%d", len(c.text))
		}
	}
}
