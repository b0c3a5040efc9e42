// Package chunk splits extracted book text into fixed-size pages.
//
// Unlike search-oriented chunkers, pages carry no overlap: a page is a
// contiguous slice of the source text and concatenating all pages in order
// reproduces the input exactly. Sizes are counted in runes, not bytes, so
// multi-byte scripts paginate correctly.
package chunk

import "unicode/utf8"

// DefaultPageSize is the page length used for ingested books.
const DefaultPageSize = 4000

// Pages splits text into consecutive pages of at most maxSize runes each.
// Every page except the last is exactly maxSize runes long. maxSize <= 0
// falls back to DefaultPageSize.
//
// Empty input yields a single empty page, so every book has at least one
// page and page index 0 is always addressable.
func Pages(text string, maxSize int) []string {
	if maxSize <= 0 {
		maxSize = DefaultPageSize
	}
	if text == "" {
		return []string{""}
	}

	pages := make([]string, 0, utf8.RuneCountInString(text)/maxSize+1)
	start := 0
	count := 0
	for i := range text {
		if count == maxSize {
			pages = append(pages, text[start:i])
			start = i
			count = 0
		}
		count++
	}
	pages = append(pages, text[start:])
	return pages
}

// Count returns the number of pages Pages would produce without building them.
func Count(text string, maxSize int) int {
	if maxSize <= 0 {
		maxSize = DefaultPageSize
	}
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return 1
	}
	return (n + maxSize - 1) / maxSize
}
