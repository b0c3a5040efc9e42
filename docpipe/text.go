package docpipe

import (
	"fmt"
	"os"
	"unicode/utf8"
)

// extractText reads a plain text file as UTF-8. Unlike the PDF path the
// content is passed through untouched: whitespace is significant when the
// text is later cut into fixed-size pages.
func extractText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("not valid UTF-8")
	}
	if len(data) == 0 {
		return "", fmt.Errorf("empty file")
	}
	return string(data), nil
}
