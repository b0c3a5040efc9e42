package docpipe

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat is returned by Detect for unrecognized extensions.
var ErrUnsupportedFormat = errors.New("docpipe: unsupported format")

// ExtractError reports a source that could not be turned into text:
// corrupt or encrypted PDF, invalid encoding, or an empty document.
// During a batch scan it aborts only the file it belongs to.
type ExtractError struct {
	Path   string
	Format Format
	Err    error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("docpipe: extract %s (%s): %v", e.Path, e.Format, e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }

// IsExtractError reports whether err is (or wraps) an ExtractError.
func IsExtractError(err error) bool {
	var ee *ExtractError
	return errors.As(err, &ee)
}
