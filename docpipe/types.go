package docpipe

// Format identifies a source document type.
type Format string

const (
	FormatPDF Format = "pdf"
	FormatTXT Format = "txt"
)

// Document is the result of extracting content from a file: one text blob,
// ready for pagination.
type Document struct {
	Path   string `json:"path"`
	Format Format `json:"format"`
	Title  string `json:"title"`
	Text   string `json:"text"`
	// SourcePages is the page count of the source artifact (PDF only;
	// 0 for plain text). Unrelated to the fixed-size pages the chunker
	// produces later.
	SourcePages int `json:"source_pages,omitempty"`
}
