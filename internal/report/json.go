package report

import (
	"encoding/json"
	"io"

	"github.com/pagesift/pagesift/internal/model"
)

// JSONWriter is the crawl's result sink. It outputs the ordered page-result
// list as a JSON array: one object per page with one key per selector tag
// (in selector order) plus the "links" key.
//
// Output is deterministic: field order follows the selector spec, link order
// is first-seen document order, and page order is BFS fetch order, so two
// runs against an unchanged site produce byte-identical output.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed output. The crawl sink always pretty
	// prints; compact mode exists for embedding output in other tooling.
	indent bool

	// indentString is the per-level indentation (typically "  ").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithCompact disables pretty printing.
func WithCompact() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = false
	}
}

// WithIndentString sets the per-level indentation string.
func WithIndentString(indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentString = indent
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
// Pretty printing with two-space indentation is the default.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter:   newBaseWriter(output),
		indent:       true,
		indentString: "  ",
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write serializes the crawl's page results and writes them to the output.
// Only the page array is written; run metadata belongs to the summary
// formats. An empty crawl writes an empty JSON array.
func (w *JSONWriter) Write(crawl *model.Crawl) (int, error) {
	pages := crawl.Pages
	if pages == nil {
		pages = []*model.PageResult{}
	}

	var data []byte
	var err error
	if w.indent {
		data, err = json.MarshalIndent(pages, "", w.indentString)
	} else {
		data, err = json.Marshal(pages)
	}
	if err != nil {
		return 0, err
	}

	// Trailing newline for well-formed files and terminal output.
	data = append(data, '\n')

	return w.output.Write(data)
}
