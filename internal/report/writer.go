package report

import (
	"io"

	"github.com/pagesift/pagesift/internal/model"
)

// Writer defines the interface for crawl result output.
// Implementations write a finished crawl in a specific format.
type Writer interface {
	// Write outputs the crawl to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(crawl *model.Crawl) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously, useful for
// emitting the JSON sink and a summary in one pass.
//
// Design decision: We implement this as a separate type rather than using
// io.MultiWriter because our Writer interface writes crawls, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the crawl to all configured Writers. It returns the total
// bytes written and stops on the first error encountered.
func (m *MultiWriter) Write(crawl *model.Crawl) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(crawl)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides the output destination for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
