package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/pagesift/pagesift/internal/model"
)

// MarkdownWriter outputs a human-readable crawl run summary in Markdown.
// This format is for documentation and sharing; the JSON sink remains the
// canonical machine-readable result.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the crawl summary in Markdown format.
func (w *MarkdownWriter) Write(crawl *model.Crawl) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, crawl)
	w.writePages(md, crawl)
	w.writeFailures(md, crawl)

	return len(md.String()), md.Build()
}

// writeHeader writes the run properties table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, crawl *model.Crawl) {
	md.H1("Crawl Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Seed", "`" + crawl.Seed + "`"},
			{"Origin", "`" + crawl.Origin + "`"},
			{"Started", crawl.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", crawl.Duration().String()},
			{"Pages crawled", strconv.Itoa(len(crawl.Pages))},
			{"Page budget", strconv.Itoa(crawl.MaxPages)},
			{"Fetch failures", strconv.Itoa(len(crawl.Failures))},
		},
	})
	md.PlainText("")
}

// writePages writes the per-page table in BFS fetch order.
func (w *MarkdownWriter) writePages(md *markdown.Markdown, crawl *model.Crawl) {
	md.H2("Pages")
	md.PlainText("")

	if len(crawl.Pages) == 0 {
		md.PlainText("No pages were crawled.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(crawl.Pages))
	for i, page := range crawl.Pages {
		extracted := 0
		for _, f := range page.Fields {
			extracted += len(f.Values)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			"`" + page.URL + "`",
			strconv.Itoa(extracted),
			strconv.Itoa(len(page.Links)),
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"#", "URL", "Extracted values", "Internal links"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFailures writes the dropped-URL table, if any fetches failed.
func (w *MarkdownWriter) writeFailures(md *markdown.Markdown, crawl *model.Crawl) {
	if len(crawl.Failures) == 0 {
		return
	}

	md.H2("Fetch Failures")
	md.PlainText("")

	rows := make([][]string, 0, len(crawl.Failures))
	for _, failure := range crawl.Failures {
		rows = append(rows, []string{"`" + failure.URL + "`", failure.Reason})
	}

	md.Table(markdown.TableSet{
		Header: []string{"URL", "Reason"},
		Rows:   rows,
	})
	md.PlainText("")
}
