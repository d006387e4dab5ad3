// Package report provides output writers for crawl results.
//
// This package contains:
//   - JSONWriter: the crawl's result sink, the ordered page-result array
//     serialized as pretty-printed JSON
//   - MarkdownWriter: a human-readable run summary for documentation
//
// Design decision: We separate report writing from the data structures
// (which live in the model package) so new output formats can be added
// without modifying the crawl engine. Writers implement the Writer
// interface, allowing them to be composed for multi-format output.
package report
