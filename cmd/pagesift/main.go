// Package main provides the entry point for the pagesift CLI.
//
// pagesift is a breadth-first web crawler bounded to a seed URL's domain.
// It extracts text by tag/optional-class selectors from every crawled page
// and writes the ordered results as a JSON array.
//
// Usage:
//
//	pagesift crawl --select h1 --select p.intro https://example.com
//
// See --help for all available options.
package main

// main is the entry point for pagesift.
func main() {
	Execute()
}
