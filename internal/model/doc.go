// Package model defines the data structures shared across pagesift.
//
// The central types are PageResult (the extraction output for one fetched
// page) and Crawl (the complete result of one crawl run, including run
// metadata and per-page fetch failures).
//
// Design decision: We keep data structures separate from the crawler and
// report packages so that storage and output formats can evolve without
// touching the crawl engine.
package model
