// Package database provides SQLite-based storage for crawl history.
//
// The CrawlDB records one row per crawl run and one row per fetched page,
// letting users inspect past runs (the `pagesift runs` command) without
// keeping every output file around. The crawl frontier itself is never
// persisted: the database records outcomes only.
//
// Design decision: We use SQLite (via modernc.org/sqlite) because:
//  1. No external dependencies - the database is a single file
//  2. CGO-free implementation allows easy cross-compilation
//  3. Sufficient performance for our use case
//  4. WAL mode provides good concurrent read performance
package database
