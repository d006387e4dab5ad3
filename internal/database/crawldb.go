package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/pagesift/pagesift/internal/model"
)

// CrawlDB provides SQLite-based storage for crawl runs and their pages.
// It manages connection pooling and provides methods for saving finished
// crawls and listing run history.
type CrawlDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures CrawlDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// read performance. Recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a CrawlDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is
// returned.
func Open(dbDir string, opts Options) (*CrawlDB, error) {
	dbPath := filepath.Join(dbDir, "pagesift.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection modes: rw prevents creating new
	// files, rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; multiple readers can still
	// improve performance under WAL.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CrawlDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Close closes the database connection.
func (cdb *CrawlDB) Close() error {
	return cdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (cdb *CrawlDB) createTables() error {
	schema := `
	-- One row per crawl run
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		seed TEXT NOT NULL,
		origin TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL,
		max_pages INTEGER NOT NULL,
		page_count INTEGER NOT NULL,
		failure_count INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_origin ON runs(origin);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	-- One row per successfully fetched page, in BFS order
	CREATE TABLE IF NOT EXISTS pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		url TEXT NOT NULL,
		result_json TEXT NOT NULL,
		UNIQUE(run_id, position)
	);

	CREATE INDEX IF NOT EXISTS idx_pages_run ON pages(run_id);
	CREATE INDEX IF NOT EXISTS idx_pages_url ON pages(url);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveCrawl stores a finished crawl run and its pages in one transaction.
// It returns the new run's ID.
func (cdb *CrawlDB) SaveCrawl(ctx context.Context, crawl *model.Crawl) (int64, error) {
	tx, err := cdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (seed, origin, started_at, finished_at, max_pages, page_count, failure_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		crawl.Seed,
		crawl.Origin,
		crawl.StartedAt.UTC(),
		crawl.FinishedAt.UTC(),
		crawl.MaxPages,
		len(crawl.Pages),
		len(crawl.Failures),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO pages (run_id, position, url, result_json) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare page insert: %w", err)
	}
	defer stmt.Close()

	for i, page := range crawl.Pages {
		resultJSON, err := json.Marshal(page)
		if err != nil {
			return 0, fmt.Errorf("failed to serialize page %s: %w", page.URL, err)
		}
		if _, err := stmt.ExecContext(ctx, runID, i, page.URL, string(resultJSON)); err != nil {
			return 0, fmt.Errorf("failed to insert page %s: %w", page.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit crawl: %w", err)
	}

	return runID, nil
}

// RunRecord summarizes one stored crawl run.
type RunRecord struct {
	ID         int64
	Seed       string
	Origin     string
	StartedAt  time.Time
	FinishedAt time.Time
	MaxPages   int
	Pages      int
	Failures   int
}

// ListRuns returns the most recent crawl runs, newest first.
// A limit of 0 or less defaults to 20.
func (cdb *CrawlDB) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := cdb.db.QueryContext(ctx,
		`SELECT id, seed, origin, started_at, finished_at, max_pages, page_count, failure_count
		 FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.ID, &r.Seed, &r.Origin, &r.StartedAt, &r.FinishedAt,
			&r.MaxPages, &r.Pages, &r.Failures); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		records = append(records, r)
	}

	return records, rows.Err()
}

// GetRunPages returns the stored page results for one run, in BFS order.
func (cdb *CrawlDB) GetRunPages(ctx context.Context, runID int64) ([]*model.PageResult, error) {
	rows, err := cdb.db.QueryContext(ctx,
		`SELECT url, result_json FROM pages WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pages: %w", err)
	}
	defer rows.Close()

	var pages []*model.PageResult
	for rows.Next() {
		var pageURL, resultJSON string
		if err := rows.Scan(&pageURL, &resultJSON); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}

		var fields map[string][]string
		if err := json.Unmarshal([]byte(resultJSON), &fields); err != nil {
			return nil, fmt.Errorf("failed to decode page %s: %w", pageURL, err)
		}

		page := &model.PageResult{URL: pageURL, Links: fields[model.LinksField]}
		delete(fields, model.LinksField)
		// Selector order is not stored; sort for a stable reconstruction.
		names := make([]string, 0, len(fields))
		for name := range fields {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			page.Fields = append(page.Fields, model.FieldResult{Name: name, Values: fields[name]})
		}
		pages = append(pages, page)
	}

	return pages, rows.Err()
}
