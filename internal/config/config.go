package config

import (
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// The crawl-shaping defaults mirror the original scraper's behavior where one
// existed (page budget); the transport defaults are conservative fixed values
// documented here as configuration, since the original left them unspecified.
const (
	// DefaultMaxPages is the maximum number of pages fetched per crawl.
	// The budget bounds successful results, not fetch attempts.
	DefaultMaxPages = 50

	// DefaultTimeout is the HTTP client timeout per request. The crawler
	// never retries, so a generous timeout avoids dropping slow pages.
	DefaultTimeout = 30 * time.Second

	// DefaultCrawlDelay is the politeness delay between requests.
	// Sequential fetching plus this delay keeps the crawler from
	// overwhelming the target server.
	DefaultCrawlDelay = 500 * time.Millisecond

	// DefaultMaxBodySize limits the response body size read per page.
	// 5MB is sufficient for HTML pages while preventing memory exhaustion
	// from unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024

	// DefaultWorkers is the number of concurrent fetches. 1 means the
	// sequential, fully ordered BFS loop.
	DefaultWorkers = 1

	// DefaultUserAgent identifies pagesift in HTTP requests. A descriptive
	// User-Agent lets site operators identify crawler traffic in their logs.
	DefaultUserAgent = "pagesift/1.0 (+https://github.com/pagesift/pagesift)"

	// DefaultOutputFile is where the crawl result JSON array is written
	// when no --output flag is given.
	DefaultOutputFile = "crawl.json"

	// AppName is the application name used for XDG directory paths.
	AppName = "pagesift"
)

// Config holds all options for one crawl invocation.
// It is populated from CLI flags (optionally merged with a config file) and
// passed through the application via dependency injection.
//
// Design decision: We use a single flat struct instead of nested structs.
// The number of options is manageable, and nesting would add complexity
// without significant benefit.
type Config struct {
	// SeedURL is the URL the crawl starts from. Its network location
	// (host[:port]) defines the crawl's scope.
	SeedURL string

	// Selectors is the ordered tag/optional-class specification applied
	// identically to every page. It is immutable for the crawl's duration.
	Selectors Selectors

	// MaxPages is the page budget: the crawl stops once this many pages
	// have been successfully fetched and recorded.
	MaxPages int

	// Timeout is the HTTP client timeout for each request.
	Timeout time.Duration

	// CrawlDelay is the politeness delay between requests.
	// Zero disables pacing.
	CrawlDelay time.Duration

	// UserAgent is the User-Agent header sent with each request.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Zero means use DefaultMaxBodySize.
	MaxBodySize int64

	// Workers is the number of concurrent fetches. 1 (the default) gives
	// the strictly sequential BFS loop; higher values fetch each BFS layer
	// concurrently while keeping deterministic output order.
	Workers int

	// OutputFile is the path the crawl result JSON array is written to.
	OutputFile string

	// SummaryFile, when set, is the path a Markdown run summary is
	// written to in addition to the JSON output.
	SummaryFile string

	// ConfigFilePath is the path to the configuration file. If empty, the
	// tool searches for .pagesift.yaml in the current directory and then
	// in the user's home directory.
	ConfigFilePath string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// DBDir is the directory holding the SQLite crawl-history database.
	// Defaults to the XDG data directory.
	DBDir string

	// SaveToDB controls whether the finished run is recorded in the
	// crawl-history database.
	SaveToDB bool
}

// NewConfig creates a Config with default values.
// Users override specific fields after creation.
func NewConfig() *Config {
	return &Config{
		MaxPages:    DefaultMaxPages,
		Timeout:     DefaultTimeout,
		CrawlDelay:  DefaultCrawlDelay,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
		Workers:     DefaultWorkers,
		OutputFile:  DefaultOutputFile,
		SaveToDB:    true,
	}
}

// XDGDataDir returns the XDG data directory for pagesift.
// On Linux: ~/.local/share/pagesift
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks if the configuration is valid and returns the first
// problem found as a sentinel error (wrapped where dynamic context helps).
//
// Design decision: We validate once after CLI parsing rather than at each
// point of use, so the crawl fails fast with a clear message.
func (c *Config) Validate() error {
	if c.SeedURL == "" {
		return ErrNoSeed
	}

	u, err := url.Parse(c.SeedURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ErrInvalidSeed
	}

	if c.MaxPages <= 0 {
		return ErrInvalidMaxPages
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.CrawlDelay < 0 {
		return ErrInvalidCrawlDelay
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if c.Workers < 1 {
		return ErrInvalidWorkers
	}

	if c.OutputFile == "" {
		return ErrNoOutput
	}

	// "links" is the reserved output field for discovered internal links;
	// a selector with that tag would silently collide with it.
	for _, sel := range c.Selectors {
		if sel.Tag == "links" {
			return ErrReservedSelector
		}
	}

	return nil
}
