package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than creating
// new error instances in Validate(). This allows callers to use errors.Is()
// for programmatic error handling while still providing human-readable
// messages.
var (
	// ErrNoSeed is returned when no seed URL is provided.
	ErrNoSeed = errors.New("no seed URL specified: provide a URL to start crawling from")

	// ErrInvalidSeed is returned when the seed URL cannot be parsed or is
	// not an absolute http(s) URL.
	ErrInvalidSeed = errors.New("invalid seed URL: must be an absolute http or https URL")

	// ErrInvalidMaxPages is returned when the page budget is not positive.
	// A budget of zero would mean the crawl records nothing.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be positive")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	// A zero or negative timeout would cause immediate request failures.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidCrawlDelay is returned when the crawl delay is negative.
	// Use 0 for no delay between requests.
	ErrInvalidCrawlDelay = errors.New("invalid crawl delay: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Use 0 to apply the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidWorkers is returned when the worker count is below one.
	ErrInvalidWorkers = errors.New("invalid workers: must be at least 1")

	// ErrNoOutput is returned when the output file path is empty.
	ErrNoOutput = errors.New("no output file specified")

	// ErrReservedSelector is returned when a selector uses the reserved
	// "links" tag, which names the discovered-links field in the output.
	ErrReservedSelector = errors.New(`selector tag "links" is reserved for discovered links`)
)
