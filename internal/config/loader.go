package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".pagesift.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .pagesift.yaml configuration file.
// Every field is optional; CLI flags override file values.
//
//	selectors:
//	  h1:
//	  p: intro
//	maxPages: 25
//	crawlDelay: 1s
//	userAgent: "my-crawler/1.0"
type File struct {
	// Selectors is the ordered tag/optional-class extraction spec.
	Selectors Selectors `yaml:"selectors,omitempty"`

	// MaxPages overrides the page budget.
	MaxPages int `yaml:"maxPages,omitempty"`

	// Timeout overrides the per-request HTTP timeout.
	Timeout Duration `yaml:"timeout,omitempty"`

	// CrawlDelay overrides the politeness delay between requests.
	// A pointer so an explicit "crawlDelay: 0" can disable pacing, which
	// a zero-is-unset field could not express.
	CrawlDelay *Duration `yaml:"crawlDelay,omitempty"`

	// UserAgent overrides the User-Agent header.
	UserAgent string `yaml:"userAgent,omitempty"`

	// MaxBodySize overrides the response body size cap in bytes.
	MaxBodySize int64 `yaml:"maxBodySize,omitempty"`

	// Workers overrides the concurrent fetch count.
	Workers int `yaml:"workers,omitempty"`
}

// LoadConfigFile loads crawl settings from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound. Callers decide
// how to handle that based on whether the path was explicitly given.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
//  1. If configPath is specified, use it directly
//  2. Look for .pagesift.yaml in the current directory
//  3. Look for .pagesift.yaml in the user's home directory
//
// Returns the path to the configuration file if found, or empty string.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}

// Apply merges file values into cfg. Only fields the file actually sets are
// copied, so flag values that were already applied keep precedence when the
// caller applies flags afterwards.
func (cf *File) Apply(cfg *Config) {
	if len(cf.Selectors) > 0 {
		cfg.Selectors = cf.Selectors
	}
	if cf.MaxPages > 0 {
		cfg.MaxPages = cf.MaxPages
	}
	if !cf.Timeout.IsZero() {
		cfg.Timeout = cf.Timeout.Duration
	}
	if cf.CrawlDelay != nil {
		cfg.CrawlDelay = cf.CrawlDelay.Duration
	}
	if cf.UserAgent != "" {
		cfg.UserAgent = cf.UserAgent
	}
	if cf.MaxBodySize > 0 {
		cfg.MaxBodySize = cf.MaxBodySize
	}
	if cf.Workers > 0 {
		cfg.Workers = cf.Workers
	}
}
