package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pagesift/pagesift/internal/config"
	"github.com/pagesift/pagesift/internal/database"
)

// TestNewCrawlCmd tests the crawl command's flag surface.
func TestNewCrawlCmd(t *testing.T) {
	t.Parallel()

	cmd := NewCrawlCmd()

	if cmd.Name() != "crawl" {
		t.Errorf("expected command name crawl, got %q", cmd.Name())
	}

	tests := []struct {
		flag      string
		shorthand string
		defValue  string
	}{
		{flag: "select", shorthand: "s", defValue: "[]"},
		{flag: "max-pages", shorthand: "p", defValue: "50"},
		{flag: "timeout", shorthand: "t", defValue: "30s"},
		{flag: "delay", defValue: "500ms"},
		{flag: "user-agent", defValue: config.DefaultUserAgent},
		{flag: "max-body-size", defValue: "5242880"},
		{flag: "workers", shorthand: "w", defValue: "1"},
		{flag: "output", shorthand: "o", defValue: "crawl.json"},
		{flag: "summary", defValue: ""},
		{flag: "config", shorthand: "c", defValue: ""},
		{flag: "no-db", defValue: "false"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.flag, func(t *testing.T) {
			t.Parallel()

			flag := cmd.Flags().Lookup(tt.flag)
			if flag == nil {
				t.Fatalf("expected flag %q", tt.flag)
			}
			if flag.Shorthand != tt.shorthand {
				t.Errorf("expected shorthand %q, got %q", tt.shorthand, flag.Shorthand)
			}
			if flag.DefValue != tt.defValue {
				t.Errorf("expected default %q, got %q", tt.defValue, flag.DefValue)
			}
		})
	}
}

// TestBuildConfig tests layering of defaults, config file, and flags.
func TestBuildConfig(t *testing.T) {
	t.Run("defaults apply without a config file", func(t *testing.T) {
		cmd := NewCrawlCmd()
		if err := cmd.ParseFlags(nil); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		cfg, err := buildConfig(cmd, []string{"http://example.com/"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.SeedURL != "http://example.com/" {
			t.Errorf("unexpected seed %q", cfg.SeedURL)
		}
		if cfg.MaxPages != config.DefaultMaxPages {
			t.Errorf("expected default MaxPages, got %d", cfg.MaxPages)
		}
		if !cfg.SaveToDB {
			t.Error("expected SaveToDB to default to true")
		}
	})

	t.Run("flags override the config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "pagesift.yaml")
		content := "maxPages: 10\ncrawlDelay: 2s\nselectors:\n  h1:\n"
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		cmd := NewCrawlCmd()
		if err := cmd.ParseFlags([]string{"--config", path, "--max-pages", "7"}); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		cfg, err := buildConfig(cmd, []string{"http://example.com/"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// Flag wins over the file.
		if cfg.MaxPages != 7 {
			t.Errorf("expected MaxPages 7, got %d", cfg.MaxPages)
		}
		// Untouched file values survive.
		if cfg.CrawlDelay != 2*time.Second {
			t.Errorf("expected CrawlDelay 2s, got %v", cfg.CrawlDelay)
		}
		if len(cfg.Selectors) != 1 || cfg.Selectors[0].Tag != "h1" {
			t.Errorf("unexpected selectors: %v", cfg.Selectors)
		}
	})

	t.Run("explicit missing config file is an error", func(t *testing.T) {
		cmd := NewCrawlCmd()
		missing := filepath.Join(t.TempDir(), "absent.yaml")
		if err := cmd.ParseFlags([]string{"--config", missing}); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		if _, err := buildConfig(cmd, []string{"http://example.com/"}); err == nil {
			t.Fatal("expected error for missing config file")
		}
	})

	t.Run("selector flags are parsed in order", func(t *testing.T) {
		cmd := NewCrawlCmd()
		if err := cmd.ParseFlags([]string{"-s", "h1", "-s", "p.intro"}); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		cfg, err := buildConfig(cmd, []string{"http://example.com/"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := config.Selectors{{Tag: "h1"}, {Tag: "p", Class: "intro"}}
		if len(cfg.Selectors) != 2 || cfg.Selectors[0] != want[0] || cfg.Selectors[1] != want[1] {
			t.Errorf("expected %v, got %v", want, cfg.Selectors)
		}
	})

	t.Run("invalid selector flag fails", func(t *testing.T) {
		cmd := NewCrawlCmd()
		if err := cmd.ParseFlags([]string{"-s", ".classonly"}); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		if _, err := buildConfig(cmd, []string{"http://example.com/"}); err == nil {
			t.Fatal("expected error for invalid selector")
		}
	})

	t.Run("no-db disables history persistence flag", func(t *testing.T) {
		cmd := NewCrawlCmd()
		if err := cmd.ParseFlags([]string{"--no-db"}); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		cfg, err := buildConfig(cmd, []string{"http://example.com/"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.SaveToDB {
			t.Error("expected SaveToDB false with --no-db")
		}
	})
}

// TestRunCrawl tests the full crawl pipeline against a local site.
func TestRunCrawl(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		switch r.URL.Path {
		case "/":
			_, _ = w.Write([]byte(`<h1>Home</h1><a href="/a">a</a>`))
		case "/a":
			_, _ = w.Write([]byte(`<h1>A</h1>`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	dir := t.TempDir()
	cfg := config.NewConfig()
	cfg.SeedURL = server.URL + "/"
	cfg.Selectors = config.Selectors{{Tag: "h1"}}
	cfg.CrawlDelay = 0
	cfg.OutputFile = filepath.Join(dir, "out", "crawl.json")
	cfg.SummaryFile = filepath.Join(dir, "summary.md")
	cfg.DBDir = filepath.Join(dir, "db")

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := runCrawl(context.Background(), cfg, logger); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("writes the json result", func(t *testing.T) {
		data, err := os.ReadFile(cfg.OutputFile)
		if err != nil {
			t.Fatalf("failed to read output: %v", err)
		}
		var pages []map[string][]string
		if err := json.Unmarshal(data, &pages); err != nil {
			t.Fatalf("output is not a json array: %v", err)
		}
		if len(pages) != 2 {
			t.Fatalf("expected 2 pages, got %d", len(pages))
		}
		if got := pages[0]["h1"]; len(got) != 1 || got[0] != "Home" {
			t.Errorf("expected [Home], got %v", got)
		}
		if got := pages[0]["links"]; len(got) != 1 || got[0] != server.URL+"/a" {
			t.Errorf("expected one internal link, got %v", got)
		}
	})

	t.Run("writes the markdown summary", func(t *testing.T) {
		data, err := os.ReadFile(cfg.SummaryFile)
		if err != nil {
			t.Fatalf("failed to read summary: %v", err)
		}
		if !strings.Contains(string(data), "# Crawl Report") {
			t.Errorf("expected report heading, got:\n%s", data)
		}
	})

	t.Run("records the run in the history database", func(t *testing.T) {
		db, err := database.Open(cfg.DBDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("failed to open history database: %v", err)
		}
		defer db.Close()

		runs, err := db.ListRuns(context.Background(), 10)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 1 {
			t.Fatalf("expected 1 run, got %d", len(runs))
		}
		if runs[0].Pages != 2 {
			t.Errorf("expected 2 pages recorded, got %d", runs[0].Pages)
		}
	})
}
