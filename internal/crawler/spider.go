package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/pagesift/pagesift/internal/config"
	"github.com/pagesift/pagesift/internal/model"
)

// Spider is the crawl engine. It drives the breadth-first loop (dequeue,
// fetch, extract, record, expand) until the frontier is empty or the page
// budget is reached.
//
// A Spider carries configuration only; all per-run state (frontier, results,
// pacing) is created inside Crawl, so one Spider can run any number of
// independent crawls.
type Spider struct {
	// fetcher retrieves individual pages.
	fetcher *Fetcher

	// maxPages bounds the number of successfully recorded pages per crawl.
	maxPages int

	// delay is the politeness delay between requests. Zero disables pacing.
	delay time.Duration

	// workers is the number of concurrent fetches. 1 means the strictly
	// sequential loop.
	workers int

	// logger receives per-page progress and failure records.
	logger *slog.Logger
}

// SpiderOption configures a Spider.
type SpiderOption func(*Spider)

// WithMaxPages sets the page budget. Values below 1 are ignored.
func WithMaxPages(n int) SpiderOption {
	return func(s *Spider) {
		if n > 0 {
			s.maxPages = n
		}
	}
}

// WithCrawlDelay sets the politeness delay between requests.
func WithCrawlDelay(d time.Duration) SpiderOption {
	return func(s *Spider) {
		if d >= 0 {
			s.delay = d
		}
	}
}

// WithWorkers sets the number of concurrent fetches. With n > 1 the spider
// fetches each BFS wave concurrently; results are still recorded in dequeue
// order, so output stays deterministic.
func WithWorkers(n int) SpiderOption {
	return func(s *Spider) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithLogger sets the structured logger used for crawl progress.
func WithLogger(logger *slog.Logger) SpiderOption {
	return func(s *Spider) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSpider creates a Spider that fetches pages with the given Fetcher.
func NewSpider(fetcher *Fetcher, opts ...SpiderOption) *Spider {
	s := &Spider{
		fetcher:  fetcher,
		maxPages: config.DefaultMaxPages,
		delay:    config.DefaultCrawlDelay,
		workers:  1,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Crawl runs one breadth-first crawl from seedURL, applying selectors to
// every fetched page. It returns the ordered crawl result; the returned
// error is non-nil only for an unusable seed or context cancellation;
// per-page fetch failures are recorded in the result and never abort the
// crawl.
func (s *Spider) Crawl(ctx context.Context, seedURL string, selectors config.Selectors) (*model.Crawl, error) {
	seed, err := url.Parse(seedURL)
	if err != nil {
		return nil, fmt.Errorf("invalid seed URL: %w", err)
	}
	if seed.Scheme == "" {
		seed.Scheme = "http"
	}
	if seed.Host == "" {
		return nil, fmt.Errorf("invalid seed URL %q: missing host", seedURL)
	}

	crawl := &model.Crawl{
		Seed:      seed.String(),
		Origin:    seed.Host,
		StartedAt: time.Now(),
		MaxPages:  s.maxPages,
		Pages:     make([]*model.PageResult, 0, s.maxPages),
	}

	frontier := NewFrontier()
	frontier.Seed(seed.String())

	run := &crawlRun{
		frontier:  frontier,
		selectors: selectors,
		crawl:     crawl,
	}
	if s.delay > 0 {
		run.limiter = rate.NewLimiter(rate.Every(s.delay), 1)
	}

	if s.workers > 1 {
		err = s.crawlWaves(ctx, run)
	} else {
		err = s.crawlSequential(ctx, run)
	}
	crawl.FinishedAt = time.Now()

	s.logger.Info("crawl finished",
		"seed", crawl.Seed,
		"pages", len(crawl.Pages),
		"failures", len(crawl.Failures),
		"urlsSeen", frontier.Seen(),
	)

	return crawl, err
}

// crawlRun bundles the per-run state shared by the loop variants.
type crawlRun struct {
	frontier  *Frontier
	selectors config.Selectors
	crawl     *model.Crawl
	limiter   *rate.Limiter
}

// crawlSequential is the default single-threaded loop: each page is fully
// fetched, extracted, and expanded before the next dequeue.
func (s *Spider) crawlSequential(ctx context.Context, run *crawlRun) error {
	for len(run.crawl.Pages) < s.maxPages {
		pageURL, ok := run.frontier.Dequeue()
		if !ok {
			return nil
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		page, links, err := s.visit(ctx, pageURL, run)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.recordFailure(run.crawl, pageURL, err)
			continue
		}

		s.record(run, page, links)
	}
	return nil
}

// crawlWaves is the bounded-concurrency loop: it dequeues up to the
// remaining budget, fetches those URLs concurrently under the worker limit,
// then records results and expands links in dequeue order. Recording in
// dequeue order keeps the output identical to the sequential loop.
func (s *Spider) crawlWaves(ctx context.Context, run *crawlRun) error {
	for {
		remaining := s.maxPages - len(run.crawl.Pages)
		if remaining <= 0 {
			return nil
		}

		wave := make([]string, 0, remaining)
		for len(wave) < remaining {
			pageURL, ok := run.frontier.Dequeue()
			if !ok {
				break
			}
			wave = append(wave, pageURL)
		}
		if len(wave) == 0 {
			return nil
		}

		type outcome struct {
			page  *model.PageResult
			links []string
			err   error
		}
		outcomes := make([]outcome, len(wave))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.workers)
		for i, pageURL := range wave {
			i, pageURL := i, pageURL
			g.Go(func() error {
				page, links, err := s.visit(gctx, pageURL, run)
				outcomes[i] = outcome{page: page, links: links, err: err}
				// Transport failures stay in the outcome; only
				// cancellation stops the wave.
				if err != nil && gctx.Err() != nil {
					return gctx.Err()
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		for i, pageURL := range wave {
			out := outcomes[i]
			if out.err != nil {
				s.recordFailure(run.crawl, pageURL, out.err)
				continue
			}
			s.record(run, out.page, out.links)
		}
	}
}

// visit fetches one page and extracts its fields and raw links. The returned
// links are resolved and de-duplicated but not yet scope-filtered.
func (s *Spider) visit(ctx context.Context, pageURL string, run *crawlRun) (*model.PageResult, []string, error) {
	if run.limiter != nil {
		if err := run.limiter.Wait(ctx); err != nil {
			return nil, nil, err
		}
	}

	s.logger.Debug("fetching page", "url", pageURL)

	body, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, nil, err
	}

	page := &model.PageResult{URL: pageURL, Links: []string{}}

	extractor, err := NewExtractor(pageURL)
	if err == nil {
		doc, parseErr := extractor.Parse(body)
		if parseErr == nil {
			page.Fields = extractor.ExtractFields(doc, run.selectors)
			return page, extractor.ExtractLinks(doc), nil
		}
		err = parseErr
	}

	// A page that fetched but cannot be parsed still produces a result:
	// empty field lists and no links.
	s.logger.Warn("page not parseable, recording empty result", "url", pageURL, "error", err)
	page.Fields = emptyFields(run.selectors)
	return page, nil, nil
}

// record appends the page result, filters its raw links through the scope
// filter, stores the internal subset on the page, and offers every internal
// link to the frontier.
func (s *Spider) record(run *crawlRun, page *model.PageResult, links []string) {
	for _, link := range links {
		if IsInternal(link, run.crawl.Origin) {
			page.Links = append(page.Links, link)
			run.frontier.Offer(link)
		}
	}
	run.crawl.Pages = append(run.crawl.Pages, page)
}

// recordFailure logs a per-page transport failure and drops the URL from the
// run. FetchFailed is terminal for a URL: no retry, no re-enqueue.
func (s *Spider) recordFailure(crawl *model.Crawl, pageURL string, err error) {
	s.logger.Warn("page fetch failed, dropping URL", "url", pageURL, "error", err)
	crawl.Failures = append(crawl.Failures, model.Failure{URL: pageURL, Reason: err.Error()})
}

// emptyFields builds one empty FieldResult per selector.
func emptyFields(selectors config.Selectors) []model.FieldResult {
	fields := make([]model.FieldResult, 0, len(selectors))
	for _, sel := range selectors {
		fields = append(fields, model.FieldResult{Name: sel.Tag, Values: []string{}})
	}
	return fields
}
