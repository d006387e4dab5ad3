// Package crawler implements the breadth-first, same-domain crawl engine.
//
// # Architecture
//
//   - Spider: the crawl engine driving the dequeue/fetch/extract/expand loop
//   - Frontier: the BFS queue plus visited set; owns the dedup invariant
//   - Fetcher: blocking HTTP fetch of one page with a body size cap
//   - Extractor: goquery-based field and link extraction
//   - IsInternal: the scope filter bounding the crawl to the seed's domain
//
// # Termination
//
// The graph under a site is effectively unbounded (cycles, generated pages),
// so the engine is bounded twice: the Frontier accepts each URL at most once
// per run, and the Spider stops after maxPages successful results. Fetch
// failures drop the URL from the run without retry; they never abort the
// crawl.
//
// # Concurrency
//
// The default mode is single-threaded and sequential: each page is fully
// fetched, extracted, and expanded before the next dequeue. With more than
// one worker the Spider fetches one BFS layer at a time concurrently but
// records results and expands links in intra-layer dequeue order, so output
// stays deterministic. The Frontier's single mutex keeps the
// visited-check-and-insert atomic in both modes.
//
// # Usage
//
//	fetcher := crawler.NewFetcher(httpClient)
//	spider := crawler.NewSpider(fetcher, crawler.WithMaxPages(50))
//	crawl, err := spider.Crawl(ctx, "https://example.com", selectors)
package crawler
