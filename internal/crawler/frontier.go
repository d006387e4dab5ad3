package crawler

import "sync"

// Frontier is the BFS queue plus the visited set for one crawl run.
// It owns the crawl's dedup invariant: a URL enters the visited set at most
// once, at the moment it is accepted into the queue, so every URL that is
// ever dequeued was enqueued exactly once.
//
// Design decision: The visited-check-and-insert in Offer and the pop in
// Dequeue share one mutex. In the sequential crawl the lock is
// uncontended overhead; with concurrent fetches it is the mutual-exclusion
// region that preserves the at-most-once guarantee.
//
// URL equality is exact string equality after resolution against the page
// URL. There is no canonicalization: "http://x.com/a" and "http://x.com/a/"
// are distinct URLs and both will be crawled.
type Frontier struct {
	mu      sync.Mutex
	queue   []string
	visited map[string]bool
}

// NewFrontier creates an empty Frontier.
func NewFrontier() *Frontier {
	return &Frontier{
		visited: make(map[string]bool),
	}
}

// Seed initializes the queue with exactly one entry and marks it visited.
// It must be called exactly once, before the first Dequeue.
func (f *Frontier) Seed(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visited[url] = true
	f.queue = append(f.queue, url)
}

// Dequeue pops the earliest-enqueued URL. It is non-blocking: when the queue
// is empty it returns ("", false).
func (f *Frontier) Dequeue() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queue) == 0 {
		return "", false
	}
	url := f.queue[0]
	f.queue = f.queue[1:]
	return url, true
}

// Offer appends url to the queue unless it has been seen before in this run.
// It reports whether the URL was accepted. Offer is the sole dedup gate of
// the crawl: every discovered link must pass through it.
func (f *Frontier) Offer(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.visited[url] {
		return false
	}
	f.visited[url] = true
	f.queue = append(f.queue, url)
	return true
}

// Len returns the number of URLs currently queued.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// Seen returns the number of unique URLs accepted so far (queued or already
// processed).
func (f *Frontier) Seen() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.visited)
}
