package crawler

import (
	"fmt"
	"sync"
	"testing"
)

// TestFrontier tests the BFS queue and its dedup invariant.
func TestFrontier(t *testing.T) {
	t.Parallel()

	t.Run("dequeue on empty frontier returns false", func(t *testing.T) {
		t.Parallel()

		f := NewFrontier()
		if url, ok := f.Dequeue(); ok {
			t.Errorf("expected empty dequeue, got %q", url)
		}
	})

	t.Run("seed enqueues exactly one visited entry", func(t *testing.T) {
		t.Parallel()

		f := NewFrontier()
		f.Seed("http://example.com/")

		if got := f.Len(); got != 1 {
			t.Errorf("expected queue length 1, got %d", got)
		}

		url, ok := f.Dequeue()
		if !ok || url != "http://example.com/" {
			t.Errorf("expected seed URL, got %q (ok=%v)", url, ok)
		}

		// The seed is already visited; re-offering must no-op.
		if f.Offer("http://example.com/") {
			t.Error("expected re-offer of seed to be rejected")
		}
	})

	t.Run("dequeue order is FIFO", func(t *testing.T) {
		t.Parallel()

		f := NewFrontier()
		f.Seed("http://example.com/a")
		f.Offer("http://example.com/b")
		f.Offer("http://example.com/c")

		want := []string{"http://example.com/a", "http://example.com/b", "http://example.com/c"}
		for _, expected := range want {
			url, ok := f.Dequeue()
			if !ok {
				t.Fatalf("queue exhausted early, wanted %q", expected)
			}
			if url != expected {
				t.Errorf("expected %q, got %q", expected, url)
			}
		}
	})

	t.Run("offer is the sole dedup gate", func(t *testing.T) {
		t.Parallel()

		f := NewFrontier()
		f.Seed("http://example.com/")

		if !f.Offer("http://example.com/page") {
			t.Error("expected first offer to be accepted")
		}
		if f.Offer("http://example.com/page") {
			t.Error("expected duplicate offer to be rejected")
		}

		// A dequeued URL stays visited: it must never re-enter the queue.
		if _, ok := f.Dequeue(); !ok {
			t.Fatal("expected seed dequeue")
		}
		if f.Offer("http://example.com/") {
			t.Error("expected offer of dequeued URL to be rejected")
		}
	})

	t.Run("no URL normalization: trailing slash is a distinct URL", func(t *testing.T) {
		t.Parallel()

		f := NewFrontier()
		f.Seed("http://example.com/a")

		if !f.Offer("http://example.com/a/") {
			t.Error("expected trailing-slash variant to be accepted as a distinct URL")
		}
	})

	t.Run("concurrent offers accept each URL exactly once", func(t *testing.T) {
		t.Parallel()

		f := NewFrontier()

		const urls = 50
		const offersPerURL = 8

		var wg sync.WaitGroup
		var mu sync.Mutex
		accepted := 0

		for i := 0; i < urls; i++ {
			url := fmt.Sprintf("http://example.com/page-%d", i)
			for j := 0; j < offersPerURL; j++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if f.Offer(url) {
						mu.Lock()
						accepted++
						mu.Unlock()
					}
				}()
			}
		}
		wg.Wait()

		if accepted != urls {
			t.Errorf("expected exactly %d accepted offers, got %d", urls, accepted)
		}
		if got := f.Len(); got != urls {
			t.Errorf("expected queue length %d, got %d", urls, got)
		}
		if got := f.Seen(); got != urls {
			t.Errorf("expected %d seen URLs, got %d", urls, got)
		}
	})
}
