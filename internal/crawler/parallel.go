package crawler

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Parallel crawls with many goroutines and a bounded number of concurrent fetches.
type Parallel struct {
	settings settings
	parser   PageParser
}

var _ WebCrawler = (*Parallel)(nil)

// NewParallel creates a parallel crawler that fetches pages with parser.
func NewParallel(parser PageParser, opts ...Option) (*Parallel, error) {
	if parser == nil {
		return nil, ErrMissingParser
	}
	return &Parallel{settings: newSettings(opts), parser: parser}, nil
}

// MaxParallelism returns the hardware parallelism of the machine.
func (c *Parallel) MaxParallelism() int {
	return runtime.NumCPU()
}

// Workers returns the number of pages fetched at once:
// the requested parallelism capped by MaxParallelism.
func (c *Parallel) Workers() int {
	limit := c.MaxParallelism()
	if c.settings.parallelism <= 0 || c.settings.parallelism > limit {
		return limit
	}
	return c.settings.parallelism
}

// Crawl visits the pages reachable from startingURLs within the depth and time budget.
func (c *Parallel) Crawl(ctx context.Context, startingURLs []string) (Result, error) {
	r := newRun(&c.settings, c.parser)
	slots := semaphore.NewWeighted(int64(c.Workers()))

	visitAll(ctx, r, slots, startingURLs, c.settings.maxDepth)
	return r.result(), ctx.Err()
}

// visitAll runs one task per URL and waits for all of them.
func visitAll(ctx context.Context, r *run, slots *semaphore.Weighted, urls []string, depth int) {
	var g errgroup.Group
	for _, url := range urls {
		g.Go(func() error {
			visit(ctx, r, slots, url, depth)
			return nil
		})
	}
	_ = g.Wait()
}

// visit is one crawl task. The fetch holds a slot; waiting for children does not.
func visit(ctx context.Context, r *run, slots *semaphore.Weighted, url string, depth int) {
	if !r.admit(ctx, url, depth) {
		return
	}

	if err := slots.Acquire(ctx, 1); err != nil {
		return
	}
	links := r.fetch(ctx, url)
	slots.Release(1)

	if len(links) == 0 {
		return
	}
	visitAll(ctx, r, slots, links, depth-1)
}
