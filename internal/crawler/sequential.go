package crawler

import "context"

// Sequential crawls depth-first on the calling goroutine.
// It produces the same result as Parallel for the same pages.
type Sequential struct {
	settings settings
	parser   PageParser
}

var _ WebCrawler = (*Sequential)(nil)

// NewSequential creates a single-goroutine crawler that fetches pages with parser.
func NewSequential(parser PageParser, opts ...Option) (*Sequential, error) {
	if parser == nil {
		return nil, ErrMissingParser
	}
	return &Sequential{settings: newSettings(opts), parser: parser}, nil
}

// MaxParallelism is always 1.
func (c *Sequential) MaxParallelism() int {
	return 1
}

// Crawl visits the pages reachable from startingURLs within the depth and time budget.
func (c *Sequential) Crawl(ctx context.Context, startingURLs []string) (Result, error) {
	r := newRun(&c.settings, c.parser)
	for _, url := range startingURLs {
		visitSequential(ctx, r, url, c.settings.maxDepth)
	}
	return r.result(), ctx.Err()
}

func visitSequential(ctx context.Context, r *run, url string, depth int) {
	if !r.admit(ctx, url, depth) {
		return
	}
	for _, link := range r.fetch(ctx, url) {
		visitSequential(ctx, r, link, depth-1)
	}
}
