package crawler

import (
	"context"
	"time"
)

// ParseResult is what a PageParser extracts from one page.
type ParseResult struct {
	// WordCounts maps each word on the page to its number of occurrences.
	WordCounts map[string]int

	// Links are the absolute URLs the page links to.
	Links []string
}

// PageParser fetches a page and extracts its words and links.
// Implementations must be safe for concurrent use.
type PageParser interface {
	Parse(ctx context.Context, url string) (ParseResult, error)
}

// WebCrawler crawls from a set of starting URLs and ranks the words it found.
type WebCrawler interface {
	// Crawl visits the region reachable from startingURLs and returns the
	// most popular words and the number of distinct URLs visited. A
	// cancelled ctx stops the crawl early and Crawl returns the partial
	// result together with ctx.Err().
	Crawl(ctx context.Context, startingURLs []string) (Result, error)

	// MaxParallelism reports the largest number of pages the crawler can fetch at once.
	MaxParallelism() int
}

// Result is the outcome of a crawl.
type Result struct {
	// WordCounts holds the most popular words, most popular first.
	WordCounts RankedWords `json:"wordCounts"`

	// URLsVisited is the number of distinct URLs that passed every pruning check.
	URLsVisited int `json:"urlsVisited"`

	// Elapsed is the wall time the crawl took.
	Elapsed time.Duration `json:"-"`
}
