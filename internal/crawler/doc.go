// Package crawler counts words across a bounded region of the web.
//
// # Architecture
//
// A crawl starts from a set of URLs and follows links depth-first. Every
// task is pruned, in this order, when its depth budget is exhausted, when the
// crawl deadline has passed, when its URL fully matches an ignored pattern,
// or when its URL was already claimed by another task. Surviving tasks fetch
// the page through a PageParser, merge its word counts into a shared
// WordTally and spawn one child task per outgoing link.
//
// Two crawlers implement WebCrawler with identical results:
//
//   - Parallel runs each task in its own goroutine, joins children with an
//     errgroup and bounds the number of concurrent fetches with a weighted
//     semaphore. A task gives its slot back before waiting for its children,
//     so a bounded pool can never deadlock on its own descendants.
//   - Sequential runs every task on the calling goroutine.
//
// The deadline is computed once when a crawl starts. It is checked when a task
// starts, never in the middle of a fetch, so a page that is already being
// fetched still contributes its words.
//
// A failed fetch prunes that branch only: the error is logged and counted,
// and the rest of the crawl carries on.
//
// # Components
//
//   - VisitedSet: lock-free insert-if-absent set of claimed URLs
//   - WordTally: concurrent word -> count accumulator
//   - Rank: top-N selection with a deterministic tie-break
//   - HTMLParser: fetches http(s) and file URLs and extracts words and links
//
// # Usage
//
//	parser := crawler.NewHTMLParser(crawler.WithIgnoredWords(stopWords))
//	c, err := crawler.NewParallel(parser, crawler.WithMaxDepth(3), crawler.WithTimeout(time.Minute))
//	result, err := c.Crawl(ctx, []string{"https://example.com/"})
package crawler
