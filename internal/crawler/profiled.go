package crawler

import (
	"context"

	"github.com/nao1215/wordcrawl/internal/profiler"
)

// ParserCapability describes PageParser to the profiler. Parse is timed.
func ParserCapability() profiler.Capability[PageParser] {
	return profiler.Capability[PageParser]{
		Name:       "crawler.PageParser",
		Operations: []string{"Parse"},
		Profiled:   []string{"Parse"},
		Bind: func(delegate PageParser, in *profiler.Interceptor) PageParser {
			return &profiledParser{delegate: delegate, in: in}
		},
	}
}

// CrawlerCapability describes WebCrawler to the profiler. Crawl is timed,
// MaxParallelism is forwarded untimed.
func CrawlerCapability() profiler.Capability[WebCrawler] {
	return profiler.Capability[WebCrawler]{
		Name:       "crawler.WebCrawler",
		Operations: []string{"Crawl", "MaxParallelism"},
		Profiled:   []string{"Crawl"},
		Bind: func(delegate WebCrawler, in *profiler.Interceptor) WebCrawler {
			return &profiledCrawler{delegate: delegate, in: in}
		},
	}
}

type profiledParser struct {
	delegate PageParser
	in       *profiler.Interceptor
}

func (p *profiledParser) Parse(ctx context.Context, url string) (res ParseResult, err error) {
	p.in.Invoke("Parse", func() { res, err = p.delegate.Parse(ctx, url) })
	return res, err
}

type profiledCrawler struct {
	delegate WebCrawler
	in       *profiler.Interceptor
}

func (c *profiledCrawler) Crawl(ctx context.Context, startingURLs []string) (res Result, err error) {
	c.in.Invoke("Crawl", func() { res, err = c.delegate.Crawl(ctx, startingURLs) })
	return res, err
}

func (c *profiledCrawler) MaxParallelism() (n int) {
	c.in.Invoke("MaxParallelism", func() { n = c.delegate.MaxParallelism() })
	return n
}
