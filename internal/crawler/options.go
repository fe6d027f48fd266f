package crawler

import (
	"log/slog"
	"regexp"
	"time"

	"github.com/nao1215/wordcrawl/internal/clock"
	"github.com/nao1215/wordcrawl/internal/metrics"
)

// Defaults applied when an option is not given.
const (
	// DefaultMaxDepth is the depth budget of each starting URL.
	DefaultMaxDepth = 10

	// DefaultTimeout bounds the whole crawl.
	DefaultTimeout = 30 * time.Second

	// DefaultPopularWordCount is the size of the ranking.
	DefaultPopularWordCount = 10
)

// settings are shared by both crawlers.
type settings struct {
	clock            clock.Clock
	timeout          time.Duration
	maxDepth         int
	popularWordCount int
	ignoredURLs      patternSet
	parallelism      int
	logger           *slog.Logger
	metrics          *metrics.Recorder
}

func newSettings(opts []Option) settings {
	s := settings{
		clock:            clock.NewSystem(),
		timeout:          DefaultTimeout,
		maxDepth:         DefaultMaxDepth,
		popularWordCount: DefaultPopularWordCount,
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Option configures a crawler.
type Option func(*settings)

// WithClock sets the clock used for the crawl deadline and elapsed time.
func WithClock(c clock.Clock) Option {
	return func(s *settings) {
		s.clock = c
	}
}

// WithTimeout sets how long after the start of a crawl new tasks may still begin.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) {
		s.timeout = d
	}
}

// WithMaxDepth sets the depth budget of each starting URL.
// A starting page is fetched at depth maxDepth; links found at depth 1 are not followed.
func WithMaxDepth(depth int) Option {
	return func(s *settings) {
		s.maxDepth = depth
	}
}

// WithPopularWordCount sets how many words the ranking keeps.
func WithPopularWordCount(n int) Option {
	return func(s *settings) {
		s.popularWordCount = n
	}
}

// WithIgnoredURLs sets patterns for URLs that are never visited.
// A URL is ignored only when a pattern matches all of it.
func WithIgnoredURLs(patterns []*regexp.Regexp) Option {
	return func(s *settings) {
		s.ignoredURLs = newPatternSet(patterns)
	}
}

// WithParallelism requests a number of concurrent fetches for the parallel crawler.
// Values below one select the hardware parallelism. Sequential ignores it.
func WithParallelism(n int) Option {
	return func(s *settings) {
		s.parallelism = n
	}
}

// WithLogger sets the logger for crawl events.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		s.logger = l
	}
}

// WithMetrics sets the recorder that counts crawl activity.
func WithMetrics(r *metrics.Recorder) Option {
	return func(s *settings) {
		s.metrics = r
	}
}
