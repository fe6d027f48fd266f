package crawler

import (
	"context"
	"time"

	"github.com/nao1215/wordcrawl/internal/metrics"
)

// run is the state of one crawl, shared by all of its tasks.
type run struct {
	*settings
	parser   PageParser
	started  time.Time
	deadline time.Time
	visited  VisitedSet
	tally    WordTally
}

func newRun(s *settings, parser PageParser) *run {
	started := s.clock.Now()
	return &run{
		settings: s,
		parser:   parser,
		started:  started,
		deadline: started.Add(s.timeout),
	}
}

// admit applies the pruning checks to a task and claims its URL.
// It reports whether the task should fetch its page.
func (r *run) admit(ctx context.Context, url string, depth int) bool {
	switch {
	case ctx.Err() != nil:
		r.metrics.Pruned(metrics.ReasonCanceled)
		return false
	case depth <= 0:
		r.metrics.Pruned(metrics.ReasonDepth)
		return false
	case r.clock.Now().After(r.deadline):
		r.metrics.Pruned(metrics.ReasonDeadline)
		return false
	case r.ignoredURLs.matchAny(url):
		r.metrics.Pruned(metrics.ReasonIgnored)
		return false
	case !r.visited.Add(url):
		r.metrics.Pruned(metrics.ReasonVisited)
		return false
	}
	return true
}

// fetch parses the page at url, merges its words into the tally and returns
// its links. A failed page is logged and yields no links.
func (r *run) fetch(ctx context.Context, url string) []string {
	page, err := r.parser.Parse(ctx, url)
	if err != nil {
		r.logger.Warn("page parse failed", "url", url, "error", err)
		r.metrics.PageFailed()
		return nil
	}

	r.tally.Merge(page.WordCounts)

	words := 0
	for _, n := range page.WordCounts {
		words += n
	}
	r.metrics.PageParsed(words)
	r.logger.Debug("page parsed", "url", url, "words", words, "links", len(page.Links))
	return page.Links
}

// result ranks the tally. It must only be called once every task has returned.
func (r *run) result() Result {
	res := Result{
		WordCounts:  Rank(r.tally.Snapshot(), r.popularWordCount),
		URLsVisited: r.visited.Len(),
		Elapsed:     r.clock.Now().Sub(r.started),
	}
	r.logger.Info("crawl finished", "urls_visited", res.URLsVisited, "elapsed", res.Elapsed)
	return res
}
