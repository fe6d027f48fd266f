package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Reasons a crawl task is pruned before its page is fetched.
const (
	ReasonDepth    = "depth"
	ReasonDeadline = "deadline"
	ReasonIgnored  = "ignored"
	ReasonVisited  = "visited"
	ReasonCanceled = "canceled"
)

// Page fetch outcomes.
const (
	statusParsed = "parsed"
	statusFailed = "failed"
)

// Recorder collects crawl counters.
// All methods are safe on a nil *Recorder, which records nothing.
type Recorder struct {
	registry *prometheus.Registry
	pages    *prometheus.CounterVec
	pruned   *prometheus.CounterVec
	words    prometheus.Counter
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Recorder{
		registry: registry,
		pages: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wordcrawl",
			Name:      "pages_total",
			Help:      "Pages handed to the page parser, by outcome.",
		}, []string{"status"}),
		pruned: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wordcrawl",
			Name:      "pruned_tasks_total",
			Help:      "Crawl tasks that ended before fetching, by reason.",
		}, []string{"reason"}),
		words: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "wordcrawl",
			Name:      "words_total",
			Help:      "Word occurrences merged into the tally.",
		}),
	}
}

// PageParsed records a successfully parsed page holding the given number of word occurrences.
func (r *Recorder) PageParsed(words int) {
	if r == nil {
		return
	}
	r.pages.WithLabelValues(statusParsed).Inc()
	r.words.Add(float64(words))
}

// PageFailed records a page the parser could not fetch or parse.
func (r *Recorder) PageFailed() {
	if r == nil {
		return
	}
	r.pages.WithLabelValues(statusFailed).Inc()
}

// Pruned records a task that stopped for the given reason.
func (r *Recorder) Pruned(reason string) {
	if r == nil {
		return
	}
	r.pruned.WithLabelValues(reason).Inc()
}

// WriteTextfile writes every counter to path in the Prometheus text format.
// The file is written atomically through a temporary file and a rename.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
