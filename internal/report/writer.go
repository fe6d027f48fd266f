package report

import (
	"io"
	"time"

	"github.com/nao1215/wordcrawl/internal/crawler"
)

// Summary is a finished crawl together with what produced it.
type Summary struct {
	// RunID identifies the run in the archive. Empty when the run was not saved.
	RunID string

	// StartPages are the URLs the crawl started from.
	StartPages []string

	// Implementation names the crawler that ran ("parallel" or "sequential").
	Implementation string

	// StartedAt is when the crawl started.
	StartedAt time.Time

	// Result is the crawl result.
	Result crawler.Result
}

// Writer defines the interface for report output.
type Writer interface {
	// Write outputs the summary and returns the number of bytes written.
	Write(summary *Summary) (int, error)
}

// MultiWriter writes to multiple Writers in turn.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the summary to all configured Writers.
// It stops on the first error.
func (m *MultiWriter) Write(summary *Summary) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(summary)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
