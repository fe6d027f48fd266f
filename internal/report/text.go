package report

import (
	"fmt"
	"io"
	"strings"
)

// TextWriter outputs a plain ranking for terminal display.
type TextWriter struct {
	baseWriter
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer) *TextWriter {
	return &TextWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the summary as aligned text.
func (w *TextWriter) Write(summary *Summary) (int, error) {
	var sb strings.Builder

	res := summary.Result
	fmt.Fprintf(&sb, "URLs visited: %d\n", res.URLsVisited)
	if summary.RunID != "" {
		fmt.Fprintf(&sb, "Run ID:       %s\n", summary.RunID)
	}
	sb.WriteString("\n")

	if len(res.WordCounts) == 0 {
		sb.WriteString("No words collected.\n")
		return io.WriteString(w.output, sb.String())
	}

	width := 0
	for _, wc := range res.WordCounts {
		width = max(width, len(wc.Word))
	}
	for i, wc := range res.WordCounts {
		fmt.Fprintf(&sb, "%3d. %-*s %d\n", i+1, width, wc.Word, wc.Count)
	}
	return io.WriteString(w.output, sb.String())
}
