package report

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// chartWords caps the number of slices in the word chart.
const chartWords = 8

// MarkdownWriter outputs crawl reports in GitHub Flavored Markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the summary as a Markdown document.
func (w *MarkdownWriter) Write(summary *Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeWords(md, summary)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *Summary) {
	md.H1("Word Crawl Report")
	md.PlainText("")

	rows := [][]string{
		{"Start Pages", formatStartPages(summary.StartPages)},
		{"Implementation", summary.Implementation},
		{"Started", summary.StartedAt.Format("2006-01-02 15:04:05 MST")},
		{"Elapsed", summary.Result.Elapsed.Round(time.Millisecond).String()},
		{"URLs Visited", strconv.Itoa(summary.Result.URLsVisited)},
	}
	if summary.RunID != "" {
		rows = append(rows, []string{"Run ID", "`" + summary.RunID + "`"})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeWords(md *markdown.Markdown, summary *Summary) {
	md.H2("Popular Words")
	md.PlainText("")

	words := summary.Result.WordCounts
	if len(words) == 0 {
		md.Note("No words were collected. Check the start pages, the depth and the timeout.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(words))
	for i, wc := range words {
		rows = append(rows, []string{strconv.Itoa(i + 1), "`" + wc.Word + "`", strconv.Itoa(wc.Count)})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Rank", "Word", "Count"},
		Rows:   rows,
	})
	md.PlainText("")

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Top Word Share"),
		piechart.WithShowData(true),
	)
	for _, wc := range words[:min(len(words), chartWords)] {
		chart.LabelAndIntValue(wc.Word, uint64(wc.Count)) //nolint:gosec // counts are never negative
	}
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [wordcrawl](https://github.com/nao1215/wordcrawl)*")
}

func formatStartPages(pages []string) string {
	quoted := make([]string, len(pages))
	for i, p := range pages {
		quoted[i] = "`" + p + "`"
	}
	return strings.Join(quoted, "<br>")
}
