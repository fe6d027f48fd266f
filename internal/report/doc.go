// Package report writes crawl results.
//
// This package contains writers for different output formats:
//   - JSONWriter: the result object {"wordCounts": {...}, "urlsVisited": N}, for tool integration
//   - MarkdownWriter: a GitHub Flavored Markdown report with tables and a word chart
//   - TextWriter: a plain ranking for terminal display
//
// Writers implement the Writer interface, so the CLI can pick one by flag and
// write to a file or stdout through the same code path.
package report
