package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/wordcrawl/internal/config"
	"github.com/nao1215/wordcrawl/internal/crawler"
	"github.com/nao1215/wordcrawl/internal/database"
	"github.com/nao1215/wordcrawl/internal/report"
	"github.com/spf13/cobra"
)

// defaultHistoryLimit is the number of runs listed when --limit is not given.
const defaultHistoryLimit = 20

// historyEntry is the JSON form of a listed run.
type historyEntry struct {
	ID             string    `json:"id"`
	StartedAt      time.Time `json:"startedAt"`
	Implementation string    `json:"implementation"`
	StartPages     []string  `json:"startPages"`
	URLsVisited    int       `json:"urlsVisited"`
	ElapsedMillis  int64     `json:"elapsedMs"`
	Words          int       `json:"words"`
}

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show archived crawl runs",
		Long: `History shows the crawl runs saved in the local run archive.

Without arguments it lists the most recent runs, newest first. With a run ID
it prints the ranking stored for that run. A run ID may be shortened to any
prefix that identifies a single run.

Examples:
  # List the last 20 runs
  wordcrawl history

  # List the last 5 runs as a Markdown table
  wordcrawl history -n 5 -m

  # Show the ranking of a run
  wordcrawl history 3f2a9c

  # Delete a run from the archive
  wordcrawl history --delete 3f2a9c`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", defaultHistoryLimit,
		"Maximum number of runs to list (0 lists all)")
	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output in Markdown format")
	cmd.MarkFlagsMutuallyExclusive("json", "markdown")
	cmd.Flags().Bool("delete", false,
		"Delete the given run instead of showing it")
	cmd.Flags().String("db-dir", "",
		"Directory of the run archive (default: XDG data directory)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	deleteRun, err := cmd.Flags().GetBool("delete")
	if err != nil {
		return err
	}
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	// Validate arguments before opening the database.
	if deleteRun && len(args) == 0 {
		return errors.New("a run ID is required with --delete")
	}

	out := cmd.OutOrStdout()

	if _, err := os.Stat(filepath.Join(dbDir, database.FileName)); errors.Is(err, os.ErrNotExist) {
		if len(args) > 0 {
			return fmt.Errorf("%w: %s", database.ErrRunNotFound, args[0])
		}
		fmt.Fprintln(out, "No crawl runs archived yet.")
		fmt.Fprintln(out, "\nUse 'wordcrawl crawl' to run a crawl.")
		return nil
	}

	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	switch {
	case deleteRun:
		if err := db.DeleteRun(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(out, "Deleted run %s\n", args[0])
		return nil
	case len(args) > 0:
		return showRun(ctx, db, args[0], out, jsonOutput, markdownOutput)
	default:
		return listRuns(ctx, db, limit, out, jsonOutput, markdownOutput)
	}
}

// showRun prints the archived result of one run.
func showRun(ctx context.Context, db *database.RunDB, id string, out io.Writer, jsonOutput, markdownOutput bool) error {
	run, err := db.GetRun(ctx, id)
	if err != nil {
		return err
	}

	summary := &report.Summary{
		RunID:          run.ID,
		StartPages:     run.StartPages,
		Implementation: run.Implementation,
		StartedAt:      run.StartedAt,
		Result: crawler.Result{
			WordCounts:  run.Words,
			URLsVisited: run.URLsVisited,
			Elapsed:     run.Elapsed,
		},
	}

	var w report.Writer
	switch {
	case jsonOutput:
		w = report.NewJSONWriter(out, report.WithPrettyPrint())
	case markdownOutput:
		w = report.NewMarkdownWriter(out)
	default:
		w = report.NewTextWriter(out)
	}
	if _, err := w.Write(summary); err != nil {
		return fmt.Errorf("failed to write run: %w", err)
	}
	return nil
}

// listRuns prints the most recent runs, newest first.
func listRuns(ctx context.Context, db *database.RunDB, limit int, out io.Writer, jsonOutput, markdownOutput bool) error {
	runs, err := db.ListRuns(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	switch {
	case jsonOutput:
		return writeRunsJSON(out, runs)
	case markdownOutput:
		return writeRunsMarkdown(out, runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No crawl runs archived yet.")
		return nil
	}

	fmt.Fprintf(out, "Crawl runs (%d):\n\n", len(runs))
	fmt.Fprintf(out, "  %-8s  %-19s  %-10s  %6s  %5s  %s\n", "ID", "Started", "Crawler", "URLs", "Words", "Start Pages")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 72))
	for _, run := range runs {
		fmt.Fprintf(out, "  %-8s  %-19s  %-10s  %6d  %5d  %s\n",
			shortID(run.ID),
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.Implementation,
			run.URLsVisited,
			run.WordCount,
			strings.Join(run.StartPages, ", "),
		)
	}
	fmt.Fprintln(out, "\nUse 'wordcrawl history <run-id>' to see the ranking of a run.")
	return nil
}

func writeRunsJSON(out io.Writer, runs []database.RunMetadata) error {
	entries := make([]historyEntry, 0, len(runs))
	for _, run := range runs {
		entries = append(entries, historyEntry{
			ID:             run.ID,
			StartedAt:      run.StartedAt,
			Implementation: run.Implementation,
			StartPages:     run.StartPages,
			URLsVisited:    run.URLsVisited,
			ElapsedMillis:  run.Elapsed.Milliseconds(),
			Words:          run.WordCount,
		})
	}
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(entries)
}

func writeRunsMarkdown(out io.Writer, runs []database.RunMetadata) error {
	md := markdown.NewMarkdown(out)
	md.H1("Crawl History")
	md.PlainText("")

	if len(runs) == 0 {
		md.Note("No crawl runs archived yet.")
		return md.Build()
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			"`" + shortID(run.ID) + "`",
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.Implementation,
			strconv.Itoa(run.URLsVisited),
			strconv.Itoa(run.WordCount),
			run.Elapsed.Round(time.Millisecond).String(),
			strings.Join(run.StartPages, "<br>"),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"ID", "Started", "Crawler", "URLs", "Words", "Elapsed", "Start Pages"},
		Rows:   rows,
	})
	return md.Build()
}

// shortID returns the leading part of a run ID, which is enough to select it.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
