package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/wordcrawl/internal/config"
	"github.com/nao1215/wordcrawl/internal/database"
)

const (
	indexPage = `<html><body>
<p>gopher gopher gopher channel</p>
<a href="second.html">next</a>
</body></html>`

	secondPage = `<html><body>
<p>gopher channel goroutine</p>
<a href="index.html">back</a>
</body></html>`
)

// writeSite creates a two-page site that links back to itself and returns the URL of its index.
func writeSite(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range map[string]string{"index.html": indexPage, "second.html": secondPage} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return "file://" + filepath.Join(dir, "index.html")
}

// writeConfig writes a crawl config for startPage plus the given extra JSON keys.
func writeConfig(t *testing.T, startPage, extra string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "wordcrawl.json")
	content := fmt.Sprintf(`{"startPages": [%q], "maxDepth": 5, "popularWordCount": 3%s}`, startPage, extra)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// runRoot executes the root command with args and returns its standard output and error output.
func runRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestNewCrawlCmd(t *testing.T) {
	t.Parallel()

	cmd := NewCrawlCmd()
	for _, name := range []string{"output", "profile-output", "markdown", "text", "metrics-file", "no-save", "db-dir"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("expected %s flag", name)
		}
	}
}

func TestCrawl_WritesResultProfileArchiveAndMetrics(t *testing.T) {
	t.Parallel()

	outDir := t.TempDir()
	resultPath := filepath.Join(outDir, "results", "result.json")
	profilePath := filepath.Join(outDir, "profile.txt")
	metricsPath := filepath.Join(outDir, "metrics", "wordcrawl.prom")
	dbDir := filepath.Join(outDir, "db")

	cfgPath := writeConfig(t, writeSite(t), fmt.Sprintf(`, "resultPath": %q, "profileOutputPath": %q`, resultPath, profilePath))

	stdout, _, err := runRoot(t, "crawl", cfgPath, "--db-dir", dbDir, "--metrics-file", metricsPath)
	if err != nil {
		t.Fatalf("crawl failed: %v", err)
	}
	if stdout != "" {
		t.Errorf("expected nothing on stdout, got %q", stdout)
	}

	t.Run("result", func(t *testing.T) {
		t.Parallel()

		got, err := os.ReadFile(resultPath)
		if err != nil {
			t.Fatal(err)
		}
		want := `{"wordCounts":{"gopher":4,"channel":2,"goroutine":1},"urlsVisited":2}` + "\n"
		if string(got) != want {
			t.Errorf("result = %q, want %q", got, want)
		}
	})

	t.Run("profile", func(t *testing.T) {
		t.Parallel()

		got, err := os.ReadFile(profilePath)
		if err != nil {
			t.Fatal(err)
		}
		profile := string(got)
		for _, want := range []string{"Run at ", "crawler.Parallel#Crawl took ", "crawler.HTMLParser#Parse took "} {
			if !strings.Contains(profile, want) {
				t.Errorf("profile does not contain %q:\n%s", want, profile)
			}
		}
		if strings.Contains(profile, "MaxParallelism") {
			t.Errorf("MaxParallelism must not be profiled:\n%s", profile)
		}
		if !strings.HasSuffix(profile, "\n\n") {
			t.Errorf("profile must end with a blank line: %q", profile)
		}
	})

	t.Run("metrics", func(t *testing.T) {
		t.Parallel()

		got, err := os.ReadFile(metricsPath)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(got), `wordcrawl_pages_total{status="parsed"} 2`) {
			t.Errorf("metrics do not count two parsed pages:\n%s", got)
		}
	})

	t.Run("archive", func(t *testing.T) {
		t.Parallel()

		db, err := database.Open(dbDir, database.Options{})
		if err != nil {
			t.Fatalf("archive was not created: %v", err)
		}
		defer db.Close()

		runs, err := db.ListRuns(context.Background(), 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(runs) != 1 {
			t.Fatalf("expected 1 archived run, got %d", len(runs))
		}
		if runs[0].URLsVisited != 2 || runs[0].WordCount != 3 || runs[0].Implementation != config.ImplementationParallel {
			t.Errorf("unexpected archived run: %+v", runs[0])
		}
	})
}

func TestCrawl_StdoutOutput(t *testing.T) {
	t.Parallel()

	cfgPath := writeConfig(t, writeSite(t), `, "implementationOverride": "sequential"`)

	stdout, _, err := runRoot(t, "crawl", cfgPath, "--text", "--no-save", "--db-dir", t.TempDir())
	if err != nil {
		t.Fatalf("crawl failed: %v", err)
	}

	for _, want := range []string{
		"URLs visited: 2",
		"  1. gopher    4",
		"  2. channel   2",
		"  3. goroutine 1",
		"Run at ",
		"crawler.Sequential#Crawl took ",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout does not contain %q:\n%s", want, stdout)
		}
	}
	if strings.Contains(stdout, "Run ID") {
		t.Error("a run that was not saved must not have a run ID")
	}
	if strings.Index(stdout, "URLs visited") > strings.Index(stdout, "Run at ") {
		t.Error("the result must be written before the profile")
	}
}

func TestCrawl_MarkdownOutput(t *testing.T) {
	t.Parallel()

	cfgPath := writeConfig(t, writeSite(t), "")
	dbDir := t.TempDir()

	stdout, _, err := runRoot(t, "crawl", cfgPath, "-m", "--db-dir", dbDir)
	if err != nil {
		t.Fatalf("crawl failed: %v", err)
	}
	for _, want := range []string{"# Word Crawl Report", "gopher", "Run ID"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout does not contain %q:\n%s", want, stdout)
		}
	}
}

func TestCrawl_AppendsToResultFile(t *testing.T) {
	t.Parallel()

	resultPath := filepath.Join(t.TempDir(), "result.json")
	cfgPath := writeConfig(t, writeSite(t), "")

	for range 2 {
		if _, _, err := runRoot(t, "crawl", cfgPath, "-o", resultPath, "--no-save"); err != nil {
			t.Fatalf("crawl failed: %v", err)
		}
	}

	got, err := os.ReadFile(resultPath)
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Count(string(got), "\n"); lines != 2 {
		t.Errorf("expected 2 results in the file, got %d:\n%s", lines, got)
	}
}

func TestCrawl_FailedPagesAreSkipped(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	index := filepath.Join(dir, "index.html")
	page := `<html><body><p>alive</p>
<a href="missing.html">gone</a>
</body></html>`
	if err := os.WriteFile(index, []byte(page), 0o600); err != nil {
		t.Fatal(err)
	}
	cfgPath := writeConfig(t, "file://"+index, "")

	stdout, stderr, err := runRoot(t, "crawl", cfgPath, "--no-save")
	if err != nil {
		t.Fatalf("crawl failed: %v", err)
	}
	if !strings.Contains(stdout, `"urlsVisited":2`) {
		t.Errorf("the missing page should still count as visited: %s", stdout)
	}
	if !strings.Contains(stderr, "page parse failed") {
		t.Errorf("expected a warning for the missing page, got %q", stderr)
	}
}

func TestCrawl_ConfigErrors(t *testing.T) {
	t.Parallel()

	emptyStart := filepath.Join(t.TempDir(), "empty.json")
	if err := os.WriteFile(emptyStart, []byte(`{"startPages": []}`), 0o600); err != nil {
		t.Fatal(err)
	}
	unknownKey := filepath.Join(t.TempDir(), "unknown.json")
	if err := os.WriteFile(unknownKey, []byte(`{"startPages": ["file:///x"], "maxDepht": 3}`), 0o600); err != nil {
		t.Fatal(err)
	}
	badPattern := filepath.Join(t.TempDir(), "pattern.json")
	if err := os.WriteFile(badPattern, []byte(`{"startPages": ["file:///x"], "ignoredUrls": ["("]}`), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		args    []string
		wantErr error
		wantMsg string
	}{
		{
			name:    "missing config file",
			args:    []string{"crawl", filepath.Join(t.TempDir(), "nope.json")},
			wantErr: config.ErrConfigNotFound,
		},
		{
			name:    "no start pages",
			args:    []string{"crawl", emptyStart},
			wantErr: config.ErrNoStartPages,
		},
		{
			name:    "unknown key",
			args:    []string{"crawl", unknownKey},
			wantMsg: "maxDepht",
		},
		{
			name:    "invalid pattern",
			args:    []string{"crawl", badPattern},
			wantErr: config.ErrInvalidPattern,
		},
		{
			name:    "conflicting formats",
			args:    []string{"crawl", emptyStart, "-m", "-t"},
			wantMsg: "markdown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := runRoot(t, tt.args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %v, want it to mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestCrawl_InterruptedCrawlIsNotArchived(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.StartPages = []string{writeSite(t)}
	dbDir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout bytes.Buffer
	opts := crawlOptions{save: true, dbDir: dbDir}
	err := runCrawl(ctx, cfg, opts, &stdout, discardLogger())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if !strings.Contains(stdout.String(), `"urlsVisited":0`) {
		t.Errorf("expected the partial result on stdout, got %q", stdout.String())
	}
	if _, err := os.Stat(filepath.Join(dbDir, database.FileName)); !errors.Is(err, os.ErrNotExist) {
		t.Error("an interrupted crawl must not be archived")
	}
}
