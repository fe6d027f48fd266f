package config

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func TestLoad_JSON(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "wordcrawl.json", `{
  "startPages": ["https://example.com/", "https://example.org/"],
  "ignoredUrls": ["https://example\\.com/private/.*"],
  "ignoredWords": ["the", "an?"],
  "parallelism": 4,
  "implementationOverride": "sequential",
  "maxDepth": 3,
  "timeoutSeconds": 7,
  "popularWordCount": 5,
  "profileOutputPath": "profile.txt",
  "resultPath": "result.json",
  "sites": {"example.com": {"cookie": "session=abc"}}
}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if !slices.Equal(cfg.StartPages, []string{"https://example.com/", "https://example.org/"}) {
		t.Errorf("StartPages = %v", cfg.StartPages)
	}
	if !slices.Equal(cfg.IgnoredURLs, []string{`https://example\.com/private/.*`}) {
		t.Errorf("IgnoredURLs = %v", cfg.IgnoredURLs)
	}
	if !slices.Equal(cfg.IgnoredWords, []string{"the", "an?"}) {
		t.Errorf("IgnoredWords = %v", cfg.IgnoredWords)
	}
	if cfg.Parallelism != 4 {
		t.Errorf("Parallelism = %d, want 4", cfg.Parallelism)
	}
	if !cfg.Sequential() {
		t.Errorf("ImplementationOverride = %q, want sequential", cfg.ImplementationOverride)
	}
	if cfg.MaxDepth != 3 {
		t.Errorf("MaxDepth = %d, want 3", cfg.MaxDepth)
	}
	if cfg.Timeout() != 7*time.Second {
		t.Errorf("Timeout() = %v, want 7s", cfg.Timeout())
	}
	if cfg.PopularWordCount != 5 {
		t.Errorf("PopularWordCount = %d, want 5", cfg.PopularWordCount)
	}
	if cfg.ProfileOutputPath != "profile.txt" || cfg.ResultPath != "result.json" {
		t.Errorf("output paths = %q, %q", cfg.ProfileOutputPath, cfg.ResultPath)
	}
	if cfg.Sites["example.com"].Cookie != "session=abc" {
		t.Errorf("Sites = %v", cfg.Sites)
	}
}

func TestLoad_YAMLKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "wordcrawl.yaml", `
startPages:
  - https://example.com/
maxDepth: 2
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.MaxDepth != 2 {
		t.Errorf("MaxDepth = %d, want 2", cfg.MaxDepth)
	}
	if cfg.PopularWordCount != DefaultPopularWordCount {
		t.Errorf("PopularWordCount = %d, want the default", cfg.PopularWordCount)
	}
	if cfg.TimeoutSeconds != DefaultTimeoutSeconds {
		t.Errorf("TimeoutSeconds = %d, want the default", cfg.TimeoutSeconds)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := Load(filepath.Join(dir, "nope.json"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("Load() error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("unknown key", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, dir, "typo.json", `{"startPages": ["https://a/"], "maxDepht": 3}`)
		if _, err := Load(path); err == nil {
			t.Error("Load() accepted an unknown key")
		}
	})

	t.Run("malformed", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, dir, "broken.json", `{"startPages": [`)
		if _, err := Load(path); err == nil {
			t.Error("Load() accepted a malformed file")
		}
	})

	t.Run("empty file yields defaults", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, dir, "empty.json", "")
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if !errors.Is(cfg.Validate(), ErrNoStartPages) {
			t.Errorf("Validate() = %v, want ErrNoStartPages", cfg.Validate())
		}
	})
}

func TestFindConfigFile_ExplicitPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "custom.json", `{}`)

	if got := FindConfigFile(path); got != path {
		t.Errorf("FindConfigFile(%q) = %q", path, got)
	}
	if got := FindConfigFile(filepath.Join(dir, "missing.json")); got != "" {
		t.Errorf("FindConfigFile(missing) = %q, want empty", got)
	}
}

func TestFindConfigFile_CurrentDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, DefaultConfigFile, `{}`)
	t.Chdir(dir)

	got := FindConfigFile("")
	if filepath.Base(got) != DefaultConfigFile {
		t.Errorf("FindConfigFile(\"\") = %q, want %s in the current directory", got, DefaultConfigFile)
	}
}
