package config

import (
	"fmt"
	"net/http"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "wordcrawl"

	// DefaultMaxDepth follows links nine levels below each start page.
	DefaultMaxDepth = 10

	// DefaultTimeoutSeconds bounds the whole crawl.
	DefaultTimeoutSeconds = 30

	// DefaultPopularWordCount is the size of the ranking.
	DefaultPopularWordCount = 10
)

// Crawler implementations selectable with implementationOverride.
const (
	ImplementationParallel   = "parallel"
	ImplementationSequential = "sequential"
)

// Config is the crawl configuration file.
//
// The file is JSON, and since JSON is a subset of YAML the same keys may also
// be written as YAML. Keys that are absent keep their NewConfig defaults.
type Config struct {
	// StartPages are the URLs the crawl starts from.
	StartPages []string `yaml:"startPages"`

	// IgnoredURLs are regular expressions for URLs that are never visited.
	// A pattern must match the whole URL.
	IgnoredURLs []string `yaml:"ignoredUrls"`

	// IgnoredWords are regular expressions for words that are never counted.
	// A pattern must match the whole word.
	IgnoredWords []string `yaml:"ignoredWords"`

	// Parallelism is the requested number of concurrent fetches.
	// It is capped by the hardware parallelism.
	Parallelism int `yaml:"parallelism"`

	// ImplementationOverride selects "parallel" (the default) or "sequential".
	ImplementationOverride string `yaml:"implementationOverride"`

	// MaxDepth is the depth budget of each start page.
	MaxDepth int `yaml:"maxDepth"`

	// TimeoutSeconds bounds the crawl. No task starts after it has elapsed.
	TimeoutSeconds int `yaml:"timeoutSeconds"`

	// PopularWordCount is the number of words in the result.
	PopularWordCount int `yaml:"popularWordCount"`

	// ProfileOutputPath is the file profiling data is appended to.
	// Empty means standard output.
	ProfileOutputPath string `yaml:"profileOutputPath"`

	// ResultPath is the file the crawl result is appended to.
	// Empty means standard output.
	ResultPath string `yaml:"resultPath"`

	// Sites holds per-host request settings, keyed by host name.
	Sites map[string]SiteConfig `yaml:"sites"`
}

// SiteConfig holds request settings for a single host.
type SiteConfig struct {
	// Cookie is sent as the Cookie header, e.g. "name=value; other=value".
	Cookie string `yaml:"cookie"`

	// Headers are extra HTTP headers sent to this host.
	Headers map[string]string `yaml:"headers"`
}

// NewConfig returns a Config holding the defaults.
func NewConfig() *Config {
	return &Config{
		Parallelism:            runtime.NumCPU(),
		ImplementationOverride: ImplementationParallel,
		MaxDepth:               DefaultMaxDepth,
		TimeoutSeconds:         DefaultTimeoutSeconds,
		PopularWordCount:       DefaultPopularWordCount,
	}
}

// Validate returns the first problem found in the configuration.
func (c *Config) Validate() error {
	if len(c.StartPages) == 0 {
		return ErrNoStartPages
	}
	if c.TimeoutSeconds < 0 {
		return ErrInvalidTimeout
	}
	if c.MaxDepth < 0 {
		return ErrInvalidMaxDepth
	}
	if c.PopularWordCount < 0 {
		return ErrInvalidPopularWordCount
	}
	switch c.ImplementationOverride {
	case "", ImplementationParallel, ImplementationSequential:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownImplementation, c.ImplementationOverride)
	}
	if _, err := c.IgnoredURLPatterns(); err != nil {
		return err
	}
	if _, err := c.IgnoredWordPatterns(); err != nil {
		return err
	}
	return nil
}

// Timeout returns TimeoutSeconds as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Sequential reports whether the sequential crawler was selected.
func (c *Config) Sequential() bool {
	return c.ImplementationOverride == ImplementationSequential
}

// IgnoredURLPatterns compiles IgnoredURLs.
func (c *Config) IgnoredURLPatterns() ([]*regexp.Regexp, error) {
	return compilePatterns("ignoredUrls", c.IgnoredURLs)
}

// IgnoredWordPatterns compiles IgnoredWords.
func (c *Config) IgnoredWordPatterns() ([]*regexp.Regexp, error) {
	return compilePatterns("ignoredWords", c.IgnoredWords)
}

func compilePatterns(key string, patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("%w in %s: %w", ErrInvalidPattern, key, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

// HostHeaders returns the request headers configured per host, with host
// names lower-cased. The Cookie setting becomes a Cookie header.
func (c *Config) HostHeaders() map[string]http.Header {
	if len(c.Sites) == 0 {
		return nil
	}
	headers := make(map[string]http.Header, len(c.Sites))
	for host, site := range c.Sites {
		h := make(http.Header, len(site.Headers)+1)
		for k, v := range site.Headers {
			h.Set(k, v)
		}
		if site.Cookie != "" {
			h.Set("Cookie", site.Cookie)
		}
		headers[strings.ToLower(host)] = h
	}
	return headers
}

// XDGDataDir returns the XDG data directory for wordcrawl.
// On Linux: ~/.local/share/wordcrawl
// On macOS: ~/Library/Application Support/wordcrawl
// On Windows: %LOCALAPPDATA%\wordcrawl
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for wordcrawl.
// On Linux: ~/.config/wordcrawl
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}
