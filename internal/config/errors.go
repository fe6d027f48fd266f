package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so callers can use errors.Is
// to tell which setting is wrong.
var (
	// ErrNoStartPages is returned when the configuration lists no page to start from.
	ErrNoStartPages = errors.New("no start pages: startPages must list at least one URL")

	// ErrInvalidTimeout is returned when timeoutSeconds is negative.
	// Zero is allowed and makes every task miss the deadline.
	ErrInvalidTimeout = errors.New("invalid timeout: timeoutSeconds must be non-negative")

	// ErrInvalidMaxDepth is returned when maxDepth is negative.
	ErrInvalidMaxDepth = errors.New("invalid max depth: maxDepth must be non-negative")

	// ErrInvalidPopularWordCount is returned when popularWordCount is negative.
	ErrInvalidPopularWordCount = errors.New("invalid popular word count: popularWordCount must be non-negative")

	// ErrInvalidPattern is returned when an ignoredUrls or ignoredWords entry
	// is not a valid regular expression.
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrUnknownImplementation is returned when implementationOverride names no known crawler.
	ErrUnknownImplementation = errors.New("unknown implementation: implementationOverride must be \"parallel\" or \"sequential\"")
)
