// Package log builds the slog loggers used by wordcrawl.
//
// Crawled URLs can carry credentials: user:password pairs, session ids and
// API tokens in query strings. RedactingHandler masks them, together with
// attributes whose key names a secret, before a record reaches the
// underlying handler.
package log
