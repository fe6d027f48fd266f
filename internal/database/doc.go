// Package database provides the SQLite run archive of wordcrawl.
//
// Every finished crawl can be saved as a run: when and how it ran, where it
// started and the ranking it produced. The archive only records results.
// Crawls never read it, so a crawl always starts from an empty visited set.
//
// The archive uses modernc.org/sqlite, a CGO-free driver, so the binary
// cross-compiles without a C toolchain. The database is a single file in the
// XDG data directory by default.
package database
