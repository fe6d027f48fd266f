// Package main provides the entry point for the wordcrawl CLI.
//
// wordcrawl crawls a region of the web from a set of start pages, counts
// the words it finds, and reports the most popular ones.
//
// Usage:
//
//	wordcrawl init
//	wordcrawl crawl [config-file]
//	wordcrawl history [run-id]
//
// See --help for all available options.
package main

// main is the entry point for wordcrawl.
func main() {
	Execute()
}
