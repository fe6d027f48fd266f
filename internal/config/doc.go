// Package config provides the crawl configuration file for wordcrawl.
// It defines the file format, its defaults and validation, where the file is
// looked up, and the XDG directories used for the run archive.
package config
