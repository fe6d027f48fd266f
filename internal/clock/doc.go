// Package clock provides the time source used by the crawler and the profiler.
//
// Crawl deadlines and profiling intervals both read the current instant
// through the Clock interface, so tests can substitute a Fake and drive time
// explicitly instead of sleeping.
package clock
