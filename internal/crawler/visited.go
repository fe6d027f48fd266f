package crawler

import (
	"sync"
	"sync/atomic"
)

// VisitedSet records the URLs claimed during a crawl.
// The zero value is an empty set ready for use.
type VisitedSet struct {
	urls sync.Map
	size atomic.Int64
}

// Add claims url and reports whether the caller is the first to do so.
// Exactly one of any number of concurrent Add calls for the same URL returns true.
func (v *VisitedSet) Add(url string) bool {
	if _, loaded := v.urls.LoadOrStore(url, struct{}{}); loaded {
		return false
	}
	v.size.Add(1)
	return true
}

// Contains reports whether url has been claimed.
func (v *VisitedSet) Contains(url string) bool {
	_, ok := v.urls.Load(url)
	return ok
}

// Len returns the number of claimed URLs.
func (v *VisitedSet) Len() int {
	return int(v.size.Load())
}
