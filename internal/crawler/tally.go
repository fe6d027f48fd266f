package crawler

import (
	"sync"
	"sync/atomic"
)

// WordTally accumulates word counts from many pages at once.
// Additions are atomic per word; no lock is shared between words.
// The zero value is an empty tally ready for use.
type WordTally struct {
	counts sync.Map // string -> *atomic.Int64
}

// Add adds n occurrences of word.
func (t *WordTally) Add(word string, n int) {
	c, ok := t.counts.Load(word)
	if !ok {
		c, _ = t.counts.LoadOrStore(word, new(atomic.Int64))
	}
	c.(*atomic.Int64).Add(int64(n))
}

// Merge adds every count of a page to the tally.
func (t *WordTally) Merge(counts map[string]int) {
	for word, n := range counts {
		t.Add(word, n)
	}
}

// Count returns the occurrences recorded for word.
func (t *WordTally) Count(word string) int {
	c, ok := t.counts.Load(word)
	if !ok {
		return 0
	}
	return int(c.(*atomic.Int64).Load())
}

// Snapshot copies the tally into a plain map.
// It is only a consistent view once every Add has returned.
func (t *WordTally) Snapshot() map[string]int {
	out := make(map[string]int)
	t.counts.Range(func(k, v any) bool {
		out[k.(string)] = int(v.(*atomic.Int64).Load())
		return true
	})
	return out
}
