package profiler

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// Entry is the accumulated time of one method of one implementation.
type Entry struct {
	// Key is "<implementation>#<method>".
	Key string

	// Total is the sum of every recorded invocation.
	Total time.Duration
}

// State accumulates elapsed time per method key.
//
// Record only takes the read side of mu and adds to a per-key atomic
// counter, so concurrent recorders never wait on each other. Snapshot takes
// the write side, so a snapshot never observes half of an in-flight batch
// of records for the same key.
type State struct {
	mu      sync.RWMutex
	entries sync.Map // string -> *atomic.Int64 nanoseconds
}

// NewState returns an empty State.
func NewState() *State {
	return &State{}
}

// Record adds elapsed to the total of the given implementation's method.
func (s *State) Record(implementation, method string, elapsed time.Duration) {
	key := implementation + "#" + method

	s.mu.RLock()
	defer s.mu.RUnlock()

	total, ok := s.entries.Load(key)
	if !ok {
		total, _ = s.entries.LoadOrStore(key, new(atomic.Int64))
	}
	total.(*atomic.Int64).Add(int64(elapsed))
}

// Total returns the accumulated time for a method key, or zero if nothing was recorded.
func (s *State) Total(key string) time.Duration {
	total, ok := s.entries.Load(key)
	if !ok {
		return 0
	}
	return time.Duration(total.(*atomic.Int64).Load())
}

// Snapshot returns every entry sorted by key.
func (s *State) Snapshot() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	var entries []Entry
	s.entries.Range(func(k, v any) bool {
		entries = append(entries, Entry{
			Key:   k.(string),
			Total: time.Duration(v.(*atomic.Int64).Load()),
		})
		return true
	})
	slices.SortFunc(entries, func(a, b Entry) int {
		return cmp.Compare(a.Key, b.Key)
	})
	return entries
}

// Write writes one "<key> took <m>m <s>s <ms>ms" line per entry, sorted by key.
func (s *State) Write(w io.Writer) error {
	for _, e := range s.Snapshot() {
		if _, err := fmt.Fprintf(w, "%s took %s\n", e.Key, formatDuration(e.Total)); err != nil {
			return err
		}
	}
	return nil
}

// formatDuration renders d as whole minutes plus the seconds and
// milliseconds parts, e.g. "1m 2s 345ms".
func formatDuration(d time.Duration) string {
	minutes := d / time.Minute
	seconds := (d % time.Minute) / time.Second
	millis := (d % time.Second) / time.Millisecond
	return fmt.Sprintf("%dm %ds %dms", minutes, seconds, millis)
}
