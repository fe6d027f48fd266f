package profiler

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/nao1215/wordcrawl/internal/clock"
)

// Profiler wraps capabilities and accumulates the time spent in their profiled methods.
type Profiler struct {
	clock     clock.Clock
	state     *State
	startTime time.Time
}

// New creates a Profiler. Its start time is read from clk now.
func New(clk clock.Clock) *Profiler {
	return &Profiler{
		clock:     clk,
		state:     NewState(),
		startTime: clk.Now(),
	}
}

// StartTime returns the instant the profiler was created.
func (p *Profiler) StartTime() time.Time {
	return p.startTime
}

// State returns the accumulated timings.
func (p *Profiler) State() *State {
	return p.state
}

// Wrap returns a wrapper of delegate that records the time spent in the
// capability's profiled operations. The descriptor is validated first; an
// invalid descriptor or a nil delegate yields the zero T and an error.
func Wrap[T any](p *Profiler, capability Capability[T], delegate T) (T, error) {
	var zero T
	if err := capability.validate(); err != nil {
		return zero, err
	}
	if isNil(delegate) {
		return zero, fmt.Errorf("%s: %w", capability.Name, ErrNilDelegate)
	}

	profiled := make(map[string]struct{}, len(capability.Profiled))
	for _, op := range capability.Profiled {
		profiled[op] = struct{}{}
	}

	interceptor := &Interceptor{
		profiler:       p,
		implementation: implementationName(delegate),
		profiled:       profiled,
	}
	return capability.Bind(delegate, interceptor), nil
}

// WriteData writes the report to w: a "Run at <start time>" header in
// RFC1123 format, one line per profiled method, then an empty line.
func (p *Profiler) WriteData(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "Run at %s\n", p.startTime.Format(time.RFC1123)); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteReport, err)
	}
	if err := p.state.Write(bw); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteReport, err)
	}
	if _, err := fmt.Fprintln(bw); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteReport, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteReport, err)
	}
	return nil
}

// WriteFile appends the report to the file at path, creating it if needed.
func (p *Profiler) WriteFile(path string) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600) //nolint:gosec // user-provided output path
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteReport, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("%w: %w", ErrWriteReport, cerr))
		}
	}()
	return p.WriteData(f)
}
