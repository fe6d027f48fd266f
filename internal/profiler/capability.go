package profiler

import (
	"fmt"
	"reflect"
	"slices"
)

// Capability describes an interface type T that can be profiled.
//
// Operations lists every method the wrapper forwards and Profiled the subset
// that is timed. Bind builds the wrapper: it must return a value that
// implements T by calling Interceptor.Invoke for each method, with the
// method's name, and forwarding the call to delegate inside it.
type Capability[T any] struct {
	// Name identifies the capability in error messages.
	Name string

	// Operations are the method names the wrapper forwards.
	Operations []string

	// Profiled are the method names whose time is recorded.
	Profiled []string

	// Bind returns the wrapper for delegate.
	Bind func(delegate T, interceptor *Interceptor) T
}

// validate checks the descriptor before anything is wrapped.
func (c Capability[T]) validate() error {
	if c.Bind == nil {
		return fmt.Errorf("%s: %w", c.Name, ErrMissingBind)
	}
	if len(c.Profiled) == 0 {
		return fmt.Errorf("%s: %w", c.Name, ErrNoProfiledOperations)
	}
	for _, op := range c.Profiled {
		if !slices.Contains(c.Operations, op) {
			return fmt.Errorf("%s.%s: %w", c.Name, op, ErrUnknownOperation)
		}
	}
	return nil
}

// Interceptor times the profiled operations of one wrapped delegate.
type Interceptor struct {
	profiler       *Profiler
	implementation string
	profiled       map[string]struct{}
}

// Invoke runs call, which must perform the named operation on the delegate.
// Profiled operations are timed from just before call until it returns or
// panics; the panic continues unchanged after the time is recorded. Other
// operations run without any measurement.
func (in *Interceptor) Invoke(operation string, call func()) {
	if _, ok := in.profiled[operation]; !ok {
		call()
		return
	}

	start := in.profiler.clock.Now()
	defer func() {
		in.profiler.state.Record(in.implementation, operation, in.profiler.clock.Now().Sub(start))
	}()
	call()
}

// implementationName names the concrete type behind v, dereferencing pointers:
// "<import path>.<type name>" for named types, the type literal otherwise.
func implementationName(v any) string {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" || t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

// isNil reports whether v is nil or a nil pointer, map, slice, func, chan or interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
