package profiler

import "errors"

var (
	// ErrNoProfiledOperations is returned by Wrap when the capability declares
	// no profiled operation.
	ErrNoProfiledOperations = errors.New("capability declares no profiled operations")

	// ErrUnknownOperation is returned by Wrap when a profiled operation is not
	// one of the operations the capability forwards.
	ErrUnknownOperation = errors.New("profiled operation is not forwarded by the capability")

	// ErrNilDelegate is returned by Wrap when there is nothing to delegate to.
	ErrNilDelegate = errors.New("delegate must not be nil")

	// ErrMissingBind is returned by Wrap when the capability has no Bind function.
	ErrMissingBind = errors.New("capability has no bind function")

	// ErrWriteReport wraps every I/O failure while writing profiling data.
	ErrWriteReport = errors.New("failed to write profiling data")
)
