package database

import "errors"

var (
	// ErrRunNotFound is returned when no run matches the given ID.
	ErrRunNotFound = errors.New("run not found")

	// ErrAmbiguousRunID is returned when an ID prefix matches more than one run.
	ErrAmbiguousRunID = errors.New("run ID prefix matches more than one run")
)
