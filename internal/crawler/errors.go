package crawler

import "errors"

var (
	// ErrMissingParser is returned when a crawler is built without a PageParser.
	ErrMissingParser = errors.New("page parser is required")

	// ErrUnsupportedScheme is returned by HTMLParser for URLs it cannot fetch.
	ErrUnsupportedScheme = errors.New("unsupported URL scheme")

	// ErrUnexpectedStatus is returned by HTMLParser for non-2xx HTTP responses.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")
)
