package db

import "errors"

var (
	// ErrMalformedId is returned when an id used as a filter or cursor cannot exist in the store.
	ErrMalformedId = errors.New("malformed id")
	// ErrPostNotFound is returned by CreateResponse when the parent post vanished.
	ErrPostNotFound = errors.New("post not found")
)
