package urc

import "errors"

var (
	// ErrNoHandler is returned when a Dispatcher or Router is built without
	// the handler it delivers to.
	ErrNoHandler = errors.New("no message handler configured")

	// ErrIncompleteBlock marks a message block that ended without a topic or
	// without a payload. It is logged, never returned to a caller.
	ErrIncompleteBlock = errors.New("incomplete message block")

	// ErrUnknownTopic is returned by Router for topics outside the
	// configured set.
	ErrUnknownTopic = errors.New("unknown topic")
)
