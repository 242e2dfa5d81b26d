package cloud

import "errors"

var (
	// ErrInvalidPayload is returned when a message body is not the expected JSON.
	ErrInvalidPayload = errors.New("invalid payload")

	// ErrInvalidMethod is returned for an RPC request without a string method.
	ErrInvalidMethod = errors.New("invalid or missing method")

	// ErrUnknownMethod is returned for an RPC method the device does not
	// implement.
	ErrUnknownMethod = errors.New("unknown method")

	ErrNoSettings  = errors.New("no settings store configured")
	ErrNoCommander = errors.New("no commander configured")
	ErrNoBroker    = errors.New("no broker configured")
)
