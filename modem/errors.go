package modem

import "errors"

var (
	// ErrNoDialer is returned when a Modem is constructed without a Dialer.
	//
	// This indicates a configuration error. A Dialer is required in order to
	// establish a connection to the modem.
	ErrNoDialer = errors.New("no dialer configured")

	// ErrNotInitialized is returned when an operation is attempted on a Modem
	// that has not been successfully initialized.
	//
	// This can occur if the Dialer returned no transport or if the Modem was
	// not created via New.
	ErrNotInitialized = errors.New("modem not initialized")

	// ErrAlreadyClosed is returned when Close is called on a Modem that has
	// already been closed, or when a command is issued after Close.
	ErrAlreadyClosed = errors.New("modem already closed")

	// ErrLoopRunning is returned when Loop is called while another Loop is
	// still reading from the same transport.
	ErrLoopRunning = errors.New("modem loop already running")

	// ErrLockTimeout is returned when the command channel could not be
	// acquired within the configured lock timeout.
	//
	// The caller decides how to react. The modem never escalates this on
	// its own.
	ErrLockTimeout = errors.New("timeout acquiring command channel")

	// ErrTimeout is returned when a command produced no response line at all
	// before its deadline.
	ErrTimeout = errors.New("no response from modem")

	// ErrWrite is returned when the command could not be written to the
	// transport. It matches ErrTimeout with errors.Is, since the caller
	// observes the same outcome: the modem never answered.
	ErrWrite = &writeError{}

	// ErrPartialResponse is returned when some lines arrived but no terminal
	// marker did, and the modem is configured to treat that as a failure.
	// The partial response is returned alongside the error.
	ErrPartialResponse = errors.New("partial response from modem")

	// ErrEmptyCommand is returned by Execute for an empty command text.
	ErrEmptyCommand = errors.New("empty command")

	// ErrReleased is returned when a Channel is used after Release.
	ErrReleased = errors.New("command channel released")

	// ErrUnexpectedResponse is returned when a command completed with a
	// terminal marker other than the one the caller required.
	ErrUnexpectedResponse = errors.New("unexpected response")

	// ErrPublishFailed is returned when any step of the publish sequence
	// fails. Modem side state is left as is.
	ErrPublishFailed = errors.New("mqtt publish failed")

	// ErrSubscribeFailed is returned when a topic subscription fails.
	ErrSubscribeFailed = errors.New("mqtt subscribe failed")
)

type writeError struct{}

func (*writeError) Error() string { return "write to modem failed" }

func (*writeError) Is(target error) bool { return target == ErrTimeout }
