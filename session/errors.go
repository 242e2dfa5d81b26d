package session

import "errors"

var (
	// ErrSessionFault is returned by Run when a bring-up stage exhausted its
	// attempts or the cloud session was lost. The process is expected to
	// restart.
	ErrSessionFault = errors.New("session fault")

	// ErrAttemptsExhausted is wrapped by a stage that ran out of attempts.
	ErrAttemptsExhausted = errors.New("attempts exhausted")

	ErrNoModem = errors.New("no modem configured")
	ErrNoCloud = errors.New("no cloud client configured")

	// ErrConnectionLost is reported when the modem announces the broker
	// connection dropped.
	ErrConnectionLost = errors.New("cloud connection lost")
)
