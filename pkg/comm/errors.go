package comm

import (
	"errors"
	"fmt"
)

// ErrNoControlLine indicates the transport can't drive DTR.
var ErrNoControlLine = errors.New("transport has no control line")

// RemoteError is a fatal status reported by the device.
type RemoteError struct {
	Status  int64
	Message string
}

// Error implements error.
func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote error %d: %s", e.Status, e.Message)
}

// RetryExhaustedError indicates every attempt got a negative status.
type RetryExhaustedError struct {
	Attempts   int
	LastStatus int64
}

// Error implements error.
func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("sending failed after %d attempts (last status %d)", e.Attempts, e.LastStatus)
}
