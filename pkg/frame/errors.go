package frame

import "fmt"

// ValidationError indicates an outbound command can't be encoded.
// Nothing is written to the wire when it's returned.
type ValidationError struct {
	Reason string
}

// Error implements error.
func (e *ValidationError) Error() string {
	return "invalid command: " + e.Reason
}

// ParseError indicates an accepted reply line can't be decoded.
type ParseError struct {
	Line   string
	Reason string
}

// Error implements error.
func (e *ParseError) Error() string {
	return fmt.Sprintf("bad reply %q: %s", e.Line, e.Reason)
}
