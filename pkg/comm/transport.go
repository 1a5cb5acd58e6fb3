package comm

import (
	"bufio"
	"io"
)

// Transport is the byte link to the device.
type Transport interface {
	io.Writer
	// ReadLine blocks until a line is received and returns it with
	// the terminator.
	ReadLine() ([]byte, error)
}

// ControlLine drives the data-terminal-ready signal.
type ControlLine interface {
	SetDTR(bool) error
}

// LineTransport implements Transport over a byte stream.
type LineTransport struct {
	rw     io.ReadWriter
	reader *bufio.Reader
}

// NewLineTransport wraps rw. If rw implements ControlLine or io.Closer,
// the LineTransport does too.
func NewLineTransport(rw io.ReadWriter) *LineTransport {
	return &LineTransport{rw: rw, reader: bufio.NewReader(rw)}
}

// Write implements io.Writer.
func (t *LineTransport) Write(p []byte) (int, error) {
	return t.rw.Write(p)
}

// ReadLine implements Transport.
func (t *LineTransport) ReadLine() ([]byte, error) {
	return t.reader.ReadBytes('\n')
}

// SetDTR implements ControlLine.
func (t *LineTransport) SetDTR(on bool) error {
	if ctl, ok := t.rw.(ControlLine); ok {
		return ctl.SetDTR(on)
	}
	return ErrNoControlLine
}

// Close implements io.Closer.
func (t *LineTransport) Close() error {
	if closer, ok := t.rw.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// ReadWriter returns the wrapped stream.
func (t *LineTransport) ReadWriter() io.ReadWriter {
	return t.rw
}
