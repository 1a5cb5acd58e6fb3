package frame

import (
	"fmt"
	"strings"
	"sync"
)

// Protocol limits.
const (
	// MaxArgs is the maximum number of arguments of a command.
	MaxArgs = 12
	// MaxStrArgs is the maximum number of string arguments of a command.
	MaxStrArgs = 1
	// MaxFrameLen is the maximum length of a frame, excluding the line terminator.
	MaxFrameLen = 58
	// CounterModulo is where the sequence counter wraps.
	CounterModulo = 255
)

const (
	startMark  = '#'
	counterSep = ':'
	terminator = "\r\n"
)

// Frame is a rendered command frame including the line terminator.
type Frame []byte

// String returns the frame without the line terminator.
func (f Frame) String() string {
	return strings.TrimSuffix(string(f), terminator)
}

// Encoder renders commands into frames and owns the sequence counter.
// A link shared by multiple sessions must share one Encoder.
type Encoder struct {
	counter byte
	lock    sync.Mutex
}

// NewEncoder creates an Encoder with counter starting from 0.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Counter returns the counter used for the next frame.
func (e *Encoder) Counter() byte {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.counter
}

// SetCounter sets the counter for the next frame.
func (e *Encoder) SetCounter(c byte) {
	e.lock.Lock()
	e.counter = c % CounterModulo
	e.lock.Unlock()
}

// IsValidOpcode checks if c is allowed as an opcode.
func IsValidOpcode(c byte) bool {
	return c >= 'a' && c <= 'z' ||
		c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' ||
		c == '?'
}

// Encode validates and renders a command.
func (e *Encoder) Encode(opcode string, args ...Value) (Frame, error) {
	if len(opcode) != 1 {
		return nil, &ValidationError{Reason: fmt.Sprintf("Opcode must be one character, got %q", opcode)}
	}
	if !IsValidOpcode(opcode[0]) {
		return nil, &ValidationError{Reason: fmt.Sprintf("Invalid opcode %q", opcode)}
	}
	if len(args) > MaxArgs {
		return nil, &ValidationError{Reason: fmt.Sprintf("Too many arguments: %d > %d", len(args), MaxArgs)}
	}
	var strs int
	for _, arg := range args {
		if arg.IsStr() {
			strs++
		}
	}
	if strs > MaxStrArgs {
		return nil, &ValidationError{Reason: fmt.Sprintf("Too many strings: %d > %d", strs, MaxStrArgs)}
	}

	var b strings.Builder
	b.WriteString(opcode)
	if len(args) > 0 {
		b.WriteByte('[')
		for n, arg := range args {
			if n > 0 {
				b.WriteByte(',')
			}
			b.WriteString(arg.String())
		}
		b.WriteByte(']')
	}
	return e.wrap(b.String())
}

// EncodeRaw renders a pre-formatted "opcode[args]" command.
// Only the frame length is checked.
func (e *Encoder) EncodeRaw(text string) (Frame, error) {
	return e.wrap(text)
}

func (e *Encoder) wrap(cmd string) (Frame, error) {
	// '#' + cmd + ':' + counter(2) + crc(2)
	if l := len(cmd) + 6; l > MaxFrameLen {
		return nil, &ValidationError{Reason: fmt.Sprintf("Command too long: %d > %d characters", l, MaxFrameLen)}
	}

	e.lock.Lock()
	counter := e.counter
	e.counter = byte((int(counter) + 1) % CounterModulo)
	e.lock.Unlock()

	f := make(Frame, 0, len(cmd)+8)
	f = append(f, startMark)
	f = append(f, cmd...)
	f = append(f, counterSep)
	f = append(f, hex2(counter)...)
	f = append(f, hex2(Checksum(f))...)
	f = append(f, terminator...)
	return f, nil
}
