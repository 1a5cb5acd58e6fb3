package comm

import (
	"sync"
	"sync/atomic"

	"github.com/golang/glog"

	"github.com/robotalks/ctlserial/pkg/frame"
)

// DefaultMaxRetries is the number of attempts used by Execute and SendCommand.
const DefaultMaxRetries = 5

// Session executes commands over a Transport, one at a time.
type Session struct {
	// MaxRetries is the number of attempts used by Execute and SendCommand.
	MaxRetries int
	// Encoder renders frames. Sessions sharing a link must share it.
	Encoder *frame.Encoder
	// Sink receives traffic when debug is enabled, defaults to GlogSink.
	Sink TraceSink
	// OnLog receives every device log line, debug or not.
	OnLog func(line string)

	transport Transport
	debug     int32
	lock      sync.Mutex
}

// NewSession creates a Session on the transport.
func NewSession(t Transport) *Session {
	return &Session{
		MaxRetries: DefaultMaxRetries,
		Encoder:    frame.NewEncoder(),
		Sink:       GlogSink,
		transport:  t,
	}
}

// Transport returns the underlying transport.
func (s *Session) Transport() Transport {
	return s.transport
}

// SetDebug enables or disables tracing.
func (s *Session) SetDebug(en bool) {
	var v int32
	if en {
		v = 1
	}
	atomic.StoreInt32(&s.debug, v)
}

// Debug indicates whether tracing is enabled.
func (s *Session) Debug() bool {
	return atomic.LoadInt32(&s.debug) != 0
}

// Execute sends a command and returns the reply of status 0.
func (s *Session) Execute(opcode string, args ...frame.Value) (frame.Reply, error) {
	return s.ExecuteN(s.MaxRetries, opcode, args...)
}

// ExecuteN is Execute with explicit attempts.
func (s *Session) ExecuteN(maxRetries int, opcode string, args ...frame.Value) (frame.Reply, error) {
	return s.run(maxRetries, func() (frame.Frame, error) {
		return s.Encoder.Encode(opcode, args...)
	})
}

// Exec converts Go values to arguments with frame.ValueOf and calls Execute.
func (s *Session) Exec(opcode string, vals ...interface{}) (frame.Reply, error) {
	args, err := frame.ValuesOf(vals...)
	if err != nil {
		return nil, err
	}
	return s.Execute(opcode, args...)
}

// SendCommand sends a pre-formatted "opcode[args]" command.
func (s *Session) SendCommand(raw string) (frame.Reply, error) {
	return s.SendCommandN(s.MaxRetries, raw)
}

// SendCommandN is SendCommand with explicit attempts.
func (s *Session) SendCommandN(maxRetries int, raw string) (frame.Reply, error) {
	return s.run(maxRetries, func() (frame.Frame, error) {
		return s.Encoder.EncodeRaw(raw)
	})
}

// ReadReply reads lines until a reply line, skipping log lines and
// lines which are not frames. The terminator is removed.
func (s *Session) ReadReply() (string, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.readReply()
}

// Reset resets the device by toggling DTR on the transport.
func (s *Session) Reset() error {
	line, ok := s.transport.(ControlLine)
	if !ok {
		return ErrNoControlLine
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	return NewResetter(line).Reset()
}

func (s *Session) run(maxRetries int, encode func() (frame.Frame, error)) (frame.Reply, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	var status int64
	for attempt := 1; attempt <= maxRetries; attempt++ {
		f, err := encode()
		if err != nil {
			return nil, err
		}
		s.trace(TraceSend, f.String())
		if _, err = s.transport.Write(f); err != nil {
			return nil, err
		}
		line, err := s.readReply()
		if err != nil {
			return nil, err
		}
		reply, err := frame.Parse(line)
		if err != nil {
			return nil, err
		}
		code, ok := reply.Status()
		if !ok {
			return nil, &frame.ParseError{Line: line, Reason: "missing status code"}
		}
		if code == 0 {
			return reply, nil
		}
		if code > 0 {
			return nil, &RemoteError{Status: code, Message: reply.Message()}
		}
		status = code
		glog.V(1).Infof("attempt %d/%d: status %d", attempt, maxRetries, code)
	}
	return nil, &RetryExhaustedError{Attempts: maxRetries, LastStatus: status}
}

func (s *Session) readReply() (string, error) {
	for {
		raw, err := s.transport.ReadLine()
		if err != nil {
			return "", err
		}
		line := frame.TrimLine(raw)
		switch {
		case frame.IsLogLine(line):
			s.trace(TraceLog, line)
			if s.OnLog != nil {
				s.OnLog(line)
			}
		case frame.IsValidFrame(line):
			s.trace(TraceReply, line)
			return line, nil
		default:
			s.trace(TraceSkip, line)
		}
	}
}

func (s *Session) trace(kind TraceKind, line string) {
	if s.Debug() && s.Sink != nil {
		s.Sink.Trace(kind, line)
	}
}
