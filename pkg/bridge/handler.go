package bridge

import (
	"errors"
	"fmt"

	"github.com/golang/glog"

	"github.com/robotalks/ctlserial/pkg/comm"
	"github.com/robotalks/ctlserial/pkg/frame"
)

// Error is a failure reported in a Reply which has no typed equivalent.
type Error struct {
	Kind    ErrorKind
	Message string
}

// Error implements error.
func (e *Error) Error() string {
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

// RequestHandler handles a Request.
type RequestHandler interface {
	Handle(*Request) *Reply
}

// HandleFunc is func form of RequestHandler.
type HandleFunc func(*Request) *Reply

// Handle implements RequestHandler.
func (f HandleFunc) Handle(req *Request) *Reply {
	return f(req)
}

// Handler runs Requests on a command session.
type Handler struct {
	Session *comm.Session
}

// NewHandler creates a Handler.
func NewHandler(s *comm.Session) *Handler {
	return &Handler{Session: s}
}

// Handle implements RequestHandler. It always returns a Reply.
func (h *Handler) Handle(req *Request) *Reply {
	maxRetries := h.Session.MaxRetries
	if req.MaxRetries > 0 {
		maxRetries = int(req.MaxRetries)
	}
	glog.V(2).Infof("request: %s", req)
	var (
		values frame.Reply
		err    error
	)
	if req.Raw != "" {
		values, err = h.Session.SendCommandN(maxRetries, req.Raw)
	} else {
		values, err = h.Session.ExecuteN(maxRetries, req.Opcode, FromValues(req.Args)...)
	}
	if err != nil {
		glog.Warningf("request %d failed: %v", req.Seq, err)
	}
	reply := ReplyFrom(values, err)
	reply.Seq = req.Seq
	return reply
}

// BadRequest creates the Reply for a payload which can't be decoded.
func BadRequest(err error) *Reply {
	return &Reply{ErrorKind: ErrorBadRequest, Error: err.Error()}
}

// ToValues converts reply elements to messages.
func ToValues(vals []frame.Value) []*Value {
	if len(vals) == 0 {
		return nil
	}
	out := make([]*Value, len(vals))
	for n, v := range vals {
		if v.IsStr() {
			out[n] = &Value{Str: v.Text(), IsStr: true}
		} else {
			out[n] = &Value{Int: v.Int64()}
		}
	}
	return out
}

// FromValues converts messages to frame values, nil elements are 0.
func FromValues(vals []*Value) []frame.Value {
	if len(vals) == 0 {
		return nil
	}
	out := make([]frame.Value, len(vals))
	for n, v := range vals {
		switch {
		case v == nil:
			out[n] = frame.Int(0)
		case v.IsStr:
			out[n] = frame.Str(v.Str)
		default:
			out[n] = frame.Int(v.Int)
		}
	}
	return out
}

// ReplyFrom builds a Reply from the result of a session call.
func ReplyFrom(values frame.Reply, err error) *Reply {
	if err == nil {
		return &Reply{Values: ToValues(values)}
	}
	var (
		validationErr *frame.ValidationError
		parseErr      *frame.ParseError
		remoteErr     *comm.RemoteError
		exhaustedErr  *comm.RetryExhaustedError
	)
	reply := &Reply{Error: err.Error()}
	switch {
	case errors.As(err, &validationErr):
		reply.ErrorKind, reply.Error = ErrorValidation, validationErr.Reason
	case errors.As(err, &parseErr):
		reply.ErrorKind = ErrorParse
	case errors.As(err, &remoteErr):
		reply.ErrorKind, reply.Error = ErrorRemote, remoteErr.Message
		reply.Status = remoteErr.Status
	case errors.As(err, &exhaustedErr):
		reply.ErrorKind = ErrorRetryExhausted
		reply.Status = exhaustedErr.LastStatus
		reply.Attempts = uint32(exhaustedErr.Attempts)
	default:
		reply.ErrorKind = ErrorTransport
	}
	return reply
}

// Result converts the Reply back to the values and error a local
// session call would have returned.
func (m *Reply) Result() (frame.Reply, error) {
	switch m.ErrorKind {
	case ErrorNone:
		return frame.Reply(FromValues(m.Values)), nil
	case ErrorValidation:
		return nil, &frame.ValidationError{Reason: m.Error}
	case ErrorRemote:
		return nil, &comm.RemoteError{Status: m.Status, Message: m.Error}
	case ErrorRetryExhausted:
		return nil, &comm.RetryExhaustedError{Attempts: int(m.Attempts), LastStatus: m.Status}
	}
	return nil, &Error{Kind: m.ErrorKind, Message: m.Error}
}
