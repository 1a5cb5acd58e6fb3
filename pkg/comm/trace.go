package comm

import "github.com/golang/glog"

// TraceKind classifies traced lines.
type TraceKind int

// Trace kinds.
const (
	// TraceSend is an outbound frame.
	TraceSend TraceKind = iota
	// TraceReply is an accepted reply line.
	TraceReply
	// TraceLog is a diagnostic line from the device.
	TraceLog
	// TraceSkip is a line which is neither a reply nor a log line.
	TraceSkip
)

// String implements fmt.Stringer.
func (k TraceKind) String() string {
	switch k {
	case TraceSend:
		return "TX"
	case TraceReply:
		return "RX"
	case TraceLog:
		return "LOG"
	case TraceSkip:
		return "SKIP"
	}
	return "?"
}

// TraceSink receives traffic when debug is enabled.
type TraceSink interface {
	Trace(kind TraceKind, line string)
}

// TraceFunc is func form of TraceSink.
type TraceFunc func(TraceKind, string)

// Trace implements TraceSink.
func (f TraceFunc) Trace(kind TraceKind, line string) {
	f(kind, line)
}

// GlogSink writes traffic to glog.
var GlogSink TraceSink = TraceFunc(func(kind TraceKind, line string) {
	glog.Infof("%s %q", kind, line)
})
