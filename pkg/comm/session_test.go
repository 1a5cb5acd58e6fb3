package comm

import (
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/ctlserial/pkg/frame"
)

type fakeTransport struct {
	lines   []string
	repeat  string
	readErr error

	writes   []string
	reads    int
	writeErr error
	dtr      []bool
	lock     sync.Mutex
}

func (t *fakeTransport) Write(p []byte) (int, error) {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.writeErr != nil {
		return 0, t.writeErr
	}
	t.writes = append(t.writes, string(p))
	return len(p), nil
}

func (t *fakeTransport) ReadLine() ([]byte, error) {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.reads++
	if len(t.lines) > 0 {
		line := t.lines[0]
		t.lines = t.lines[1:]
		return []byte(line), nil
	}
	if t.repeat != "" {
		return []byte(t.repeat), nil
	}
	if t.readErr != nil {
		return nil, t.readErr
	}
	return nil, io.EOF
}

func (t *fakeTransport) SetDTR(on bool) error {
	t.dtr = append(t.dtr, on)
	return nil
}

type traced struct {
	kind TraceKind
	line string
}

func newTestSession(t *fakeTransport) (*Session, *[]traced) {
	var traces []traced
	s := NewSession(t)
	s.Sink = TraceFunc(func(kind TraceKind, line string) {
		traces = append(traces, traced{kind, line})
	})
	return s, &traces
}

func TestSessionExecute(t *testing.T) {
	testCases := []struct {
		name   string
		lines  []string
		repeat string
		run    func(*Session) (frame.Reply, error)
		expect frame.Reply
		writes int
		reads  int
	}{
		{
			"success",
			nil, "#R[0,42]\r\n",
			func(s *Session) (frame.Reply, error) { return s.Execute("e", frame.Int(0)) },
			frame.Reply{frame.Int(0), frame.Int(42)}, 1, 1,
		},
		{
			"retry then success",
			[]string{"#R[-1]\r\n", "#R[-1]\r\n", "#R[0,100]\r\n"}, "",
			func(s *Session) (frame.Reply, error) { return s.Execute("r") },
			frame.Reply{frame.Int(0), frame.Int(100)}, 3, 3,
		},
		{
			"recover after transient error",
			[]string{"#R[-1]\r\n", "#R[0,42]\r\n"}, "",
			func(s *Session) (frame.Reply, error) { return s.Execute("r") },
			frame.Reply{frame.Int(0), frame.Int(42)}, 2, 2,
		},
		{
			"skip log lines",
			[]string{"#!Log 1\r\n", "#!Log 2\r\n", "#!Log 3\r\n", "#R[0,123]\r\n"}, "",
			func(s *Session) (frame.Reply, error) { return s.Execute("r") },
			frame.Reply{frame.Int(0), frame.Int(123)}, 1, 4,
		},
		{
			"skip invalid lines",
			[]string{"\r\n", "Invalid\r\n", "#\r\n", "#R[0]\r\n"}, "",
			func(s *Session) (frame.Reply, error) { return s.Execute("e", frame.Int(0)) },
			frame.Reply{frame.Int(0)}, 1, 4,
		},
		{
			"raw command",
			nil, "#R[0,100]\r\n",
			func(s *Session) (frame.Reply, error) { return s.SendCommand("t[50]") },
			frame.Reply{frame.Int(0), frame.Int(100)}, 1, 1,
		},
		{
			"dynamic values",
			nil, "#R[0]\r\n",
			func(s *Session) (frame.Reply, error) { return s.Exec("m", 1, 2, "three") },
			frame.Reply{frame.Int(0)}, 1, 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tr := &fakeTransport{lines: tc.lines, repeat: tc.repeat}
			s, _ := newTestSession(tr)
			reply, err := tc.run(s)
			require.NoError(t, err)
			require.Equal(t, tc.expect, reply)
			require.Len(t, tr.writes, tc.writes)
			require.Equal(t, tc.reads, tr.reads)
		})
	}
}

func TestSessionRetryExhausted(t *testing.T) {
	tr := &fakeTransport{repeat: "#R[-1]\r\n"}
	s, _ := newTestSession(tr)
	_, err := s.ExecuteN(5, "e", frame.Int(0))
	require.Error(t, err)
	var exhausted *RetryExhaustedError
	require.True(t, errors.As(err, &exhausted))
	require.Equal(t, 5, exhausted.Attempts)
	require.Equal(t, int64(-1), exhausted.LastStatus)
	require.Contains(t, err.Error(), "sending failed after 5 attempts")
	require.Len(t, tr.writes, 5)

	tr = &fakeTransport{repeat: "#R[-3]\r\n"}
	s, _ = newTestSession(tr)
	s.MaxRetries = 2
	_, err = s.Execute("e")
	require.IsType(t, &RetryExhaustedError{}, err)
	require.Len(t, tr.writes, 2)

	tr = &fakeTransport{repeat: "#R[0]\r\n"}
	s, _ = newTestSession(tr)
	_, err = s.ExecuteN(0, "e")
	require.IsType(t, &RetryExhaustedError{}, err)
	require.Empty(t, tr.writes)
}

func TestSessionRetryResendsFreshFrames(t *testing.T) {
	tr := &fakeTransport{lines: []string{"#R[-1]\r\n", "#R[-1]\r\n", "#R[0]\r\n"}}
	s, _ := newTestSession(tr)
	_, err := s.Execute("r")
	require.NoError(t, err)
	require.Len(t, tr.writes, 3)
	require.True(t, strings.HasPrefix(tr.writes[0], "#r:00"))
	require.True(t, strings.HasPrefix(tr.writes[1], "#r:01"))
	require.True(t, strings.HasPrefix(tr.writes[2], "#r:02"))
	require.Equal(t, byte(3), s.Encoder.Counter())
}

func TestSessionRemoteError(t *testing.T) {
	tr := &fakeTransport{repeat: "#R[1,\"Command error\"]\r\n"}
	s, _ := newTestSession(tr)
	_, err := s.Execute("e", frame.Int(0))
	require.Error(t, err)
	var remote *RemoteError
	require.True(t, errors.As(err, &remote))
	require.Equal(t, int64(1), remote.Status)
	require.Equal(t, "Command error", remote.Message)
	require.Contains(t, err.Error(), "Command error")
	require.Len(t, tr.writes, 1)

	tr = &fakeTransport{repeat: "#R[7]\r\n"}
	s, _ = newTestSession(tr)
	_, err = s.Execute("e")
	require.Equal(t, &RemoteError{Status: 7}, err)
}

func TestSessionValidationError(t *testing.T) {
	tr := &fakeTransport{repeat: "#R[0]\r\n"}
	s, _ := newTestSession(tr)
	_, err := s.Execute("abc", frame.Int(0))
	require.IsType(t, &frame.ValidationError{}, err)
	_, err = s.Exec("e", 1.5)
	require.IsType(t, &frame.ValidationError{}, err)
	_, err = s.SendCommand(strings.Repeat("a", 60))
	require.IsType(t, &frame.ValidationError{}, err)
	require.Empty(t, tr.writes)
	require.Zero(t, tr.reads)
}

func TestSessionParseError(t *testing.T) {
	testCases := []struct {
		name string
		line string
	}{
		{"nested", "#R[[1,2],[3,4]]\r\n"},
		{"empty", "#R[]\r\n"},
		{"string status", "#R[\"x\"]\r\n"},
		{"no list", "#OK\r\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tr := &fakeTransport{repeat: tc.line}
			s, _ := newTestSession(tr)
			_, err := s.Execute("e")
			require.IsType(t, &frame.ParseError{}, err)
			require.Len(t, tr.writes, 1)
		})
	}
}

func TestSessionTransportErrors(t *testing.T) {
	readErr := errors.New("read failed")
	tr := &fakeTransport{readErr: readErr}
	s, _ := newTestSession(tr)
	_, err := s.Execute("e")
	require.Equal(t, readErr, err)
	require.Len(t, tr.writes, 1)

	writeErr := errors.New("write failed")
	tr = &fakeTransport{repeat: "#R[0]\r\n", writeErr: writeErr}
	s, _ = newTestSession(tr)
	_, err = s.Execute("e")
	require.Equal(t, writeErr, err)
	require.Zero(t, tr.reads)
}

func TestSessionReadReply(t *testing.T) {
	tr := &fakeTransport{lines: []string{"#!Debug log message\r\n", "#!Another log\r\n", "#R[0,42]\r\n"}}
	s, _ := newTestSession(tr)
	reply, err := s.ReadReply()
	require.NoError(t, err)
	require.Equal(t, "#R[0,42]", reply)
	require.Equal(t, 3, tr.reads)

	tr = &fakeTransport{lines: []string{"\r\n", "Invalid message\r\n", "#R[0]\r\n"}}
	s, _ = newTestSession(tr)
	reply, err = s.ReadReply()
	require.NoError(t, err)
	require.Equal(t, "#R[0]", reply)
}

func TestSessionOnLog(t *testing.T) {
	tr := &fakeTransport{lines: []string{"#!boot\r\n", "junk\r\n", "#!ready\r\n", "#R[0]\r\n"}}
	s, traces := newTestSession(tr)
	var logs []string
	s.OnLog = func(line string) { logs = append(logs, line) }
	_, err := s.Execute("t")
	require.NoError(t, err)
	require.Equal(t, []string{"#!boot", "#!ready"}, logs)
	require.Empty(t, *traces)
}

func TestSessionWritesEncodedFrame(t *testing.T) {
	tr := &fakeTransport{repeat: "#R[0]\r\n"}
	s, _ := newTestSession(tr)
	_, err := s.Execute("t", frame.Int(100))
	require.NoError(t, err)
	require.Len(t, tr.writes, 1)
	written := tr.writes[0]
	require.True(t, strings.HasPrefix(written, "#t[100]:"))
	require.True(t, strings.HasSuffix(written, "\r\n"))
}

func TestSessionDebug(t *testing.T) {
	tr := &fakeTransport{lines: []string{"#!boot\r\n", "junk\r\n", "#R[0]\r\n"}}
	s, traces := newTestSession(tr)
	require.False(t, s.Debug())
	s.SetDebug(true)
	require.True(t, s.Debug())
	_, err := s.Execute("e", frame.Int(0))
	require.NoError(t, err)
	require.Len(t, *traces, 4)
	require.Equal(t, TraceSend, (*traces)[0].kind)
	require.True(t, strings.HasPrefix((*traces)[0].line, "#e[0]:00"))
	require.Equal(t, traced{TraceLog, "#!boot"}, (*traces)[1])
	require.Equal(t, traced{TraceSkip, "junk"}, (*traces)[2])
	require.Equal(t, traced{TraceReply, "#R[0]"}, (*traces)[3])

	s.SetDebug(false)
	tr.repeat = "#R[0]\r\n"
	_, err = s.Execute("e", frame.Int(0))
	require.NoError(t, err)
	require.Len(t, *traces, 4)
}

func TestSessionSequences(t *testing.T) {
	tr := &fakeTransport{lines: []string{"#R[0,512]\r\n", "#R[0,513]\r\n", "#R[0,514]\r\n"}}
	s, _ := newTestSession(tr)
	var values []int64
	for i := 0; i < 3; i++ {
		reply, err := s.Execute("a", frame.Int(0))
		require.NoError(t, err)
		values = append(values, reply[1].Int64())
	}
	require.Equal(t, []int64{512, 513, 514}, values)
	require.Len(t, tr.writes, 3)
}

func TestSessionSerializesCommands(t *testing.T) {
	tr := &fakeTransport{repeat: "#R[0]\r\n"}
	s, _ := newTestSession(tr)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				if _, err := s.Execute("e", frame.Int(0)); err != nil {
					t.Error(err)
				}
			}
		}()
	}
	wg.Wait()
	require.Len(t, tr.writes, 80)
	require.Equal(t, 80, tr.reads)
	require.Equal(t, byte(80), s.Encoder.Counter())
}

func TestSessionTransport(t *testing.T) {
	tr := &fakeTransport{}
	s := NewSession(tr)
	require.Equal(t, tr, s.Transport())
	require.Equal(t, DefaultMaxRetries, s.MaxRetries)
}
