// Package sh provides the interactive command shell.
package sh

import (
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/ctlserial/pkg/comm"
	"github.com/robotalks/ctlserial/pkg/frame"
)

// Commander runs commands on a device, locally or through a bridge.
type Commander interface {
	Execute(opcode string, args ...frame.Value) (frame.Reply, error)
	SendCommand(raw string) (frame.Reply, error)
}

// ErrLocalOnly is returned by commands which need the serial link.
var ErrLocalOnly = fmt.Errorf("only available on a local serial port")

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool

	Shell     *ishell.Shell
	Commander Commander
	// Session is nil when commands go through a remote bridge.
	Session *comm.Session
}

const shellKey = "$shell"

var (
	evalOnly bool

	commands = []*ishell.Cmd{
		&ExecCmd,
		&SendCmd,
		&ReadCmd,
		&ResetCmd,
		&DebugCmd,
		&PortsCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
}

// New creates a shell on a local session.
func New(s *comm.Session) *Shell {
	sh := NewRemote(s)
	sh.Session = s
	return sh
}

// NewRemote creates a shell on any Commander.
func NewRemote(cmd Commander) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		Shell:       ishell.New(),
		Commander:   cmd,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt("ctl > ")
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

// ParseArgs converts shell words to arguments. A word in double quotes
// is a string, a word parsed as an integer is an integer, anything else
// is a string.
func ParseArgs(words []string) []frame.Value {
	args := make([]frame.Value, 0, len(words))
	for _, word := range words {
		if len(word) >= 2 && strings.HasPrefix(word, `"`) && strings.HasSuffix(word, `"`) {
			args = append(args, frame.Str(word[1:len(word)-1]))
			continue
		}
		if n, err := strconv.ParseInt(word, 0, 64); err == nil {
			args = append(args, frame.Int(n))
			continue
		}
		args = append(args, frame.Str(word))
	}
	return args
}

// FormatReply renders a successful reply for display.
func FormatReply(reply frame.Reply) string {
	words := []string{"OK"}
	if len(reply) > 1 {
		for _, v := range reply[1:] {
			words = append(words, v.String())
		}
	}
	return strings.Join(words, " ")
}

// Exec runs "OPCODE ARGS...".
func (s *Shell) Exec(words []string) (string, error) {
	if len(words) == 0 {
		return "", fmt.Errorf("opcode expected")
	}
	reply, err := s.Commander.Execute(words[0], ParseArgs(words[1:])...)
	if err != nil {
		return "", err
	}
	return FormatReply(reply), nil
}

// Send runs a pre-formatted command, words are joined by spaces.
func (s *Shell) Send(words []string) (string, error) {
	if len(words) == 0 {
		return "", fmt.Errorf("command expected")
	}
	reply, err := s.Commander.SendCommand(strings.Join(words, " "))
	if err != nil {
		return "", err
	}
	return FormatReply(reply), nil
}

// Read waits for the next reply line from the device.
func (s *Shell) Read() (string, error) {
	if s.Session == nil {
		return "", ErrLocalOnly
	}
	return s.Session.ReadReply()
}

// ResetDevice resets the device through DTR.
func (s *Shell) ResetDevice() error {
	if s.Session == nil {
		return ErrLocalOnly
	}
	return s.Session.Reset()
}

// Debug sets debug with "on" or "off", or reports the current state.
func (s *Shell) Debug(words []string) (string, error) {
	if s.Session == nil {
		return "", ErrLocalOnly
	}
	if len(words) > 0 {
		switch strings.ToLower(words[0]) {
		case "on", "1", "true":
			s.Session.SetDebug(true)
		case "off", "0", "false":
			s.Session.SetDebug(false)
		default:
			return "", fmt.Errorf("expect on or off, got %q", words[0])
		}
	}
	if s.Session.Debug() {
		return "debug on", nil
	}
	return "debug off", nil
}

func printResult(c *ishell.Context, out string, err error) {
	if err != nil {
		c.Err(err)
		return
	}
	c.Println(out)
}
