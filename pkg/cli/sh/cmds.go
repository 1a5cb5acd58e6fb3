package sh

import (
	"github.com/abiosoft/ishell"

	"github.com/robotalks/ctlserial/pkg/comm/port"
)

var (
	// ExecCmd executes a command with arguments.
	ExecCmd = ishell.Cmd{
		Name:    "exec",
		Aliases: []string{"x"},
		Help:    `OPCODE [ARGS...], e.g. exec e 0 1 '"test"'`,
		Func: func(c *ishell.Context) {
			out, err := ShellFrom(c).Exec(c.Args)
			printResult(c, out, err)
		},
	}

	// SendCmd sends a pre-formatted command.
	SendCmd = ishell.Cmd{
		Name:    "send",
		Aliases: []string{"s"},
		Help:    "OPCODE[ARGS], e.g. send t[50]",
		Func: func(c *ishell.Context) {
			out, err := ShellFrom(c).Send(c.Args)
			printResult(c, out, err)
		},
	}

	// ReadCmd reads a reply line.
	ReadCmd = ishell.Cmd{
		Name:    "read",
		Aliases: []string{"r"},
		Help:    "wait for the next reply line",
		Func: func(c *ishell.Context) {
			out, err := ShellFrom(c).Read()
			printResult(c, out, err)
		},
	}

	// ResetCmd resets the device.
	ResetCmd = ishell.Cmd{
		Name: "reset",
		Help: "reset the device via DTR",
		Func: func(c *ishell.Context) {
			if err := ShellFrom(c).ResetDevice(); err != nil {
				c.Err(err)
				return
			}
			c.Println("OK")
		},
	}

	// DebugCmd toggles traffic tracing.
	DebugCmd = ishell.Cmd{
		Name: "debug",
		Help: "[on|off]",
		Func: func(c *ishell.Context) {
			out, err := ShellFrom(c).Debug(c.Args)
			printResult(c, out, err)
		},
	}

	// PortsCmd lists serial ports.
	PortsCmd = ishell.Cmd{
		Name: "ports",
		Help: "list serial ports",
		Func: func(c *ishell.Context) {
			names, err := port.List()
			if err != nil {
				c.Err(err)
				return
			}
			if len(names) == 0 {
				c.Println("No serial ports found")
				return
			}
			for _, name := range names {
				c.Println(name)
			}
		},
	}
)
