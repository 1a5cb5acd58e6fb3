// Package port opens serial devices as comm transports.
package port

import (
	"errors"

	"github.com/golang/glog"
	"go.bug.st/serial"

	"github.com/robotalks/ctlserial/pkg/comm"
)

// ErrReadTimeout indicates no data arrived within Config.ReadTimeout.
var ErrReadTimeout = errors.New("serial read timeout")

// Port is an opened serial device.
type Port struct {
	*comm.LineTransport
	Name string
}

type stream struct {
	serial.Port
}

// Read reports an expired read timeout as ErrReadTimeout.
func (s stream) Read(p []byte) (int, error) {
	n, err := s.Port.Read(p)
	if n == 0 && err == nil {
		return 0, ErrReadTimeout
	}
	return n, err
}

// Open opens the serial port with the config.
func (c *Config) Open() (*Port, error) {
	mode, err := c.Mode()
	if err != nil {
		return nil, err
	}
	sp, err := serial.Open(c.Name, mode)
	if err != nil {
		return nil, err
	}
	if c.ReadTimeout > 0 {
		if err = sp.SetReadTimeout(c.ReadTimeout); err != nil {
			sp.Close()
			return nil, err
		}
	}
	p := &Port{LineTransport: comm.NewLineTransport(stream{Port: sp}), Name: c.Name}
	glog.Infof("opened %s at %d baud", c.Name, c.BaudRate)
	if c.ResetOnOpen {
		glog.V(1).Infof("resetting device on %s", c.Name)
		if err = comm.NewResetter(p).Reset(); err != nil {
			p.Close()
			return nil, err
		}
	}
	return p, nil
}

// List enumerates serial ports on the system.
func List() ([]string, error) {
	return serial.GetPortsList()
}
