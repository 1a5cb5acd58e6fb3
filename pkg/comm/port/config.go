package port

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.bug.st/serial"
)

// Config defines how a serial port is opened.
type Config struct {
	Name     string
	BaudRate int
	DataBits int
	// Parity is one of none, odd, even, mark, space.
	Parity string
	// StopBits is one of 1, 1.5, 2.
	StopBits string
	// ReadTimeout makes reads fail with ErrReadTimeout, 0 blocks forever.
	ReadTimeout time.Duration
	// ResetOnOpen toggles DTR after open to reset the device.
	ResetOnOpen bool
}

var defaultConfig = Config{
	Name:     "/dev/ttyUSB0",
	BaudRate: 115200,
	DataBits: 8,
	Parity:   "none",
	StopBits: "1",
}

func init() {
	if val := os.Getenv("CTLSERIAL_PORT"); val != "" {
		defaultConfig.Name = val
	}
	if val := os.Getenv("CTLSERIAL_BAUD"); val != "" {
		if baud, err := strconv.Atoi(val); err == nil {
			defaultConfig.BaudRate = baud
		}
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Name, "port", defaultConfig.Name, "Serial port device.")
	flag.IntVar(&defaultConfig.BaudRate, "baud", defaultConfig.BaudRate, "Baud rate.")
	flag.IntVar(&defaultConfig.DataBits, "data-bits", defaultConfig.DataBits, "Data bits.")
	flag.StringVar(&defaultConfig.Parity, "parity", defaultConfig.Parity, "Parity: none, odd, even, mark, space.")
	flag.StringVar(&defaultConfig.StopBits, "stop-bits", defaultConfig.StopBits, "Stop bits: 1, 1.5, 2.")
	flag.DurationVar(&defaultConfig.ReadTimeout, "read-timeout", defaultConfig.ReadTimeout, "Read timeout, 0 to block.")
	flag.BoolVar(&defaultConfig.ResetOnOpen, "reset", defaultConfig.ResetOnOpen, "Reset the device via DTR after open.")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Mode converts the line settings.
func (c *Config) Mode() (*serial.Mode, error) {
	mode := &serial.Mode{
		BaudRate: c.BaudRate,
		DataBits: c.DataBits,
	}
	switch strings.ToLower(c.Parity) {
	case "", "none", "n":
		mode.Parity = serial.NoParity
	case "odd", "o":
		mode.Parity = serial.OddParity
	case "even", "e":
		mode.Parity = serial.EvenParity
	case "mark", "m":
		mode.Parity = serial.MarkParity
	case "space", "s":
		mode.Parity = serial.SpaceParity
	default:
		return nil, fmt.Errorf("invalid parity %q", c.Parity)
	}
	switch c.StopBits {
	case "", "1":
		mode.StopBits = serial.OneStopBit
	case "1.5":
		mode.StopBits = serial.OnePointFiveStopBits
	case "2":
		mode.StopBits = serial.TwoStopBits
	default:
		return nil, fmt.Errorf("invalid stop bits %q", c.StopBits)
	}
	if c.BaudRate <= 0 {
		return nil, fmt.Errorf("invalid baud rate %d", c.BaudRate)
	}
	if c.DataBits < 5 || c.DataBits > 8 {
		return nil, fmt.Errorf("invalid data bits %d", c.DataBits)
	}
	return mode, nil
}
