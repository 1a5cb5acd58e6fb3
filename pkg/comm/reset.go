package comm

import "time"

// Default reset timing for Arduino-style boards.
const (
	DefaultResetLowTime    = 100 * time.Millisecond
	DefaultResetSettleTime = 2 * time.Second
)

var sleep = time.Sleep

// Resetter toggles DTR to reset a device whose reset pin is wired to it,
// e.g. behind a USB-serial bridge.
type Resetter struct {
	Line       ControlLine
	LowTime    time.Duration
	SettleTime time.Duration
}

// NewResetter creates a Resetter with default timing.
func NewResetter(line ControlLine) *Resetter {
	return &Resetter{
		Line:       line,
		LowTime:    DefaultResetLowTime,
		SettleTime: DefaultResetSettleTime,
	}
}

// Reset drops DTR, waits LowTime, raises DTR and waits SettleTime for
// the device to boot.
func (r *Resetter) Reset() error {
	if err := r.Line.SetDTR(false); err != nil {
		return err
	}
	sleep(r.LowTime)
	if err := r.Line.SetDTR(true); err != nil {
		return err
	}
	sleep(r.SettleTime)
	return nil
}
