package env

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type filePortConfig struct {
	Name        string `toml:"name"`
	Baud        int    `toml:"baud"`
	DataBits    int    `toml:"data_bits"`
	Parity      string `toml:"parity"`
	StopBits    string `toml:"stop_bits"`
	ReadTimeout string `toml:"read_timeout"`
	Reset       bool   `toml:"reset"`
}

type fileConfig struct {
	DeviceType  string         `toml:"device_type"`
	DeviceID    string         `toml:"device_id"`
	Description string         `toml:"description"`
	MQTTURL     string         `toml:"mqtt_url"`
	Listen      string         `toml:"listen"`
	Debug       bool           `toml:"debug"`
	Port        filePortConfig `toml:"port"`
}

// LoadFile applies the settings defined in a TOML file, e.g.
//
//	device_id = "arm"
//	mqtt_url = "mqtt://broker:1883/ctlserial/"
//	[port]
//	name = "/dev/ttyACM0"
//	baud = 57600
//	read_timeout = "2s"
//
// Keys not in the file are left unchanged.
func (c *Config) LoadFile(path string) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("load config %s: unknown key %s", path, undecoded[0])
	}

	if meta.IsDefined("device_type") {
		c.Device.Type = strings.TrimSpace(raw.DeviceType)
	}
	if meta.IsDefined("device_id") {
		c.Device.ID = strings.TrimSpace(raw.DeviceID)
	}
	if meta.IsDefined("description") {
		c.Description = raw.Description
	}
	if meta.IsDefined("mqtt_url") {
		c.MQTTBrokerURL = strings.TrimSpace(raw.MQTTURL)
	}
	if meta.IsDefined("listen") {
		c.ListenAddr = strings.TrimSpace(raw.Listen)
	}
	if meta.IsDefined("debug") {
		c.Debug = raw.Debug
	}

	if c.Port == nil {
		return nil
	}
	if meta.IsDefined("port", "name") {
		c.Port.Name = strings.TrimSpace(raw.Port.Name)
	}
	if meta.IsDefined("port", "baud") {
		c.Port.BaudRate = raw.Port.Baud
	}
	if meta.IsDefined("port", "data_bits") {
		c.Port.DataBits = raw.Port.DataBits
	}
	if meta.IsDefined("port", "parity") {
		c.Port.Parity = raw.Port.Parity
	}
	if meta.IsDefined("port", "stop_bits") {
		c.Port.StopBits = raw.Port.StopBits
	}
	if meta.IsDefined("port", "read_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Port.ReadTimeout))
		if err != nil {
			return fmt.Errorf("parse port.read_timeout: %w", err)
		}
		c.Port.ReadTimeout = d
	}
	if meta.IsDefined("port", "reset") {
		c.Port.ResetOnOpen = raw.Port.Reset
	}
	return nil
}
