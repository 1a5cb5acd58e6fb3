// Package env provides the process configuration shared by commands.
package env

import (
	"flag"
	"fmt"
	"os"

	"github.com/robotalks/ctlserial/pkg/bridge"
	"github.com/robotalks/ctlserial/pkg/comm/port"
)

// Config is the configuration of a device bridge.
type Config struct {
	Port *port.Config

	// Device identifies the device on the message bus.
	Device bridge.DeviceRef
	// Description is published in device meta.
	Description string

	// MQTTBrokerURL specifies the MQTT broker to use.
	// e.g. mqtt://host:port/topic-prefix
	MQTTBrokerURL string
	// ListenAddr is the websocket listen address, empty disables it.
	ListenAddr string

	Debug bool

	// File is a TOML file applied over flags by NewConfig.
	File string
}

var defaultConfig = Config{
	Device: bridge.DeviceRef{Type: bridge.DefaultDeviceType},

	MQTTBrokerURL: "mqtt://localhost:1883/ctlserial/",
}

func init() {
	if val := os.Getenv("CTLSERIAL_MQTT_URL"); val != "" {
		defaultConfig.MQTTBrokerURL = val
	}
	if val := os.Getenv("CTLSERIAL_LISTEN"); val != "" {
		defaultConfig.ListenAddr = val
	}
	if val := os.Getenv("CTLSERIAL_CONFIG"); val != "" {
		defaultConfig.File = val
	}
	if val := os.Getenv("CTLSERIAL_DEVICE_ID"); val != "" {
		defaultConfig.Device.ID = val
	} else {
		defaultConfig.Device.ID = MachineID()
	}
}

// SetupFlags sets command line flags, including the port flags.
func SetupFlags() {
	port.SetupFlags()
	flag.StringVar(&defaultConfig.Device.Type, "type", defaultConfig.Device.Type, "Device type")
	flag.StringVar(&defaultConfig.Device.ID, "id", defaultConfig.Device.ID, "Device ID")
	flag.StringVar(&defaultConfig.Description, "desc", defaultConfig.Description, "Device description")
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL, empty to disable")
	flag.StringVar(&defaultConfig.ListenAddr, "listen", defaultConfig.ListenAddr, "Websocket listen address, empty to disable")
	flag.BoolVar(&defaultConfig.Debug, "debug", defaultConfig.Debug, "Trace protocol traffic")
	flag.StringVar(&defaultConfig.File, "config", defaultConfig.File, "TOML config file, its settings take precedence over flags")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations,
// then applies the config file if there is one.
func NewConfig() (*Config, error) {
	conf := defaultConfig
	conf.Port = port.NewConfig()
	if conf.File != "" {
		if err := conf.LoadFile(conf.File); err != nil {
			return nil, err
		}
	}
	return &conf, nil
}

// Validate checks the config is usable by a bridge.
func (c *Config) Validate() error {
	if !c.Device.IsValid() {
		return fmt.Errorf("device type and id must be specified")
	}
	if c.MQTTBrokerURL == "" && c.ListenAddr == "" {
		return fmt.Errorf("at least one of MQTT broker or listen address is required")
	}
	return nil
}

// Meta builds the device meta published to the bus.
func (c *Config) Meta() bridge.Meta {
	meta := bridge.Meta{Description: c.Description}
	if c.Port != nil {
		meta.Port = c.Port.Name
		meta.BaudRate = c.Port.BaudRate
	}
	return meta
}
