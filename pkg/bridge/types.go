// Package bridge exposes a command session to remote clients.
//
// Requests and replies are protobuf messages, carried by the mqtt and
// websocket frontends. A bridge serves one device, and the session keeps
// requests strictly one at a time.
package bridge

// DefaultDeviceType is the device type used when none is configured.
const DefaultDeviceType = "ctlserial"

// DeviceRef is a reference to a bridged device.
type DeviceRef struct {
	// Type is the device type.
	Type string
	// ID is unique ID of the device.
	ID string
}

// Name retrieves the name from ref.
func (r DeviceRef) Name() string {
	return r.Type + "/" + r.ID
}

// IsValid indicates DeviceRef is valid.
func (r DeviceRef) IsValid() bool {
	return r.Type != "" && r.ID != ""
}

// Meta provides metadata for a bridged device.
type Meta struct {
	Description string            `json:"description,omitempty"`
	Port        string            `json:"port,omitempty"`
	BaudRate    int               `json:"baud_rate,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
}
