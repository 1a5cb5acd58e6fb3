package env

import (
	"os"

	"github.com/denisbrodbeck/machineid"
)

const appID = "ctlserial"

// MachineID returns a stable ID for this host, hashed per application.
// Falls back to the hostname when the machine ID is unavailable.
func MachineID() string {
	id, err := machineid.ProtectedID(appID)
	if err == nil && len(id) > 12 {
		return id[:12]
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "unknown"
}
