package frame

import (
	"fmt"

	"github.com/sigurn/crc8"
)

var crcTable = crc8.MakeTable(crc8.CRC8)

// Checksum calculates the CRC-8 of the payload.
func Checksum(payload []byte) byte {
	return crc8.Checksum(payload, crcTable)
}

func hex2(b byte) string {
	return fmt.Sprintf("%02x", b)
}
