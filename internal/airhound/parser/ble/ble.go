// Package ble decodes a raw BLE advertisement AD-structure byte stream
// into a types.BleEvent.
//
// The walk is a bounds-checked loop that stops cleanly rather than
// panicking on truncated or malformed input, matching the rest of the
// core's degrade-don't-abort discipline.
package ble

import (
	"encoding/binary"

	"github.com/airhound/airhound/internal/airhound/types"
)

const (
	adTypeIncompleteUUID16 = 0x02
	adTypeCompleteUUID16   = 0x03
	adTypeShortenedName    = 0x08
	adTypeCompleteName     = 0x09
	adTypeManufacturerData = 0xFF
)

// Parse walks the AD structures in raw until exhausted or truncated.
// mac and rssi come from the radio driver out-of-band.
func Parse(mac types.MAC, rssi int8, raw []byte) types.BleEvent {
	var ev types.BleEvent
	ev.Mac = mac
	ev.RSSI = rssi

	i := 0
	for i < len(raw) {
		length := int(raw[i])
		if length == 0 {
			break
		}
		// length counts the type byte plus the data; the structure as a
		// whole occupies 1+length bytes starting at i.
		if i+1+length > len(raw) {
			break
		}
		adType := raw[i+1]
		data := raw[i+2 : i+1+length]

		switch adType {
		case adTypeIncompleteUUID16, adTypeCompleteUUID16:
			for j := 0; j+2 <= len(data); j += 2 {
				if !ev.ServiceUUID16.Append(binary.LittleEndian.Uint16(data[j : j+2])) {
					break
				}
			}
		case adTypeShortenedName, adTypeCompleteName:
			ev.Name = types.NewNameString(string(data))
		case adTypeManufacturerData:
			if len(data) >= 2 {
				ev.ManufacturerID = binary.LittleEndian.Uint16(data[0:2])
			}
			ev.RawAD.SetBytes(data)
		}

		i += 1 + length
	}

	return ev
}
