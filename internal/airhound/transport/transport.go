// Package transport defines the interfaces the device core depends on
// for radios, serial I/O, and BLE GATT notify. The core only specifies
// the event shape it consumes and the byte stream it hands back; it
// never depends on a concrete radio or transport package.
package transport

import "io"

// WiFiFrame is one raw 802.11 frame delivered from the Wi-Fi radio
// driver, called from driver/interrupt context.
type WiFiFrame struct {
	Bytes   []byte
	RSSI    int8
	Channel uint8
}

// BleAdvertisement is one raw BLE advertisement delivered from the BLE
// scan callback, called from driver/interrupt context.
type BleAdvertisement struct {
	Mac     [6]byte
	RSSI    int8
	RawAD   []byte
}

// WiFiRadio is the Wi-Fi promiscuous receiver contract. Start must
// invoke onFrame from its own goroutine/callback context for every
// frame observed; onFrame must never block — that is the caller's
// contract with the driver, not something this interface enforces.
type WiFiRadio interface {
	Start(onFrame func(WiFiFrame)) error
	Stop() error
}

// BleRadio is the BLE scanner contract, plus the observable connected-
// client count the GATT connection state machine needs.
type BleRadio interface {
	Start(onAdvertisement func(BleAdvertisement)) error
	Stop() error
	ClientCount() uint8
}

// Serial is the serial-link byte sink/source. The core only needs a
// plain io.ReadWriter; baud rate and framing are a board concern.
type Serial interface {
	io.ReadWriter
}

// GattNotifier drives the GATT TX characteristic.
type GattNotifier interface {
	// Notify sends one already-chunked-and-padded 20-byte window. It
	// must return quickly; a full fan-out on the companion side is the
	// notifier's problem, not the caller's.
	Notify(chunk []byte) error
	// Connected reports whether a central is currently subscribed.
	Connected() bool
}

// GattReceiver is fed bytes written by a connected central to the RX
// characteristic.
type GattReceiver interface {
	// Read blocks until at least one byte is available or the receiver
	// is closed, mirroring io.Reader's contract.
	Read(p []byte) (int, error)
}
