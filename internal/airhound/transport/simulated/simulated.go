// Package simulated generates synthetic Wi-Fi beacons and BLE
// advertisements so the device core can run end to end without real
// radio hardware.
package simulated

import (
	"context"
	"encoding/binary"
	"math/rand"
	"time"

	"github.com/airhound/airhound/internal/airhound/transport"
)

var knownSSIDs = []string{
	"HomeNetwork", "Flock-A1B2C3", "AXIS-112233", "Wyze_Cam_048213",
	"Office-Guest", "Starbucks WiFi", "NETGEAR-5G",
}

var knownMacPrefixes = [][3]byte{
	{0xB4, 0x1E, 0x52}, // Flock Safety
	{0x00, 0x1A, 0x7D}, // Axis
	{0xA4, 0xDA, 0x32}, // Wyze
	{0xAA, 0xBB, 0xCC}, // generic/unknown
}

var knownBleNames = []string{"AirPods Pro", "Flock Beacon", "Raven-Sensor", "MX Master"}

// WiFiRadio is a synthetic WiFiRadio that emits a randomized 802.11
// degenerate-form frame (a ≥16-byte fallback shape, with an SSID
// information element appended so structured beacon decode also
// exercises the parser) at the given interval.
type WiFiRadio struct {
	Interval time.Duration
	rng      *rand.Rand
	cancel   context.CancelFunc
}

// Start begins emitting synthetic frames on their own goroutine.
func (w *WiFiRadio) Start(onFrame func(transport.WiFiFrame)) error {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	if w.rng == nil {
		w.rng = rand.New(rand.NewSource(1))
	}
	interval := w.Interval
	if interval <= 0 {
		interval = 200 * time.Millisecond
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				onFrame(w.synthesizeBeacon())
			}
		}
	}()
	return nil
}

// Stop halts synthetic emission.
func (w *WiFiRadio) Stop() error {
	if w.cancel != nil {
		w.cancel()
	}
	return nil
}

func (w *WiFiRadio) synthesizeBeacon() transport.WiFiFrame {
	mac := knownMacPrefixes[w.rng.Intn(len(knownMacPrefixes))]
	ssid := knownSSIDs[w.rng.Intn(len(knownSSIDs))]

	// Build a minimal 802.11 beacon: frame control (mgmt/beacon),
	// duration, addr1/2/3, seq, fixed params, then an SSID IE (tag 0).
	frame := make([]byte, 0, 40+len(ssid))
	frame = append(frame, 0x80, 0x00) // frame control: mgmt, subtype beacon
	frame = append(frame, 0x00, 0x00) // duration
	frame = append(frame, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF) // addr1 (broadcast)
	frame = append(frame, mac[0], mac[1], mac[2], byte(w.rng.Intn(256)), byte(w.rng.Intn(256)), byte(w.rng.Intn(256))) // addr2
	frame = append(frame, frame[10:16]...)                                                                             // addr3 = addr2
	frame = append(frame, 0x00, 0x00)                                                                                  // seq
	frame = append(frame, make([]byte, 12)...)                                                                         // timestamp + interval + capabilities
	frame = append(frame, 0x00, byte(len(ssid)))
	frame = append(frame, []byte(ssid)...)

	return transport.WiFiFrame{Bytes: frame, RSSI: int8(-40 - w.rng.Intn(40)), Channel: uint8(1 + w.rng.Intn(11))}
}

// BleRadio is a synthetic BleRadio that emits randomized advertisements,
// some matching known signatures.
type BleRadio struct {
	Interval    time.Duration
	rng         *rand.Rand
	cancel      context.CancelFunc
	clientCount uint8
}

// Start begins emitting synthetic advertisements on their own goroutine.
func (b *BleRadio) Start(onAdvertisement func(transport.BleAdvertisement)) error {
	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel
	if b.rng == nil {
		b.rng = rand.New(rand.NewSource(2))
	}
	interval := b.Interval
	if interval <= 0 {
		interval = 300 * time.Millisecond
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				onAdvertisement(b.synthesizeAdvertisement())
			}
		}
	}()
	return nil
}

// Stop halts synthetic emission.
func (b *BleRadio) Stop() error {
	if b.cancel != nil {
		b.cancel()
	}
	return nil
}

// ClientCount reports the simulated GATT client count.
func (b *BleRadio) ClientCount() uint8 { return b.clientCount }

// SetClientCount lets the demo CLI simulate connect/disconnect.
func (b *BleRadio) SetClientCount(n uint8) { b.clientCount = n }

func (b *BleRadio) synthesizeAdvertisement() transport.BleAdvertisement {
	var mac [6]byte
	for i := range mac {
		mac[i] = byte(b.rng.Intn(256))
	}
	name := knownBleNames[b.rng.Intn(len(knownBleNames))]

	var raw []byte
	// Complete local name AD structure.
	raw = append(raw, byte(len(name)+1), 0x09)
	raw = append(raw, []byte(name)...)

	// Manufacturer-specific data: sometimes Apple-looking AirTag bytes,
	// sometimes XUNTONG, sometimes nothing.
	switch b.rng.Intn(3) {
	case 0:
		mfr := make([]byte, 5)
		binary.LittleEndian.PutUint16(mfr[0:2], 0x004C)
		copy(mfr[2:], []byte{0x12, 0x19, 0x00})
		raw = append(raw, byte(len(mfr)+1), 0xFF)
		raw = append(raw, mfr...)
	case 1:
		mfr := make([]byte, 2)
		binary.LittleEndian.PutUint16(mfr[0:2], 0x09C8)
		raw = append(raw, byte(len(mfr)+1), 0xFF)
		raw = append(raw, mfr...)
	}

	return transport.BleAdvertisement{Mac: mac, RSSI: int8(-40 - b.rng.Intn(40)), RawAD: raw}
}
