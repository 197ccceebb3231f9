// Package state holds the small set of process-wide mutable cells the
// pipeline shares: scanning, ble client count, match counters, last
// match detail, the live FilterConfig, and buzzer enable. The only other
// package-level vars in the core are the signature tables and rule
// database in package sigs, which nothing writes after initialization.
package state

import (
	"sync"
	"sync/atomic"

	"github.com/airhound/airhound/internal/airhound/matcher"
	"github.com/airhound/airhound/internal/airhound/types"
)

// Shared is the process-wide observable state cell set.
type Shared struct {
	scanning        atomic.Bool
	bleClients      atomic.Uint32
	wifiMatchCount  atomic.Uint32
	bleMatchCount   atomic.Uint32
	buzzerEnabled   atomic.Bool

	lastMatchMu sync.Mutex
	lastMatch   types.MatchDetail

	cfgMu sync.RWMutex
	cfg   matcher.FilterConfig

	bootUnixSecs int64
}

// New creates a Shared with scanning enabled, the default FilterConfig,
// and the supplied boot timestamp (seconds since the Unix epoch on the
// host; on firmware this would be a monotonic boot tick instead).
func New(bootUnixSecs int64) *Shared {
	s := &Shared{
		cfg:          matcher.DefaultFilterConfig(),
		bootUnixSecs: bootUnixSecs,
	}
	s.scanning.Store(true)
	s.buzzerEnabled.Store(true)
	return s
}

// Scanning reports whether scanning is currently enabled.
func (s *Shared) Scanning() bool { return s.scanning.Load() }

// SetScanning sets the scanning flag.
func (s *Shared) SetScanning(v bool) { s.scanning.Store(v) }

// BleClients returns the current connected-client count.
func (s *Shared) BleClients() uint8 { return uint8(s.bleClients.Load()) }

// IncBleClients increments the connected-client count.
func (s *Shared) IncBleClients() { s.bleClients.Add(1) }

// DecBleClients decrements the connected-client count, floored at 0.
func (s *Shared) DecBleClients() {
	for {
		cur := s.bleClients.Load()
		if cur == 0 {
			return
		}
		if s.bleClients.CompareAndSwap(cur, cur-1) {
			return
		}
	}
}

// IncWiFiMatches increments the Wi-Fi match counter.
func (s *Shared) IncWiFiMatches() { s.wifiMatchCount.Add(1) }

// IncBleMatches increments the BLE match counter.
func (s *Shared) IncBleMatches() { s.bleMatchCount.Add(1) }

// WiFiMatchCount returns the monotone Wi-Fi match counter.
func (s *Shared) WiFiMatchCount() uint32 { return s.wifiMatchCount.Load() }

// BleMatchCount returns the monotone BLE match counter.
func (s *Shared) BleMatchCount() uint32 { return s.bleMatchCount.Load() }

// BuzzerEnabled reports whether the buzzer is enabled.
func (s *Shared) BuzzerEnabled() bool { return s.buzzerEnabled.Load() }

// SetBuzzerEnabled sets the buzzer-enabled flag.
func (s *Shared) SetBuzzerEnabled(v bool) { s.buzzerEnabled.Store(v) }

// SetLastMatch overwrites the last-match detail, last-writer-wins.
func (s *Shared) SetLastMatch(d types.MatchDetail) {
	s.lastMatchMu.Lock()
	s.lastMatch = d
	s.lastMatchMu.Unlock()
}

// LastMatch returns the most recently recorded match detail string.
func (s *Shared) LastMatch() string {
	s.lastMatchMu.Lock()
	defer s.lastMatchMu.Unlock()
	return s.lastMatch.String()
}

// FilterConfig returns a snapshot of the live config. The filter task
// takes exactly one such snapshot per event and matches against it
// without holding the lock during the scan.
func (s *Shared) FilterConfig() matcher.FilterConfig {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg
}

// SetMinRSSI updates the live config's RSSI floor.
func (s *Shared) SetMinRSSI(v int8) {
	s.cfgMu.Lock()
	s.cfg.MinRSSI = v
	s.cfgMu.Unlock()
}

// SetWifiEnabled updates the live config's Wi-Fi enable flag.
func (s *Shared) SetWifiEnabled(v bool) {
	s.cfgMu.Lock()
	s.cfg.WifiEnabled = v
	s.cfgMu.Unlock()
}

// SetBleEnabled updates the live config's BLE enable flag.
func (s *Shared) SetBleEnabled(v bool) {
	s.cfgMu.Lock()
	s.cfg.BleEnabled = v
	s.cfgMu.Unlock()
}

// BootUnixSecs returns the boot timestamp supplied to New.
func (s *Shared) BootUnixSecs() int64 { return s.bootUnixSecs }
