// Package types holds the fixed-capacity value types the device core
// passes between pipeline stages. On the real firmware target these would
// be stack-allocated fixed arrays; here they are small structs wrapping
// byte arrays so the same capacity discipline (truncate, never grow)
// holds without requiring a custom allocator.
package types

import (
	"fmt"
	"strings"
)

const (
	// MacStringCap is the canonical "AA:BB:CC:DD:EE:FF" length plus NUL.
	MacStringCap = 18
	// NameStringCap bounds an SSID or BLE local name.
	NameStringCap = 32
	// UuidStringCap bounds a full 128-bit UUID string.
	UuidStringCap = 36
	// MatchDetailCap bounds a single match-reason detail snippet.
	MatchDetailCap = 32
	// MaxMatchReasons is the per-event cap on narrative match reasons.
	MaxMatchReasons = 4
	// MaxRuleNames is the per-event cap on named rule hits.
	MaxRuleNames = 4
	// MaxServiceUUIDs16 bounds the 16-bit service UUIDs parsed from one AD.
	MaxServiceUUIDs16 = 8
	// MsgBufferCap bounds one serialized NDJSON message.
	MsgBufferCap = 512
	// SigBits is the width of the signature match bitset.
	SigBits = 256
	// EvalStackDepth is the rule engine's fixed value-stack depth.
	EvalStackDepth = 16
	// RawADCap bounds the raw manufacturer-specific AD payload retained
	// for byte-pattern matching.
	RawADCap = 31
)

// NameString is an SSID or BLE local name, truncated to NameStringCap-1
// bytes. No implicit case folding happens here; callers decide.
type NameString struct {
	buf [NameStringCap]byte
	n   int
}

// NewNameString truncates s to fit and stores it.
func NewNameString(s string) NameString {
	var ns NameString
	ns.Set(s)
	return ns
}

// Set overwrites the contents, truncating to capacity.
func (n *NameString) Set(s string) {
	max := NameStringCap - 1
	if len(s) > max {
		s = s[:max]
	}
	n.n = copy(n.buf[:], s)
}

// String returns the stored value.
func (n NameString) String() string {
	return string(n.buf[:n.n])
}

// Len returns the number of stored bytes.
func (n NameString) Len() int { return n.n }

// MatchDetail is a truncated free-text match-reason snippet.
type MatchDetail struct {
	buf [MatchDetailCap]byte
	n   int
}

// NewMatchDetail truncates s to fit.
func NewMatchDetail(s string) MatchDetail {
	var d MatchDetail
	max := MatchDetailCap - 1
	if len(s) > max {
		s = s[:max]
	}
	d.n = copy(d.buf[:], s)
	return d
}

// String returns the stored value.
func (d MatchDetail) String() string { return string(d.buf[:d.n]) }

// MatchReason is one explanation for why a signature fired.
type MatchReason struct {
	Kind   string
	Detail MatchDetail
}

// MatchReasonList is a bounded, append-only list of MatchReason.
type MatchReasonList struct {
	items [MaxMatchReasons]MatchReason
	n     int
}

// Append adds a reason if there is room; returns false when the list was
// already full (the caller still sets the corresponding signature bit).
func (l *MatchReasonList) Append(kind, detail string) bool {
	if l.n >= MaxMatchReasons {
		return false
	}
	l.items[l.n] = MatchReason{Kind: kind, Detail: NewMatchDetail(detail)}
	l.n++
	return true
}

// Len returns the number of stored reasons.
func (l *MatchReasonList) Len() int { return l.n }

// At returns the i'th reason.
func (l *MatchReasonList) At(i int) MatchReason { return l.items[i] }

// Slice materializes the list as a plain slice, for serialization.
func (l *MatchReasonList) Slice() []MatchReason {
	return append([]MatchReason(nil), l.items[:l.n]...)
}

// RuleNameList is a bounded, append-only list of matched rule names.
type RuleNameList struct {
	items [MaxRuleNames]string
	n     int
}

// Append adds a rule name if there is room.
func (l *RuleNameList) Append(name string) bool {
	if l.n >= MaxRuleNames {
		return false
	}
	l.items[l.n] = name
	l.n++
	return true
}

// Len returns the number of stored names.
func (l *RuleNameList) Len() int { return l.n }

// At returns the i'th name.
func (l *RuleNameList) At(i int) string { return l.items[i] }

// First returns the first rule name and whether one exists.
func (l *RuleNameList) First() (string, bool) {
	if l.n == 0 {
		return "", false
	}
	return l.items[0], true
}

// Slice materializes the list as a plain slice.
func (l *RuleNameList) Slice() []string {
	return append([]string(nil), l.items[:l.n]...)
}

// UUID16List is a bounded list of 16-bit BLE service UUIDs.
type UUID16List struct {
	items [MaxServiceUUIDs16]uint16
	n     int
}

// Append adds a UUID if there is room; returns false on overflow, and
// the entry is silently dropped.
func (l *UUID16List) Append(u uint16) bool {
	if l.n >= MaxServiceUUIDs16 {
		return false
	}
	l.items[l.n] = u
	l.n++
	return true
}

// Len returns the number of stored UUIDs.
func (l *UUID16List) Len() int { return l.n }

// At returns the i'th UUID.
func (l *UUID16List) At(i int) uint16 { return l.items[i] }

// Contains reports whether u was recorded.
func (l *UUID16List) Contains(u uint16) bool {
	for i := 0; i < l.n; i++ {
		if l.items[i] == u {
			return true
		}
	}
	return false
}

// MAC is a 6-byte hardware address.
type MAC [6]byte

// String renders the canonical uppercase colon-separated form.
func (m MAC) String() string {
	return fmt.Sprintf("%02X:%02X:%02X:%02X:%02X:%02X", m[0], m[1], m[2], m[3], m[4], m[5])
}

// OUI returns the first three bytes (the vendor prefix).
func (m MAC) OUI() [3]byte {
	return [3]byte{m[0], m[1], m[2]}
}

// MacFromString parses a canonical "AA:BB:CC:DD:EE:FF" string. Intended
// for host-side tooling (bridge, tests); the device core never parses
// MAC strings, only formats them.
func MacFromString(s string) (MAC, error) {
	var m MAC
	parts := strings.Split(s, ":")
	if len(parts) != 6 {
		return m, fmt.Errorf("types: malformed mac %q", s)
	}
	for i, p := range parts {
		var b int
		if _, err := fmt.Sscanf(p, "%02X", &b); err != nil || b > 0xFF {
			return m, fmt.Errorf("types: malformed mac octet %q in %q", p, s)
		}
		m[i] = byte(b)
	}
	return m, nil
}

// RawAD is the bounded manufacturer-specific AD payload retained for
// byte-pattern signature matching.
type RawAD struct {
	buf [RawADCap]byte
	n   int
}

// SetBytes stores b, truncating to capacity.
func (r *RawAD) SetBytes(b []byte) {
	r.n = copy(r.buf[:], b)
}

// Bytes returns the stored payload.
func (r RawAD) Bytes() []byte { return r.buf[:r.n] }

// FrameType enumerates the 802.11 management-frame classification a
// WiFiEvent carries.
type FrameType int

const (
	FrameOther FrameType = iota
	FrameBeacon
	FrameProbeRequest
	FrameProbeResponse
	FrameData
)

// String renders the wire-protocol token for a frame type.
func (f FrameType) String() string {
	switch f {
	case FrameBeacon:
		return "beacon"
	case FrameProbeRequest:
		return "probe_req"
	case FrameProbeResponse:
		return "probe_resp"
	case FrameData:
		return "data"
	default:
		return "other"
	}
}

// WiFiEvent is a decoded 802.11 observation.
type WiFiEvent struct {
	Mac       MAC
	SSID      NameString
	RSSI      int8
	Channel   uint8
	FrameType FrameType
}

// BleEvent is a decoded BLE advertisement observation.
type BleEvent struct {
	Mac             MAC
	Name            NameString
	RSSI            int8
	ServiceUUID16   UUID16List
	ManufacturerID  uint16
	RawAD           RawAD
}
