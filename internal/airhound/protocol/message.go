// Package protocol implements the NDJSON wire grammar: encoding
// DeviceMessage variants to a single JSON line, and decoding host
// command lines back into Command values. Both directions are kept in
// one package so the device core and the bridge (which needs the mirror
// operations — decode DeviceMessage, encode Command) share one grammar
// definition rather than drifting apart.
//
// Commands are parsed via a flat DTO rather than an internally-tagged
// enum decoder. When only the trailing newline can't fit the output
// buffer, the encoder returns the un-terminated JSON line; a message
// whose JSON itself doesn't fit is an error.
package protocol

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/airhound/airhound/internal/airhound/matcher"
	"github.com/airhound/airhound/internal/airhound/types"
)

// MessageType discriminates DeviceMessage variants.
type MessageType string

const (
	MsgWiFi   MessageType = "wifi"
	MsgBle    MessageType = "ble"
	MsgStatus MessageType = "status"
)

// WireMatch is one serialized match-reason entry.
type WireMatch struct {
	Kind   string `json:"type"`
	Detail string `json:"detail"`
}

// DeviceMessage is the union of everything the device streams uplink.
// Exactly one of WiFi/Ble is meaningful per Type, mirroring the Rust
// enum's variant payloads without needing Go generics or interfaces on
// the hot path.
type DeviceMessage struct {
	Type MessageType

	// wifi / ble fields
	Mac       string
	SSID      string // wifi
	Name      string // ble
	RSSI      int8
	Channel   uint8  // wifi
	FrameType string // wifi
	UUID      string // ble, optional
	Mfr       uint16 // ble
	Matches   []WireMatch
	Rule      string // optional, first matched rule name
	Ts        uint32

	// status fields
	Scanning    bool
	UptimeSecs  uint32
	HeapFree    uint32
	BleClients  uint8
	Board       string
	Version     string
}

func matchesToWire(reasons types.MatchReasonList) []WireMatch {
	n := reasons.Len()
	if n == 0 {
		return nil
	}
	out := make([]WireMatch, n)
	for i := 0; i < n; i++ {
		r := reasons.At(i)
		out[i] = WireMatch{Kind: r.Kind, Detail: r.Detail.String()}
	}
	return out
}

// NewWiFiMessage builds the uplink message for a matched Wi-Fi event.
func NewWiFiMessage(ev types.WiFiEvent, result matcher.Result, ts uint32) DeviceMessage {
	rule, _ := result.RuleNames.First()
	return DeviceMessage{
		Type:      MsgWiFi,
		Mac:       ev.Mac.String(),
		SSID:      ev.SSID.String(),
		RSSI:      ev.RSSI,
		Channel:   ev.Channel,
		FrameType: ev.FrameType.String(),
		Matches:   matchesToWire(result.Matches),
		Rule:      rule,
		Ts:        ts,
	}
}

// NewBleMessage builds the uplink message for a matched BLE event. uuid
// is the optional human-facing 128-bit UUID string for the strongest
// service-UUID hit, or "" to omit the field.
func NewBleMessage(ev types.BleEvent, result matcher.Result, uuid string, ts uint32) DeviceMessage {
	rule, _ := result.RuleNames.First()
	return DeviceMessage{
		Type:    MsgBle,
		Mac:     ev.Mac.String(),
		Name:    ev.Name.String(),
		RSSI:    ev.RSSI,
		UUID:    uuid,
		Mfr:     ev.ManufacturerID,
		Matches: matchesToWire(result.Matches),
		Rule:    rule,
		Ts:      ts,
	}
}

// NewStatusMessage builds a Status message.
func NewStatusMessage(scanning bool, uptimeSecs, heapFree uint32, bleClients uint8, board, version string) DeviceMessage {
	return DeviceMessage{
		Type:       MsgStatus,
		Scanning:   scanning,
		UptimeSecs: uptimeSecs,
		HeapFree:   heapFree,
		BleClients: bleClients,
		Board:      board,
		Version:    version,
	}
}

// wireWiFi / wireBle / wireStatus are the literal JSON shapes; kept
// separate from DeviceMessage so omitempty applies per-variant instead
// of leaking unrelated zero-valued fields into every message.
type wireWiFi struct {
	Type    string      `json:"type"`
	Mac     string      `json:"mac"`
	SSID    string      `json:"ssid"`
	RSSI    int8        `json:"rssi"`
	Channel uint8       `json:"ch"`
	Frame   string      `json:"frame"`
	Matches []WireMatch `json:"match"`
	Rule    string      `json:"rule,omitempty"`
	Ts      uint32      `json:"ts"`
}

type wireBle struct {
	Type    string      `json:"type"`
	Mac     string      `json:"mac"`
	Name    string      `json:"name"`
	RSSI    int8        `json:"rssi"`
	UUID    string      `json:"uuid,omitempty"`
	Mfr     uint16      `json:"mfr"`
	Matches []WireMatch `json:"match"`
	Rule    string      `json:"rule,omitempty"`
	Ts      uint32      `json:"ts"`
}

type wireStatus struct {
	Type       string `json:"type"`
	Scanning   bool   `json:"scanning"`
	UptimeSecs uint32 `json:"uptime"`
	HeapFree   uint32 `json:"heap_free"`
	BleClients uint8  `json:"ble_clients"`
	Board      string `json:"board"`
	Version    string `json:"version"`
}

// Encode serializes msg into buf as a single JSON line followed by '\n'
// and returns the slice of buf actually written. If buf lacks room for
// the trailing newline, Encode returns the JSON bytes without it — the
// downstream framer (the line reader on the receiving end) must cope.
func Encode(buf []byte, msg DeviceMessage) ([]byte, error) {
	var raw []byte
	var err error

	switch msg.Type {
	case MsgWiFi:
		matches := msg.Matches
		if matches == nil {
			matches = []WireMatch{}
		}
		raw, err = json.Marshal(wireWiFi{
			Type: string(MsgWiFi), Mac: msg.Mac, SSID: msg.SSID, RSSI: msg.RSSI,
			Channel: msg.Channel, Frame: msg.FrameType, Matches: matches, Rule: msg.Rule, Ts: msg.Ts,
		})
	case MsgBle:
		matches := msg.Matches
		if matches == nil {
			matches = []WireMatch{}
		}
		raw, err = json.Marshal(wireBle{
			Type: string(MsgBle), Mac: msg.Mac, Name: msg.Name, RSSI: msg.RSSI,
			UUID: msg.UUID, Mfr: msg.Mfr, Matches: matches, Rule: msg.Rule, Ts: msg.Ts,
		})
	case MsgStatus:
		raw, err = json.Marshal(wireStatus{
			Type: string(MsgStatus), Scanning: msg.Scanning, UptimeSecs: msg.UptimeSecs,
			HeapFree: msg.HeapFree, BleClients: msg.BleClients, Board: msg.Board, Version: msg.Version,
		})
	default:
		return nil, fmt.Errorf("protocol: unknown message type %q", msg.Type)
	}
	if err != nil {
		return nil, err
	}

	if len(raw) > len(buf) {
		return nil, fmt.Errorf("protocol: message too large for buffer (%d > %d)", len(raw), len(buf))
	}
	n := copy(buf, raw)
	if n < len(buf) {
		buf[n] = '\n'
		n++
	}
	return buf[:n], nil
}

// Decode parses a single NDJSON line back into a DeviceMessage. Used by
// the bridge, which consumes the device's uplink stream; the device core
// itself never decodes its own output.
func Decode(line []byte) (DeviceMessage, error) {
	var discriminator struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(line, &discriminator); err != nil {
		return DeviceMessage{}, err
	}
	switch MessageType(discriminator.Type) {
	case MsgWiFi:
		var w wireWiFi
		if err := json.Unmarshal(line, &w); err != nil {
			return DeviceMessage{}, err
		}
		return DeviceMessage{
			Type: MsgWiFi, Mac: w.Mac, SSID: w.SSID, RSSI: w.RSSI, Channel: w.Channel,
			FrameType: w.Frame, Matches: w.Matches, Rule: w.Rule, Ts: w.Ts,
		}, nil
	case MsgBle:
		var b wireBle
		if err := json.Unmarshal(line, &b); err != nil {
			return DeviceMessage{}, err
		}
		return DeviceMessage{
			Type: MsgBle, Mac: b.Mac, Name: b.Name, RSSI: b.RSSI, UUID: b.UUID,
			Mfr: b.Mfr, Matches: b.Matches, Rule: b.Rule, Ts: b.Ts,
		}, nil
	case MsgStatus:
		var s wireStatus
		if err := json.Unmarshal(line, &s); err != nil {
			return DeviceMessage{}, err
		}
		return DeviceMessage{
			Type: MsgStatus, Scanning: s.Scanning, UptimeSecs: s.UptimeSecs, HeapFree: s.HeapFree,
			BleClients: s.BleClients, Board: s.Board, Version: s.Version,
		}, nil
	default:
		return DeviceMessage{}, fmt.Errorf("protocol: unknown message type %q", discriminator.Type)
	}
}

// Command is a parsed downlink command.
type Command struct {
	Cmd     string
	MinRSSI int8
	HasRSSI bool
	Enabled bool
	HasEnabled bool
}

// commandDTO is the flat JSON shape commands arrive in, chosen for
// portability to non-reflective decoders on the device side.
type commandDTO struct {
	Cmd     string `json:"cmd"`
	MinRSSI *int8  `json:"min_rssi,omitempty"`
	Enabled *bool  `json:"enabled,omitempty"`
}

// ParseCommand parses one already-framed line (see LineReader) into a
// Command. Unknown cmd values and missing required fields yield
// (Command{}, false) — a silent drop, never an error the caller must
// propagate.
func ParseCommand(line []byte) (Command, bool) {
	trimmed := strings.TrimSpace(string(line))
	if trimmed == "" {
		return Command{}, false
	}

	var dto commandDTO
	if err := json.Unmarshal([]byte(trimmed), &dto); err != nil {
		return Command{}, false
	}

	switch dto.Cmd {
	case "start", "stop", "status":
		return Command{Cmd: dto.Cmd}, true
	case "set_rssi":
		if dto.MinRSSI == nil {
			return Command{}, false
		}
		return Command{Cmd: dto.Cmd, MinRSSI: *dto.MinRSSI, HasRSSI: true}, true
	case "set_buzzer":
		if dto.Enabled == nil {
			return Command{}, false
		}
		return Command{Cmd: dto.Cmd, Enabled: *dto.Enabled, HasEnabled: true}, true
	default:
		return Command{}, false
	}
}

// EncodeCommand renders a Command back to its NDJSON wire form, for the
// bridge's downlink path (dashboard command -> device).
func EncodeCommand(c Command) ([]byte, error) {
	dto := commandDTO{Cmd: c.Cmd}
	if c.HasRSSI {
		dto.MinRSSI = &c.MinRSSI
	}
	if c.HasEnabled {
		dto.Enabled = &c.Enabled
	}
	raw, err := json.Marshal(dto)
	if err != nil {
		return nil, err
	}
	return append(raw, '\n'), nil
}

// LineReader reassembles a byte stream into CR/LF-terminated lines in a
// fixed 512-byte buffer. Overflow silently discards the current line and
// resets.
type LineReader struct {
	buf [types.MsgBufferCap]byte
	n   int
}

// Feed appends b to the buffer. If b completes a line (CR or LF), Feed
// returns the completed line (without the terminator) and true, and
// resets internal state for the next line. An empty line yields nothing
// (ok is false, as if no line had arrived yet).
func (r *LineReader) Feed(b byte) (line []byte, ok bool) {
	if b == '\r' || b == '\n' {
		if r.n == 0 {
			return nil, false
		}
		out := append([]byte(nil), r.buf[:r.n]...)
		r.n = 0
		return out, true
	}
	if r.n >= len(r.buf) {
		// Buffer overflow: discard the current line and resume fresh.
		r.n = 0
		return nil, false
	}
	r.buf[r.n] = b
	r.n++
	return nil, false
}

// FeedBytes feeds a whole chunk, invoking fn for each completed line.
func (r *LineReader) FeedBytes(chunk []byte, fn func(line []byte)) {
	for _, b := range chunk {
		if line, ok := r.Feed(b); ok {
			fn(line)
		}
	}
}
