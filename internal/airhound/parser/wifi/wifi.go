// Package wifi decodes raw 802.11 frames into types.WiFiEvent. Structured
// decode of management frames uses gopacket/layers' Dot11 decoders. The
// degenerate fallback path is hand-rolled: gopacket's layer decoders
// reject frames that don't parse cleanly rather than returning a
// best-effort partial struct, and the fallback exists specifically for
// that case.
//
// Parse is allocation-light and safe to call from a radio driver
// callback: it does not retain the input slice, and on any decode
// failure it returns (types.WiFiEvent{}, false) rather than an error.
package wifi

import (
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"github.com/airhound/airhound/internal/airhound/types"
)

// Parse decodes one raw 802.11 frame. rssi and channel come from the
// radio driver out-of-band (802.11 frames don't self-describe either).
func Parse(frame []byte, rssi int8, channel uint8) (types.WiFiEvent, bool) {
	if ev, ok := parseStructured(frame, rssi, channel); ok {
		return ev, true
	}
	return parseDegenerate(frame, rssi, channel)
}

func parseStructured(frame []byte, rssi int8, channel uint8) (types.WiFiEvent, bool) {
	packet := gopacket.NewPacket(frame, layers.LayerTypeDot11, gopacket.DecodeOptions{
		Lazy:   true,
		NoCopy: true,
	})
	dot11Layer := packet.Layer(layers.LayerTypeDot11)
	if dot11Layer == nil {
		return types.WiFiEvent{}, false
	}
	dot11, ok := dot11Layer.(*layers.Dot11)
	if !ok {
		return types.WiFiEvent{}, false
	}

	var frameType types.FrameType
	switch dot11.Type {
	case layers.Dot11TypeMgmtBeacon:
		frameType = types.FrameBeacon
	case layers.Dot11TypeMgmtProbeReq:
		frameType = types.FrameProbeRequest
	case layers.Dot11TypeMgmtProbeResp:
		frameType = types.FrameProbeResponse
	default:
		return types.WiFiEvent{}, false
	}

	var mac types.MAC
	copy(mac[:], dot11.Address2)

	var ssid string
	if mgmtLayer := packet.Layer(layers.LayerTypeDot11MgmtBeacon); mgmtLayer != nil {
		ssid = ssidFromInfoElements(packet)
	} else if mgmtLayer := packet.Layer(layers.LayerTypeDot11MgmtProbeReq); mgmtLayer != nil {
		ssid = ssidFromInfoElements(packet)
	} else if mgmtLayer := packet.Layer(layers.LayerTypeDot11MgmtProbeResp); mgmtLayer != nil {
		ssid = ssidFromInfoElements(packet)
	}

	var ev types.WiFiEvent
	ev.Mac = mac
	ev.SSID = types.NewNameString(ssid)
	ev.RSSI = rssi
	ev.Channel = channel
	ev.FrameType = frameType
	return ev, true
}

// ssidFromInfoElements walks the information-element layers of the
// packet looking for tag 0 (SSID). gopacket exposes each IE as its own
// layer of type Dot11InformationElement.
func ssidFromInfoElements(packet gopacket.Packet) string {
	for _, l := range packet.Layers() {
		ie, ok := l.(*layers.Dot11InformationElement)
		if !ok {
			continue
		}
		if ie.ID == layers.Dot11InformationElementIDSSID {
			return string(ie.Info)
		}
	}
	return ""
}

// parseDegenerate handles a frame gopacket could not decode cleanly: at
// least 16 bytes, mac = bytes[10..16], frame_type = Data when the
// frame-control type bits equal 0b10, else Other. Shorter frames yield
// false.
func parseDegenerate(frame []byte, rssi int8, channel uint8) (types.WiFiEvent, bool) {
	if len(frame) < 16 {
		return types.WiFiEvent{}, false
	}

	var mac types.MAC
	copy(mac[:], frame[10:16])

	frameControl := frame[0]
	typeBits := (frameControl >> 2) & 0x03

	var ev types.WiFiEvent
	ev.Mac = mac
	ev.RSSI = rssi
	ev.Channel = channel
	if typeBits == 0b10 {
		ev.FrameType = types.FrameData
	} else {
		ev.FrameType = types.FrameOther
	}
	return ev, true
}
