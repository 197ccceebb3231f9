package wifi

import (
	"testing"

	"github.com/airhound/airhound/internal/airhound/types"
)

func TestParseDegenerateTooShort(t *testing.T) {
	if _, ok := parseDegenerate(make([]byte, 15), -40, 6); ok {
		t.Fatal("a frame shorter than 16 bytes must be rejected")
	}
}

func TestParseDegenerateDataFrame(t *testing.T) {
	frame := make([]byte, 16)
	frame[0] = 0x08 // frame control: type bits (2-3) = 0b10, Data
	copy(frame[10:16], []byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF})

	ev, ok := parseDegenerate(frame, -55, 11)
	if !ok {
		t.Fatal("a 16-byte frame must parse")
	}
	wantMac := types.MAC{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF}
	if ev.Mac != wantMac {
		t.Fatalf("Mac = %v, want %v", ev.Mac, wantMac)
	}
	if ev.FrameType != types.FrameData {
		t.Fatalf("FrameType = %v, want FrameData", ev.FrameType)
	}
	if ev.RSSI != -55 || ev.Channel != 11 {
		t.Fatalf("RSSI/Channel not carried through: %+v", ev)
	}
}

func TestParseDegenerateNonDataFrame(t *testing.T) {
	frame := make([]byte, 20)
	frame[0] = 0x00 // type bits = 0b00, not Data
	ev, ok := parseDegenerate(frame, -60, 1)
	if !ok {
		t.Fatal("a 20-byte frame must parse")
	}
	if ev.FrameType != types.FrameOther {
		t.Fatalf("FrameType = %v, want FrameOther", ev.FrameType)
	}
}

func TestParseRejectsTooShortFrame(t *testing.T) {
	if _, ok := Parse(make([]byte, 4), -40, 6); ok {
		t.Fatal("a 4-byte frame cannot be a valid 802.11 frame under either decode path")
	}
}
