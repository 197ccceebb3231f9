package ble

import (
	"testing"

	"github.com/airhound/airhound/internal/airhound/types"
)

func TestParseCompleteLocalName(t *testing.T) {
	raw := []byte{5, adTypeCompleteName, 'T', 'e', 's', 't'}
	ev := Parse(types.MAC{1, 2, 3, 4, 5, 6}, -50, raw)
	if ev.Name.String() != "Test" {
		t.Fatalf("Name = %q, want %q", ev.Name.String(), "Test")
	}
}

func TestParseServiceUUID16List(t *testing.T) {
	raw := []byte{5, adTypeCompleteUUID16, 0x34, 0x12, 0x78, 0x56}
	ev := Parse(types.MAC{}, -50, raw)
	if ev.ServiceUUID16.Len() != 2 {
		t.Fatalf("ServiceUUID16.Len() = %d, want 2", ev.ServiceUUID16.Len())
	}
	if !ev.ServiceUUID16.Contains(0x1234) || !ev.ServiceUUID16.Contains(0x5678) {
		t.Fatalf("expected 0x1234 and 0x5678, got %v", []uint16{ev.ServiceUUID16.At(0), ev.ServiceUUID16.At(1)})
	}
}

func TestParseManufacturerData(t *testing.T) {
	raw := []byte{6, adTypeManufacturerData, 0x4C, 0x00, 0x12, 0x19, 0x00}
	ev := Parse(types.MAC{}, -50, raw)
	if ev.ManufacturerID != 0x004C {
		t.Fatalf("ManufacturerID = %#x, want 0x004C", ev.ManufacturerID)
	}
	if got := ev.RawAD.Bytes(); len(got) != 5 {
		t.Fatalf("RawAD.Bytes() length = %d, want 5", len(got))
	}
}

func TestParseMultipleStructures(t *testing.T) {
	var raw []byte
	raw = append(raw, 5, adTypeCompleteName, 'T', 'e', 's', 't')
	raw = append(raw, 6, adTypeManufacturerData, 0x4C, 0x00, 0x12, 0x19, 0x00)
	ev := Parse(types.MAC{}, -60, raw)
	if ev.Name.String() != "Test" {
		t.Fatalf("Name = %q, want %q", ev.Name.String(), "Test")
	}
	if ev.ManufacturerID != 0x004C {
		t.Fatalf("ManufacturerID = %#x, want 0x004C", ev.ManufacturerID)
	}
}

func TestParseZeroLengthStops(t *testing.T) {
	raw := []byte{0, 1, 2, 3}
	ev := Parse(types.MAC{}, -50, raw)
	if ev.Name.Len() != 0 || ev.ManufacturerID != 0 {
		t.Fatalf("a leading zero-length AD structure must stop the walk immediately, got %+v", ev)
	}
}

func TestParseTruncatedStructureStopsCleanly(t *testing.T) {
	// second structure claims a 10-byte payload but only 2 bytes remain: must stop without panicking.
	raw := []byte{4, adTypeCompleteName, 'A', 'B', 'C', 10, adTypeCompleteName, 'X'}
	ev := Parse(types.MAC{}, -50, raw)
	if ev.Name.String() != "ABC" {
		t.Fatalf("Name = %q, want %q (from the one complete structure before truncation)", ev.Name.String(), "ABC")
	}
}

func TestParseUUID16ListOverflowDoesNotPanic(t *testing.T) {
	n := types.MaxServiceUUIDs16 + 5
	data := make([]byte, n*2)
	for i := 0; i < n; i++ {
		data[i*2] = byte(i)
		data[i*2+1] = 0
	}
	raw := append([]byte{byte(1 + len(data)), adTypeCompleteUUID16}, data...)

	ev := Parse(types.MAC{}, -50, raw)
	if ev.ServiceUUID16.Len() != types.MaxServiceUUIDs16 {
		t.Fatalf("ServiceUUID16.Len() = %d, want %d", ev.ServiceUUID16.Len(), types.MaxServiceUUIDs16)
	}
}

func TestParseEmptyInput(t *testing.T) {
	ev := Parse(types.MAC{9, 9, 9, 9, 9, 9}, -70, nil)
	if ev.Mac != (types.MAC{9, 9, 9, 9, 9, 9}) || ev.RSSI != -70 {
		t.Fatalf("mac/rssi must be set even with no AD structures, got %+v", ev)
	}
}
