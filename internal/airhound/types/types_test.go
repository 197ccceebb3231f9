package types

import "testing"

func TestNameStringTruncates(t *testing.T) {
	long := make([]byte, NameStringCap+10)
	for i := range long {
		long[i] = 'a'
	}
	ns := NewNameString(string(long))
	if ns.Len() != NameStringCap-1 {
		t.Fatalf("Len() = %d, want %d", ns.Len(), NameStringCap-1)
	}
	if len(ns.String()) != NameStringCap-1 {
		t.Fatalf("String() length = %d, want %d", len(ns.String()), NameStringCap-1)
	}
}

func TestMatchReasonListOverflow(t *testing.T) {
	var l MatchReasonList
	for i := 0; i < MaxMatchReasons; i++ {
		if !l.Append("kind", "detail") {
			t.Fatalf("Append %d unexpectedly failed", i)
		}
	}
	if l.Append("kind", "one too many") {
		t.Fatal("Append beyond capacity should return false")
	}
	if l.Len() != MaxMatchReasons {
		t.Fatalf("Len() = %d, want %d", l.Len(), MaxMatchReasons)
	}
}

func TestRuleNameListFirst(t *testing.T) {
	var l RuleNameList
	if _, ok := l.First(); ok {
		t.Fatal("First() on empty list should report false")
	}
	l.Append("Flock Safety Camera")
	l.Append("Apple AirTag")
	name, ok := l.First()
	if !ok || name != "Flock Safety Camera" {
		t.Fatalf("First() = (%q, %v), want (%q, true)", name, ok, "Flock Safety Camera")
	}
}

func TestUUID16ListContainsAndOverflow(t *testing.T) {
	var l UUID16List
	for i := 0; i < MaxServiceUUIDs16; i++ {
		if !l.Append(uint16(i)) {
			t.Fatalf("Append %d unexpectedly failed", i)
		}
	}
	if l.Append(0xFFFF) {
		t.Fatal("Append beyond capacity should return false")
	}
	if !l.Contains(3) {
		t.Fatal("Contains(3) should be true")
	}
	if l.Contains(0xFFFF) {
		t.Fatal("Contains(0xFFFF) should be false, it was never stored")
	}
}

func TestMacStringRoundTrip(t *testing.T) {
	m := MAC{0xB4, 0x1E, 0x52, 0x01, 0x02, 0x03}
	s := m.String()
	parsed, err := MacFromString(s)
	if err != nil {
		t.Fatalf("MacFromString(%q) error: %v", s, err)
	}
	if parsed != m {
		t.Fatalf("round trip mismatch: got %v, want %v", parsed, m)
	}
	if parsed.OUI() != [3]byte{0xB4, 0x1E, 0x52} {
		t.Fatalf("OUI() = %v", parsed.OUI())
	}
}

func TestMacFromStringRejectsMalformed(t *testing.T) {
	cases := []string{"", "AA:BB", "GG:HH:II:JJ:KK:LL", "AA:BB:CC:DD:EE:FF:00"}
	for _, c := range cases {
		if _, err := MacFromString(c); err == nil {
			t.Errorf("MacFromString(%q) should have errored", c)
		}
	}
}

func TestRawADTruncates(t *testing.T) {
	var r RawAD
	long := make([]byte, RawADCap+5)
	for i := range long {
		long[i] = byte(i)
	}
	r.SetBytes(long)
	if len(r.Bytes()) != RawADCap {
		t.Fatalf("Bytes() length = %d, want %d", len(r.Bytes()), RawADCap)
	}
}

func TestFrameTypeString(t *testing.T) {
	cases := map[FrameType]string{
		FrameBeacon:       "beacon",
		FrameProbeRequest: "probe_req",
		FrameProbeResponse: "probe_resp",
		FrameData:         "data",
		FrameOther:        "other",
	}
	for ft, want := range cases {
		if got := ft.String(); got != want {
			t.Errorf("FrameType(%d).String() = %q, want %q", ft, got, want)
		}
	}
}
