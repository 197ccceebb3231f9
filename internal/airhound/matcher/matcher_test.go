package matcher

import (
	"testing"

	"github.com/airhound/airhound/internal/airhound/types"
)

func TestMatchWiFiMacOui(t *testing.T) {
	db := DefaultDb()
	ev := types.WiFiEvent{
		Mac:  types.MAC{0xB4, 0x1E, 0x52, 0x00, 0x00, 0x01},
		SSID: types.NewNameString("HomeNetwork"),
		RSSI: -40,
	}
	res := MatchWiFi(db, ev, DefaultFilterConfig())
	if !res.Matched {
		t.Fatal("a Flock Safety OUI hit should mark Matched")
	}
	if res.Matches.Len() != 1 || res.Matches.At(0).Kind != "mac_oui" {
		t.Fatalf("expected exactly one mac_oui reason, got %+v", res.Matches.Slice())
	}
}

func TestMatchWiFiSsidPatternFiresFlockRule(t *testing.T) {
	db := DefaultDb()
	ev := types.WiFiEvent{
		Mac:  types.MAC{0xAA, 0xBB, 0xCC, 0x00, 0x00, 0x01},
		SSID: types.NewNameString("Flock-A1B2C3"),
		RSSI: -50,
	}
	res := MatchWiFi(db, ev, DefaultFilterConfig())
	if !res.Matched {
		t.Fatal("SSID pattern hit should mark Matched")
	}
	name, ok := res.RuleNames.First()
	if !ok || name != "Flock Safety Camera" {
		t.Fatalf("expected Flock Safety Camera rule to fire, got %v", res.RuleNames.Slice())
	}
}

func TestMatchWiFiRssiGate(t *testing.T) {
	db := DefaultDb()
	ev := types.WiFiEvent{
		Mac:  types.MAC{0xB4, 0x1E, 0x52, 0x00, 0x00, 0x01},
		SSID: types.NewNameString("HomeNetwork"),
		RSSI: -95,
	}
	cfg := DefaultFilterConfig() // MinRSSI -90
	res := MatchWiFi(db, ev, cfg)
	if res.Matched {
		t.Fatal("an event weaker than MinRSSI should never match")
	}
}

func TestMatchWiFiDisabledGate(t *testing.T) {
	db := DefaultDb()
	ev := types.WiFiEvent{
		Mac:  types.MAC{0xB4, 0x1E, 0x52, 0x00, 0x00, 0x01},
		SSID: types.NewNameString("HomeNetwork"),
		RSSI: -40,
	}
	cfg := FilterConfig{MinRSSI: -90, WifiEnabled: false, BleEnabled: true}
	res := MatchWiFi(db, ev, cfg)
	if res.Matched {
		t.Fatal("MatchWiFi must return zero Result when WifiEnabled is false")
	}
}

// TestBleManufacturerIdAloneDoesNotFireFlockRule exercises the scenario
// the nested BLE branch in sigs.BuiltinRuleDb exists for: a lone XUNTONG
// manufacturer-ID hit must not, by itself, fire "Flock Safety Camera".
func TestBleManufacturerIdAloneDoesNotFireFlockRule(t *testing.T) {
	db := DefaultDb()
	ev := types.BleEvent{
		Mac:            types.MAC{0x11, 0x22, 0x33, 0x44, 0x55, 0x66},
		Name:           types.NewNameString("Unrelated Device"),
		RSSI:           -50,
		ManufacturerID: 0x09C8, // XUNTONG
	}
	res := MatchBLE(db, ev, DefaultFilterConfig())
	if !res.Matched {
		t.Fatal("the manufacturer ID hit itself should still mark Matched")
	}
	for i := 0; i < res.RuleNames.Len(); i++ {
		if res.RuleNames.At(i) == "Flock Safety Camera" {
			t.Fatal("a lone XUNTONG manufacturer-ID hit must not fire Flock Safety Camera")
		}
	}
}

func TestBleManufacturerIdPlusNameFiresFlockRule(t *testing.T) {
	db := DefaultDb()
	ev := types.BleEvent{
		Mac:            types.MAC{0x11, 0x22, 0x33, 0x44, 0x55, 0x66},
		Name:           types.NewNameString("flock-beacon"),
		RSSI:           -50,
		ManufacturerID: 0x09C8, // XUNTONG
	}
	res := MatchBLE(db, ev, DefaultFilterConfig())
	found := false
	for i := 0; i < res.RuleNames.Len(); i++ {
		if res.RuleNames.At(i) == "Flock Safety Camera" {
			found = true
		}
	}
	if !found {
		t.Fatal("XUNTONG manufacturer ID plus a flock-named BLE device should fire Flock Safety Camera")
	}
}

func TestAppleAirTagRule(t *testing.T) {
	db := DefaultDb()
	var ad types.RawAD
	ad.SetBytes([]byte{0x4C, 0x00, 0x12, 0x19, 0x00, 0x01, 0x02})
	ev := types.BleEvent{
		Mac:            types.MAC{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF},
		RSSI:           -60,
		ManufacturerID: 0x004C, // Apple
		RawAD:          ad,
	}
	res := MatchBLE(db, ev, DefaultFilterConfig())
	name, ok := res.RuleNames.First()
	if !ok || name != "Apple AirTag" {
		t.Fatalf("expected Apple AirTag rule to fire, got %v", res.RuleNames.Slice())
	}
}

func TestRavenAcousticSensorRule(t *testing.T) {
	db := DefaultDb()
	var uuids types.UUID16List
	uuids.Append(0x3500)
	ev := types.BleEvent{
		Mac:           types.MAC{0x01, 0x02, 0x03, 0x04, 0x05, 0x06},
		RSSI:          -70,
		ServiceUUID16: uuids,
	}
	res := MatchBLE(db, ev, DefaultFilterConfig())
	name, ok := res.RuleNames.First()
	if !ok || name != "Raven Acoustic Sensor" {
		t.Fatalf("expected Raven Acoustic Sensor rule to fire, got %v", res.RuleNames.Slice())
	}
}

func TestMatchBLENoSignatureNoMatch(t *testing.T) {
	db := DefaultDb()
	ev := types.BleEvent{
		Mac:  types.MAC{0x01, 0x02, 0x03, 0x04, 0x05, 0x06},
		Name: types.NewNameString("Nondescript Gadget"),
		RSSI: -70,
	}
	res := MatchBLE(db, ev, DefaultFilterConfig())
	if res.Matched {
		t.Fatalf("an event with no signature hits should not match, got %+v", res.Matches.Slice())
	}
}

func TestMatchReasonsBounded(t *testing.T) {
	db := DefaultDb()
	// An SSID hitting multiple keyword tables at once should still never
	// overflow MatchReasonList, regardless of how many signatures fire.
	ev := types.WiFiEvent{
		Mac:  types.MAC{0xB4, 0x1E, 0x52, 0x00, 0x00, 0x01}, // Flock OUI
		SSID: types.NewNameString("flock camera nvr axis"),  // many keyword hits
		RSSI: -40,
	}
	res := MatchWiFi(db, ev, DefaultFilterConfig())
	if res.Matches.Len() > types.MaxMatchReasons {
		t.Fatalf("Matches.Len() = %d exceeds MaxMatchReasons = %d", res.Matches.Len(), types.MaxMatchReasons)
	}
}
