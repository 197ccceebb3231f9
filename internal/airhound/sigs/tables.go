// Package sigs holds the compile-time signature tables: MAC OUI prefixes,
// SSID/BLE-name patterns, BLE service UUIDs and manufacturer IDs, and
// BLE AD byte patterns. Every table is a constant Go slice; the global
// signature index of entry i in table T is SIG_IDX_T_START + i, assigned
// by concatenating the tables in declaration order below.
package sigs

// SuffixKind constrains the trailing characters of an SsidPattern match.
type SuffixKind int

const (
	SuffixHex SuffixKind = iota
	SuffixDecimal
)

// MacPrefix is a 3-byte MAC OUI signature.
type MacPrefix struct {
	Prefix [3]byte
	Vendor string
}

// SsidPattern matches SSIDs of the form prefix + fixed-length hex or
// decimal suffix, e.g. "Flock-A1B2C3".
type SsidPattern struct {
	Prefix      string
	SuffixLen   int
	SuffixKind  SuffixKind
	Description string
}

// SsidExact matches an SSID verbatim.
type SsidExact struct {
	SSID string
}

// SsidKeyword matches a case-insensitive substring of the SSID.
type SsidKeyword struct {
	Keyword string
}

// WifiNameKeyword matches a case-insensitive substring, recorded under a
// distinct filter_kind from SsidKeyword; deduplicated against it by the
// matcher (see matcher.MatchWiFi).
type WifiNameKeyword struct {
	Keyword string
}

// BleNamePattern matches a case-insensitive substring of the BLE local name.
type BleNamePattern struct {
	Pattern string
}

// BleServiceUuid16 is a 16-bit BLE service UUID signature.
type BleServiceUuid16 struct {
	UUID uint16
	Name string
}

// BleStandardUuid16 is a 16-bit BLE *standard* (SIG-assigned) service UUID
// tracked independently of BleServiceUuid16.
type BleStandardUuid16 struct {
	UUID uint16
	Name string
}

// BleManufacturerId is an exact BLE manufacturer-ID signature.
type BleManufacturerId struct {
	ID   uint16
	Name string
}

// BleAdBytesPattern matches manufacturer-specific AD payload bytes, either
// at a fixed offset or anywhere in the payload. Offsets count from the
// start of the manufacturer data, so offset 0 is the first byte of the
// little-endian company ID.
type BleAdBytesPattern struct {
	Bytes       []byte
	Offset      int // -1 means "no fixed offset, substring search"
	Description string
}

// NoOffset is the sentinel for BleAdBytesPattern.Offset meaning
// "substring anywhere".
const NoOffset = -1

// Tables, in declaration order; this order fixes the global index space.
var (
	MacPrefixes = []MacPrefix{
		{Prefix: [3]byte{0xB4, 0x1E, 0x52}, Vendor: "Flock Safety"},
		{Prefix: [3]byte{0x00, 0x1A, 0x7D}, Vendor: "Axis Communications"},
		{Prefix: [3]byte{0xE4, 0x5F, 0x01}, Vendor: "Raven Industries"},
		{Prefix: [3]byte{0x7C, 0xD1, 0x5F}, Vendor: "Hikvision"},
		{Prefix: [3]byte{0xA4, 0xDA, 0x32}, Vendor: "Wyze Labs"},
		{Prefix: [3]byte{0x00, 0x17, 0xF2}, Vendor: "Apple"},
		{Prefix: [3]byte{0xF0, 0x18, 0x98}, Vendor: "Apple"},
		{Prefix: [3]byte{0x34, 0xCE, 0x00}, Vendor: "Xiaomi"},
		{Prefix: [3]byte{0x00, 0x1E, 0xBD}, Vendor: "Cisco Meraki"},
	}

	SsidPatterns = []SsidPattern{
		{Prefix: "Flock-", SuffixLen: 6, SuffixKind: SuffixHex, Description: "Flock Safety camera WiFi"},
		{Prefix: "AXIS-", SuffixLen: 6, SuffixKind: SuffixHex, Description: "Axis camera provisioning WiFi"},
		{Prefix: "Wyze_Cam_", SuffixLen: 6, SuffixKind: SuffixDecimal, Description: "Wyze camera setup WiFi"},
	}

	SsidExacts = []SsidExact{
		{SSID: "SkyNet-Covert"},
	}

	SsidKeywords = []SsidKeyword{
		{Keyword: "flock"},
		{Keyword: "axis"},
		{Keyword: "camera"},
		{Keyword: "nvr"},
	}

	WifiNameKeywords = []WifiNameKeyword{
		{Keyword: "flock"},
		{Keyword: "wyze"},
		{Keyword: "ring"},
		{Keyword: "nest"},
	}

	BleNamePatterns = []BleNamePattern{
		{Pattern: "flock"},
		{Pattern: "raven"},
		{Pattern: "acoustic"},
	}

	BleServiceUuids16 = []BleServiceUuid16{
		{UUID: 0x3500, Name: "Raven Acoustic Sensor service"},
		{UUID: 0xFE9F, Name: "Google Fast Pair"},
	}

	BleStandardUuids16 = []BleStandardUuid16{
		{UUID: 0x180A, Name: "Device Information"},
		{UUID: 0x180F, Name: "Battery Service"},
	}

	BleManufacturerIds = []BleManufacturerId{
		{ID: 0x004C, Name: "Apple Inc."},
		{ID: 0x09C8, Name: "XUNTONG"},
		{ID: 0x0006, Name: "Microsoft"},
	}

	BleAdBytesPatterns = []BleAdBytesPattern{
		{Bytes: []byte{0x12, 0x19, 0x00}, Offset: 2, Description: "Apple AirTag offline-finding payload"},
		{Bytes: []byte{0x07, 0x19, 0x00}, Offset: 2, Description: "Apple FindMy beacon payload"},
	}
)

// Table start offsets; the matcher and rule engine address signatures by
// SIG_IDX_<TABLE>_START + i.
const (
	SigIdxMacPrefixStart = 0
)

var (
	SigIdxSsidPatternStart    = SigIdxMacPrefixStart + len(MacPrefixes)
	SigIdxSsidExactStart      = SigIdxSsidPatternStart + len(SsidPatterns)
	SigIdxSsidKeywordStart    = SigIdxSsidExactStart + len(SsidExacts)
	SigIdxWifiNameStart       = SigIdxSsidKeywordStart + len(SsidKeywords)
	SigIdxBleNamePatternStart = SigIdxWifiNameStart + len(WifiNameKeywords)
	SigIdxBleServiceUuidStart = SigIdxBleNamePatternStart + len(BleNamePatterns)
	SigIdxBleStdUuidStart     = SigIdxBleServiceUuidStart + len(BleServiceUuids16)
	SigIdxBleMfrIdStart       = SigIdxBleStdUuidStart + len(BleStandardUuids16)
	SigIdxBleAdBytesStart     = SigIdxBleMfrIdStart + len(BleManufacturerIds)

	// TotalSignatures is the number of signatures across all tables,
	// invariant-checked by tables_test.go to stay below types.SigBits.
	TotalSignatures = SigIdxBleAdBytesStart + len(BleAdBytesPatterns)
)
