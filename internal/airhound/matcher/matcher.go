// Package matcher implements the signature matcher: given an event and
// the live FilterConfig, it populates a types.SigMatchSet and up to four
// human-readable types.MatchReason entries, then runs the rule engine
// over the resulting set. Every positive check accumulates a bit rather
// than the first match winning, except for MAC OUI.
package matcher

import (
	"strings"

	"github.com/airhound/airhound/internal/airhound/ruleengine"
	"github.com/airhound/airhound/internal/airhound/sigs"
	"github.com/airhound/airhound/internal/airhound/types"
)

// FilterConfig mirrors the live, mutable tuning knobs sampled once per
// event by the filter task.
type FilterConfig struct {
	MinRSSI     int8
	WifiEnabled bool
	BleEnabled  bool
}

// DefaultFilterConfig returns the device's out-of-the-box tuning.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{MinRSSI: -90, WifiEnabled: true, BleEnabled: true}
}

// Result is the outcome of matching one event.
type Result struct {
	Matched    bool
	Matches    types.MatchReasonList
	SigMatches types.SigMatchSet
	RuleNames  types.RuleNameList
}

// Db bundles the signature tables and rule database the matcher consults.
// DefaultDb builds one from sigs.BuiltinRuleDb and the sigs
// package-level tables; it exists so the matcher itself never
// references package-level globals directly, keeping it unit-testable
// with a reduced table set.
type Db struct {
	MacPrefixes        []sigs.MacPrefix
	SsidPatterns       []sigs.SsidPattern
	SsidExacts         []sigs.SsidExact
	SsidKeywords       []sigs.SsidKeyword
	WifiNameKeywords   []sigs.WifiNameKeyword
	BleNamePatterns    []sigs.BleNamePattern
	BleServiceUuids16  []sigs.BleServiceUuid16
	BleStandardUuids16 []sigs.BleStandardUuid16
	BleManufacturerIds []sigs.BleManufacturerId
	BleAdBytesPatterns []sigs.BleAdBytesPattern

	IdxMacPrefixStart        int
	IdxSsidPatternStart      int
	IdxSsidExactStart        int
	IdxSsidKeywordStart      int
	IdxWifiNameStart         int
	IdxBleNamePatternStart   int
	IdxBleServiceUuidStart   int
	IdxBleStdUuidStart       int
	IdxBleMfrIdStart         int
	IdxBleAdBytesStart       int

	Rules ruleengine.Db
}

// DefaultDb wires up the compiled-in package-level tables.
func DefaultDb() Db {
	return Db{
		MacPrefixes:        sigs.MacPrefixes,
		SsidPatterns:       sigs.SsidPatterns,
		SsidExacts:         sigs.SsidExacts,
		SsidKeywords:       sigs.SsidKeywords,
		WifiNameKeywords:   sigs.WifiNameKeywords,
		BleNamePatterns:    sigs.BleNamePatterns,
		BleServiceUuids16:  sigs.BleServiceUuids16,
		BleStandardUuids16: sigs.BleStandardUuids16,
		BleManufacturerIds: sigs.BleManufacturerIds,
		BleAdBytesPatterns: sigs.BleAdBytesPatterns,

		IdxMacPrefixStart:      sigs.SigIdxMacPrefixStart,
		IdxSsidPatternStart:    sigs.SigIdxSsidPatternStart,
		IdxSsidExactStart:      sigs.SigIdxSsidExactStart,
		IdxSsidKeywordStart:    sigs.SigIdxSsidKeywordStart,
		IdxWifiNameStart:       sigs.SigIdxWifiNameStart,
		IdxBleNamePatternStart: sigs.SigIdxBleNamePatternStart,
		IdxBleServiceUuidStart: sigs.SigIdxBleServiceUuidStart,
		IdxBleStdUuidStart:     sigs.SigIdxBleStdUuidStart,
		IdxBleMfrIdStart:       sigs.SigIdxBleMfrIdStart,
		IdxBleAdBytesStart:     sigs.SigIdxBleAdBytesStart,

		Rules: sigs.BuiltinRuleDb,
	}
}

func lowerInto(buf []byte, s string) string {
	n := copy(buf, s)
	b := buf[:n]
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c - 'A' + 'a'
		}
	}
	return string(b)
}

// isHex reports whether every byte of s is a hex digit.
func isHex(s string) bool {
	for _, c := range []byte(s) {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// isDecimal reports whether every byte of s is a decimal digit.
func isDecimal(s string) bool {
	for _, c := range []byte(s) {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func matchesSsidPattern(p sigs.SsidPattern, ssid string) bool {
	if !strings.HasPrefix(ssid, p.Prefix) {
		return false
	}
	suffix := ssid[len(p.Prefix):]
	if len(suffix) != p.SuffixLen {
		return false
	}
	switch p.SuffixKind {
	case sigs.SuffixHex:
		return isHex(suffix)
	case sigs.SuffixDecimal:
		return isDecimal(suffix)
	default:
		return false
	}
}

// MatchWiFi evaluates a WiFiEvent against db and cfg.
func MatchWiFi(db Db, ev types.WiFiEvent, cfg FilterConfig) Result {
	var res Result

	if !cfg.WifiEnabled || int(ev.RSSI) < int(cfg.MinRSSI) {
		return res
	}

	var lowerBuf [64]byte
	ssid := ev.SSID.String()
	ssidLower := lowerInto(lowerBuf[:], ssid)

	// 1. MAC OUI — first match wins, skip remaining OUI entries.
	ouiMatched := false
	oui := ev.Mac.OUI()
	for i, mp := range db.MacPrefixes {
		if ouiMatched {
			break
		}
		if mp.Prefix == oui {
			res.SigMatches.Set(db.IdxMacPrefixStart + i)
			res.Matches.Append("mac_oui", mp.Vendor)
			ouiMatched = true
		}
	}

	// 2. SSID pattern — all may accumulate.
	for i, p := range db.SsidPatterns {
		if matchesSsidPattern(p, ssid) {
			res.SigMatches.Set(db.IdxSsidPatternStart + i)
			res.Matches.Append("ssid_pattern", p.Description)
		}
	}

	// 3. SSID exact.
	for i, e := range db.SsidExacts {
		if ssid == e.SSID {
			res.SigMatches.Set(db.IdxSsidExactStart + i)
			res.Matches.Append("ssid_exact", e.SSID)
		}
	}

	// 4. SSID keyword — case-insensitive substring.
	for i, kw := range db.SsidKeywords {
		var kwBuf [64]byte
		kwLower := lowerInto(kwBuf[:], kw.Keyword)
		if strings.Contains(ssidLower, kwLower) {
			res.SigMatches.Set(db.IdxSsidKeywordStart + i)
			res.Matches.Append("ssid_keyword", kw.Keyword)
		}
	}

	// 5. Wi-Fi name keyword — same substring search, deduplicated against
	// the SSID-keyword table by keyword text, not per event.
	for i, kw := range db.WifiNameKeywords {
		if containsKeyword(db.SsidKeywords, kw.Keyword) {
			continue
		}
		var kwBuf [64]byte
		kwLower := lowerInto(kwBuf[:], kw.Keyword)
		if strings.Contains(ssidLower, kwLower) {
			res.SigMatches.Set(db.IdxWifiNameStart + i)
			res.Matches.Append("wifi_name", kw.Keyword)
		}
	}

	finish(db, &res)
	return res
}

func containsKeyword(list []sigs.SsidKeyword, kw string) bool {
	for _, k := range list {
		if strings.EqualFold(k.Keyword, kw) {
			return true
		}
	}
	return false
}

// MatchBLE evaluates a BleEvent against db and cfg.
func MatchBLE(db Db, ev types.BleEvent, cfg FilterConfig) Result {
	var res Result

	if !cfg.BleEnabled || int(ev.RSSI) < int(cfg.MinRSSI) {
		return res
	}

	// 1. MAC OUI — shared table with Wi-Fi.
	ouiMatched := false
	oui := ev.Mac.OUI()
	for i, mp := range db.MacPrefixes {
		if ouiMatched {
			break
		}
		if mp.Prefix == oui {
			res.SigMatches.Set(db.IdxMacPrefixStart + i)
			res.Matches.Append("mac_oui", mp.Vendor)
			ouiMatched = true
		}
	}

	// 2. BLE name pattern — case-insensitive substring.
	name := ev.Name.String()
	var nameLowerBuf [64]byte
	nameLower := lowerInto(nameLowerBuf[:], name)
	for i, p := range db.BleNamePatterns {
		var patBuf [64]byte
		patLower := lowerInto(patBuf[:], p.Pattern)
		if strings.Contains(nameLower, patLower) {
			res.SigMatches.Set(db.IdxBleNamePatternStart + i)
			res.Matches.Append("ble_name", p.Pattern)
		}
	}

	// 3. BLE 16-bit service UUIDs, checked against both tables
	// independently.
	for u := 0; u < ev.ServiceUUID16.Len(); u++ {
		uuid := ev.ServiceUUID16.At(u)
		for i, su := range db.BleServiceUuids16 {
			if su.UUID == uuid {
				res.SigMatches.Set(db.IdxBleServiceUuidStart + i)
				res.Matches.Append("ble_uuid", su.Name)
			}
		}
		for i, su := range db.BleStandardUuids16 {
			if su.UUID == uuid {
				res.SigMatches.Set(db.IdxBleStdUuidStart + i)
				res.Matches.Append("ble_uuid_std", su.Name)
			}
		}
	}

	// 4. BLE manufacturer ID — exact equality, 0 means absent.
	if ev.ManufacturerID != 0 {
		for i, m := range db.BleManufacturerIds {
			if m.ID == ev.ManufacturerID {
				res.SigMatches.Set(db.IdxBleMfrIdStart + i)
				res.Matches.Append("ble_mfr", m.Name)
			}
		}
	}

	// 5. BLE AD byte patterns.
	raw := ev.RawAD.Bytes()
	for i, p := range db.BleAdBytesPatterns {
		if matchesAdBytes(p, raw) {
			res.SigMatches.Set(db.IdxBleAdBytesStart + i)
			res.Matches.Append("ble_ad_bytes", p.Description)
		}
	}

	finish(db, &res)
	return res
}

func matchesAdBytes(p sigs.BleAdBytesPattern, raw []byte) bool {
	if p.Offset == sigs.NoOffset {
		return containsBytes(raw, p.Bytes)
	}
	if p.Offset < 0 || p.Offset+len(p.Bytes) > len(raw) {
		return false
	}
	for i, b := range p.Bytes {
		if raw[p.Offset+i] != b {
			return false
		}
	}
	return true
}

func containsBytes(haystack, needle []byte) bool {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return false
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if string(haystack[i:i+len(needle)]) == string(needle) {
			return true
		}
	}
	return false
}

func finish(db Db, res *Result) {
	res.Matched = !res.SigMatches.IsEmpty()
	res.RuleNames = ruleengine.EvalAll(db.Rules, res.SigMatches)
}
