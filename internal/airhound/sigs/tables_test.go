package sigs

import (
	"testing"

	"github.com/airhound/airhound/internal/airhound/types"
)

func TestTotalSignaturesFitsBitset(t *testing.T) {
	if TotalSignatures >= types.SigBits {
		t.Fatalf("TotalSignatures = %d, must be < types.SigBits = %d", TotalSignatures, types.SigBits)
	}
}

func TestTableStartOffsetsAreContiguousAndOrdered(t *testing.T) {
	starts := []int{
		SigIdxMacPrefixStart,
		SigIdxSsidPatternStart,
		SigIdxSsidExactStart,
		SigIdxSsidKeywordStart,
		SigIdxWifiNameStart,
		SigIdxBleNamePatternStart,
		SigIdxBleServiceUuidStart,
		SigIdxBleStdUuidStart,
		SigIdxBleMfrIdStart,
		SigIdxBleAdBytesStart,
		TotalSignatures,
	}
	lens := []int{
		len(MacPrefixes),
		len(SsidPatterns),
		len(SsidExacts),
		len(SsidKeywords),
		len(WifiNameKeywords),
		len(BleNamePatterns),
		len(BleServiceUuids16),
		len(BleStandardUuids16),
		len(BleManufacturerIds),
		len(BleAdBytesPatterns),
	}
	for i := 1; i < len(starts); i++ {
		if starts[i] < starts[i-1] {
			t.Fatalf("table start offsets must be non-decreasing, got %v", starts)
		}
		if starts[i] != starts[i-1]+lens[i-1] {
			t.Fatalf("table start offsets must leave no gaps, got %v for table lengths %v", starts, lens)
		}
	}
	if SigIdxMacPrefixStart != 0 {
		t.Fatalf("SigIdxMacPrefixStart = %d, want 0", SigIdxMacPrefixStart)
	}
}

func TestBuiltinRuleDbValid(t *testing.T) {
	if !BuiltinRuleDb.Valid() {
		t.Fatal("BuiltinRuleDb must be valid: every rule span must fit inside the node pool")
	}
}

func TestBuiltinRuleDbNamesAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, r := range BuiltinRuleDb.Rules {
		if seen[r.Name] {
			t.Fatalf("duplicate rule name %q", r.Name)
		}
		seen[r.Name] = true
	}
}
