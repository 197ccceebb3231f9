package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/airhound/airhound/internal/bridge/ingest"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndSummary(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	ev1 := ingest.SessionEvent{
		Seq:        1,
		ReceivedAt: base,
		RawLine:    `{"type":"wifi"}`,
	}
	ev1.Message.Type = "wifi"
	ev1.Message.Mac = "AA:BB:CC:DD:EE:FF"
	ev1.Message.RSSI = -40
	ev1.Message.Rule = "Flock Safety Camera"
	ev1.Message.Matches = []ingest.WireMatch{{Kind: "mac_oui", Detail: "Flock Safety"}}

	ev2 := ingest.SessionEvent{
		Seq:        2,
		ReceivedAt: base.Add(time.Minute),
		RawLine:    `{"type":"ble"}`,
	}
	ev2.Message.Type = "ble"
	ev2.Message.Mac = "11:22:33:44:55:66"
	ev2.Message.RSSI = -70
	ev2.Message.Rule = "Apple AirTag"
	ev2.Message.Matches = []ingest.WireMatch{
		{Kind: "ble_mfr", Detail: "Apple Inc."},
		{Kind: "ble_ad_bytes", Detail: "AirTag payload"},
	}

	if err := store.Record(ctx, ev1); err != nil {
		t.Fatalf("Record(ev1): %v", err)
	}
	if err := store.Record(ctx, ev2); err != nil {
		t.Fatalf("Record(ev2): %v", err)
	}

	summary, err := store.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.TotalEvents != 2 {
		t.Fatalf("TotalEvents = %d, want 2", summary.TotalEvents)
	}
	if !summary.Start.Equal(base) {
		t.Fatalf("Start = %v, want %v", summary.Start, base)
	}
	if summary.StrongestRSSI != -40 || summary.WeakestRSSI != -70 {
		t.Fatalf("RSSI range = [%d, %d], want [-70, -40]", summary.WeakestRSSI, summary.StrongestRSSI)
	}
	if summary.RuleCounts["Flock Safety Camera"] != 1 || summary.RuleCounts["Apple AirTag"] != 1 {
		t.Fatalf("RuleCounts = %v", summary.RuleCounts)
	}
	if summary.MatchKindCounts["ble_mfr"] != 1 || summary.MatchKindCounts["ble_ad_bytes"] != 1 {
		t.Fatalf("MatchKindCounts = %v", summary.MatchKindCounts)
	}
}

func TestSummaryOnEmptyStore(t *testing.T) {
	store := openTestStore(t)
	summary, err := store.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.TotalEvents != 0 {
		t.Fatalf("TotalEvents = %d, want 0", summary.TotalEvents)
	}
}

func TestJoinAndSplitMatchKindsRoundTrip(t *testing.T) {
	matches := []ingest.WireMatch{{Kind: "mac_oui"}, {Kind: "ssid_keyword"}, {Kind: "ble_mfr"}}
	joined := joinMatchKinds(matches)
	if joined != "mac_oui,ssid_keyword,ble_mfr" {
		t.Fatalf("joinMatchKinds = %q", joined)
	}
	split := splitMatchKinds(joined)
	if len(split) != 3 || split[0] != "mac_oui" || split[2] != "ble_mfr" {
		t.Fatalf("splitMatchKinds = %v", split)
	}
}

func TestSplitMatchKindsEmpty(t *testing.T) {
	if split := splitMatchKinds(""); split != nil {
		t.Fatalf("splitMatchKinds(\"\") = %v, want nil", split)
	}
}
