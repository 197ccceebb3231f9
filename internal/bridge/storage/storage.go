// Package storage persists SessionEvents via GORM + the sqlite driver.
// The device core itself never touches a filesystem; this is the
// companion bridge process logging what it saw.
package storage

import (
	"context"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/airhound/airhound/internal/bridge/ingest"
)

// EventRow is the GORM model for one logged SessionEvent.
type EventRow struct {
	ID         uint `gorm:"primarykey"`
	Seq        uint64
	ReceivedAt time.Time
	Type       string
	Mac        string
	RuleName   string
	MatchKinds string // comma-joined filter_kind list, for quick aggregation
	RSSI       int8
	RawJSON    string
}

// Store wraps a GORM DB handle.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if needed) the sqlite database at path and
// migrates the schema.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&EventRow{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Record writes one SessionEvent. A write failure is logged by the
// caller and does not block live fan-out; Record itself just reports
// the error and does not retry.
func (s *Store) Record(ctx context.Context, ev ingest.SessionEvent) error {
	row := EventRow{
		Seq:        ev.Seq,
		ReceivedAt: ev.ReceivedAt,
		Type:       string(ev.Message.Type),
		Mac:        ev.Message.Mac,
		RuleName:   ev.Message.Rule,
		MatchKinds: joinMatchKinds(ev.Message.Matches),
		RSSI:       ev.Message.RSSI,
		RawJSON:    ev.RawLine,
	}
	return s.db.WithContext(ctx).Create(&row).Error
}

func joinMatchKinds(matches []ingest.WireMatch) string {
	if len(matches) == 0 {
		return ""
	}
	out := matches[0].Kind
	for _, m := range matches[1:] {
		out += "," + m.Kind
	}
	return out
}

// Summary aggregates every logged event into a SessionSummary.
func (s *Store) Summary(ctx context.Context) (ingest.SessionSummary, error) {
	var rows []EventRow
	if err := s.db.WithContext(ctx).Order("seq asc").Find(&rows).Error; err != nil {
		return ingest.SessionSummary{}, err
	}

	summary := ingest.SessionSummary{
		MatchKindCounts: make(map[string]int),
		RuleCounts:      make(map[string]int),
	}
	for i, r := range rows {
		if i == 0 {
			summary.Start = r.ReceivedAt
			summary.StrongestRSSI = r.RSSI
			summary.WeakestRSSI = r.RSSI
		}
		summary.End = r.ReceivedAt
		summary.TotalEvents++
		if r.RSSI > summary.StrongestRSSI {
			summary.StrongestRSSI = r.RSSI
		}
		if r.RSSI < summary.WeakestRSSI {
			summary.WeakestRSSI = r.RSSI
		}
		if r.RuleName != "" {
			summary.RuleCounts[r.RuleName]++
		}
		for _, kind := range splitMatchKinds(r.MatchKinds) {
			summary.MatchKindCounts[kind]++
		}
	}
	return summary, nil
}

func splitMatchKinds(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return out
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
