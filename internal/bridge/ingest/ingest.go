// Package ingest reads the device's NDJSON uplink stream (over a serial
// port or a BLE notification mirror) and republishes decoded messages to
// the bridge's dashboard and session store.
package ingest

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/airhound/airhound/internal/airhound/protocol"
	"github.com/airhound/airhound/internal/bridge/telemetry"
)

// WireMatch mirrors protocol.WireMatch for callers that only need the
// bridge's public surface.
type WireMatch = protocol.WireMatch

// SessionEvent is one decoded DeviceMessage plus bridge-side bookkeeping.
type SessionEvent struct {
	Seq        uint64
	ReceivedAt time.Time
	Message    protocol.DeviceMessage
	RawLine    string
}

// SessionSummary aggregates a session's events for reporting.
type SessionSummary struct {
	Start           time.Time
	End             time.Time
	TotalEvents     int
	MatchKindCounts map[string]int
	RuleCounts      map[string]int
	StrongestRSSI   int8
	WeakestRSSI     int8
}

// Sink receives decoded events. Implemented by the
// dashboard (broadcast) and the session store (persist); both are
// optional.
type Sink interface {
	OnEvent(SessionEvent)
}

// Loop reads NDJSON lines from r, decodes them, and forwards each
// decoded SessionEvent to every sink. Loop returns when r returns an
// error (including ctx cancellation closing the underlying reader) or
// ctx is done.
type Loop struct {
	sinks []Sink
	seq   uint64
}

// NewLoop creates a Loop reporting to the given sinks.
func NewLoop(sinks ...Sink) *Loop {
	return &Loop{sinks: sinks}
}

// Run reads from r until ctx is cancelled (returning ctx.Err()), r
// reaches io.EOF (returning nil, a clean end of stream), or r fails
// (returning that error). Run does not retry.
func (l *Loop) Run(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return err
			}
			return nil
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		msg, err := protocol.Decode(line)
		if err != nil {
			telemetry.EventsDropped.WithLabelValues("decode_error").Inc()
			slog.Debug("ingest: dropping malformed line", "err", err)
			continue
		}

		l.seq++
		ev := SessionEvent{
			Seq:        l.seq,
			ReceivedAt: time.Now(),
			Message:    msg,
			RawLine:    string(line),
		}
		telemetry.EventsIngested.WithLabelValues(string(msg.Type)).Inc()
		for _, sink := range l.sinks {
			sink.OnEvent(ev)
		}
	}
}
