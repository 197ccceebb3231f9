// Package pipeline wires the ingest -> filter -> emit -> fan-out tasks
// over a set of fixed-capacity channels, plus the status and command
// tasks. Producers from driver/callback context and the filter task use
// try-send exclusively, never a blocking send, so a radio callback can
// never stall.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/airhound/airhound/internal/airhound/matcher"
	"github.com/airhound/airhound/internal/airhound/protocol"
	"github.com/airhound/airhound/internal/airhound/state"
	"github.com/airhound/airhound/internal/airhound/transport"
	"github.com/airhound/airhound/internal/airhound/types"
)

const (
	scanChanCap   = 16
	outChanCap    = 8
	bleOutChanCap = 4
	cmdChanCap    = 4
	buzzerChanCap = 1

	statusInterval    = 30 * time.Second
	bleNotifyWindow   = 20
	bleNotifyPoll     = 100 * time.Millisecond
	bleAdvertiseBackoff = 250 * time.Millisecond
)

// scanEvent is the sum type carried on the scan channel: exactly one of
// WiFi or Ble is populated.
type scanEvent struct {
	wifi    *types.WiFiEvent
	ble     *types.BleEvent
}

// Pipeline owns the channels and the device clock; Run starts every
// task and blocks until ctx is cancelled.
type Pipeline struct {
	shared *state.Shared
	db     matcher.Db
	board  string
	version string

	clock func() uint32 // millis since boot, injected for deterministic tests

	scan    chan scanEvent
	out     chan []byte
	bleOut  chan []byte
	cmd     chan protocol.Command
	buzzer  chan struct{}

	serial Serial
	ble    transport.GattNotifier

	bleConn ConnStateCell
}

// Serial is the narrowed serial contract the emit task needs: write the
// already-NDJSON-terminated buffer.
type Serial interface {
	Write(p []byte) (int, error)
}

// New constructs a Pipeline. clock returns milliseconds since boot; pass
// nil to use a wall-clock-derived default.
func New(shared *state.Shared, db matcher.Db, board, version string, serial Serial, ble transport.GattNotifier, clock func() uint32) *Pipeline {
	if clock == nil {
		start := time.Now()
		clock = func() uint32 { return uint32(time.Since(start).Milliseconds()) }
	}
	return &Pipeline{
		shared:  shared,
		db:      db,
		board:   board,
		version: version,
		clock:   clock,
		scan:    make(chan scanEvent, scanChanCap),
		out:     make(chan []byte, outChanCap),
		bleOut:  make(chan []byte, bleOutChanCap),
		cmd:     make(chan protocol.Command, cmdChanCap),
		buzzer:  make(chan struct{}, buzzerChanCap),
		serial:  serial,
		ble:     ble,
	}
}

// IngestWiFi is the Wi-Fi ingest callback's entry point: called from
// radio/driver context, it must never block. A full scan channel drops
// the event.
func (p *Pipeline) IngestWiFi(ev types.WiFiEvent) {
	select {
	case p.scan <- scanEvent{wifi: &ev}:
	default:
	}
}

// IngestBLE is the BLE ingest callback's entry point; same contract as
// IngestWiFi.
func (p *Pipeline) IngestBLE(ev types.BleEvent) {
	select {
	case p.scan <- scanEvent{ble: &ev}:
	default:
	}
}

// SubmitCommand enqueues a parsed host command; called by whatever reads
// the downlink (serial RX, GATT RX) after running it through
// protocol.LineReader + protocol.ParseCommand. Try-send: a full command
// channel drops the command.
func (p *Pipeline) SubmitCommand(c protocol.Command) {
	select {
	case p.cmd <- c:
	default:
	}
}

// Run starts the filter, emit, status, and command tasks and blocks
// until ctx is cancelled. The caller is responsible for starting the
// radio drivers and routing their callbacks to IngestWiFi/IngestBLE.
func (p *Pipeline) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(4)
	go func() { defer wg.Done(); p.filterTask(ctx) }()
	go func() { defer wg.Done(); p.emitTask(ctx) }()
	go func() { defer wg.Done(); p.statusTask(ctx) }()
	go func() { defer wg.Done(); p.commandTask(ctx) }()
	if p.ble != nil {
		wg.Add(1)
		go func() { defer wg.Done(); p.bleNotifyTask(ctx) }()
	}
	wg.Wait()
}

// filterTask dequeues scan events, runs the matcher + rule engine, and
// on a match serializes a DeviceMessage onto the out channel.
func (p *Pipeline) filterTask(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-p.scan:
			if !p.shared.Scanning() {
				continue
			}
			cfg := p.shared.FilterConfig()

			var result matcher.Result
			var msg protocol.DeviceMessage
			switch {
			case ev.wifi != nil:
				result = matcher.MatchWiFi(p.db, *ev.wifi, cfg)
				if !result.Matched {
					continue
				}
				p.shared.IncWiFiMatches()
				msg = protocol.NewWiFiMessage(*ev.wifi, result, p.clock())
			case ev.ble != nil:
				result = matcher.MatchBLE(p.db, *ev.ble, cfg)
				if !result.Matched {
					continue
				}
				p.shared.IncBleMatches()
				msg = protocol.NewBleMessage(*ev.ble, result, "", p.clock())
			default:
				continue
			}

			if result.Matches.Len() > 0 {
				p.shared.SetLastMatch(result.Matches.At(0).Detail)
			}

			select {
			case p.buzzer <- struct{}{}:
			default:
			}

			var buf [types.MsgBufferCap]byte
			encoded, err := protocol.Encode(buf[:], msg)
			if err != nil {
				continue
			}
			out := append([]byte(nil), encoded...)
			select {
			case p.out <- out:
			default:
			}
		}
	}
}

// emitTask dequeues out-messages, mirrors them to the BLE-notify channel
// (best-effort), and writes them to the serial sink.
func (p *Pipeline) emitTask(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-p.out:
			mirror := append([]byte(nil), msg...)
			select {
			case p.bleOut <- mirror:
			default:
			}
			if p.serial != nil {
				_, _ = p.serial.Write(msg)
			}
		}
	}
}

// bleNotifyTask chunks mirrored messages into fixed 20-byte notification
// windows, right-padding short chunks with '\n'. It polls its source
// with a short timeout so it can observe the client count dropping to
// zero and stop notifying without blocking forever.
func (p *Pipeline) bleNotifyTask(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-p.bleOut:
			p.observeBleConn()
			if !p.ble.Connected() {
				continue
			}
			for i := 0; i < len(msg); i += bleNotifyWindow {
				end := i + bleNotifyWindow
				var chunk [bleNotifyWindow]byte
				if end > len(msg) {
					n := copy(chunk[:], msg[i:])
					for j := n; j < bleNotifyWindow; j++ {
						chunk[j] = '\n'
					}
				} else {
					copy(chunk[:], msg[i:end])
				}
				if err := p.ble.Notify(chunk[:]); err != nil {
					// GATT I/O error: abort this connection's notify
					// loop and let the state machine re-advertise after
					// a short backoff.
					time.Sleep(bleAdvertiseBackoff)
					break
				}
			}
		case <-time.After(bleNotifyPoll):
			// Idle poll tick: lets this task observe ctx.Done()/client
			// disconnects promptly even with no traffic.
			p.observeBleConn()
		}
	}
}

// observeBleConn samples the notifier's live connection flag and drives
// the connection state machine, updating the shared client count only
// on an actual Advertising/Connecting <-> Connected transition instead
// of on every poll tick.
func (p *Pipeline) observeBleConn() {
	if p.ble.Connected() {
		if p.bleConn.OnConnect() {
			p.shared.IncBleClients()
		}
	} else if p.bleConn.OnDisconnect() {
		p.shared.DecBleClients()
	}
}

// statusTask emits a fresh Status message every 30 seconds.
func (p *Pipeline) statusTask(ctx context.Context) {
	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.emitStatus()
		}
	}
}

func (p *Pipeline) emitStatus() {
	msg := protocol.NewStatusMessage(
		p.shared.Scanning(),
		uint32(p.clock()/1000),
		0, // heap_free: meaningless on a host; boards report their real free heap
		p.shared.BleClients(),
		p.board,
		p.version,
	)
	var buf [types.MsgBufferCap]byte
	encoded, err := protocol.Encode(buf[:], msg)
	if err != nil {
		return
	}
	out := append([]byte(nil), encoded...)
	select {
	case p.out <- out:
	default:
	}
}

// commandTask dequeues commands and applies them to the shared
// config/scanning/buzzer state.
func (p *Pipeline) commandTask(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-p.cmd:
			switch c.Cmd {
			case "start":
				p.shared.SetScanning(true)
			case "stop":
				p.shared.SetScanning(false)
			case "status":
				p.emitStatus()
			case "set_rssi":
				if c.HasRSSI {
					p.shared.SetMinRSSI(c.MinRSSI)
				}
			case "set_buzzer":
				if c.HasEnabled {
					p.shared.SetBuzzerEnabled(c.Enabled)
				}
			}
		}
	}
}
