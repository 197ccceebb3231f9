// Command airhound is the device-core entry point. On real hardware
// this would be built for an ESP32-class target with tinygo and real
// radio/transport adapters; the core only specifies a contract for
// those, so this binary wires the portable core to the simulated radios
// and uses stdout as the serial sink, giving a runnable demonstration of the
// ingest -> filter -> emit pipeline end to end.
package main

import (
	"bufio"
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/airhound/airhound/internal/airhound/matcher"
	"github.com/airhound/airhound/internal/airhound/parser/ble"
	"github.com/airhound/airhound/internal/airhound/parser/wifi"
	"github.com/airhound/airhound/internal/airhound/pipeline"
	"github.com/airhound/airhound/internal/airhound/protocol"
	"github.com/airhound/airhound/internal/airhound/state"
	"github.com/airhound/airhound/internal/airhound/transport"
	"github.com/airhound/airhound/internal/airhound/transport/simulated"
	"github.com/airhound/airhound/internal/airhound/types"
)

const (
	boardName = "airhound-sim"
	version   = "0.1.0"
)

func main() {
	board := flag.String("board", boardName, "board identifier string")
	debug := flag.Bool("debug", false, "enable verbose logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	shared := state.New(time.Now().Unix())
	db := matcher.DefaultDb()
	serialOut := bufio.NewWriter(os.Stdout)
	bleNotifier := &simNotifier{}

	p := pipeline.New(shared, db, *board, version, serialWriter{serialOut}, bleNotifier, nil)

	wifiRadio := &simulated.WiFiRadio{Interval: 250 * time.Millisecond}
	bleRadio := &simulated.BleRadio{Interval: 350 * time.Millisecond}

	if err := wifiRadio.Start(func(f transport.WiFiFrame) {
		if ev, ok := wifi.Parse(f.Bytes, f.RSSI, f.Channel); ok {
			p.IngestWiFi(ev)
		}
	}); err != nil {
		logger.Error("wifi radio init failed", "err", err)
	}
	if err := bleRadio.Start(func(a transport.BleAdvertisement) {
		var mac types.MAC
		copy(mac[:], a.Mac[:])
		ev := ble.Parse(mac, a.RSSI, a.RawAD)
		p.IngestBLE(ev)
	}); err != nil {
		logger.Error("ble radio init failed", "err", err)
	}

	go commandStdin(p)

	logger.Info("airhound started", "board", *board, "version", version)
	p.Run(ctx)

	_ = wifiRadio.Stop()
	_ = bleRadio.Stop()
	_ = serialOut.Flush()
}

// serialWriter flushes after every write so NDJSON lines appear on
// stdout immediately instead of waiting for bufio's internal buffer.
type serialWriter struct {
	w *bufio.Writer
}

func (s serialWriter) Write(p []byte) (int, error) {
	n, err := s.w.Write(p)
	if err == nil {
		err = s.w.Flush()
	}
	return n, err
}

// simNotifier is a no-op GattNotifier for the standalone demo binary;
// there is no real BLE central to notify, but wiring a notifier through
// exercises the same fan-out path that a real board would use.
type simNotifier struct{}

func (simNotifier) Notify(chunk []byte) error { return nil }
func (simNotifier) Connected() bool           { return false }

// commandStdin lets a human operator drive the device over stdin, one
// NDJSON command per line, mirroring what a serial/BLE downlink would
// deliver.
func commandStdin(p *pipeline.Pipeline) {
	var reader protocol.LineReader
	buf := make([]byte, 256)
	for {
		n, err := os.Stdin.Read(buf)
		if n > 0 {
			reader.FeedBytes(buf[:n], func(line []byte) {
				if cmd, ok := protocol.ParseCommand(line); ok {
					p.SubmitCommand(cmd)
				}
			})
		}
		if err != nil {
			return
		}
	}
}
