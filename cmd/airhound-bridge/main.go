// Command airhound-bridge is the companion-app host process: it reads
// the device's NDJSON uplink over a serial port, persists and serves a
// live dashboard over it, and writes operator commands back down the
// same link.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"go.bug.st/serial"

	"github.com/airhound/airhound/internal/airhound/protocol"
	"github.com/airhound/airhound/internal/bridge/auth"
	"github.com/airhound/airhound/internal/bridge/ingest"
	"github.com/airhound/airhound/internal/bridge/reporting"
	"github.com/airhound/airhound/internal/bridge/server"
	"github.com/airhound/airhound/internal/bridge/storage"
	"github.com/airhound/airhound/internal/bridge/telemetry"
)

func main() {
	port := flag.String("port", "/dev/ttyUSB0", "serial port the device is attached to")
	baud := flag.Int("baud", 115200, "serial baud rate")
	addr := flag.String("addr", ":8090", "dashboard listen address")
	dbPath := flag.String("db", "airhound-session.db", "sqlite session database path")
	password := flag.String("password", "", "operator dashboard password; empty disables auth-gated routes")
	board := flag.String("board", "airhound", "board label used in reports")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	shutdownTracer, err := telemetry.InitTracer("airhound-bridge", "0.1.0")
	if err != nil {
		logger.Error("tracer init failed", "err", err)
		os.Exit(1)
	}
	defer shutdownTracer(context.Background())
	telemetry.Register()

	store, err := storage.Open(*dbPath)
	if err != nil {
		logger.Error("session store open failed", "err", err)
		os.Exit(1)
	}
	defer store.Close()

	var guard *auth.Guard
	if *password != "" {
		guard, err = auth.NewGuard(*password)
		if err != nil {
			logger.Error("auth guard init failed", "err", err)
			os.Exit(1)
		}
	}

	mode := &serial.Mode{BaudRate: *baud}
	link, err := serial.Open(*port, mode)
	if err != nil {
		logger.Error("serial port open failed", "port", *port, "err", err)
		os.Exit(1)
	}
	defer link.Close()

	dashboard := server.New(*addr, guard, store, reporting.NewExporter(), *board, serialCommandSink{link})
	loop := ingest.NewLoop(storeSink{store, logger}, dashboard)

	go func() {
		if err := loop.Run(ctx, link); err != nil {
			logger.Error("ingest loop ended", "err", err)
		}
	}()

	logger.Info("airhound-bridge started", "port", *port, "addr", *addr)
	if err := dashboard.Run(ctx); err != nil {
		logger.Error("dashboard server ended", "err", err)
		os.Exit(1)
	}
}

// serialCommandSink encodes a Command and writes it straight to the
// serial link, mirroring the device's own downlink framing.
type serialCommandSink struct {
	w serial.Port
}

func (s serialCommandSink) SendCommand(cmd protocol.Command) error {
	raw, err := protocol.EncodeCommand(cmd)
	if err != nil {
		return err
	}
	_, err = s.w.Write(raw)
	return err
}

// storeSink adapts *storage.Store to ingest.Sink, logging (rather than
// failing the live event path) on a write error.
type storeSink struct {
	store  *storage.Store
	logger *slog.Logger
}

func (s storeSink) OnEvent(ev ingest.SessionEvent) {
	if err := s.store.Record(context.Background(), ev); err != nil {
		s.logger.Error("session store write failed", "err", err)
	}
}
