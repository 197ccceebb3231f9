// Package telemetry wires OpenTelemetry tracing and Prometheus counters
// for the bridge process.
package telemetry

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"
)

var (
	// EventsIngested counts DeviceMessages the bridge ingest loop decoded
	// successfully, by message type.
	EventsIngested = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "airhound",
			Name:      "events_ingested_total",
			Help:      "Total number of DeviceMessages ingested by the bridge",
		},
		[]string{"type"},
	)

	// EventsDropped counts lines the bridge ingest loop could not decode.
	EventsDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "airhound",
			Name:      "events_dropped_total",
			Help:      "Total number of malformed lines dropped by the bridge ingest loop",
		},
		[]string{"reason"},
	)

	// WebSocketClients tracks the current number of connected dashboard
	// WebSocket clients.
	WebSocketClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "airhound",
			Name:      "websocket_clients",
			Help:      "Current number of connected dashboard WebSocket clients",
		},
	)

	registerOnce sync.Once
)

// Register registers the bridge's metrics with the default Prometheus
// registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(EventsIngested, EventsDropped, WebSocketClients)
	})
}

// InitTracer sets up a stdout exporter for development, a resource
// describing this service, and the global TracerProvider/propagator
// wiring. Returns a shutdown func for the caller to defer.
func InitTracer(serviceName, serviceVersion string) (func(context.Context) error, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}
