// Package otel provides OpenTelemetry instrumentation for wadesk.
// Exporter wiring is deferred; InitTracer currently returns a no-op shutdown
// so the rest of the code can take spans and metrics unconditionally.
package otel

import (
	"context"
	"log/slog"
)

// ShutdownFunc is called to flush and shut down the trace provider.
type ShutdownFunc func(ctx context.Context) error

// InitTracer returns a no-op shutdown function. An OTLP exporter and
// TracerProvider can be plugged in here without touching call sites.
func InitTracer(serviceName string) ShutdownFunc {
	slog.Info("otel: tracer initialized without exporter", "service", serviceName)
	return func(_ context.Context) error {
		return nil
	}
}
