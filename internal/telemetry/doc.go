// Package telemetry wires OpenTelemetry tracing and metrics for creatived.
//
// Spans and metrics are exported over OTLP (gRPC or HTTP) to a collector.
// When telemetry is disabled the global no-op providers stay in place, so
// instrumented packages can call otel.Tracer unconditionally.
//
//	tel, err := telemetry.New(ctx, &cfg.Telemetry)
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(context.Background())
//
// Tests use NewTestTelemetry to record spans in memory.
package telemetry
