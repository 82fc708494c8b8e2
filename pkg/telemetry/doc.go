// Package telemetry provides OpenTelemetry metrics and tracing for the
// audio graph engine's control side.
//
// # Overview
//
// The Provider wires an OpenTelemetry meter to a Prometheus exporter and
// exposes typed recording helpers for the engine's control-thread events:
// graph compilations, schedule sends and returns, and node activations.
//
// The audio thread records nothing here. Everything it observes reaches the
// control thread through the message queues first, and the control thread
// does the recording.
//
// # Basic Usage
//
//	provider, err := telemetry.NewProvider(ctx, telemetry.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	defer provider.Shutdown(ctx)
//
//	provider.RecordCompile(ctx, scheduleID, duration, numNodes, numSlots, true)
//
// Metrics are exported in Prometheus format; serve them with
// promhttp.Handler from the embedding application.
package telemetry
