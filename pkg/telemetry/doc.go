// Package telemetry provides logging, tracing and metrics for inventory runs.
//
// Logging uses zerolog and always writes to stderr or a file, never stdout.
// Tracing uses OpenTelemetry with a none, stdout (written to stderr) or OTLP
// gRPC exporter. Metrics use a private Prometheus registry that is written
// once per run as a node_exporter textfile:
//
//	cfg := telemetry.DefaultConfig()
//	cfg.Metrics.TextfilePath = "/var/lib/node_exporter/inventory.prom"
//
//	metrics := telemetry.NewMetrics(cfg.Metrics)
//	metrics.SetGraphSize(12, 40)
//	if err := metrics.WriteTextfile(); err != nil {
//	    return err
//	}
package telemetry
