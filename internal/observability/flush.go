package observability

import "go.uber.org/zap"

// FlushTelemetry drains buffered log output before process exit. Prometheus is
// pull-based so metrics need no flush. Best effort: Sync on stderr can fail in
// some environments and shutdown proceeds regardless.
func FlushTelemetry(logger *zap.Logger) {
	if logger != nil {
		_ = logger.Sync()
	}
}
