package rowgroup

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// telemetry.go — lightweight telemetry hook layer for the read-group
// engine, adapted from the original module's internal/telemetry.go no-op-
// by-default emitter pattern. Unlike the original (which defaulted to a
// true no-op to avoid a hard OTEL dependency), this module already carries
// go.uber.org/zap as its logging dependency, so the default emitter logs
// at debug level instead of discarding the measurement.

type telemetryEmitter func(stage string, labels map[string]string, value any)

var (
	teleMu   sync.Mutex
	teleImpl telemetryEmitter = defaultTelemetryEmitter
)

func defaultTelemetryEmitter(stage string, labels map[string]string, value any) {
	fields := make([]zap.Field, 0, len(labels)+1)
	for k, v := range labels {
		fields = append(fields, zap.String(k, v))
	}
	fields = append(fields, zap.Any("value", value))
	zap.S().Desugar().Debug("rowgroup telemetry: "+stage, fields...)
}

// RegisterTelemetryEmitter registers a custom emitter function, e.g. to
// route measurements to a real metrics backend instead of zap.
func RegisterTelemetryEmitter(fn telemetryEmitter) {
	teleMu.Lock()
	defer teleMu.Unlock()
	if fn == nil {
		teleImpl = defaultTelemetryEmitter
		return
	}
	teleImpl = fn
}

// emitKernelLatency records how long a group-by kernel or the filter path
// took to run.
func emitKernelLatency(kernel string, d time.Duration) {
	teleMu.Lock()
	fn := teleImpl
	teleMu.Unlock()
	fn("groupby_kernel_latency", map[string]string{"kernel": kernel}, d.Microseconds())
}

// emitRowsScanned records how many rows a kernel or the filter path
// materialized values for.
func emitRowsScanned(stage string, rows int) {
	teleMu.Lock()
	fn := teleImpl
	teleMu.Unlock()
	fn("rows_scanned", map[string]string{"stage": stage}, rows)
}
