package telemetry

import (
	"context"
	"log/slog"
	"runtime"

	"github.com/shirou/gopsutil/v4/cpu"
)

var perfMeter = Meter("autocamp.perf_stats")
var cpuGauge, _ = perfMeter.Float64Gauge("cpu_usage")
var memoryGauge, _ = perfMeter.Int64Gauge("allocated_mb")
var goroutineGauge, _ = perfMeter.Int64Gauge("goroutine_count")

// RecordProcessStats records a single sample of cpu and memory usage,
// it is meant to be called once at the end of a run.
func RecordProcessStats(ctx context.Context) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	cpuUsage, err := cpu.PercentWithContext(ctx, 0, false)
	if err == nil && len(cpuUsage) > 0 {
		cpuGauge.Record(ctx, cpuUsage[0])
	} else if err != nil {
		slog.DebugContext(ctx, "failed to read cpu usage", "err", err)
	}

	allocated := int64(memStats.Alloc / 1_000_000)
	memoryGauge.Record(ctx, allocated)
	goroutineGauge.Record(ctx, int64(runtime.NumGoroutine()))

	slog.DebugContext(ctx, "process stats", "allocated_mb", allocated, "cpu", cpuUsage)
}
