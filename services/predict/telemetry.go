package predict

import (
	"autocamp/lib/telemetry"

	"go.opentelemetry.io/otel/metric"
)

var tracer = telemetry.Tracer("autocamp.services.predict")
var meter = telemetry.Meter("autocamp.services.predict")

var sequencesCounter, _ = meter.Int64Counter(
	"sequences_submitted",
	metric.WithDescription("sequences submitted to camp"),
)
var queryDuration, _ = meter.Float64Histogram(
	"query_duration",
	metric.WithDescription("time spent waiting on camp"),
	metric.WithUnit("s"),
)
