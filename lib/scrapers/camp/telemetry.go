package camp

import (
	"autocamp/lib/telemetry"
)

var tracer = telemetry.Tracer("autocamp.lib.scrapers.camp")

var reporter telemetry.API = telemetry.NewScopedAPI("camp", telemetry.SlogAPI{})

// SetReporter replaces where parser warnings are reported.
func SetReporter(api telemetry.API) {
	reporter = telemetry.NewScopedAPI("camp", api)
}
