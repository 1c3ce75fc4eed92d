package shell

import (
	"go.opentelemetry.io/otel/metric"

	"github.com/imtaco/meet-embed/internal/otel"
)

var (
	mountsTotal      metric.Int64Counter
	teardownsTotal   metric.Int64Counter
	mountedGauge     metric.Int64UpDownCounter
	mountedDurationS metric.Float64Histogram
)

func init() {
	f := otel.NewFactory(otel.MeterName, otel.PrefixShell)
	f.Int64Counter(&mountsTotal, "mounts_total",
		metric.WithDescription("Mount attempts by result"))
	f.Int64Counter(&teardownsTotal, "teardowns_total",
		metric.WithDescription("Teardowns, labeled by whether navigate-away was dispatched"))
	f.Int64UpDownCounter(&mountedGauge, "mounted",
		metric.WithDescription("Shells currently mounted"))
	f.Float64Histogram(&mountedDurationS, "mounted_duration_seconds",
		metric.WithDescription("Time between mount and teardown"),
		metric.WithUnit("s"))
}
