package persist

import (
	"go.opentelemetry.io/otel/metric"

	"github.com/imtaco/meet-embed/internal/otel"
)

var (
	writesTotal   metric.Int64Counter
	failuresTotal metric.Int64Counter
	clearedTotal  metric.Int64Counter
)

func init() {
	f := otel.NewFactory(otel.MeterName, otel.PrefixPersist)
	f.Int64Counter(&writesTotal, "writes_total",
		metric.WithDescription("Keys written to the durable store"))
	f.Int64Counter(&failuresTotal, "failures_total",
		metric.WithDescription("Key writes that failed"))
	f.Int64Counter(&clearedTotal, "cleared_total",
		metric.WithDescription("Keys removed because the host supplied no value"))
}
