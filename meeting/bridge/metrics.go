package bridge

import (
	"go.opentelemetry.io/otel/metric"

	"github.com/imtaco/meet-embed/internal/otel"
)

var (
	operationsTotal metric.Int64Counter
	notReadyTotal   metric.Int64Counter
)

func init() {
	f := otel.NewFactory(otel.MeterName, otel.PrefixBridge)
	f.Int64Counter(&operationsTotal, "operations_total",
		metric.WithDescription("Imperative operations forwarded to the engine"))
	f.Int64Counter(&notReadyTotal, "not_ready_total",
		metric.WithDescription("Imperative operations rejected because no engine was attached"))
}
