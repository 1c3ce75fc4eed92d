package transport

import (
	"go.opentelemetry.io/otel/metric"

	"github.com/imtaco/meet-embed/internal/otel"
)

var (
	rateLimitedTotal  metric.Int64Counter
	authFailuresTotal metric.Int64Counter
	subscribersGauge  metric.Int64UpDownCounter
	eventsTotal       metric.Int64Counter
	eventsDropped     metric.Int64Counter
)

func init() {
	f := otel.NewFactory(otel.MeterName, otel.PrefixTransport)
	f.Int64Counter(&rateLimitedTotal, "rate_limited_total",
		metric.WithDescription("Requests rejected by the limiter"))
	f.Int64Counter(&authFailuresTotal, "auth_failures_total",
		metric.WithDescription("Requests rejected by bearer auth, by reason"))
	f.Int64UpDownCounter(&subscribersGauge, "event_subscribers",
		metric.WithDescription("Open event stream connections"))
	f.Int64Counter(&eventsTotal, "events_total",
		metric.WithDescription("Engine events fanned out to subscribers"))
	f.Int64Counter(&eventsDropped, "events_dropped_total",
		metric.WithDescription("Events dropped for slow subscribers"))
}
