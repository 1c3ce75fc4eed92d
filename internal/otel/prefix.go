package otel

// Metric prefixes per component; each component defines its own metric names.
const (
	MeterName = "github.com/imtaco/meet-embed"

	PrefixPersist   = "meet_persist"
	PrefixBridge    = "meet_bridge"
	PrefixShell     = "meet_shell"
	PrefixTransport = "meet_api"
)
