package otel

import (
	"time"

	"github.com/spf13/viper"
)

// Config covers both OTLP pipelines; they share one collector endpoint.
type Config struct {
	ServiceName    string            `mapstructure:"service_name"`
	ServiceVersion string            `mapstructure:"service_version"`
	Attributes     map[string]string `mapstructure:"attributes"`

	Endpoint string        `mapstructure:"endpoint"`
	Insecure bool          `mapstructure:"insecure"`
	Timeout  time.Duration `mapstructure:"timeout"`

	Traces  TracesConfig  `mapstructure:"traces"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type TracesConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// SampleRatio >= 1 samples everything, <= 0 nothing.
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

type MetricsConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
	Runtime  bool          `mapstructure:"runtime"`
}

func Setup(v *viper.Viper, prefix string) {
	p := func(key string) string { return prefix + "." + key }

	v.SetDefault(p("service_name"), "meet-embed")
	v.SetDefault(p("service_version"), "dev")
	v.SetDefault(p("attributes"), map[string]string{})
	v.SetDefault(p("endpoint"), "localhost:4317")
	v.SetDefault(p("insecure"), true)
	v.SetDefault(p("timeout"), "10s")

	v.SetDefault(p("traces.enabled"), false)
	v.SetDefault(p("traces.sample_ratio"), 1.0)

	v.SetDefault(p("metrics.enabled"), false)
	v.SetDefault(p("metrics.interval"), "30s")
	v.SetDefault(p("metrics.runtime"), false)
}
