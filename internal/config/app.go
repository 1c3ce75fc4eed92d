package config

import (
	"time"

	"github.com/spf13/viper"
)

// App holds process-level settings of the daemon.
type App struct {
	// Name tags HTTP spans and the otel service unless overridden there.
	Name string `mapstructure:"name"`
	// LogConfigFile is a zap JSON config; empty selects the env-driven logger.
	LogConfigFile   string        `mapstructure:"log_config_file"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

func Setup(v *viper.Viper, prefix string) {
	defaults := map[string]any{
		"name":             "meet-embed",
		"log_config_file":  "",
		"shutdown_timeout": "10s",
	}
	for k, val := range defaults {
		v.SetDefault(prefix+"."+k, val)
	}
}
