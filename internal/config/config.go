package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

// ConfigFileEnv names an optional yaml/json/toml file merged under env overrides.
const ConfigFileEnv = "CONFIG_FILE"

func NewViper() *viper.Viper {
	v := viper.New()

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("")
	v.AutomaticEnv()

	return v
}

func Load[T any](c *T, configure func(v *viper.Viper)) (*T, error) {
	v := NewViper()
	configure(v)

	if file := os.Getenv(ConfigFileEnv); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}
	return c, v.Unmarshal(c)
}
