package persist

import (
	"time"

	"github.com/spf13/viper"
)

// AbsentPolicy decides what is written for a value the host did not supply.
type AbsentPolicy string

const (
	// AbsentClear removes the key so a value from an earlier mount is not read back.
	AbsentClear AbsentPolicy = "clear"
	// AbsentPlaceholder writes Placeholder, matching hosts that stringify a missing value.
	AbsentPlaceholder AbsentPolicy = "placeholder"
)

const Placeholder = "undefined"

type Config struct {
	AbsentPolicy AbsentPolicy  `mapstructure:"absent_policy"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

func Setup(v *viper.Viper, prefix string) {
	p := func(key string) string { return prefix + "." + key }

	v.SetDefault(p("absent_policy"), string(AbsentClear))
	v.SetDefault(p("timeout"), "5s")
}
