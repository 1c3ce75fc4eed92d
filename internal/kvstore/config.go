package kvstore

import (
	"time"

	"github.com/spf13/viper"
)

type Backend string

const (
	BackendMemory Backend = "memory"
	BackendRedis  Backend = "redis"
	BackendEtcd   Backend = "etcd"
)

type Config struct {
	Backend Backend `mapstructure:"backend"`
	Prefix  string  `mapstructure:"prefix"`
	// CacheSize 0 disables the read cache.
	CacheSize int `mapstructure:"cache_size"`
	// CacheTTL bounds how long a value written by another process may be served stale.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

func Setup(v *viper.Viper, prefix string) {
	p := func(key string) string { return prefix + "." + key }

	v.SetDefault(p("backend"), string(BackendMemory))
	v.SetDefault(p("prefix"), "meet")
	v.SetDefault(p("cache_size"), 64)
	v.SetDefault(p("cache_ttl"), "5s")
}

// WithCache wraps s according to cfg.CacheSize and cfg.CacheTTL.
func WithCache(cfg *Config, s Store) (Store, error) {
	if cfg.CacheSize <= 0 {
		return s, nil
	}
	return NewCached(s, cfg.CacheSize, cfg.CacheTTL)
}
