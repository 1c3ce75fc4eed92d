package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/imtaco/meet-embed/internal/config"
	"github.com/imtaco/meet-embed/internal/etcd"
	"github.com/imtaco/meet-embed/internal/httputil"
	"github.com/imtaco/meet-embed/internal/jwt"
	"github.com/imtaco/meet-embed/internal/kvstore"
	"github.com/imtaco/meet-embed/internal/log"
	"github.com/imtaco/meet-embed/internal/otel"
	"github.com/imtaco/meet-embed/internal/redis"
	"github.com/imtaco/meet-embed/internal/retry"
	"github.com/imtaco/meet-embed/internal/workflow"
	"github.com/imtaco/meet-embed/meeting"
	"github.com/imtaco/meet-embed/meeting/display"
	"github.com/imtaco/meet-embed/meeting/engine"
	"github.com/imtaco/meet-embed/meeting/persist"
	"github.com/imtaco/meet-embed/meeting/shell"
	"github.com/imtaco/meet-embed/meeting/transport"
)

type Config struct {
	App            config.App      `mapstructure:"app"`
	Http           httputil.Config `mapstructure:"http"`
	Redis          redis.Config    `mapstructure:"redis"`
	Etcd           etcd.Config     `mapstructure:"etcd"`
	Otel           otel.Config     `mapstructure:"otel"`
	KVStore        kvstore.Config  `mapstructure:"kvstore"`
	Persist        persist.Config  `mapstructure:"persist"`
	JWTSecret      string          `mapstructure:"jwt_secret"`
	RateLimit      float64         `mapstructure:"rate_limit"`
	RateBurst      int             `mapstructure:"rate_burst"`
	AllowedOrigins []string        `mapstructure:"allowed_origins"`
	PropsFile      string          `mapstructure:"props_file"`
	ConnectTimeout time.Duration   `mapstructure:"connect_timeout"`
	// DefaultBitrates answer settings reads until a mount persists real values.
	DefaultBitrates display.Bitrates `mapstructure:"default_bitrates"`
}

func loadConfig() (*Config, error) {
	return config.Load(&Config{}, func(v *viper.Viper) {
		v.SetDefault("jwt_secret", "MY-secret-key-change-in-production")
		v.SetDefault("rate_limit", 20)
		v.SetDefault("rate_burst", 40)
		v.SetDefault("allowed_origins", []string{})
		v.SetDefault("props_file", "")
		v.SetDefault("connect_timeout", 30*time.Second)
		v.SetDefault("default_bitrates.min", 200)
		v.SetDefault("default_bitrates.std", 800)
		v.SetDefault("default_bitrates.max", 2000)

		config.Setup(v, "app")
		redis.Setup(v, "redis")
		etcd.Setup(v, "etcd")
		otel.Setup(v, "otel")
		httputil.Setup(v, "http")
		kvstore.Setup(v, "kvstore")
		persist.Setup(v, "persist")

		// override default addrs to ease testing
		v.SetDefault("http.addr", "0.0.0.0:8090")
	})
}

// openStore connects the configured backend, waiting for it to come up.
// The returned closer releases the backend client.
func openStore(ctx context.Context, cfg *Config, logger *log.Logger) (kvstore.Store, func() error, error) {
	waiter := retry.New(logger.Module("Retry"), 200*time.Millisecond, 5*time.Second, cfg.ConnectTimeout)

	switch cfg.KVStore.Backend {
	case kvstore.BackendRedis:
		client := redis.NewClient(&cfg.Redis)
		if err := waiter.Do(ctx, func() error { return redis.Ping(ctx, client) }); err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return kvstore.NewRedis(client, cfg.KVStore.Prefix, logger.Module("Redis")), client.Close, nil

	case kvstore.BackendEtcd:
		client, err := etcd.NewClient(&cfg.Etcd)
		if err != nil {
			return nil, nil, err
		}
		kv := etcd.NewKV(client, cfg.Etcd.RequestTimeout)
		if err := waiter.Do(ctx, func() error { return etcd.Ping(ctx, kv) }); err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return kvstore.NewEtcd(kv, cfg.KVStore.Prefix, logger.Module("Etcd")), client.Close, nil
	}

	logger.Warn("Using in-memory store, persisted settings are lost on restart")
	return kvstore.NewMemory(), func() error { return nil }, nil
}

func routerOptions(cfg *Config) transport.Options {
	return transport.Options{
		ServiceName:     cfg.App.Name,
		RateLimit:       cfg.RateLimit,
		RateBurst:       cfg.RateBurst,
		AllowedOrigins:  cfg.AllowedOrigins,
		DefaultBitrates: cfg.DefaultBitrates,
	}
}

func loadProps(path string) (*meeting.HostProps, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return meeting.DecodeHostProps(data, meeting.FormatFromPath(path))
}

func main() {
	config, err := loadConfig()
	if err != nil {
		log.Fatal("Failed to load configuration", err)
	}

	logger, err := log.NewLogger(config.App.LogConfigFile)
	if err != nil {
		log.Fatal("Failed to create logger", err)
	}
	defer logger.Sync()

	// global background context
	ctx := context.Background()

	otelShutdown, err := otel.Init(ctx, &config.Otel, logger)
	if err != nil {
		logger.Fatal("Failed to initialize OTEL provider", log.Error(err))
	}

	logger.Info("Starting meet-embed...", log.String("backend", string(config.KVStore.Backend)))

	backend, closeBackend, err := openStore(ctx, config, logger)
	if err != nil {
		logger.Fatal("Failed to open key-value store", log.Error(err))
	}
	store, err := kvstore.WithCache(&config.KVStore, backend)
	if err != nil {
		logger.Fatal("Failed to create store cache", log.Error(err))
	}

	// writes go through the cache so display reads never see a stale value
	persister := persist.New(store, &config.Persist, logger.Module("Persist"))
	reader := display.NewReader(store, logger.Module("Display"))

	hub := transport.NewHub(config.AllowedOrigins, logger.Module("Hub"))
	host := transport.NewHost(
		engine.Factory(logger.Module("Engine")),
		hub,
		logger,
		shell.WithPersister(persister),
	)

	if config.PropsFile != "" {
		props, err := loadProps(config.PropsFile)
		if err != nil {
			logger.Fatal("Failed to load props file", log.String("file", config.PropsFile), log.Error(err))
		}
		sh, err := host.Mount(ctx, props)
		if err != nil {
			logger.Fatal("Failed to mount props file", log.Error(err))
		}
		logger.Info("Mounted props file", log.String("file", config.PropsFile), log.String("shell", sh.ID()))
	}

	jwtAuth := jwt.NewAuth(config.JWTSecret)
	router := transport.NewRouter(host, hub, reader, jwtAuth, routerOptions(config), logger.Module("Router"))
	server := httputil.NewServer(&config.Http, router.Handler())

	// Start HTTP server in goroutine
	go func() {
		logger.Info("Starting REST API server", log.String("addr", config.Http.Addr))
		if err := server.Listen(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start REST API server", log.Error(err))
		}
	}()

	// Graceful shutdown
	cleanup := func(ctx context.Context) {
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Error shutting down REST API server", log.Error(err))
		}
		// let in-flight persistence finish before the backend goes away
		if sh := host.Shell(); sh != nil && sh.Pending() != nil {
			select {
			case <-sh.Pending().Done():
			case <-ctx.Done():
				logger.Warn("Persistence still pending at shutdown")
			}
		}
		host.Unmount(ctx)
		if err := closeBackend(); err != nil {
			logger.Error("Error closing key-value store", log.Error(err))
		}
		if err := otelShutdown(ctx); err != nil {
			logger.Error("Failed to shutdown OTEL", log.Error(err))
		}
	}
	workflow.WaitGracefulShutdown(ctx, logger.Module("CleanUp"), cleanup, config.App.ShutdownTimeout)
}
