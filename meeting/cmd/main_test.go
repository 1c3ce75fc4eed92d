package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imtaco/meet-embed/internal/kvstore"
	"github.com/imtaco/meet-embed/internal/log"
	"github.com/imtaco/meet-embed/meeting"
	"github.com/imtaco/meet-embed/meeting/display"
	"github.com/imtaco/meet-embed/meeting/persist"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, kvstore.BackendMemory, cfg.KVStore.Backend)
	assert.Equal(t, persist.AbsentClear, cfg.Persist.AbsentPolicy)
	assert.Equal(t, "0.0.0.0:8090", cfg.Http.Addr)
	assert.Equal(t, float64(20), cfg.RateLimit)
	assert.Equal(t, 30*time.Second, cfg.ConnectTimeout)
	assert.Equal(t, 5*time.Second, cfg.KVStore.CacheTTL)
	assert.Equal(t, display.Bitrates{Min: 200, Std: 800, Max: 2000}, cfg.DefaultBitrates)
}

func TestRouterOptions(t *testing.T) {
	t.Setenv("DEFAULT_BITRATES_MAX", "4000")

	cfg, err := loadConfig()
	require.NoError(t, err)

	opts := routerOptions(cfg)
	assert.Equal(t, display.Bitrates{Min: 200, Std: 800, Max: 4000}, opts.DefaultBitrates)
	assert.Equal(t, cfg.App.Name, opts.ServiceName)
	assert.Equal(t, cfg.RateLimit, opts.RateLimit)
}

func TestLoadConfigEnv(t *testing.T) {
	t.Setenv("KVSTORE_BACKEND", "redis")
	t.Setenv("PERSIST_ABSENT_POLICY", "placeholder")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, kvstore.BackendRedis, cfg.KVStore.Backend)
	assert.Equal(t, persist.AbsentPlaceholder, cfg.Persist.AbsentPolicy)
}

func TestOpenStoreRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg, err := loadConfig()
	require.NoError(t, err)
	cfg.KVStore.Backend = kvstore.BackendRedis
	cfg.Redis.Addr = mr.Addr()

	ctx := context.Background()
	store, closeFn, err := openStore(ctx, cfg, log.NewTest(t))
	require.NoError(t, err)
	defer closeFn()

	require.NoError(t, store.SetItem(ctx, meeting.KeyMeetingTitle, "Standup"))
	assert.Equal(t, "Standup", mr.HGet("meet:kv", meeting.KeyMeetingTitle))
}

func TestOpenStoreMemory(t *testing.T) {
	cfg, err := loadConfig()
	require.NoError(t, err)

	store, closeFn, err := openStore(context.Background(), cfg, log.NewTest(t))
	require.NoError(t, err)
	assert.NoError(t, closeFn())
	assert.NotNil(t, store)
}

func TestLoadProps(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "props.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
platform: android
flat:
  room: team-standup
  minBitrate: 100
  stdBitrate: 500
  maxBitrate: 2000
`), 0o600))

	props, err := loadProps(path)
	require.NoError(t, err)
	assert.Equal(t, meeting.PlatformAndroid, props.Platform)
	assert.Equal(t, "team-standup", props.Flat.Room)

	_, err = loadProps(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
