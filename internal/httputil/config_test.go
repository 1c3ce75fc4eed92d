package httputil

import (
	"net/http"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupDefaults(t *testing.T) {
	v := viper.New()
	Setup(v, "http")

	var cfg Config
	require.NoError(t, v.UnmarshalKey("http", &cfg))
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 5*time.Second, cfg.ReadHeaderTimeout)
	assert.False(t, cfg.TLS.Enabled)

	srv := NewServer(&cfg, http.NotFoundHandler())
	assert.Equal(t, 5*time.Second, srv.ReadHeaderTimeout)
}

func TestListenTLSNeedsFiles(t *testing.T) {
	cfg := &Config{Addr: "127.0.0.1:0", TLS: TLSConfig{Enabled: true, CertFile: "cert.pem"}}
	err := NewServer(cfg, http.NotFoundHandler()).Listen()
	assert.ErrorContains(t, err, "cert_file or key_file")
}
