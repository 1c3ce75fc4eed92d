package etcd

import (
	"crypto/tls"
	"crypto/x509"
	"os"
	"time"

	"github.com/spf13/viper"
	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/imtaco/meet-embed/internal/errors"
)

const ErrTLSConfig errors.Code = "etcd tls config"

type TLSConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	CAFile             string `mapstructure:"ca_file"`
	CertFile           string `mapstructure:"cert_file"`
	KeyFile            string `mapstructure:"key_file"`
	InsecureSkipVerify bool   `mapstructure:"insecure_skip_verify"`
}

type Config struct {
	Endpoints   []string      `mapstructure:"endpoints"`
	Username    string        `mapstructure:"username"`
	Password    string        `mapstructure:"password"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	KeepAlive   time.Duration `mapstructure:"keepalive"`
	// RequestTimeout bounds every single KV call made through NewKV.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`

	TLS TLSConfig `mapstructure:"tls"`
}

func Setup(v *viper.Viper, prefix string) {
	defaults := map[string]any{
		"endpoints":       []string{"etcd:2379"},
		"username":        "",
		"password":        "",
		"dial_timeout":    "5s",
		"keepalive":       "30s",
		"request_timeout": "3s",

		"tls.enabled":              false,
		"tls.ca_file":              "",
		"tls.cert_file":            "",
		"tls.key_file":             "",
		"tls.insecure_skip_verify": false,
	}
	for k, val := range defaults {
		v.SetDefault(prefix+"."+k, val)
	}
}

func (c Config) BuildClientConfig() (clientv3.Config, error) {
	cfg := clientv3.Config{
		Endpoints:            c.Endpoints,
		Username:             c.Username,
		Password:             c.Password,
		DialTimeout:          c.DialTimeout,
		DialKeepAliveTime:    c.KeepAlive,
		DialKeepAliveTimeout: c.DialTimeout,
	}
	if !c.TLS.Enabled {
		return cfg, nil
	}

	tlsCfg, err := c.TLS.build()
	if err != nil {
		return clientv3.Config{}, err
	}
	cfg.TLS = tlsCfg
	return cfg, nil
}

func (t TLSConfig) build() (*tls.Config, error) {
	out := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: t.InsecureSkipVerify, //nolint:gosec
	}

	if t.CAFile != "" {
		pem, err := os.ReadFile(t.CAFile)
		if err != nil {
			return nil, errors.Wrapf(ErrTLSConfig, err, "read ca_file %s", t.CAFile)
		}
		out.RootCAs = x509.NewCertPool()
		if !out.RootCAs.AppendCertsFromPEM(pem) {
			return nil, errors.Newf(ErrTLSConfig, "no certs in ca_file %s", t.CAFile)
		}
	}

	switch {
	case t.CertFile == "" && t.KeyFile == "":
	case t.CertFile == "" || t.KeyFile == "":
		return nil, errors.New(ErrTLSConfig, "client cert needs both cert_file and key_file")
	default:
		cert, err := tls.LoadX509KeyPair(t.CertFile, t.KeyFile)
		if err != nil {
			return nil, errors.Wrap(ErrTLSConfig, err, "load client cert")
		}
		out.Certificates = []tls.Certificate{cert}
	}
	return out, nil
}

func NewClient(c *Config) (*clientv3.Client, error) {
	cfg, err := c.BuildClientConfig()
	if err != nil {
		return nil, err
	}
	return clientv3.New(cfg)
}
