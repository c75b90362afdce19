package config

import "time"

// ServerConfig is the root configuration for avtoken-server.
type ServerConfig struct {
	Server      ServerSection   `koanf:"server"`
	Storage     StorageSection  `koanf:"storage"`
	Security    SecuritySection `koanf:"security"`
	Metrics     MetricsSection  `koanf:"metrics"`
	Log         LogSection      `koanf:"log"`
	Environment string          `koanf:"environment"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	HTTP HTTPConfig `koanf:"http"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr string `koanf:"addr"`
	// Port, when set, replaces the port of Addr. It exists for the PORT
	// variable of older deployments.
	Port         int           `koanf:"port"`
	TLSCertFile  string        `koanf:"tls_cert_file"`
	TLSKeyFile   string        `koanf:"tls_key_file"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`
	MaxBodyBytes int64         `koanf:"max_body_bytes"`
	// TrustProxy takes the client address from X-Forwarded-For. Enable it
	// only behind a reverse proxy that overwrites the header.
	TrustProxy bool `koanf:"trust_proxy"`
}

// TLSEnabled reports whether both certificate and key are configured.
func (c HTTPConfig) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

// StorageSection locates the two persisted records.
type StorageSection struct {
	ConfigFile  string `koanf:"config_file"`
	StatsFile   string `koanf:"stats_file"`
	WatchConfig bool   `koanf:"watch_config"`
}

// SecuritySection configures request filtering and secret handling.
type SecuritySection struct {
	// AllowedOrigins lists CORS origins; "*" allows any. A comma separated
	// string is accepted from the environment.
	AllowedOrigins  []string        `koanf:"allowed_origins"`
	RateLimit       RateLimitConfig `koanf:"rate_limit"`
	HashAdminSecret bool            `koanf:"hash_admin_secret"`
}

// RateLimitConfig is a fixed per-client budget over a window.
type RateLimitConfig struct {
	WindowMS    int64 `koanf:"window_ms"`
	MaxRequests int   `koanf:"max_requests"`
}

// Window returns the window as a duration.
func (c RateLimitConfig) Window() time.Duration {
	return time.Duration(c.WindowMS) * time.Millisecond
}

// MetricsSection configures the Prometheus endpoint.
type MetricsSection struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
