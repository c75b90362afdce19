package config

import "time"

// Default configuration values.
const (
	DefaultHTTPAddr     = ":3000"
	DefaultReadTimeout  = 15 * time.Second
	DefaultWriteTimeout = 15 * time.Second
	DefaultIdleTimeout  = 60 * time.Second
	DefaultMaxBodyBytes = 1 << 20

	DefaultConfigFile = "config.json"
	DefaultStatsFile  = "stats.json"

	DefaultRateLimitWindowMS    = 15 * 60 * 1000
	DefaultRateLimitMaxRequests = 100

	DefaultMetricsPath = "/metrics"

	DefaultLogLevel    = "info"
	DefaultLogFormat   = "json"
	DefaultEnvironment = "development"
)

// DefaultAllowedOrigins are the origins accepted when none are configured.
// Default leaves the list empty so a configured list replaces rather than
// overlays it; Normalize fills it in.
var DefaultAllowedOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}

// LegacyEnvAliases maps the unprefixed variables of earlier deployments onto
// configuration keys. They win over AVTOKEN_ variables.
var LegacyEnvAliases = map[string]string{
	"PORT":                    "server.http.port",
	"ALLOWED_ORIGINS":         "security.allowed_origins",
	"RATE_LIMIT_WINDOW_MS":    "security.rate_limit.window_ms",
	"RATE_LIMIT_MAX_REQUESTS": "security.rate_limit.max_requests",
	"NODE_ENV":                "environment",
}

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			HTTP: HTTPConfig{
				Addr:         DefaultHTTPAddr,
				ReadTimeout:  DefaultReadTimeout,
				WriteTimeout: DefaultWriteTimeout,
				IdleTimeout:  DefaultIdleTimeout,
				MaxBodyBytes: DefaultMaxBodyBytes,
			},
		},
		Storage: StorageSection{
			ConfigFile: DefaultConfigFile,
			StatsFile:  DefaultStatsFile,
		},
		Security: SecuritySection{
			RateLimit: RateLimitConfig{
				WindowMS:    DefaultRateLimitWindowMS,
				MaxRequests: DefaultRateLimitMaxRequests,
			},
		},
		Metrics: MetricsSection{
			Enabled: true,
			Path:    DefaultMetricsPath,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Environment: DefaultEnvironment,
	}
}
