package config

import "github.com/avtoken/avtoken-go/internal/telemetry/logger"

// Sanitize returns a copy of the config that is safe to log.
func Sanitize(cfg *ServerConfig) *ServerConfig {
	sanitized := *cfg
	sanitized.Security.AllowedOrigins = append([]string(nil), cfg.Security.AllowedOrigins...)

	if sanitized.Server.HTTP.TLSKeyFile != "" {
		sanitized.Server.HTTP.TLSKeyFile = logger.MaskSecret(sanitized.Server.HTTP.TLSKeyFile)
	}
	return &sanitized
}
