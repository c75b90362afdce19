package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/avtoken/avtoken-go/internal/telemetry/logger"
)

// Normalize folds Port into Addr, splits and trims origins and fills the
// default origins when none are set. It is applied after loading and before
// Verify.
func Normalize(cfg *ServerConfig) {
	h := &cfg.Server.HTTP
	if h.Port != 0 {
		host, _, err := net.SplitHostPort(h.Addr)
		if err != nil {
			host = ""
		}
		h.Addr = net.JoinHostPort(host, strconv.Itoa(h.Port))
		h.Port = 0
	}

	origins := make([]string, 0, len(cfg.Security.AllowedOrigins))
	for _, o := range cfg.Security.AllowedOrigins {
		// A single env value may still carry commas after decoding.
		for _, part := range strings.Split(o, ",") {
			if part = strings.TrimSpace(part); part != "" {
				origins = append(origins, part)
			}
		}
	}
	if len(origins) == 0 {
		origins = append(origins, DefaultAllowedOrigins...)
	}
	cfg.Security.AllowedOrigins = origins

	if cfg.Environment == "" {
		cfg.Environment = DefaultEnvironment
	}
}

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyStorage(&cfg.Storage); err != nil {
		return err
	}
	if err := verifySecurity(&cfg.Security); err != nil {
		return err
	}
	if cfg.Metrics.Enabled {
		p := cfg.Metrics.Path
		if !strings.HasPrefix(p, "/") || p == "/" || strings.HasPrefix(p, "/api/") {
			return fmt.Errorf("metrics.path %q must be an absolute path outside /api", p)
		}
	}
	if _, err := logger.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "", "json", "text", "console":
	default:
		return fmt.Errorf("log.format %q must be json or text", cfg.Log.Format)
	}
	return nil
}

func verifyServer(cfg *ServerSection) error {
	h := cfg.HTTP
	_, port, err := net.SplitHostPort(h.Addr)
	if err != nil {
		return fmt.Errorf("server.http.addr %q: %w", h.Addr, err)
	}
	if n, err := strconv.Atoi(port); err != nil || n < 0 || n > 65535 {
		return fmt.Errorf("server.http.addr %q: invalid port", h.Addr)
	}

	if (h.TLSCertFile == "") != (h.TLSKeyFile == "") {
		return errors.New("server.http.tls_cert_file and tls_key_file must be set together")
	}
	for _, f := range []string{h.TLSCertFile, h.TLSKeyFile} {
		if f == "" {
			continue
		}
		if _, err := os.Stat(f); err != nil {
			return fmt.Errorf("tls file: %w", err)
		}
	}

	if h.ReadTimeout < 0 || h.WriteTimeout < 0 || h.IdleTimeout < 0 {
		return errors.New("server.http timeouts must not be negative")
	}
	if h.MaxBodyBytes <= 0 {
		return errors.New("server.http.max_body_bytes must be positive")
	}
	return nil
}

func verifyStorage(cfg *StorageSection) error {
	if cfg.ConfigFile == "" {
		return errors.New("storage.config_file is required")
	}
	if cfg.StatsFile == "" {
		return errors.New("storage.stats_file is required")
	}
	if cfg.ConfigFile == cfg.StatsFile {
		return errors.New("storage.config_file and storage.stats_file must differ")
	}
	return nil
}

func verifySecurity(cfg *SecuritySection) error {
	if cfg.RateLimit.WindowMS <= 0 {
		return errors.New("security.rate_limit.window_ms must be positive")
	}
	if cfg.RateLimit.MaxRequests <= 0 {
		return errors.New("security.rate_limit.max_requests must be positive")
	}
	return nil
}
