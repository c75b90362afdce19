package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/avtoken/avtoken-go/internal/core/service"
	"github.com/avtoken/avtoken-go/internal/infra/agora"
	"github.com/avtoken/avtoken-go/internal/infra/buildinfo"
	"github.com/avtoken/avtoken-go/internal/infra/confloader"
	"github.com/avtoken/avtoken-go/internal/infra/shutdown"
	"github.com/avtoken/avtoken-go/internal/server/config"
	"github.com/avtoken/avtoken-go/internal/server/httpserver"
	"github.com/avtoken/avtoken-go/internal/server/httpserver/handler"
	"github.com/avtoken/avtoken-go/internal/storage"
	"github.com/avtoken/avtoken-go/internal/telemetry/logger"
	"github.com/avtoken/avtoken-go/internal/telemetry/metric"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file (YAML or JSON)")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("avtoken-server %s\n", buildinfo.String())
		return nil
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	slog.SetDefault(log)

	info := buildinfo.Get()
	log.Info("starting avtoken-server",
		"version", info.Version,
		"commit", info.Commit,
		"config", *configFile,
		"environment", cfg.Environment)
	log.Debug("effective configuration", "config", config.Sanitize(cfg))

	metrics := metric.NewRegistry()
	opts := []service.Option{service.WithLogger(log), service.WithRecorder(metrics)}

	creds := service.NewCredentialStore(
		storage.NewJSONFile(cfg.Storage.ConfigFile),
		&service.CredentialStoreConfig{
			EnvAliases:      service.DefaultCredentialEnv,
			HashAdminSecret: cfg.Security.HashAdminSecret,
		},
		opts...,
	)
	creds.Load()

	usage := service.NewUsageCounter(storage.NewJSONFile(cfg.Storage.StatsFile), opts...)
	if err := usage.Load(); err != nil {
		// The counter still works in memory.
		log.Warn("stats file not writable", "path", cfg.Storage.StatsFile, "error", err)
	}
	metrics.MustRegister(metric.NewUsageCollector(usage.Snapshot))

	tokens := service.NewTokenIssuer(creds, usage, agora.NewSigner(), opts...)
	admin := service.NewAdminGateway(creds, usage, opts...)

	handlerCfg := handler.Config{
		Tokens:      tokens,
		Admin:       admin,
		Credentials: creds,
		Logger:      log,
		Environment: cfg.Environment,
		Version:     info.Version,
	}
	routerCfg := &httpserver.RouterConfig{
		Logger:         log,
		AllowedOrigins: cfg.Security.AllowedOrigins,
		RateLimit:      cfg.Security.RateLimit.MaxRequests,
		RateWindow:     cfg.Security.RateLimit.Window(),
		MaxBodyBytes:   cfg.Server.HTTP.MaxBodyBytes,
		TrustProxy:     cfg.Server.HTTP.TrustProxy,
		EnableAudit:    true,
	}
	if cfg.Metrics.Enabled {
		handlerCfg.Metrics = metrics.Handler()
		handlerCfg.MetricsPath = cfg.Metrics.Path
		routerCfg.Observer = metrics
		routerCfg.MetricsPath = cfg.Metrics.Path
	}
	routerCfg.Handler = handler.New(handlerCfg)

	httpServer := httpserver.New(cfg.Server.HTTP, httpserver.NewRouter(routerCfg))
	shutdownHandler := shutdown.NewHandler(shutdownTimeout, log)

	if cfg.Storage.WatchConfig {
		watcher, err := watchConfig(cfg.Storage.ConfigFile, creds, log)
		if err != nil {
			log.Warn("config hot reload disabled", "error", err)
		} else {
			shutdownHandler.OnShutdown("config-watcher", func(context.Context) error {
				return watcher.Stop()
			})
		}
	}

	shutdownHandler.OnShutdown("http", func(ctx context.Context) error {
		return httpServer.Shutdown(ctx)
	})

	go func() {
		log.Info("HTTP server listening",
			"addr", httpServer.Addr(),
			"tls", httpServer.TLS(),
			"metrics", routerCfg.MetricsPath)
		if err := httpServer.ListenAndServe(); err != nil {
			log.Error("HTTP server error", "error", err)
			shutdownHandler.Trigger("http server failed")
		}
	}()

	logStartupStatus(log, creds)

	if err := shutdownHandler.Wait(context.Background()); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig layers defaults, the file and the environment, then checks
// the result.
func loadConfig(configFile string) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{confloader.WithEnvAliases(config.LegacyEnvAliases)}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, err
	}

	config.Normalize(cfg)
	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// watchConfig reloads the credential store when the config file is edited
// by something other than the store itself.
func watchConfig(path string, creds *service.CredentialStore, log *slog.Logger) (*confloader.Watcher, error) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(path); err != nil {
		_ = w.Stop()
		return nil, err
	}
	w.OnChange(func(string) {
		if creds.ReloadIfChanged() {
			log.Info("configuration reloaded", "path", path)
		}
	})
	w.StartAsync()
	return w, nil
}

// logStartupStatus reports where credentials come from and warns about
// the built-in admin secret.
func logStartupStatus(log *slog.Logger, creds *service.CredentialStore) {
	overridden := creds.Overridden()
	if creds.HasValidCredentials() {
		source := "config file"
		for _, key := range overridden {
			if key == "agoraAppId" || key == "agoraAppCertificate" {
				source = "environment"
				break
			}
		}
		log.Info("signing credentials configured", "source", source)
	} else {
		log.Warn("signing credentials not configured; set them through the admin API or AGORA_APP_ID and AGORA_APP_CERTIFICATE")
	}

	if creds.UsingDefaultSecret() {
		log.Warn("admin password is the built-in default; change it through the admin API or ADMIN_PASSWORD")
	}
	if len(overridden) > 0 {
		log.Info("environment overrides active", "keys", overridden)
	}
}
