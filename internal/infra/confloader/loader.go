// Package confloader provides layered configuration loading.
//
// Sources are merged in the order they are loaded, later ones winning:
// built-in defaults, a YAML or JSON file, then environment variables.
package confloader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultEnvPrefix is the default environment variable prefix.
const DefaultEnvPrefix = "AVTOKEN_"

// sectionSeparator splits nested keys in environment variable names, so
// AVTOKEN_SECURITY__RATE_LIMIT__MAX_REQUESTS maps to
// security.rate_limit.max_requests.
const sectionSeparator = "__"

// Loader loads configuration from multiple sources.
type Loader struct {
	k         *koanf.Koanf
	envPrefix string
	filePath  string
	aliases   map[string]string
	loaded    bool
}

// Option is a function that configures the Loader.
type Option func(*Loader)

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) {
		l.envPrefix = prefix
	}
}

// WithConfigFile sets the configuration file path.
func WithConfigFile(path string) Option {
	return func(l *Loader) {
		l.filePath = path
	}
}

// WithEnvAliases maps bare environment variable names (e.g. PORT) onto
// configuration keys. Aliases are applied after prefixed variables.
func WithEnvAliases(aliases map[string]string) Option {
	return func(l *Loader) {
		l.aliases = aliases
	}
}

// NewLoader creates a new configuration loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		k:         koanf.New("."),
		envPrefix: DefaultEnvPrefix,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Load loads configuration from all sources and unmarshals into target.
// Loading order (later sources override earlier):
//  1. Values already present in target
//  2. Configuration file
//  3. Prefixed environment variables
//  4. Environment aliases
func (l *Loader) Load(target any) error {
	if l.filePath != "" {
		if err := l.LoadFile(l.filePath); err != nil {
			return fmt.Errorf("load config file: %w", err)
		}
	}

	if err := l.LoadEnv(); err != nil {
		return fmt.Errorf("load env: %w", err)
	}

	if len(l.aliases) > 0 {
		if err := l.LoadEnvAliases(l.aliases); err != nil {
			return fmt.Errorf("load env aliases: %w", err)
		}
	}

	if err := l.Unmarshal(target); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	l.loaded = true
	return nil
}

// LoadFile loads a YAML or JSON file, chosen by extension.
func (l *Loader) LoadFile(path string) error {
	if path == "" {
		return nil
	}

	var parser koanf.Parser = yaml.Parser()
	if strings.EqualFold(filepath.Ext(path), ".json") {
		parser = json.Parser()
	}

	if err := l.k.Load(file.Provider(path), parser); err != nil {
		return fmt.Errorf("load file %s: %w", path, err)
	}

	return nil
}

// LoadEnv loads prefixed environment variables.
// Example: AVTOKEN_SERVER__HTTP__ADDR=:8080 -> server.http.addr
func (l *Loader) LoadEnv() error {
	if l.envPrefix == "" {
		return nil
	}

	envTransformer := func(s string) string {
		s = strings.TrimPrefix(s, l.envPrefix)
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, sectionSeparator, ".")
	}

	provider := env.Provider(l.envPrefix, ".", envTransformer)
	if err := l.k.Load(provider, nil); err != nil {
		return fmt.Errorf("load env: %w", err)
	}

	return nil
}

// LoadEnvAliases loads the listed environment variables under their mapped
// keys. Unset and empty variables are skipped.
func (l *Loader) LoadEnvAliases(aliases map[string]string) error {
	cb := func(name, value string) (string, any) {
		key, ok := aliases[name]
		if !ok || value == "" {
			return "", nil
		}
		return key, value
	}

	if err := l.k.Load(env.ProviderWithValue("", ".", cb), nil); err != nil {
		return fmt.Errorf("load env aliases: %w", err)
	}
	return nil
}

// LoadMap loads configuration from a map (useful for defaults or testing).
func (l *Loader) LoadMap(data map[string]any) error {
	if err := l.k.Load(mapProvider(data), nil); err != nil {
		return fmt.Errorf("load map: %w", err)
	}
	return nil
}

// Unmarshal unmarshals the loaded configuration into the target struct
// using koanf tags.
func (l *Loader) Unmarshal(target any) error {
	return l.k.Unmarshal("", target)
}

// GetString returns a string value from the configuration.
func (l *Loader) GetString(key string) string {
	return l.k.String(key)
}

// Exists reports whether key has been set by any source.
func (l *Loader) Exists(key string) bool {
	return l.k.Exists(key)
}

// IsLoaded returns true if Load has completed.
func (l *Loader) IsLoaded() bool {
	return l.loaded
}

// Keys returns all configuration keys.
func (l *Loader) Keys() []string {
	return l.k.Keys()
}
