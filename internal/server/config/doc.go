// Package config defines the token server's process settings.
//
//   - spec.go: ServerConfig struct definition
//   - default.go: default values and the legacy environment aliases
//   - verify.go: normalization and validation
//   - sanitize.go: log-safe copy
//
// Values are loaded by internal/infra/confloader. The credential record
// served by the admin API is not part of this package.
package config
