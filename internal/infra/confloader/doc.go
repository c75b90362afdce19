// Package confloader layers configuration sources with koanf.
//
// Priority (highest to lowest):
//
//  1. Environment aliases (bare names such as PORT)
//  2. Prefixed environment variables (AVTOKEN_...)
//  3. Configuration file (YAML or JSON)
//  4. Defaults
//
// Watcher reports edits to individual files so callers can reload.
package confloader
