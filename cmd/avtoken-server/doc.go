// Package main provides the entry point for avtoken-server.
//
// avtoken-server issues RTC and RTM access tokens over HTTP and exposes a
// password-guarded admin API for the signing credentials, request defaults
// and usage statistics.
//
// Usage:
//
//	avtoken-server [flags]
//	avtoken-server --config /etc/avtoken/server.yaml
//
// Configuration layers, later wins: built-in defaults, the config file,
// AVTOKEN_ variables (AVTOKEN_SERVER__HTTP__ADDR), then the bare variables
// PORT, ALLOWED_ORIGINS, RATE_LIMIT_WINDOW_MS, RATE_LIMIT_MAX_REQUESTS and
// NODE_ENV.
package main
