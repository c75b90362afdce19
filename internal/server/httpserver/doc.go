// Package httpserver hosts the token API on stdlib net/http.
//
// NewRouter wraps the handler package in the middleware chain
// (Recover, RequestID, SecurityHeaders, Metrics, Audit, CORS, RateLimit,
// BodyLimit). Server adds timeouts, optional TLS and graceful shutdown.
package httpserver
