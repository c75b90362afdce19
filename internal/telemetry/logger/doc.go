// Package logger builds the process logger on log/slog.
//
//   - logger.go: handler construction and level control
//   - context.go: request id propagation
//   - redact.go: masking of secrets, certificates and tokens
package logger
