package logger

import (
	"log/slog"
	"strings"
)

// Key fragments whose values are never written out.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"certificate",
	"token",
	"authorization",
}

const redactedValue = "***REDACTED***"

func redactSensitive(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}
	}

	if IsSensitiveKey(a.Key) && a.Value.Kind() == slog.KindString && a.Value.String() != "" {
		return slog.String(a.Key, redactedValue)
	}
	return a
}

// IsSensitiveKey reports whether a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}

// MaskSecret keeps the first and last two characters of s. Short values are
// fully masked.
func MaskSecret(s string) string {
	if len(s) <= 8 {
		return "***"
	}
	return s[:2] + "..." + s[len(s)-2:]
}
