package httpserver

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/avtoken/avtoken-go/internal/server/httpserver/handler"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Handler serves the API routes.
	Handler *handler.Handler

	// Logger for request logging.
	Logger *slog.Logger

	// Observer receives per-request metrics. Nil disables them.
	Observer HTTPObserver

	// MetricsPath is exempt from rate limiting so scrapes never eat into
	// client budgets. Empty when metrics are disabled.
	MetricsPath string

	// AllowedOrigins is the CORS allow-list; "*" allows any origin.
	AllowedOrigins []string

	// RateLimit is the per-client budget per RateWindow. Zero disables it.
	RateLimit  int
	RateWindow time.Duration

	// MaxBodyBytes caps request bodies. Zero disables the cap.
	MaxBodyBytes int64

	// TrustProxy takes the client address from X-Forwarded-For.
	TrustProxy bool

	// EnableAudit logs one line per request.
	EnableAudit bool
}

// NewRouter wraps the handler in the middleware chain.
//
// Order: Recover -> RequestID -> SecurityHeaders -> Metrics -> Audit ->
// RateLimit -> CORS -> BodyLimit -> Handler.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	clientIP := ClientIP(cfg.TrustProxy)

	middlewares := []Middleware{
		Recover(log),
		RequestID(),
		SecurityHeaders(""),
	}
	if cfg.Observer != nil {
		middlewares = append(middlewares, Metrics(cfg.Observer, cfg.Handler.Route))
	}
	if cfg.EnableAudit {
		middlewares = append(middlewares, Audit(log, clientIP))
	}
	if cfg.RateLimit > 0 {
		limited := RateLimit(NewLimiterRegistry(cfg.RateLimit, cfg.RateWindow), clientIP)
		middlewares = append(middlewares, skipPath(cfg.MetricsPath, limited))
	}
	middlewares = append(middlewares, CORS(cfg.AllowedOrigins, log))
	if cfg.MaxBodyBytes > 0 {
		middlewares = append(middlewares, BodyLimit(cfg.MaxBodyBytes))
	}

	return Chain(cfg.Handler, middlewares...)
}

// DefaultRouterConfig returns default router configuration.
func DefaultRouterConfig() *RouterConfig {
	return &RouterConfig{
		AllowedOrigins: []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		RateLimit:      100,
		RateWindow:     15 * time.Minute,
		MaxBodyBytes:   1 << 20,
		EnableAudit:    true,
	}
}

// skipPath applies m to every request except those for path.
func skipPath(path string, m Middleware) Middleware {
	if path == "" {
		return m
	}
	return func(next http.Handler) http.Handler {
		wrapped := m(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == path {
				next.ServeHTTP(w, r)
				return
			}
			wrapped.ServeHTTP(w, r)
		})
	}
}
