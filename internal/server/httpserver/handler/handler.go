package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/avtoken/avtoken-go/internal/core/domain"
	"github.com/avtoken/avtoken-go/internal/core/service"
	"github.com/avtoken/avtoken-go/internal/telemetry/logger"
)

// TokenService issues tokens. Implemented by service.TokenIssuer.
type TokenService interface {
	IssueRTC(ctx context.Context, req service.RTCRequest) (*domain.IssuedToken, error)
	IssueRTCWithDefaults(ctx context.Context, req service.RTCRequest) (*domain.IssuedToken, error)
	IssueRTM(ctx context.Context, req service.RTMRequest) (*domain.IssuedToken, error)
	IssueRTMWithDefaults(ctx context.Context, req service.RTMRequest) (*domain.IssuedToken, error)
}

// AdminService guards the records. Implemented by service.AdminGateway.
type AdminService interface {
	Verify(ctx context.Context, password string) error
	ReadConfig(ctx context.Context, password string) (domain.ConfigView, error)
	WriteConfig(ctx context.Context, password string, patch domain.ConfigPatch) (domain.ConfigSummary, error)
	ReadStats(ctx context.Context, password string) (domain.StatsRecord, error)
	ResetStats(ctx context.Context, password string) (domain.StatsRecord, error)
}

// CredentialReader exposes the effective config record.
type CredentialReader interface {
	Get() domain.ConfigRecord
}

// Config wires a Handler.
type Config struct {
	Tokens      TokenService
	Admin       AdminService
	Credentials CredentialReader
	Logger      *slog.Logger

	// Environment and Version are reported by /api/health and /.
	Environment string
	Version     string

	// Metrics, when set, is served at MetricsPath.
	Metrics     http.Handler
	MetricsPath string

	// Now defaults to time.Now.
	Now func() time.Time
}

// Handler is the API's http.Handler.
type Handler struct {
	tokens  TokenService
	admin   AdminService
	creds   CredentialReader
	logger  *slog.Logger
	env     string
	version string
	now     func() time.Time
	started time.Time
	mux     *http.ServeMux
}

// New creates a Handler and registers its routes.
func New(cfg Config) *Handler {
	h := &Handler{
		tokens:  cfg.Tokens,
		admin:   cfg.Admin,
		creds:   cfg.Credentials,
		logger:  cfg.Logger,
		env:     cfg.Environment,
		version: cfg.Version,
		now:     cfg.Now,
		mux:     http.NewServeMux(),
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	if h.now == nil {
		h.now = time.Now
	}
	if h.version == "" {
		h.version = "dev"
	}
	h.started = h.now()

	h.registerRoutes()
	if cfg.Metrics != nil && cfg.MetricsPath != "" {
		h.mux.Handle("GET "+cfg.MetricsPath, cfg.Metrics)
	}
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// Route returns the pattern that would serve r, for metrics labels.
func (h *Handler) Route(r *http.Request) string {
	_, pattern := h.mux.Handler(r)
	if pattern == "" || pattern == "/" {
		return "unmatched"
	}
	return pattern
}

func (h *Handler) registerRoutes() {
	h.mux.HandleFunc("POST /api/token/rtc", h.handleRTCPost)
	h.mux.HandleFunc("GET /api/token/rtc", h.handleRTCGet)
	h.mux.HandleFunc("POST /api/token/rtm", h.handleRTMPost)
	h.mux.HandleFunc("GET /api/token/rtm", h.handleRTMGet)
	h.mux.HandleFunc("GET /api/token/info", h.handleTokenInfo)

	h.mux.HandleFunc("POST /api/admin/verify", h.handleAdminVerify)
	h.mux.HandleFunc("GET /api/admin/config", h.handleGetConfig)
	h.mux.HandleFunc("POST /api/admin/config", h.handleUpdateConfig)
	h.mux.HandleFunc("GET /api/admin/stats", h.handleGetStats)
	h.mux.HandleFunc("POST /api/admin/stats/reset", h.handleResetStats)

	h.mux.HandleFunc("GET /api/health", h.handleHealth)
	h.mux.HandleFunc("GET /{$}", h.handleRoot)
	h.mux.HandleFunc("/", h.handleNotFound)
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes the error envelope. code goes to X-Error-Code; the
// request id, when known, to X-Request-ID.
func WriteError(w http.ResponseWriter, r *http.Request, status int, code, errText, message string) {
	if code != "" {
		w.Header().Set("X-Error-Code", code)
	}
	if id := logger.RequestIDFromContext(r.Context()); id != "" {
		w.Header().Set("X-Request-ID", id)
	}
	WriteJSON(w, status, ErrorResponse{Error: errText, Message: message})
}

// StatusForCode maps a domain error code to an HTTP status.
func StatusForCode(code string) int {
	switch {
	case strings.HasSuffix(code, "-4010"):
		return http.StatusUnauthorized
	case strings.HasSuffix(code, "-4030"), strings.HasSuffix(code, "-4031"):
		return http.StatusForbidden
	case strings.HasSuffix(code, "-4040"):
		return http.StatusNotFound
	case strings.HasSuffix(code, "-4290"):
		return http.StatusTooManyRequests
	case strings.HasPrefix(code, "AT-ARG-"), strings.HasSuffix(code, "-4000"):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// fail converts err to a response. Client errors carry the domain message
// as "error". Server errors use title as "error" and the cause as "message".
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, title string) {
	de := domain.AsDomainError(err)
	if de == nil {
		h.logger.ErrorContext(r.Context(), "unexpected error", "path", r.URL.Path, "error", err)
		de = domain.ErrInternalServer.WithCause(err)
	}

	status := StatusForCode(de.Code)
	if status < http.StatusInternalServerError {
		WriteError(w, r, status, de.Code, de.Message, de.Details)
		return
	}

	h.logger.ErrorContext(r.Context(), title, "code", de.Code, "error", err)
	message := de.Message
	if de.Details != "" {
		message += ": " + de.Details
	}
	if title == "" {
		title = "Internal Server Error"
	}
	WriteError(w, r, status, de.Code, title, message)
}

// decodeBody reads a JSON object into v. An empty body leaves v untouched.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	switch {
	case err == nil, errors.Is(err, io.EOF):
		return nil
	default:
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.ErrBadRequest.WithDetails("request body too large")
		}
		return domain.ErrBadRequest.WithDetails(err.Error())
	}
}
