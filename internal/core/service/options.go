package service

import (
	"log/slog"
	"time"

	"github.com/avtoken/avtoken-go/internal/core/domain"
)

// Recorder receives service events for metrics. All methods must be safe for
// concurrent use.
type Recorder interface {
	TokenIssued(kind domain.RequestKind)
	TokenFailed(kind domain.RequestKind, reason string)
	AdminAuthFailed()
	PersistenceFailed(store string)
}

type nopRecorder struct{}

func (nopRecorder) TokenIssued(domain.RequestKind)         {}
func (nopRecorder) TokenFailed(domain.RequestKind, string) {}
func (nopRecorder) AdminAuthFailed()                       {}
func (nopRecorder) PersistenceFailed(string)               {}

type options struct {
	logger   *slog.Logger
	recorder Recorder
	now      func() time.Time
}

// Option configures a service.
type Option func(*options)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(o *options) {
		if r != nil {
			o.recorder = r
		}
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func buildOptions(component string, opts []Option) options {
	o := options{
		logger:   slog.Default(),
		recorder: nopRecorder{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = o.logger.With("component", component)
	return o
}
