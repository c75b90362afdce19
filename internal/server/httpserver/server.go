package httpserver

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/avtoken/avtoken-go/internal/server/config"
)

// Server represents the HTTP server.
type Server struct {
	httpServer *http.Server
	certFile   string
	keyFile    string
}

// New creates a server for handler using the timeouts and TLS files of cfg.
func New(cfg config.HTTPConfig, handler http.Handler) *Server {
	s := &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: readHeaderTimeout(cfg.ReadTimeout),
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
		},
	}
	if cfg.TLSEnabled() {
		s.certFile = cfg.TLSCertFile
		s.keyFile = cfg.TLSKeyFile
		s.httpServer.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return s
}

func readHeaderTimeout(read time.Duration) time.Duration {
	if read > 0 && read < 10*time.Second {
		return read
	}
	return 10 * time.Second
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// TLS reports whether the server serves HTTPS.
func (s *Server) TLS() bool {
	return s.certFile != ""
}

// ListenAndServe listens on the configured address and serves until
// Shutdown. http.ErrServerClosed is reported as nil.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln.
func (s *Server) Serve(ln net.Listener) error {
	var err error
	if s.TLS() {
		err = s.httpServer.ServeTLS(ln, s.certFile, s.keyFile)
	} else {
		err = s.httpServer.Serve(ln)
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
