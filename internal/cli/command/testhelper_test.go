package command

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/urfave/cli/v2"
)

// recordedRequest is what the mock server saw.
type recordedRequest struct {
	Method   string
	Path     string
	Query    string
	Password string
	Body     map[string]any
}

// mockServer answers registered "METHOD /path" routes and records calls.
type mockServer struct {
	*httptest.Server

	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	requests []recordedRequest
}

func newMockServer(t *testing.T) *mockServer {
	t.Helper()
	m := &mockServer{handlers: make(map[string]http.HandlerFunc)}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{
			Method:   r.Method,
			Path:     r.URL.Path,
			Query:    r.URL.RawQuery,
			Password: r.Header.Get("X-Admin-Password"),
		}
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			json.Unmarshal(data, &rec.Body)
		}

		m.mu.Lock()
		m.requests = append(m.requests, rec)
		h, ok := m.handlers[r.Method+" "+r.URL.Path]
		m.mu.Unlock()

		if !ok {
			jsonResponse(w, http.StatusNotFound, map[string]any{"success": false, "error": "Not Found"})
			return
		}
		h(w, r)
	}))
	t.Cleanup(m.Close)
	return m
}

func (m *mockServer) handle(pattern string, h http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[pattern] = h
}

// reply registers a fixed JSON answer.
func (m *mockServer) reply(pattern string, status int, body any) {
	m.handle(pattern, func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, status, body)
	})
}

func (m *mockServer) last(t *testing.T) recordedRequest {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		t.Fatal("no request reached the server")
	}
	return m.requests[len(m.requests)-1]
}

func (m *mockServer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// runCLI runs the app with an isolated CLI config file and returns stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runCLIWithConfig(t, filepath.Join(t.TempDir(), "cli.yaml"), args...)
}

func runCLIWithConfig(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	unsetEnv(t, "AVTOKEN_SERVER", "AVTOKEN_ADMIN_PASSWORD", "AVTOKEN_PROFILE", "AVTOKEN_CLI_CONFIG")

	var out bytes.Buffer
	app := App()
	app.Writer = &out
	app.ErrWriter = io.Discard
	app.ExitErrHandler = func(*cli.Context, error) {}

	full := append([]string{"avtoken-cli", "--cli-config", cfgPath}, args...)
	err := app.Run(full)
	return out.String(), err
}

// unsetEnv removes variables for the test. An empty value would still count
// as set for flag lookup.
func unsetEnv(t *testing.T, names ...string) {
	t.Helper()
	for _, name := range names {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}
