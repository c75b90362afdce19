package command

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/avtoken/avtoken-go/internal/cli/config"
	"github.com/avtoken/avtoken-go/internal/server/httpserver/handler"
)

func TestProfileLifecycle(t *testing.T) {
	srv := newMockServer(t)
	srv.reply("POST /api/admin/verify", http.StatusOK, handler.MessageResponse{Success: true, Message: "Password verified"})
	cfgPath := filepath.Join(t.TempDir(), "cli.yaml")

	if _, err := runCLIWithConfig(t, cfgPath, "--server", srv.URL, "-p", "local-secret", "profile", "save", "local"); err != nil {
		t.Fatalf("profile save error = %v", err)
	}
	if _, err := runCLIWithConfig(t, cfgPath, "--server", "https://prod.example.com", "profile", "save", "prod"); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.CurrentProfile != "local" {
		t.Errorf("CurrentProfile = %q, the first saved profile should become current", cfg.CurrentProfile)
	}
	if cfg.Profiles["local"].Password != "local-secret" {
		t.Errorf("profiles = %+v", cfg.Profiles)
	}

	// The current profile supplies both server and password.
	if _, err := runCLIWithConfig(t, cfgPath, "admin", "verify"); err != nil {
		t.Fatalf("admin verify via profile error = %v", err)
	}
	if srv.last(t).Body["password"] != "local-secret" {
		t.Errorf("body = %v", srv.last(t).Body)
	}

	out, err := runCLIWithConfig(t, cfgPath, "-o", "json", "profile", "list")
	if err != nil {
		t.Fatal(err)
	}
	var rows []profileRow
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(rows) != 2 || rows[0].Name != "local" || !rows[0].Current || rows[1].Current {
		t.Errorf("rows = %+v", rows)
	}
	if rows[0].Password == "local-secret" {
		t.Error("profile list leaks the password")
	}

	if _, err := runCLIWithConfig(t, cfgPath, "profile", "use", "prod"); err != nil {
		t.Fatal(err)
	}
	if _, err := runCLIWithConfig(t, cfgPath, "profile", "delete", "prod"); err != nil {
		t.Fatal(err)
	}
	cfg, err = config.Load(cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := cfg.Profiles["prod"]; ok || cfg.CurrentProfile != "" {
		t.Errorf("after delete: %+v", cfg)
	}
}

func TestProfileErrors(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "cli.yaml")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"save without name", []string{"--server", "http://x", "profile", "save"}, "NAME"},
		{"save without server", []string{"profile", "save", "p"}, "--server is required"},
		{"use unknown", []string{"profile", "use", "nope"}, `unknown profile "nope"`},
		{"delete unknown", []string{"profile", "delete", "nope"}, `unknown profile "nope"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLIWithConfig(t, cfgPath, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want containing %q", err, tt.want)
			}
		})
	}
}
