package buildinfo

import (
	"runtime"
	"runtime/debug"
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()

	if info.Version == "" || info.Commit == "" || info.BuildTime == "" {
		t.Errorf("Get() has empty fields: %+v", info)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q, want %q", info.GoVersion, runtime.Version())
	}
}

func TestFillFromBuildInfo(t *testing.T) {
	tests := []struct {
		name string
		in   Info
		bi   debug.BuildInfo
		want Info
	}{
		{
			name: "module version and vcs",
			in:   Info{Version: "dev", Commit: "unknown", BuildTime: "unknown"},
			bi: debug.BuildInfo{
				Main: debug.Module{Version: "v1.4.0"},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "0123456789abcdef0123"},
					{Key: "vcs.time", Value: "2024-06-01T12:00:00Z"},
				},
			},
			want: Info{Version: "v1.4.0", Commit: "0123456789ab", BuildTime: "2024-06-01T12:00:00Z"},
		},
		{
			name: "devel ignored",
			in:   Info{Version: "dev", Commit: "unknown", BuildTime: "unknown"},
			bi:   debug.BuildInfo{Main: debug.Module{Version: "(devel)"}},
			want: Info{Version: "dev", Commit: "unknown", BuildTime: "unknown"},
		},
		{
			name: "ldflags win",
			in:   Info{Version: "v2.0.0", Commit: "abc", BuildTime: "today"},
			bi: debug.BuildInfo{
				Main:     debug.Module{Version: "v1.4.0"},
				Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "fff"}},
			},
			want: Info{Version: "v2.0.0", Commit: "abc", BuildTime: "today"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in
			fillFromBuildInfo(&got, &tt.bi)
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestString(t *testing.T) {
	info := Info{Version: "v1.0.0", Commit: "abc", BuildTime: "now"}
	if got := info.String(); got != "v1.0.0 (abc) built at now" {
		t.Errorf("String() = %q", got)
	}
}

func TestUserAgent(t *testing.T) {
	ua := UserAgent("avtoken-cli")
	if !strings.HasPrefix(ua, "avtoken-cli/") || ua == "avtoken-cli/" {
		t.Errorf("UserAgent() = %q", ua)
	}
}
