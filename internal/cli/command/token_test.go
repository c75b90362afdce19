package command

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/avtoken/avtoken-go/internal/server/httpserver/handler"
)

var sampleRTC = handler.RTCTokenResponse{
	Success:     true,
	Token:       "007rtc-token",
	AppID:       "app",
	ChannelName: "lobby",
	UID:         42,
	Role:        "publisher",
	ExpireTime:  600,
	ExpireAt:    "2024-06-01T12:10:00.000Z",
}

func TestTokenRTC_Post(t *testing.T) {
	srv := newMockServer(t)
	srv.reply("POST /api/token/rtc", http.StatusOK, sampleRTC)

	out, err := runCLI(t, "--server", srv.URL, "-o", "json", "token", "rtc", "-c", "lobby", "-u", "42", "-e", "600")
	if err != nil {
		t.Fatalf("token rtc error = %v", err)
	}

	req := srv.last(t)
	if req.Body["channelName"] != "lobby" || req.Body["uid"] != "42" || req.Body["expireTime"] != "600" {
		t.Errorf("body = %v", req.Body)
	}
	if _, ok := req.Body["role"]; ok {
		t.Error("unset role should not be sent")
	}

	var got handler.RTCTokenResponse
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got != sampleRTC {
		t.Errorf("output = %+v", got)
	}
}

func TestTokenRTC_Table(t *testing.T) {
	srv := newMockServer(t)
	srv.reply("POST /api/token/rtc", http.StatusOK, sampleRTC)

	out, err := runCLI(t, "--server", srv.URL, "token", "rtc", "-c", "lobby")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"007rtc-token", "channelName", "lobby", "2024-06-01T12:10:00.000Z"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTokenRTC_Defaults(t *testing.T) {
	srv := newMockServer(t)
	srv.reply("GET /api/token/rtc", http.StatusOK, sampleRTC)

	if _, err := runCLI(t, "--server", srv.URL, "token", "rtc", "--defaults", "-r", "subscriber"); err != nil {
		t.Fatal(err)
	}

	req := srv.last(t)
	if req.Method != http.MethodGet {
		t.Fatalf("method = %s, want GET", req.Method)
	}
	q, _ := url.ParseQuery(req.Query)
	if q.Get("role") != "subscriber" || q.Has("channelName") || q.Has("uid") {
		t.Errorf("query = %q", req.Query)
	}
}

func TestTokenRTM_ServerError(t *testing.T) {
	srv := newMockServer(t)
	srv.handle("POST /api/token/rtm", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Error-Code", "AT-ARG-4004")
		jsonResponse(w, http.StatusBadRequest, handler.ErrorResponse{Error: "UID is required for RTM token"})
	})

	_, err := runCLI(t, "--server", srv.URL, "token", "rtm")
	if err == nil || err.Error() != "[AT-ARG-4004] UID is required for RTM token" {
		t.Errorf("error = %v", err)
	}
}

func TestTokenRTM_YAML(t *testing.T) {
	srv := newMockServer(t)
	srv.reply("POST /api/token/rtm", http.StatusOK, handler.RTMTokenResponse{
		Success: true, Token: "rtm-token", AppID: "app", UID: "user-1", ExpireTime: 3600,
	})

	out, err := runCLI(t, "--server", srv.URL, "-o", "yaml", "token", "rtm", "-u", "user-1")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"token: rtm-token", "uid: user-1", "expireTime: 3600"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTokenInfo(t *testing.T) {
	srv := newMockServer(t)
	srv.reply("GET /api/token/info", http.StatusOK, handler.TokenInfoResponse{
		Success:            true,
		AppID:              "app",
		ServerTimestamp:    1717243200,
		AvailableEndpoints: map[string]string{"rtc": "POST /api/token/rtc"},
		RTCTokenParams:     map[string]string{"channelName": "required"},
	})

	out, err := runCLI(t, "--server", srv.URL, "token", "info")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "POST /api/token/rtc") || strings.Contains(out, "RTC parameters") {
		t.Errorf("narrow output:\n%s", out)
	}

	out, err = runCLI(t, "--server", srv.URL, "--wide", "token", "info")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "RTC parameters") || !strings.Contains(out, "required") {
		t.Errorf("wide output:\n%s", out)
	}
}
