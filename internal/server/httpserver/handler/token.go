package handler

import (
	"net/http"

	"github.com/avtoken/avtoken-go/internal/core/domain"
	"github.com/avtoken/avtoken-go/internal/core/service"
)

const (
	rtcFailure = "Failed to generate RTC token"
	rtmFailure = "Failed to generate RTM token"
)

// handleRTCPost handles POST /api/token/rtc.
func (h *Handler) handleRTCPost(w http.ResponseWriter, r *http.Request) {
	var req RTCTokenRequest
	if err := decodeBody(r, &req); err != nil {
		h.fail(w, r, err, rtcFailure)
		return
	}

	tok, err := h.tokens.IssueRTC(r.Context(), service.RTCRequest{
		ChannelName: req.ChannelName,
		UID:         req.UID.String(),
		Role:        req.Role,
		ExpireTime:  req.ExpireTime.String(),
	})
	if err != nil {
		h.fail(w, r, err, rtcFailure)
		return
	}
	WriteJSON(w, http.StatusOK, rtcResponse(tok))
}

// handleRTCGet handles GET /api/token/rtc. Absent parameters come from the
// configured defaults.
func (h *Handler) handleRTCGet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tok, err := h.tokens.IssueRTCWithDefaults(r.Context(), service.RTCRequest{
		ChannelName: q.Get("channelName"),
		UID:         q.Get("uid"),
		Role:        q.Get("role"),
		ExpireTime:  q.Get("expireTime"),
	})
	if err != nil {
		h.fail(w, r, err, rtcFailure)
		return
	}
	WriteJSON(w, http.StatusOK, rtcResponse(tok))
}

// handleRTMPost handles POST /api/token/rtm.
func (h *Handler) handleRTMPost(w http.ResponseWriter, r *http.Request) {
	var req RTMTokenRequest
	if err := decodeBody(r, &req); err != nil {
		h.fail(w, r, err, rtmFailure)
		return
	}

	tok, err := h.tokens.IssueRTM(r.Context(), service.RTMRequest{
		UID:        req.UID.String(),
		ExpireTime: req.ExpireTime.String(),
	})
	if err != nil {
		h.fail(w, r, err, rtmFailure)
		return
	}
	WriteJSON(w, http.StatusOK, rtmResponse(tok))
}

// handleRTMGet handles GET /api/token/rtm.
func (h *Handler) handleRTMGet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tok, err := h.tokens.IssueRTMWithDefaults(r.Context(), service.RTMRequest{
		UID:        q.Get("uid"),
		ExpireTime: q.Get("expireTime"),
	})
	if err != nil {
		h.fail(w, r, err, rtmFailure)
		return
	}
	WriteJSON(w, http.StatusOK, rtmResponse(tok))
}

// handleTokenInfo handles GET /api/token/info.
func (h *Handler) handleTokenInfo(w http.ResponseWriter, r *http.Request) {
	cfg := h.creds.Get()
	if !cfg.HasValidCredentials() {
		h.fail(w, r, domain.ErrCredentialsNotConfigured, "Configuration error")
		return
	}

	now := h.now()
	WriteJSON(w, http.StatusOK, TokenInfoResponse{
		Success:         true,
		AppID:           cfg.AppID,
		ServerTime:      domain.FormatISO(now),
		ServerTimestamp: now.Unix(),
		AvailableEndpoints: map[string]string{
			"rtcToken": "POST /api/token/rtc",
			"rtmToken": "POST /api/token/rtm",
		},
		RTCTokenParams: map[string]string{
			"channelName": "string (required)",
			"uid":         "number (optional, default: 0 for dynamic)",
			"role":        `string (optional, default: "publisher", values: "publisher" | "subscriber")`,
			"expireTime":  "number (optional, default: 3600 seconds)",
		},
		RTMTokenParams: map[string]string{
			"uid":        "string (required)",
			"expireTime": "number (optional, default: 3600 seconds)",
		},
	})
}

func rtcResponse(t *domain.IssuedToken) RTCTokenResponse {
	return RTCTokenResponse{
		Success:     true,
		Token:       t.Token,
		AppID:       t.AppID,
		ChannelName: t.ChannelName,
		UID:         t.UID,
		Role:        t.Role,
		ExpireTime:  t.ExpireSeconds,
		ExpireAt:    t.ExpireAt(),
	}
}

func rtmResponse(t *domain.IssuedToken) RTMTokenResponse {
	return RTMTokenResponse{
		Success:    true,
		Token:      t.Token,
		AppID:      t.AppID,
		UID:        t.Account,
		ExpireTime: t.ExpireSeconds,
		ExpireAt:   t.ExpireAt(),
	}
}
