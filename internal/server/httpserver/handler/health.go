package handler

import (
	"net/http"

	"github.com/avtoken/avtoken-go/internal/core/domain"
)

// handleHealth handles GET /api/health.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	WriteJSON(w, http.StatusOK, HealthResponse{
		Status:      "OK",
		Timestamp:   domain.FormatISO(now),
		Uptime:      now.Sub(h.started).Seconds(),
		Environment: h.env,
	})
}

// handleRoot handles GET /.
func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, RootResponse{
		Message: "Agora Token Server is running!",
		Version: h.version,
		Endpoints: map[string]string{
			"health":       "/api/health",
			"tokenInfo":    "GET /api/token/info",
			"rtcTokenPost": "POST /api/token/rtc",
			"rtmTokenPost": "POST /api/token/rtm",
			"rtcTokenGet":  "GET /api/token/rtc",
			"rtmTokenGet":  "GET /api/token/rtm",
			"admin":        "/api/admin",
		},
	})
}

// handleNotFound answers every unmatched route.
func (h *Handler) handleNotFound(w http.ResponseWriter, r *http.Request) {
	WriteError(w, r, http.StatusNotFound, domain.ErrNotFound.Code, domain.ErrNotFound.Message,
		"The requested endpoint does not exist")
}
