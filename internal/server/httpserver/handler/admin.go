package handler

import (
	"net/http"
)

// adminSecretHeader is the header alternative to a password field.
const adminSecretHeader = "X-Admin-Password"

// adminSecret picks the secret from the decoded body, the query string or
// the header, in that order.
func adminSecret(r *http.Request, fromBody string) string {
	if fromBody != "" {
		return fromBody
	}
	if pw := r.URL.Query().Get("password"); pw != "" {
		return pw
	}
	return r.Header.Get(adminSecretHeader)
}

// handleAdminVerify handles POST /api/admin/verify.
func (h *Handler) handleAdminVerify(w http.ResponseWriter, r *http.Request) {
	var req PasswordRequest
	if err := decodeBody(r, &req); err != nil {
		h.fail(w, r, err, "")
		return
	}
	if err := h.admin.Verify(r.Context(), req.Password); err != nil {
		h.fail(w, r, err, "")
		return
	}
	WriteJSON(w, http.StatusOK, MessageResponse{Success: true, Message: "Password verified"})
}

// handleGetConfig handles GET /api/admin/config.
func (h *Handler) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.admin.ReadConfig(r.Context(), adminSecret(r, ""))
	if err != nil {
		h.fail(w, r, err, "Failed to get configuration")
		return
	}
	WriteJSON(w, http.StatusOK, ConfigResponse{Success: true, Config: cfg})
}

// handleUpdateConfig handles POST /api/admin/config.
func (h *Handler) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	var req ConfigUpdateRequest
	if err := decodeBody(r, &req); err != nil {
		h.fail(w, r, err, "Failed to update configuration")
		return
	}

	summary, err := h.admin.WriteConfig(r.Context(), adminSecret(r, req.Password), req.ConfigPatch)
	if err != nil {
		h.fail(w, r, err, "Failed to update configuration")
		return
	}
	WriteJSON(w, http.StatusOK, ConfigUpdateResponse{
		Success: true,
		Message: "Configuration updated successfully",
		Config:  summary,
	})
}

// handleGetStats handles GET /api/admin/stats.
func (h *Handler) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.ReadStats(r.Context(), adminSecret(r, ""))
	if err != nil {
		h.fail(w, r, err, "Failed to get statistics")
		return
	}
	WriteJSON(w, http.StatusOK, StatsResponse{Success: true, Stats: stats})
}

// handleResetStats handles POST /api/admin/stats/reset.
func (h *Handler) handleResetStats(w http.ResponseWriter, r *http.Request) {
	var req PasswordRequest
	if err := decodeBody(r, &req); err != nil {
		h.fail(w, r, err, "Failed to reset statistics")
		return
	}

	stats, err := h.admin.ResetStats(r.Context(), adminSecret(r, req.Password))
	if err != nil {
		h.fail(w, r, err, "Failed to reset statistics")
		return
	}
	WriteJSON(w, http.StatusOK, StatsResponse{
		Success: true,
		Message: "Statistics reset successfully",
		Stats:   stats,
	})
}
