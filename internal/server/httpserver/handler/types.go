package handler

import "github.com/avtoken/avtoken-go/internal/core/domain"

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success" yaml:"success"`
	Error   string `json:"error" yaml:"error"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// RTCTokenRequest is the body of POST /api/token/rtc. uid and expireTime
// may be strings or numbers.
type RTCTokenRequest struct {
	ChannelName string            `json:"channelName"`
	UID         domain.FlexString `json:"uid"`
	Role        string            `json:"role"`
	ExpireTime  domain.FlexString `json:"expireTime"`
}

// RTMTokenRequest is the body of POST /api/token/rtm.
type RTMTokenRequest struct {
	UID        domain.FlexString `json:"uid"`
	ExpireTime domain.FlexString `json:"expireTime"`
}

// RTCTokenResponse is returned for an issued RTC token.
type RTCTokenResponse struct {
	Success     bool        `json:"success" yaml:"success"`
	Token       string      `json:"token" yaml:"token"`
	AppID       string      `json:"appId" yaml:"appId"`
	ChannelName string      `json:"channelName" yaml:"channelName"`
	UID         uint32      `json:"uid" yaml:"uid"`
	Role        domain.Role `json:"role" yaml:"role"`
	ExpireTime  int         `json:"expireTime" yaml:"expireTime"`
	ExpireAt    string      `json:"expireAt" yaml:"expireAt"`
}

// RTMTokenResponse is returned for an issued RTM token.
type RTMTokenResponse struct {
	Success    bool   `json:"success" yaml:"success"`
	Token      string `json:"token" yaml:"token"`
	AppID      string `json:"appId" yaml:"appId"`
	UID        string `json:"uid" yaml:"uid"`
	ExpireTime int    `json:"expireTime" yaml:"expireTime"`
	ExpireAt   string `json:"expireAt" yaml:"expireAt"`
}

// TokenInfoResponse documents the issuance endpoints.
type TokenInfoResponse struct {
	Success            bool              `json:"success" yaml:"success"`
	AppID              string            `json:"appId" yaml:"appId"`
	ServerTime         string            `json:"serverTime" yaml:"serverTime"`
	ServerTimestamp    int64             `json:"serverTimestamp" yaml:"serverTimestamp"`
	AvailableEndpoints map[string]string `json:"availableEndpoints" yaml:"availableEndpoints"`
	RTCTokenParams     map[string]string `json:"rtcTokenParams" yaml:"rtcTokenParams"`
	RTMTokenParams     map[string]string `json:"rtmTokenParams" yaml:"rtmTokenParams"`
}

// PasswordRequest carries the admin secret in a request body.
type PasswordRequest struct {
	Password string `json:"password"`
}

// ConfigUpdateRequest is the body of POST /api/admin/config. password
// authorizes the call; adminPassword, when present, replaces the secret.
type ConfigUpdateRequest struct {
	Password string `json:"password"`
	domain.ConfigPatch
}

// MessageResponse is a bare success acknowledgement.
type MessageResponse struct {
	Success bool   `json:"success" yaml:"success"`
	Message string `json:"message" yaml:"message"`
}

// ConfigResponse is returned by GET /api/admin/config.
type ConfigResponse struct {
	Success bool              `json:"success" yaml:"success"`
	Config  domain.ConfigView `json:"config" yaml:"config"`
}

// ConfigUpdateResponse is returned by POST /api/admin/config.
type ConfigUpdateResponse struct {
	Success bool                 `json:"success" yaml:"success"`
	Message string               `json:"message" yaml:"message"`
	Config  domain.ConfigSummary `json:"config" yaml:"config"`
}

// StatsResponse is returned by the stats endpoints.
type StatsResponse struct {
	Success bool               `json:"success" yaml:"success"`
	Message string             `json:"message,omitempty" yaml:"message,omitempty"`
	Stats   domain.StatsRecord `json:"stats" yaml:"stats"`
}

// HealthResponse is returned by GET /api/health.
type HealthResponse struct {
	Status      string  `json:"status" yaml:"status"`
	Timestamp   string  `json:"timestamp" yaml:"timestamp"`
	Uptime      float64 `json:"uptime" yaml:"uptime"`
	Environment string  `json:"environment" yaml:"environment"`
}

// RootResponse is the service banner served at /.
type RootResponse struct {
	Message   string            `json:"message" yaml:"message"`
	Version   string            `json:"version" yaml:"version"`
	Endpoints map[string]string `json:"endpoints" yaml:"endpoints"`
}
