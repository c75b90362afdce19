package domain

import (
	"strings"
	"time"
)

// Role is the RTC privilege requested for a token.
type Role string

const (
	RolePublisher  Role = "publisher"
	RoleSubscriber Role = "subscriber"
)

// ParseRole resolves a role name case-insensitively.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RolePublisher:
		return RolePublisher, nil
	case RoleSubscriber:
		return RoleSubscriber, nil
	}
	return "", ErrInvalidRole
}

// IssuedToken is the result of a successful issuance. It is never stored.
type IssuedToken struct {
	Kind  RequestKind
	Token string
	AppID string

	// RTC only.
	ChannelName string
	UID         uint32
	Role        Role

	// RTM only.
	Account string

	ExpireSeconds int
	ExpiresAt     time.Time
}

// ExpireAt returns the expiry as an ISO-8601 string.
func (t IssuedToken) ExpireAt() string {
	return FormatISO(t.ExpiresAt)
}
