package domain

import (
	"strconv"
	"strings"
)

// Defaults applied when the config file is missing or unreadable.
const (
	DefaultAdminSecret       = "admin123"
	DefaultChannelName       = "test-channel"
	DefaultUID               = "0"
	DefaultRoleName          = "publisher"
	DefaultExpireTimeSeconds = 3600
)

// ConfigRecord is the single file-backed credential and defaults record.
//
// JSON names are the on-disk format and must not change.
type ConfigRecord struct {
	// AppID and AppCertificate are the signing material.
	AppID          string `json:"agoraAppId" koanf:"agoraAppId"`
	AppCertificate string `json:"agoraAppCertificate" koanf:"agoraAppCertificate"`

	// AdminSecret is either plaintext or an argon2id PHC string.
	AdminSecret string `json:"adminPassword" koanf:"adminPassword"`

	DefaultChannelName string `json:"defaultChannelName" koanf:"defaultChannelName"`
	DefaultUID         string `json:"defaultUid" koanf:"defaultUid"`
	DefaultRole        string `json:"defaultRole" koanf:"defaultRole"`
	DefaultExpireTime  int    `json:"defaultExpireTime" koanf:"defaultExpireTime"`
}

// DefaultConfigRecord returns the built-in record.
func DefaultConfigRecord() ConfigRecord {
	return ConfigRecord{
		AdminSecret:        DefaultAdminSecret,
		DefaultChannelName: DefaultChannelName,
		DefaultUID:         DefaultUID,
		DefaultRole:        DefaultRoleName,
		DefaultExpireTime:  DefaultExpireTimeSeconds,
	}
}

// ToMap returns the record keyed by its on-disk field names.
func (c ConfigRecord) ToMap() map[string]any {
	return map[string]any{
		"agoraAppId":          c.AppID,
		"agoraAppCertificate": c.AppCertificate,
		"adminPassword":       c.AdminSecret,
		"defaultChannelName":  c.DefaultChannelName,
		"defaultUid":          c.DefaultUID,
		"defaultRole":         c.DefaultRole,
		"defaultExpireTime":   c.DefaultExpireTime,
	}
}

// HasValidCredentials reports whether both app id and certificate are set.
func (c ConfigRecord) HasValidCredentials() bool {
	return c.AppID != "" && c.AppCertificate != ""
}

// View returns the record without the admin secret.
func (c ConfigRecord) View() ConfigView {
	return ConfigView{
		AppID:              c.AppID,
		AppCertificate:     c.AppCertificate,
		DefaultChannelName: c.DefaultChannelName,
		DefaultUID:         c.DefaultUID,
		DefaultRole:        c.DefaultRole,
		DefaultExpireTime:  c.DefaultExpireTime,
	}
}

// Summary returns the fields echoed back after an admin update.
func (c ConfigRecord) Summary() ConfigSummary {
	return ConfigSummary{
		AppID:              c.AppID,
		DefaultChannelName: c.DefaultChannelName,
		DefaultUID:         c.DefaultUID,
		DefaultRole:        c.DefaultRole,
		DefaultExpireTime:  c.DefaultExpireTime,
	}
}

// ConfigView is a ConfigRecord with the admin secret stripped.
type ConfigView struct {
	AppID              string `json:"agoraAppId" yaml:"agoraAppId"`
	AppCertificate     string `json:"agoraAppCertificate" yaml:"agoraAppCertificate"`
	DefaultChannelName string `json:"defaultChannelName" yaml:"defaultChannelName"`
	DefaultUID         string `json:"defaultUid" yaml:"defaultUid"`
	DefaultRole        string `json:"defaultRole" yaml:"defaultRole"`
	DefaultExpireTime  int    `json:"defaultExpireTime" yaml:"defaultExpireTime"`
}

// ConfigSummary carries neither the admin secret nor the certificate.
type ConfigSummary struct {
	AppID              string `json:"agoraAppId" yaml:"agoraAppId"`
	DefaultChannelName string `json:"defaultChannelName" yaml:"defaultChannelName"`
	DefaultUID         string `json:"defaultUid" yaml:"defaultUid"`
	DefaultRole        string `json:"defaultRole" yaml:"defaultRole"`
	DefaultExpireTime  int    `json:"defaultExpireTime" yaml:"defaultExpireTime"`
}

// ConfigPatch is a partial update. Nil fields are left untouched; a non-nil
// empty string clears the field.
type ConfigPatch struct {
	AppID              *string     `json:"agoraAppId,omitempty"`
	AppCertificate     *string     `json:"agoraAppCertificate,omitempty"`
	AdminSecret        *string     `json:"adminPassword,omitempty"`
	DefaultChannelName *string     `json:"defaultChannelName,omitempty"`
	DefaultUID         *FlexString `json:"defaultUid,omitempty"`
	DefaultRole        *string     `json:"defaultRole,omitempty"`
	DefaultExpireTime  *FlexString `json:"defaultExpireTime,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p ConfigPatch) IsEmpty() bool {
	return p.AppID == nil && p.AppCertificate == nil && p.AdminSecret == nil &&
		p.DefaultChannelName == nil && p.DefaultUID == nil &&
		p.DefaultRole == nil && p.DefaultExpireTime == nil
}

// Apply returns c with the patch merged in. The receiver is not modified.
func (p ConfigPatch) Apply(c ConfigRecord) (ConfigRecord, error) {
	out := c
	if p.AppID != nil {
		out.AppID = strings.TrimSpace(*p.AppID)
	}
	if p.AppCertificate != nil {
		out.AppCertificate = strings.TrimSpace(*p.AppCertificate)
	}
	if p.AdminSecret != nil {
		if *p.AdminSecret == "" {
			return c, ErrInvalidConfigValue.WithDetails("adminPassword must not be empty")
		}
		out.AdminSecret = *p.AdminSecret
	}
	if p.DefaultChannelName != nil {
		out.DefaultChannelName = *p.DefaultChannelName
	}
	if p.DefaultUID != nil {
		uid := strings.TrimSpace(p.DefaultUID.String())
		if uid != "" {
			if _, err := strconv.ParseUint(uid, 10, 32); err != nil {
				return c, ErrInvalidConfigValue.WithDetails("defaultUid must be a non-negative integer in the uint32 range")
			}
		}
		out.DefaultUID = uid
	}
	if p.DefaultRole != nil {
		role, err := ParseRole(*p.DefaultRole)
		if err != nil {
			return c, ErrInvalidConfigValue.WithDetails("defaultRole must be publisher or subscriber")
		}
		out.DefaultRole = string(role)
	}
	if p.DefaultExpireTime != nil {
		n, err := strconv.Atoi(strings.TrimSpace(p.DefaultExpireTime.String()))
		if err != nil || n <= 0 {
			return c, ErrInvalidConfigValue.WithDetails("defaultExpireTime must be a positive integer")
		}
		out.DefaultExpireTime = n
	}
	return out, nil
}
