package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestDefaultConfigRecord(t *testing.T) {
	c := DefaultConfigRecord()

	if c.AdminSecret != "admin123" {
		t.Errorf("AdminSecret = %q, want admin123", c.AdminSecret)
	}
	if c.DefaultChannelName != "test-channel" || c.DefaultUID != "0" || c.DefaultRole != "publisher" {
		t.Errorf("unexpected defaults: %+v", c)
	}
	if c.DefaultExpireTime != 3600 {
		t.Errorf("DefaultExpireTime = %d, want 3600", c.DefaultExpireTime)
	}
	if c.HasValidCredentials() {
		t.Error("default record should not have valid credentials")
	}
}

func TestConfigRecord_JSONFieldNames(t *testing.T) {
	data, err := json.Marshal(DefaultConfigRecord())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	for _, key := range []string{
		"agoraAppId", "agoraAppCertificate", "adminPassword",
		"defaultChannelName", "defaultUid", "defaultRole", "defaultExpireTime",
	} {
		if _, ok := m[key]; !ok {
			t.Errorf("missing key %q in %s", key, data)
		}
	}
	if len(m) != 7 {
		t.Errorf("expected 7 keys, got %d", len(m))
	}
}

func TestConfigRecord_ViewStripsSecret(t *testing.T) {
	c := DefaultConfigRecord()
	c.AppID = "app"
	c.AppCertificate = "cert"

	data, _ := json.Marshal(c.View())
	var m map[string]any
	_ = json.Unmarshal(data, &m)

	if _, ok := m["adminPassword"]; ok {
		t.Error("view must not contain adminPassword")
	}
	if m["agoraAppCertificate"] != "cert" {
		t.Errorf("view should keep certificate, got %v", m["agoraAppCertificate"])
	}

	data, _ = json.Marshal(c.Summary())
	m = nil
	_ = json.Unmarshal(data, &m)
	if _, ok := m["agoraAppCertificate"]; ok {
		t.Error("summary must not contain agoraAppCertificate")
	}
}

func TestConfigPatch_Apply(t *testing.T) {
	base := DefaultConfigRecord()
	base.AppID = "app-1"
	base.AppCertificate = "cert-1"

	t.Run("partial update keeps omitted fields", func(t *testing.T) {
		got, err := ConfigPatch{DefaultExpireTime: Ptr("7200")}.Apply(base)
		if err != nil {
			t.Fatalf("Apply() error = %v", err)
		}
		if got.DefaultExpireTime != 7200 {
			t.Errorf("DefaultExpireTime = %d, want 7200", got.DefaultExpireTime)
		}
		if got.AppID != "app-1" || got.AppCertificate != "cert-1" {
			t.Errorf("credentials changed: %+v", got)
		}
		if base.DefaultExpireTime != 3600 {
			t.Error("Apply must not modify its argument")
		}
	})

	t.Run("empty string clears field", func(t *testing.T) {
		got, err := ConfigPatch{AppID: strPtr("")}.Apply(base)
		if err != nil {
			t.Fatalf("Apply() error = %v", err)
		}
		if got.AppID != "" {
			t.Errorf("AppID = %q, want empty", got.AppID)
		}
	})

	t.Run("role normalized", func(t *testing.T) {
		got, err := ConfigPatch{DefaultRole: strPtr("Subscriber")}.Apply(base)
		if err != nil {
			t.Fatalf("Apply() error = %v", err)
		}
		if got.DefaultRole != "subscriber" {
			t.Errorf("DefaultRole = %q, want subscriber", got.DefaultRole)
		}
	})

	t.Run("numeric uid accepted", func(t *testing.T) {
		got, err := ConfigPatch{DefaultUID: Ptr(" 4294967295 ")}.Apply(base)
		if err != nil {
			t.Fatalf("Apply() error = %v", err)
		}
		if got.DefaultUID != "4294967295" {
			t.Errorf("DefaultUID = %q, want 4294967295", got.DefaultUID)
		}
	})

	invalid := []struct {
		name  string
		patch ConfigPatch
	}{
		{"bad role", ConfigPatch{DefaultRole: strPtr("admin")}},
		{"zero expire", ConfigPatch{DefaultExpireTime: Ptr("0")}},
		{"non-numeric expire", ConfigPatch{DefaultExpireTime: Ptr("soon")}},
		{"non-numeric uid", ConfigPatch{DefaultUID: Ptr("abc")}},
		{"negative uid", ConfigPatch{DefaultUID: Ptr("-1")}},
		{"uid out of range", ConfigPatch{DefaultUID: Ptr("4294967296")}},
		{"empty admin secret", ConfigPatch{AdminSecret: strPtr("")}},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.patch.Apply(base)
			if !errors.Is(err, ErrInvalidConfigValue) {
				t.Fatalf("Apply() error = %v, want ErrInvalidConfigValue", err)
			}
			if got != base {
				t.Error("failed Apply should return the original record")
			}
		})
	}
}

func TestConfigPatch_UnmarshalNumbers(t *testing.T) {
	var p ConfigPatch
	body := `{"defaultUid": 42, "defaultExpireTime": 600, "agoraAppId": "x"}`
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if p.DefaultUID == nil || p.DefaultUID.String() != "42" {
		t.Errorf("DefaultUID = %v, want 42", p.DefaultUID)
	}
	if p.AppCertificate != nil {
		t.Error("absent field should stay nil")
	}
	if p.IsEmpty() {
		t.Error("IsEmpty() = true, want false")
	}

	got, err := p.Apply(DefaultConfigRecord())
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if got.DefaultExpireTime != 600 || got.DefaultUID != "42" {
		t.Errorf("unexpected record %+v", got)
	}
}
