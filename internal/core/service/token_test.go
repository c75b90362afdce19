package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/avtoken/avtoken-go/internal/core/domain"
)

var issueTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func configuredRecord() domain.ConfigRecord {
	rec := domain.DefaultConfigRecord()
	rec.AppID = "app-id"
	rec.AppCertificate = "app-cert"
	return rec
}

func newTestIssuer(rec domain.ConfigRecord) (*TokenIssuer, *fakeSigner, *memoryUsage, *countingRecorder) {
	signer := &fakeSigner{}
	usage := &memoryUsage{}
	metrics := &countingRecorder{}
	issuer := NewTokenIssuer(staticCreds{rec: rec}, usage, signer,
		WithLogger(quietLogger()),
		WithClock(fixedClock(issueTime)),
		WithRecorder(metrics),
	)
	return issuer, signer, usage, metrics
}

func TestTokenIssuer_IssueRTC(t *testing.T) {
	issuer, signer, usage, metrics := newTestIssuer(configuredRecord())

	tok, err := issuer.IssueRTC(context.Background(), RTCRequest{
		ChannelName: "test-channel",
		Role:        "publisher",
		ExpireTime:  "3600",
	})
	if err != nil {
		t.Fatalf("IssueRTC() error = %v", err)
	}

	if tok.UID != 0 {
		t.Errorf("UID = %d, want 0", tok.UID)
	}
	if tok.Role != domain.RolePublisher {
		t.Errorf("Role = %q", tok.Role)
	}
	if tok.AppID != "app-id" || tok.ChannelName != "test-channel" {
		t.Errorf("unexpected token fields %+v", tok)
	}
	wantExp := issueTime.Add(3600 * time.Second)
	if !tok.ExpiresAt.Equal(wantExp) {
		t.Errorf("ExpiresAt = %v, want %v", tok.ExpiresAt, wantExp)
	}
	if tok.ExpireAt() != "2024-06-01T13:00:00.000Z" {
		t.Errorf("ExpireAt() = %q", tok.ExpireAt())
	}
	if signer.lastExp != uint32(wantExp.Unix()) {
		t.Errorf("signer expiry = %d, want %d", signer.lastExp, wantExp.Unix())
	}
	if len(usage.kinds) != 1 || usage.kinds[0] != domain.KindRTC {
		t.Errorf("usage = %v, want [rtc]", usage.kinds)
	}
	if metrics.issued[domain.KindRTC] != 1 {
		t.Errorf("metrics issued = %v", metrics.issued)
	}
}

func TestTokenIssuer_IssueRTC_Defaults(t *testing.T) {
	rec := configuredRecord()
	rec.DefaultExpireTime = 120
	issuer, signer, _, _ := newTestIssuer(rec)

	tok, err := issuer.IssueRTC(context.Background(), RTCRequest{ChannelName: "c", UID: "42", Role: "SUBSCRIBER"})
	if err != nil {
		t.Fatalf("IssueRTC() error = %v", err)
	}
	if tok.ExpireSeconds != 120 {
		t.Errorf("ExpireSeconds = %d, want configured 120", tok.ExpireSeconds)
	}
	if tok.UID != 42 || signer.lastUID != 42 {
		t.Errorf("UID = %d, signer got %d", tok.UID, signer.lastUID)
	}
	if tok.Role != domain.RoleSubscriber || signer.lastRole != domain.RoleSubscriber {
		t.Errorf("Role = %q", tok.Role)
	}

	// Explicit mode defaults the role to publisher.
	tok, err = issuer.IssueRTC(context.Background(), RTCRequest{ChannelName: "c"})
	if err != nil {
		t.Fatalf("IssueRTC() error = %v", err)
	}
	if tok.Role != domain.RolePublisher {
		t.Errorf("Role = %q, want publisher", tok.Role)
	}
}

func TestTokenIssuer_IssueRTC_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  RTCRequest
		want *domain.DomainError
	}{
		{"missing channel", RTCRequest{Role: "publisher"}, domain.ErrChannelNameRequired},
		{"bad role", RTCRequest{ChannelName: "c", Role: "host"}, domain.ErrInvalidRole},
		{"non-numeric uid", RTCRequest{ChannelName: "c", UID: "abc"}, domain.ErrInvalidUID},
		{"negative uid", RTCRequest{ChannelName: "c", UID: "-1"}, domain.ErrInvalidUID},
		{"uid overflow", RTCRequest{ChannelName: "c", UID: "4294967296"}, domain.ErrInvalidUID},
		{"zero expiry", RTCRequest{ChannelName: "c", ExpireTime: "0"}, domain.ErrInvalidExpireTime},
		{"bad expiry", RTCRequest{ChannelName: "c", ExpireTime: "soon"}, domain.ErrInvalidExpireTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issuer, signer, usage, _ := newTestIssuer(configuredRecord())

			tok, err := issuer.IssueRTC(context.Background(), tt.req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("IssueRTC() error = %v, want %v", err, tt.want)
			}
			if tok != nil {
				t.Error("no token expected on failure")
			}
			if signer.calls != 0 {
				t.Error("signer should not be called")
			}
			if len(usage.kinds) != 0 {
				t.Error("failed issuance must not be counted")
			}
		})
	}
}

func TestTokenIssuer_MaxUID(t *testing.T) {
	issuer, _, _, _ := newTestIssuer(configuredRecord())
	tok, err := issuer.IssueRTC(context.Background(), RTCRequest{ChannelName: "c", UID: "4294967295"})
	if err != nil {
		t.Fatalf("IssueRTC() error = %v", err)
	}
	if tok.UID != 4294967295 {
		t.Errorf("UID = %d", tok.UID)
	}
}

func TestTokenIssuer_NotConfigured(t *testing.T) {
	issuer, signer, usage, metrics := newTestIssuer(domain.DefaultConfigRecord())

	_, err := issuer.IssueRTC(context.Background(), RTCRequest{ChannelName: "c"})
	if !errors.Is(err, domain.ErrCredentialsNotConfigured) {
		t.Errorf("IssueRTC() error = %v, want ErrCredentialsNotConfigured", err)
	}
	_, err = issuer.IssueRTM(context.Background(), RTMRequest{UID: "u"})
	if !errors.Is(err, domain.ErrCredentialsNotConfigured) {
		t.Errorf("IssueRTM() error = %v, want ErrCredentialsNotConfigured", err)
	}
	if signer.calls != 0 || len(usage.kinds) != 0 {
		t.Error("nothing should be signed or counted")
	}
	if len(metrics.failed) != 2 || metrics.failed[0] != "AT-CONF-5001" {
		t.Errorf("failure reasons = %v", metrics.failed)
	}
}

func TestTokenIssuer_IssueRTM(t *testing.T) {
	issuer, signer, usage, _ := newTestIssuer(configuredRecord())

	tok, err := issuer.IssueRTM(context.Background(), RTMRequest{UID: "user-42"})
	if err != nil {
		t.Fatalf("IssueRTM() error = %v", err)
	}
	if tok.Account != "user-42" || signer.lastName != "user-42" {
		t.Errorf("Account = %q, signer got %q", tok.Account, signer.lastName)
	}
	if tok.ExpireSeconds != 3600 {
		t.Errorf("ExpireSeconds = %d, want default 3600", tok.ExpireSeconds)
	}
	if len(usage.kinds) != 1 || usage.kinds[0] != domain.KindRTM {
		t.Errorf("usage = %v, want [rtm]", usage.kinds)
	}

	if _, err := issuer.IssueRTM(context.Background(), RTMRequest{}); !errors.Is(err, domain.ErrRTMUIDRequired) {
		t.Errorf("IssueRTM() without uid error = %v", err)
	}
}

func TestTokenIssuer_WithDefaults(t *testing.T) {
	rec := configuredRecord()
	rec.DefaultChannelName = "lobby"
	rec.DefaultUID = "9"
	rec.DefaultRole = "subscriber"
	rec.DefaultExpireTime = 60
	issuer, _, _, _ := newTestIssuer(rec)

	tok, err := issuer.IssueRTCWithDefaults(context.Background(), RTCRequest{})
	if err != nil {
		t.Fatalf("IssueRTCWithDefaults() error = %v", err)
	}
	if tok.ChannelName != "lobby" || tok.UID != 9 || tok.Role != domain.RoleSubscriber || tok.ExpireSeconds != 60 {
		t.Errorf("defaults not applied: %+v", tok)
	}

	// Caller fields win one by one.
	tok, err = issuer.IssueRTCWithDefaults(context.Background(), RTCRequest{ChannelName: "room", ExpireTime: "30"})
	if err != nil {
		t.Fatalf("IssueRTCWithDefaults() error = %v", err)
	}
	if tok.ChannelName != "room" || tok.UID != 9 || tok.ExpireSeconds != 30 {
		t.Errorf("overrides not applied: %+v", tok)
	}

	rtm, err := issuer.IssueRTMWithDefaults(context.Background(), RTMRequest{})
	if err != nil {
		t.Fatalf("IssueRTMWithDefaults() error = %v", err)
	}
	if rtm.Account != "9" {
		t.Errorf("Account = %q, want default uid 9", rtm.Account)
	}
}

func TestTokenIssuer_SignerFailure(t *testing.T) {
	issuer, signer, usage, _ := newTestIssuer(configuredRecord())
	signer.err = errors.New("bad certificate")

	_, err := issuer.IssueRTC(context.Background(), RTCRequest{ChannelName: "c"})
	if !errors.Is(err, domain.ErrSigningFailed) {
		t.Fatalf("IssueRTC() error = %v, want ErrSigningFailed", err)
	}
	if len(usage.kinds) != 0 {
		t.Error("failed signing must not be counted")
	}
}

func TestTokenIssuer_UsageFailureStillIssues(t *testing.T) {
	issuer, _, usage, _ := newTestIssuer(configuredRecord())
	usage.err = domain.ErrPersistence

	tok, err := issuer.IssueRTM(context.Background(), RTMRequest{UID: "u"})
	if err != nil {
		t.Fatalf("IssueRTM() error = %v", err)
	}
	if tok.Token == "" {
		t.Error("token should be returned even if counting failed")
	}
}

func TestTokenIssuer_EachCallCounted(t *testing.T) {
	issuer, _, usage, _ := newTestIssuer(configuredRecord())
	req := RTCRequest{ChannelName: "same"}
	for i := 0; i < 3; i++ {
		if _, err := issuer.IssueRTC(context.Background(), req); err != nil {
			t.Fatal(err)
		}
	}
	if len(usage.kinds) != 3 {
		t.Errorf("identical requests counted %d times, want 3", len(usage.kinds))
	}
}
