package service

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/avtoken/avtoken-go/internal/core/domain"
)

// Signer builds platform access tokens. Implementations treat the token
// format as opaque; expireAt is an absolute Unix timestamp in seconds.
type Signer interface {
	SignRTC(appID, appCertificate, channelName string, uid uint32, role domain.Role, expireAt uint32) (string, error)
	SignRTM(appID, appCertificate, account string, expireAt uint32) (string, error)
}

// CredentialSource provides the current signing credentials and defaults.
type CredentialSource interface {
	Get() domain.ConfigRecord
}

// UsageRecorder counts successful issuances.
type UsageRecorder interface {
	Record(kind domain.RequestKind) error
}

// RTCRequest holds caller-supplied RTC parameters. Empty strings mean absent.
type RTCRequest struct {
	ChannelName string
	UID         string
	Role        string
	ExpireTime  string
}

// RTMRequest holds caller-supplied RTM parameters. Empty strings mean absent.
type RTMRequest struct {
	UID        string
	ExpireTime string
}

// TokenIssuer validates issuance requests, signs tokens and counts them.
type TokenIssuer struct {
	creds  CredentialSource
	usage  UsageRecorder
	signer Signer
	opts   options
}

// NewTokenIssuer creates a TokenIssuer.
func NewTokenIssuer(creds CredentialSource, usage UsageRecorder, signer Signer, opts ...Option) *TokenIssuer {
	return &TokenIssuer{
		creds:  creds,
		usage:  usage,
		signer: signer,
		opts:   buildOptions("token_issuer", opts),
	}
}

// IssueRTC issues an RTC token from explicit parameters. Role defaults to
// publisher and the expiry to the configured default.
func (s *TokenIssuer) IssueRTC(ctx context.Context, req RTCRequest) (*domain.IssuedToken, error) {
	cfg := s.creds.Get()
	if req.Role == "" {
		req.Role = string(domain.RolePublisher)
	}
	return s.issueRTC(ctx, cfg, req)
}

// IssueRTCWithDefaults fills every absent field from the configured defaults
// before issuing.
func (s *TokenIssuer) IssueRTCWithDefaults(ctx context.Context, req RTCRequest) (*domain.IssuedToken, error) {
	cfg := s.creds.Get()
	if req.ChannelName == "" {
		req.ChannelName = cfg.DefaultChannelName
	}
	if req.UID == "" {
		req.UID = cfg.DefaultUID
	}
	if req.Role == "" {
		req.Role = cfg.DefaultRole
	}
	return s.issueRTC(ctx, cfg, req)
}

// IssueRTM issues an RTM token from explicit parameters.
func (s *TokenIssuer) IssueRTM(ctx context.Context, req RTMRequest) (*domain.IssuedToken, error) {
	return s.issueRTM(ctx, s.creds.Get(), req)
}

// IssueRTMWithDefaults uses the configured default uid when none is given.
func (s *TokenIssuer) IssueRTMWithDefaults(ctx context.Context, req RTMRequest) (*domain.IssuedToken, error) {
	cfg := s.creds.Get()
	if req.UID == "" {
		req.UID = cfg.DefaultUID
	}
	return s.issueRTM(ctx, cfg, req)
}

func (s *TokenIssuer) issueRTC(ctx context.Context, cfg domain.ConfigRecord, req RTCRequest) (*domain.IssuedToken, error) {
	if !cfg.HasValidCredentials() {
		return nil, s.fail(domain.KindRTC, domain.ErrCredentialsNotConfigured)
	}
	if req.ChannelName == "" {
		return nil, s.fail(domain.KindRTC, domain.ErrChannelNameRequired)
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return nil, s.fail(domain.KindRTC, err)
	}
	uid, err := parseUID(req.UID)
	if err != nil {
		return nil, s.fail(domain.KindRTC, err)
	}
	seconds, expireAt, err := s.expiry(cfg, req.ExpireTime)
	if err != nil {
		return nil, s.fail(domain.KindRTC, err)
	}

	token, err := s.signer.SignRTC(cfg.AppID, cfg.AppCertificate, req.ChannelName, uid, role, expireAt)
	if err != nil {
		return nil, s.fail(domain.KindRTC, domain.ErrSigningFailed.WithCause(err).WithDetails(err.Error()))
	}

	s.count(ctx, domain.KindRTC)
	s.opts.logger.InfoContext(ctx, "issued rtc token",
		"channel", req.ChannelName,
		"uid", uid,
		"role", role,
	)

	return &domain.IssuedToken{
		Kind:          domain.KindRTC,
		Token:         token,
		AppID:         cfg.AppID,
		ChannelName:   req.ChannelName,
		UID:           uid,
		Role:          role,
		ExpireSeconds: seconds,
		ExpiresAt:     unixTime(expireAt),
	}, nil
}

func (s *TokenIssuer) issueRTM(ctx context.Context, cfg domain.ConfigRecord, req RTMRequest) (*domain.IssuedToken, error) {
	if !cfg.HasValidCredentials() {
		return nil, s.fail(domain.KindRTM, domain.ErrCredentialsNotConfigured)
	}
	if req.UID == "" {
		return nil, s.fail(domain.KindRTM, domain.ErrRTMUIDRequired)
	}
	seconds, expireAt, err := s.expiry(cfg, req.ExpireTime)
	if err != nil {
		return nil, s.fail(domain.KindRTM, err)
	}

	token, err := s.signer.SignRTM(cfg.AppID, cfg.AppCertificate, req.UID, expireAt)
	if err != nil {
		return nil, s.fail(domain.KindRTM, domain.ErrSigningFailed.WithCause(err).WithDetails(err.Error()))
	}

	s.count(ctx, domain.KindRTM)
	s.opts.logger.InfoContext(ctx, "issued rtm token", "uid", req.UID)

	return &domain.IssuedToken{
		Kind:          domain.KindRTM,
		Token:         token,
		AppID:         cfg.AppID,
		Account:       req.UID,
		ExpireSeconds: seconds,
		ExpiresAt:     unixTime(expireAt),
	}, nil
}

// expiry resolves the lifetime in seconds and the absolute expiry.
func (s *TokenIssuer) expiry(cfg domain.ConfigRecord, raw string) (int, uint32, error) {
	seconds := cfg.DefaultExpireTime
	if raw = strings.TrimSpace(raw); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return 0, 0, domain.ErrInvalidExpireTime
		}
		seconds = n
	}
	if seconds <= 0 {
		seconds = domain.DefaultExpireTimeSeconds
	}

	expireAt := s.opts.now().Unix() + int64(seconds)
	if expireAt > math.MaxUint32 {
		return 0, 0, domain.ErrInvalidExpireTime
	}
	return seconds, uint32(expireAt), nil
}

// count records a successful issuance. A failed write is logged and
// surfaced through metrics but does not fail the issuance.
func (s *TokenIssuer) count(ctx context.Context, kind domain.RequestKind) {
	s.opts.recorder.TokenIssued(kind)
	if err := s.usage.Record(kind); err != nil {
		s.opts.logger.WarnContext(ctx, "usage not persisted", "kind", kind, "error", err)
	}
}

func (s *TokenIssuer) fail(kind domain.RequestKind, err error) error {
	s.opts.recorder.TokenFailed(kind, domain.GetErrorCode(err))
	return err
}

func unixTime(sec uint32) time.Time {
	return time.Unix(int64(sec), 0).UTC()
}

// parseUID accepts an empty string (0, platform-assigned) or a decimal
// number in the uint32 range.
func parseUID(raw string) (uint32, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, domain.ErrInvalidUID
	}
	return uint32(n), nil
}
