package service

import (
	"context"

	"github.com/avtoken/avtoken-go/internal/core/domain"
)

// CredentialManager is the part of CredentialStore the admin gateway uses.
type CredentialManager interface {
	Get() domain.ConfigRecord
	Update(patch domain.ConfigPatch) error
	VerifySecret(candidate string) bool
}

// UsageManager is the part of UsageCounter the admin gateway uses.
type UsageManager interface {
	Snapshot() domain.StatsRecord
	Reset() error
}

// AdminGateway guards config and stats operations with the shared admin
// secret. There are no sessions: every call presents the secret again, so a
// changed secret applies from the next call on.
type AdminGateway struct {
	creds CredentialManager
	usage UsageManager
	opts  options
}

// NewAdminGateway creates an AdminGateway.
func NewAdminGateway(creds CredentialManager, usage UsageManager, opts ...Option) *AdminGateway {
	return &AdminGateway{
		creds: creds,
		usage: usage,
		opts:  buildOptions("admin_gateway", opts),
	}
}

// Verify checks a login attempt. Unlike the guarded operations, an empty
// password is a validation failure rather than an authorization one.
func (g *AdminGateway) Verify(ctx context.Context, password string) error {
	if password == "" {
		return domain.ErrPasswordRequired
	}
	if !g.creds.VerifySecret(password) {
		g.denied(ctx, "verify")
		return domain.ErrPasswordInvalid
	}
	return nil
}

// ReadConfig returns the config record without the admin secret.
func (g *AdminGateway) ReadConfig(ctx context.Context, password string) (domain.ConfigView, error) {
	if err := g.authorize(ctx, password, "read_config"); err != nil {
		return domain.ConfigView{}, err
	}
	return g.creds.Get().View(), nil
}

// WriteConfig applies patch and returns the public summary of the result.
// On a persistence failure the merged record is still live in memory.
func (g *AdminGateway) WriteConfig(ctx context.Context, password string, patch domain.ConfigPatch) (domain.ConfigSummary, error) {
	if err := g.authorize(ctx, password, "write_config"); err != nil {
		return domain.ConfigSummary{}, err
	}
	if err := g.creds.Update(patch); err != nil {
		return domain.ConfigSummary{}, err
	}
	return g.creds.Get().Summary(), nil
}

// ReadStats returns the usage record. Reading is not itself counted.
func (g *AdminGateway) ReadStats(ctx context.Context, password string) (domain.StatsRecord, error) {
	if err := g.authorize(ctx, password, "read_stats"); err != nil {
		return domain.StatsRecord{}, err
	}
	return g.usage.Snapshot(), nil
}

// ResetStats zeroes the usage record and returns it.
func (g *AdminGateway) ResetStats(ctx context.Context, password string) (domain.StatsRecord, error) {
	if err := g.authorize(ctx, password, "reset_stats"); err != nil {
		return domain.StatsRecord{}, err
	}
	if err := g.usage.Reset(); err != nil {
		return domain.StatsRecord{}, err
	}
	return g.usage.Snapshot(), nil
}

func (g *AdminGateway) authorize(ctx context.Context, password, op string) error {
	if password == "" {
		return domain.ErrAdminSecretMissing
	}
	if !g.creds.VerifySecret(password) {
		g.denied(ctx, op)
		return domain.ErrAdminSecretInvalid
	}
	return nil
}

func (g *AdminGateway) denied(ctx context.Context, op string) {
	g.opts.recorder.AdminAuthFailed()
	g.opts.logger.WarnContext(ctx, "admin secret rejected", "operation", op)
}
