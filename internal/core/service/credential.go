package service

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/avtoken/avtoken-go/internal/core/domain"
	"github.com/avtoken/avtoken-go/internal/infra/confloader"
	"github.com/avtoken/avtoken-go/pkg/secret"
)

// DefaultCredentialEnv maps environment variables onto config record keys.
// Set, non-empty variables win over the file on every load.
var DefaultCredentialEnv = map[string]string{
	"AGORA_APP_ID":          "agoraAppId",
	"AGORA_APP_CERTIFICATE": "agoraAppCertificate",
	"ADMIN_PASSWORD":        "adminPassword",
}

// ConfigFile is the backing file of the CredentialStore.
type ConfigFile interface {
	Path() string
	Write(v any) error
	Equal(v any) bool
}

// CredentialStoreConfig holds configuration for CredentialStore.
type CredentialStoreConfig struct {
	// EnvAliases maps environment variable names to record keys.
	EnvAliases map[string]string

	// HashAdminSecret stores admin secrets written through Update as
	// argon2id hashes.
	HashAdminSecret bool
}

// DefaultCredentialStoreConfig returns default configuration.
func DefaultCredentialStoreConfig() *CredentialStoreConfig {
	return &CredentialStoreConfig{
		EnvAliases: DefaultCredentialEnv,
	}
}

// CredentialStore holds the configuration record.
//
// Two layers are kept: stored is what the file holds (defaults < file), and
// effective adds environment overrides on top. Only stored is ever written
// back, so environment values never leak into the file.
type CredentialStore struct {
	file ConfigFile
	cfg  *CredentialStoreConfig
	opts options

	mu         sync.RWMutex
	stored     domain.ConfigRecord
	effective  domain.ConfigRecord
	overridden []string
}

// NewCredentialStore creates a store backed by file. Call Load before use.
func NewCredentialStore(file ConfigFile, cfg *CredentialStoreConfig, opts ...Option) *CredentialStore {
	if cfg == nil {
		cfg = DefaultCredentialStoreConfig()
	}
	s := &CredentialStore{
		file:      file,
		cfg:       cfg,
		opts:      buildOptions("credential_store", opts),
		stored:    domain.DefaultConfigRecord(),
		effective: domain.DefaultConfigRecord(),
	}
	return s
}

// Load reads the file and applies environment overrides. A missing or
// unreadable file falls back to the built-in defaults; Load never fails.
func (s *CredentialStore) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()
}

// ReloadIfChanged reloads when the file no longer matches the stored
// record. It returns true if a reload happened.
func (s *CredentialStore) ReloadIfChanged() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file.Equal(s.stored) {
		return false
	}
	s.loadLocked()
	s.opts.logger.Info("configuration reloaded from file", "path", s.file.Path())
	return true
}

func (s *CredentialStore) loadLocked() {
	stored, err := s.readStored()
	if err != nil {
		s.opts.logger.Warn("config file unusable, using defaults",
			"path", s.file.Path(),
			"error", err,
		)
		stored = domain.DefaultConfigRecord()
	}

	effective, overridden, err := s.overlayEnv(stored)
	if err != nil {
		s.opts.logger.Warn("ignoring environment overrides", "error", err)
		effective, overridden = stored, nil
	}

	s.stored = stored
	s.effective = effective
	s.overridden = overridden
}

func (s *CredentialStore) readStored() (domain.ConfigRecord, error) {
	l := confloader.NewLoader(confloader.WithEnvPrefix(""))
	if err := l.LoadMap(domain.DefaultConfigRecord().ToMap()); err != nil {
		return domain.ConfigRecord{}, err
	}
	if err := l.LoadFile(s.file.Path()); err != nil {
		return domain.ConfigRecord{}, err
	}

	var rec domain.ConfigRecord
	if err := l.Unmarshal(&rec); err != nil {
		return domain.ConfigRecord{}, fmt.Errorf("decode config record: %w", err)
	}
	return rec, nil
}

// overlayEnv layers the configured environment variables over base and
// reports which keys they replaced.
func (s *CredentialStore) overlayEnv(base domain.ConfigRecord) (domain.ConfigRecord, []string, error) {
	l := confloader.NewLoader(confloader.WithEnvPrefix(""))
	if err := l.LoadMap(base.ToMap()); err != nil {
		return base, nil, err
	}
	if err := l.LoadEnvAliases(s.cfg.EnvAliases); err != nil {
		return base, nil, err
	}

	var rec domain.ConfigRecord
	if err := l.Unmarshal(&rec); err != nil {
		return base, nil, err
	}

	var overridden []string
	for name, key := range s.cfg.EnvAliases {
		if os.Getenv(name) != "" {
			overridden = append(overridden, key)
		}
	}
	sort.Strings(overridden)
	return rec, overridden, nil
}

// Get returns the effective record.
func (s *CredentialStore) Get() domain.ConfigRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.effective
}

// HasValidCredentials reports whether app id and certificate are both set.
func (s *CredentialStore) HasValidCredentials() bool {
	return s.Get().HasValidCredentials()
}

// Overridden lists record keys currently supplied by the environment.
func (s *CredentialStore) Overridden() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.overridden...)
}

// UsingDefaultSecret reports whether the admin secret is still the built-in one.
func (s *CredentialStore) UsingDefaultSecret() bool {
	return s.Get().AdminSecret == domain.DefaultAdminSecret
}

// VerifySecret compares candidate with the effective admin secret.
func (s *CredentialStore) VerifySecret(candidate string) bool {
	if candidate == "" {
		return false
	}
	return secret.Verify(candidate, s.Get().AdminSecret)
}

// Update merges patch into the record and rewrites the file.
//
// Validation errors leave the store untouched. A write failure returns
// ErrPersistence but the merged record stays in memory.
func (s *CredentialStore) Update(patch domain.ConfigPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := patch.Apply(s.stored)
	if err != nil {
		return err
	}

	if patch.AdminSecret != nil && s.cfg.HashAdminSecret {
		hashed, err := secret.Hash(*patch.AdminSecret)
		if err != nil {
			return domain.ErrInternalServer.WithCause(err)
		}
		stored.AdminSecret = hashed
	}

	effective, overridden, err := s.overlayEnv(stored)
	if err != nil {
		effective, overridden = stored, nil
	}
	s.stored = stored
	s.effective = effective
	s.overridden = overridden

	if err := s.file.Write(stored); err != nil {
		s.opts.recorder.PersistenceFailed("config")
		s.opts.logger.Error("failed to save config", "path", s.file.Path(), "error", err)
		return domain.ErrPersistence.WithCause(err)
	}

	s.opts.logger.Info("configuration updated", "fields", patchFields(patch))
	return nil
}

func patchFields(p domain.ConfigPatch) []string {
	var fields []string
	add := func(set bool, name string) {
		if set {
			fields = append(fields, name)
		}
	}
	add(p.AppID != nil, "agoraAppId")
	add(p.AppCertificate != nil, "agoraAppCertificate")
	add(p.AdminSecret != nil, "adminPassword")
	add(p.DefaultChannelName != nil, "defaultChannelName")
	add(p.DefaultUID != nil, "defaultUid")
	add(p.DefaultRole != nil, "defaultRole")
	add(p.DefaultExpireTime != nil, "defaultExpireTime")
	return fields
}

// IsPersistenceError reports whether err came from a failed file write.
func IsPersistenceError(err error) bool {
	return errors.Is(err, domain.ErrPersistence)
}
