package service

import (
	"errors"
	"sync"
	"time"

	"github.com/avtoken/avtoken-go/internal/core/domain"
)

func strPtr(s string) *string { return &s }

// fixedClock returns a clock frozen at t.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

type countingRecorder struct {
	mu          sync.Mutex
	issued      map[domain.RequestKind]int
	failed      []string
	authFailed  int
	persistence int
}

func (r *countingRecorder) TokenIssued(kind domain.RequestKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.issued == nil {
		r.issued = make(map[domain.RequestKind]int)
	}
	r.issued[kind]++
}

func (r *countingRecorder) TokenFailed(_ domain.RequestKind, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed = append(r.failed, reason)
}

func (r *countingRecorder) AdminAuthFailed() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.authFailed++
}

func (r *countingRecorder) PersistenceFailed(string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.persistence++
}

// fakeSigner records its inputs and returns a predictable token.
type fakeSigner struct {
	mu       sync.Mutex
	err      error
	lastUID  uint32
	lastRole domain.Role
	lastName string
	lastExp  uint32
	calls    int
}

func (f *fakeSigner) SignRTC(appID, cert, channel string, uid uint32, role domain.Role, expireAt uint32) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	f.lastName, f.lastUID, f.lastRole, f.lastExp = channel, uid, role, expireAt
	return "006" + appID + "rtc", nil
}

func (f *fakeSigner) SignRTM(appID, cert, account string, expireAt uint32) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	f.lastName, f.lastExp = account, expireAt
	return "006" + appID + "rtm", nil
}

// staticCreds serves a fixed record.
type staticCreds struct {
	rec domain.ConfigRecord
}

func (s staticCreds) Get() domain.ConfigRecord { return s.rec }

// memoryUsage is an in-memory UsageRecorder.
type memoryUsage struct {
	mu    sync.Mutex
	kinds []domain.RequestKind
	err   error
}

func (m *memoryUsage) Record(kind domain.RequestKind) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.kinds = append(m.kinds, kind)
	return m.err
}

var errDiskFull = errors.New("disk full")
