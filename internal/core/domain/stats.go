package domain

import (
	"fmt"
	"strings"
	"time"
)

// MaxHistory bounds StatsRecord.RequestHistory.
const MaxHistory = 100

// isoMillis matches the millisecond UTC layout used in the on-disk files.
const isoMillis = "2006-01-02T15:04:05.000Z"

// RequestKind classifies a counted request.
type RequestKind string

const (
	KindRTC   RequestKind = "rtc"
	KindRTM   RequestKind = "rtm"
	KindAdmin RequestKind = "admin"
)

// ParseRequestKind validates a kind name.
func ParseRequestKind(s string) (RequestKind, bool) {
	switch k := RequestKind(strings.ToLower(s)); k {
	case KindRTC, KindRTM, KindAdmin:
		return k, true
	}
	return "", false
}

// Timestamp is a time serialized as an ISO-8601 UTC string with millisecond
// precision, e.g. 2024-05-01T10:00:00.000Z.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// FormatISO formats t in the on-disk timestamp layout.
func FormatISO(t time.Time) string {
	return t.UTC().Format(isoMillis)
}

// String implements fmt.Stringer.
func (t Timestamp) String() string {
	return FormatISO(t.Time)
}

// MarshalText implements encoding.TextMarshaler.
func (t Timestamp) MarshalText() ([]byte, error) {
	return []byte(FormatISO(t.Time)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Timestamp) UnmarshalText(b []byte) error {
	parsed, err := time.Parse(time.RFC3339Nano, string(b))
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// MarshalJSON overrides the promoted time.Time method.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + FormatISO(t.Time) + `"`), nil
}

// UnmarshalJSON overrides the promoted time.Time method.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("timestamp must be a JSON string, got %s", s)
	}
	return t.UnmarshalText([]byte(s[1 : len(s)-1]))
}

// RequestEvent is one entry in the usage history.
type RequestEvent struct {
	Type      RequestKind `json:"type" yaml:"type"`
	Timestamp Timestamp   `json:"timestamp" yaml:"timestamp"`
}

// StatsRecord is the single file-backed usage record.
//
// AdminRequests is part of the persisted format but nothing increments it;
// admin reads and writes are not counted.
type StatsRecord struct {
	TotalRequests  int64          `json:"totalRequests" yaml:"totalRequests"`
	RTCRequests    int64          `json:"rtcRequests" yaml:"rtcRequests"`
	RTMRequests    int64          `json:"rtmRequests" yaml:"rtmRequests"`
	AdminRequests  int64          `json:"adminRequests" yaml:"adminRequests"`
	LastReset      Timestamp      `json:"lastReset" yaml:"lastReset"`
	RequestHistory []RequestEvent `json:"requestHistory" yaml:"requestHistory"`
}

// NewStatsRecord returns a zeroed record reset at now.
func NewStatsRecord(now time.Time) StatsRecord {
	return StatsRecord{
		LastReset:      NewTimestamp(now),
		RequestHistory: []RequestEvent{},
	}
}

// Record counts one request of the given kind at now.
func (s *StatsRecord) Record(kind RequestKind, now time.Time) {
	s.TotalRequests++
	switch kind {
	case KindRTC:
		s.RTCRequests++
	case KindRTM:
		s.RTMRequests++
	case KindAdmin:
		s.AdminRequests++
	}

	n := len(s.RequestHistory) + 1
	if n > MaxHistory {
		n = MaxHistory
	}
	history := make([]RequestEvent, n)
	history[0] = RequestEvent{Type: kind, Timestamp: NewTimestamp(now)}
	copy(history[1:], s.RequestHistory)
	s.RequestHistory = history
}

// Clone returns a deep copy.
func (s StatsRecord) Clone() StatsRecord {
	out := s
	out.RequestHistory = make([]RequestEvent, len(s.RequestHistory))
	copy(out.RequestHistory, s.RequestHistory)
	return out
}

// Normalize repairs a record read from disk: history is never nil and never
// longer than MaxHistory.
func (s *StatsRecord) Normalize() {
	if s.RequestHistory == nil {
		s.RequestHistory = []RequestEvent{}
	}
	if len(s.RequestHistory) > MaxHistory {
		s.RequestHistory = s.RequestHistory[:MaxHistory]
	}
}
