package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestStatsRecord_Record(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	s := NewStatsRecord(now)

	kinds := []RequestKind{KindRTC, KindRTM, KindRTC}
	for i, k := range kinds {
		s.Record(k, now.Add(time.Duration(i)*time.Second))
	}

	if s.TotalRequests != 3 || s.RTCRequests != 2 || s.RTMRequests != 1 || s.AdminRequests != 0 {
		t.Errorf("unexpected counters %+v", s)
	}
	if s.TotalRequests != s.RTCRequests+s.RTMRequests+s.AdminRequests {
		t.Error("total should equal the sum of per-kind counters")
	}

	// Newest first.
	for i := range kinds {
		want := kinds[len(kinds)-1-i]
		if s.RequestHistory[i].Type != want {
			t.Errorf("history[%d] = %s, want %s", i, s.RequestHistory[i].Type, want)
		}
	}
}

func TestStatsRecord_HistoryBounded(t *testing.T) {
	now := time.Now()
	s := NewStatsRecord(now)

	for i := 0; i < MaxHistory+25; i++ {
		s.Record(KindRTM, now)
	}
	s.Record(KindRTC, now)

	if len(s.RequestHistory) != MaxHistory {
		t.Fatalf("history length = %d, want %d", len(s.RequestHistory), MaxHistory)
	}
	if s.RequestHistory[0].Type != KindRTC {
		t.Error("newest entry should be first")
	}
	if s.TotalRequests != MaxHistory+26 {
		t.Errorf("TotalRequests = %d", s.TotalRequests)
	}
}

func TestStatsRecord_Clone(t *testing.T) {
	s := NewStatsRecord(time.Now())
	s.Record(KindRTC, time.Now())

	c := s.Clone()
	c.RequestHistory[0].Type = KindRTM
	c.TotalRequests = 99

	if s.RequestHistory[0].Type != KindRTC || s.TotalRequests != 1 {
		t.Error("Clone should not share state with the original")
	}
}

func TestStatsRecord_JSONFormat(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 123_000_000, time.UTC)
	s := NewStatsRecord(now)
	s.Record(KindRTC, now)

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), `"lastReset":"2024-05-01T10:00:00.123Z"`) {
		t.Errorf("unexpected lastReset encoding: %s", data)
	}
	if !strings.Contains(string(data), `"requestHistory":[{"type":"rtc","timestamp":"2024-05-01T10:00:00.123Z"}]`) {
		t.Errorf("unexpected history encoding: %s", data)
	}

	var back StatsRecord
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !back.LastReset.Equal(now) {
		t.Errorf("LastReset = %v, want %v", back.LastReset, now)
	}
}

func TestStatsRecord_Normalize(t *testing.T) {
	var s StatsRecord
	s.Normalize()
	if s.RequestHistory == nil {
		t.Error("Normalize should allocate an empty history")
	}

	s.RequestHistory = make([]RequestEvent, MaxHistory+5)
	s.Normalize()
	if len(s.RequestHistory) != MaxHistory {
		t.Errorf("history length = %d, want %d", len(s.RequestHistory), MaxHistory)
	}
}

func TestParseRequestKind(t *testing.T) {
	if k, ok := ParseRequestKind("RTC"); !ok || k != KindRTC {
		t.Errorf("ParseRequestKind(RTC) = %v, %v", k, ok)
	}
	if _, ok := ParseRequestKind("video"); ok {
		t.Error("unknown kind should be rejected")
	}
}
