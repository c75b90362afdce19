package service

import (
	"errors"
	"sync"

	"github.com/avtoken/avtoken-go/internal/core/domain"
	"github.com/avtoken/avtoken-go/internal/storage"
)

// StatsFile is the backing file of the UsageCounter.
type StatsFile interface {
	Path() string
	Read(v any) error
	Write(v any) error
}

// UsageCounter keeps the usage record and writes it through on every change.
type UsageCounter struct {
	file StatsFile
	opts options

	mu  sync.Mutex
	rec domain.StatsRecord
}

// NewUsageCounter creates a counter backed by file. Call Load before use.
func NewUsageCounter(file StatsFile, opts ...Option) *UsageCounter {
	c := &UsageCounter{
		file: file,
		opts: buildOptions("usage_counter", opts),
	}
	c.rec = domain.NewStatsRecord(c.opts.now())
	return c
}

// Load reads the stats file. When it is missing or unreadable a zeroed record
// is created and persisted immediately; the returned error then only reports
// a failure to write that fresh record.
func (c *UsageCounter) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var rec domain.StatsRecord
	err := c.file.Read(&rec)
	if err == nil {
		rec.Normalize()
		c.rec = rec
		return nil
	}

	if errors.Is(err, storage.ErrNotFound) {
		c.opts.logger.Info("stats file not found, starting from zero", "path", c.file.Path())
	} else {
		c.opts.logger.Warn("stats file unusable, starting from zero", "path", c.file.Path(), "error", err)
	}
	c.rec = domain.NewStatsRecord(c.opts.now())
	return c.persistLocked()
}

// Record counts one request of kind and persists the record.
func (c *UsageCounter) Record(kind domain.RequestKind) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rec.Record(kind, c.opts.now())
	return c.persistLocked()
}

// Reset zeroes all counters and clears the history.
func (c *UsageCounter) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rec = domain.NewStatsRecord(c.opts.now())
	if err := c.persistLocked(); err != nil {
		return err
	}
	c.opts.logger.Info("statistics reset")
	return nil
}

// Snapshot returns a copy of the current record.
func (c *UsageCounter) Snapshot() domain.StatsRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rec.Clone()
}

func (c *UsageCounter) persistLocked() error {
	if err := c.file.Write(c.rec); err != nil {
		c.opts.recorder.PersistenceFailed("stats")
		c.opts.logger.Error("failed to save stats", "path", c.file.Path(), "error", err)
		return domain.ErrPersistence.WithCause(err)
	}
	return nil
}
