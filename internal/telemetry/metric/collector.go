package metric

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/avtoken/avtoken-go/internal/core/domain"
)

// UsageSource returns the current usage record.
type UsageSource func() domain.StatsRecord

// UsageCollector reports the persisted usage counters. Unlike the counters
// in Registry these survive restarts and drop to zero on an admin reset.
type UsageCollector struct {
	source    UsageSource
	requests  *prometheus.Desc
	lastReset *prometheus.Desc
}

// NewUsageCollector creates a collector reading from source on each scrape.
func NewUsageCollector(source UsageSource) *UsageCollector {
	return &UsageCollector{
		source: source,
		requests: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "usage", "requests"),
			"Requests counted in the usage record since the last reset.",
			[]string{"kind"}, nil,
		),
		lastReset: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "usage", "last_reset_timestamp_seconds"),
			"Unix time of the last usage reset.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *UsageCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.requests
	ch <- c.lastReset
}

// Collect implements prometheus.Collector.
func (c *UsageCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.source()
	ch <- prometheus.MustNewConstMetric(c.requests, prometheus.GaugeValue, float64(s.RTCRequests), string(domain.KindRTC))
	ch <- prometheus.MustNewConstMetric(c.requests, prometheus.GaugeValue, float64(s.RTMRequests), string(domain.KindRTM))
	ch <- prometheus.MustNewConstMetric(c.requests, prometheus.GaugeValue, float64(s.AdminRequests), string(domain.KindAdmin))
	ch <- prometheus.MustNewConstMetric(c.lastReset, prometheus.GaugeValue, float64(s.LastReset.Unix()))
}
