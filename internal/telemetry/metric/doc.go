// Package metric exposes Prometheus metrics for the token server.
//
//   - prometheus.go: the registry, service.Recorder implementation and /metrics handler
//   - collector.go: gauges read from the persisted usage record at scrape time
//
// Every Registry owns its own prometheus.Registry so tests and multiple
// servers in one process do not collide.
package metric
