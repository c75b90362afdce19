// Package buildinfo exposes build-time version information.
//
// Values are injected via ldflags:
//
//	go build -ldflags "-X github.com/avtoken/avtoken-go/internal/infra/buildinfo.Version=v1.0.0"
//
// Without ldflags the module version and VCS revision recorded by the Go
// toolchain are used when available.
package buildinfo
