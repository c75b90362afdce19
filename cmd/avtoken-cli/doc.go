// Package main provides the entry point for avtoken-cli.
//
// The CLI talks to an avtoken-server over HTTP:
//
//   - Token issuance (RTC, RTM, endpoint info)
//   - Credential and default management
//   - Usage statistics
//   - Health and version checks
//
// Usage:
//
//	avtoken-cli [global flags] command [flags]
//	avtoken-cli --server http://localhost:3000 token rtc -c lobby
//	avtoken-cli -p $ADMIN_PASSWORD -o json stats show
//
// Saved profiles live in ~/.avtoken/cli.yaml.
package main
