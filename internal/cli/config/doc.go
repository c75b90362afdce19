// Package config stores avtoken-cli connection profiles in
// ~/.avtoken/cli.yaml. Flags and AVTOKEN_ variables override the profile.
package config
