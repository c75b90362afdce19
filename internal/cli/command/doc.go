// Package command defines the avtoken-cli commands on urfave/cli/v2.
//
//   - token: issue RTC/RTM tokens, show issuance info
//   - admin: verify the admin password
//   - config: read and update the server's credentials and defaults
//   - stats: show and reset usage statistics
//   - system: server health and version
//   - secret: generate and hash admin passwords locally
//   - profile: saved connections in the CLI config file
//
// Each action resolves a connection, calls one endpoint and renders the
// result in the selected output format.
package command
