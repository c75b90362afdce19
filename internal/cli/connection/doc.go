// Package connection is the HTTP client avtoken-cli talks to the server
// with. The admin password, when configured, travels in X-Admin-Password.
package connection
