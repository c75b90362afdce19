// Package handler implements the JSON HTTP API.
//
//   - token.go: /api/token/rtc, /api/token/rtm, /api/token/info
//   - admin.go: /api/admin/* guarded by the admin secret
//   - health.go: /api/health, the service banner and the JSON 404
//
// Every error leaves as {success:false, error, message?} with the domain
// error code in the X-Error-Code header.
package handler
