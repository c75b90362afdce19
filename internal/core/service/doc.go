// Package service implements the token server's business operations.
//
//   - CredentialStore: layered config record (defaults < file < env)
//   - UsageCounter: write-through usage statistics
//   - TokenIssuer: RTC/RTM issuance through a pluggable Signer
//   - AdminGateway: secret-guarded access to the two records
//
// Services depend on small interfaces for files and signing so they can be
// exercised without the network or the real signing library.
package service
