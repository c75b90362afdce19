// Package domain defines the records and errors shared by the token server.
//
// Types here carry no I/O:
//
//   - ConfigRecord / ConfigPatch: signing credentials and issuance defaults
//   - StatsRecord: usage counters with a bounded request history
//   - IssuedToken / Role: issuance results
//   - DomainError: coded errors mapped to HTTP statuses at the edge
package domain
