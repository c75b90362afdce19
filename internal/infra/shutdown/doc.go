// Package shutdown coordinates graceful process termination.
//
// Hooks registered with OnShutdown run in reverse order once SIGINT or
// SIGTERM arrives, Trigger is called, or the context passed to Wait ends.
// All hooks share one timeout.
package shutdown
