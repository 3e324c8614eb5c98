// Package daemon runs the periodic enrichment sweep as a long-lived process.
//
// A Daemon owns a flock-based instance lock under the data directory so only
// one sweeper touches a catalog at a time. Once started it runs a sweep
// immediately and then on every tick of the configured interval until Stop
// or context cancellation. The most recent sweep summary is kept for status
// reporting.
//
// Sweep semantics live in the enrichment package; this package only owns
// scheduling, locking, and lifecycle.
package daemon
