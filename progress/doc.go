// Package progress provides a lightweight tracker keeping aggregated case
// counters (submitted, solved, failed) for a single batch run. The tracker
// travels in the context so that workers update counters without a global
// registry.
package progress
