// Package retry re-runs flaky operations with exponential backoff.
//
// [WithExponentialBackoff] retries an operation with a configurable
// attempt budget, initial delay, and delay cap. The GitHub hosting
// client routes every API call through it; errors marked with [Fatal]
// stop the loop at once.
package retry
