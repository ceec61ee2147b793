// Package logger provides a small leveled logger for CLI diagnostics.
//
// All output goes to stderr so stdout stays reserved for secret values and
// shell-evaluable output. Secret values must never be passed to the logger.
package logger
