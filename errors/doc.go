// Package errors provides the structured error type shared by every layer
// of the service: a machine-readable code, a human message, a retryable
// flag, free-form details and an optional cause.
//
// Domain packages declare their own ErrorCode values and build errors with
// New; callers branch on codes with IsCode instead of string matching.
package errors
