// Package errors provides the structured error type shared by all domain
// packages. Every error a service returns carries an ErrorCode that the HTTP
// layer maps to a response status, plus a human-readable message and an
// optional wrapped cause.
package errors
