// Package errors provides the unified error type returned across HTTP and CLI
// boundaries. AppError carries a machine-readable code, the HTTP status to use,
// and an RFC 7807-style response body. Token failures from auth/jwt are
// translated into AppErrors by jwt.ToAppError.
package errors
