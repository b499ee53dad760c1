// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import "errors"

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrorKind categorizes client errors for handling.
type ErrorKind int

const (
	// KindUnknown is an unclassified failure.
	KindUnknown ErrorKind = iota

	// KindConfig is a configuration error (missing credential or endpoint).
	// Never produced after network I/O has started.
	KindConfig

	// KindTimeout is a transient error: the fixed request timeout elapsed.
	KindTimeout

	// KindConnection is a transient error: the backend was unreachable
	// (connection refused, DNS failure). For Ollama this usually means the
	// server is not running, which is user-actionable.
	KindConnection

	// KindProtocol is a non-success HTTP status or a malformed/empty
	// response body. Carries the raw diagnostic text.
	KindProtocol
)

// String returns a short label for the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindTimeout:
		return "timeout"
	case KindConnection:
		return "connection"
	case KindProtocol:
		return "protocol"
	default:
		return "unknown"
	}
}

// ClientError represents an error from a provider adapter.
type ClientError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// kindOf extracts the ErrorKind from an error chain.
func kindOf(err error) ErrorKind {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindUnknown
}

// IsConfigError reports whether err is a configuration error.
func IsConfigError(err error) bool {
	return kindOf(err) == KindConfig
}

// IsTimeout reports whether err is a request timeout.
func IsTimeout(err error) bool {
	return kindOf(err) == KindTimeout
}

// IsConnectionError reports whether err indicates an unreachable backend.
func IsConnectionError(err error) bool {
	return kindOf(err) == KindConnection
}

// IsTransient reports whether the call may legitimately be retried by the
// caller (timeout or connection failure). This core never retries itself.
func IsTransient(err error) bool {
	k := kindOf(err)
	return k == KindTimeout || k == KindConnection
}
