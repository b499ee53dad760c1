// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"errors"
	"fmt"
	"testing"
)

func TestClientErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &ClientError{Kind: KindConnection, Message: "backend unreachable", Cause: cause}

	if !errors.Is(err, cause) {
		t.Error("Unwrap should expose the cause")
	}

	wrapped := fmt.Errorf("dispatch failed: %w", err)
	if !IsConnectionError(wrapped) {
		t.Error("kind check should see through wrapping")
	}
}

func TestErrorKindHelpers(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
		want  bool
	}{
		{"config error", &ClientError{Kind: KindConfig}, IsConfigError, true},
		{"timeout", &ClientError{Kind: KindTimeout}, IsTimeout, true},
		{"connection", &ClientError{Kind: KindConnection}, IsConnectionError, true},
		{"timeout is transient", &ClientError{Kind: KindTimeout}, IsTransient, true},
		{"connection is transient", &ClientError{Kind: KindConnection}, IsTransient, true},
		{"config is not transient", &ClientError{Kind: KindConfig}, IsTransient, false},
		{"plain error matches nothing", errors.New("boom"), IsConfigError, false},
		{"nil", nil, IsTimeout, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.check(tt.err); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClientErrorMessage(t *testing.T) {
	err := &ClientError{Kind: KindProtocol, Message: "no response"}
	if err.Error() == "" {
		t.Error("Error() must not be empty")
	}

	withCause := &ClientError{Kind: KindConnection, Message: "unreachable", Cause: errors.New("dial tcp: refused")}
	if got := withCause.Error(); got == "unreachable" {
		t.Errorf("Error() should include the cause, got %q", got)
	}
}
