// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "testing"

func TestRoleDisplayName(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{RoleUser, "You"},
		{RoleAssistant, "ASTRAL"},
		{RoleSystem, "System"},
		{Role("other"), "other"},
	}
	for _, tt := range tests {
		if got := tt.role.DisplayName(); got != tt.want {
			t.Errorf("DisplayName(%q) = %q, want %q", tt.role, got, tt.want)
		}
	}
}

func TestPreview(t *testing.T) {
	m := NewUserMessage("hello world")
	if got := m.Preview(20); got != "hello world" {
		t.Errorf("Preview(20) = %q", got)
	}
	if got := m.Preview(8); got != "hello..." {
		t.Errorf("Preview(8) = %q", got)
	}

	// Rune-safe truncation on multibyte content.
	uni := NewUserMessage("héllo wörld many chars")
	short := uni.Preview(10)
	if len([]rune(short)) != 10 {
		t.Errorf("Preview(10) rune length = %d: %q", len([]rune(short)), short)
	}
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		content string
		want    int
	}{
		{"", 0},
		{"a", 1},
		{"abcd", 1},
		{"abcde", 2},
		{"12345678", 2},
	}
	for _, tt := range tests {
		m := NewUserMessage(tt.content)
		if got := m.EstimateTokens(); got != tt.want {
			t.Errorf("EstimateTokens(%q) = %d, want %d", tt.content, got, tt.want)
		}
	}
}
