// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dispatch owns the conversation state and routes user messages to
// the configured provider.
package dispatch

import "github.com/precie21/astral-assistant/internal/model"

// MaxHistory is the maximum number of messages retained in the conversation
// history. The window keeps prompts bounded: oldest entries are dropped
// first, and the system preamble is never stored (it is injected fresh on
// every request).
const MaxHistory = 10

// =============================================================================
// HISTORY
// =============================================================================

// History is the ordered, bounded conversation store. Insertion order is
// chronological order. It is not safe for concurrent use on its own; the
// Dispatcher serializes access under its lock.
type History struct {
	msgs []model.Message
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{msgs: make([]model.Message, 0, MaxHistory)}
}

// Append adds a message to the end of the history. It does not trim; the
// dispatcher trims once per completed exchange so that a pending user
// message is never dropped mid-flight.
func (h *History) Append(msg model.Message) {
	h.msgs = append(h.msgs, msg)
}

// Trim drops the oldest messages until at most MaxHistory remain.
func (h *History) Trim() {
	if len(h.msgs) > MaxHistory {
		h.msgs = append(h.msgs[:0], h.msgs[len(h.msgs)-MaxHistory:]...)
	}
}

// Messages returns a copy of the stored messages in chronological order.
func (h *History) Messages() []model.Message {
	out := make([]model.Message, len(h.msgs))
	copy(out, h.msgs)
	return out
}

// Len returns the number of stored messages.
func (h *History) Len() int {
	return len(h.msgs)
}

// Clear removes all messages.
func (h *History) Clear() {
	h.msgs = h.msgs[:0]
}
