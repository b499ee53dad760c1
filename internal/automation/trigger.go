// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package automation

import (
	"encoding/json"
	"fmt"
)

// =============================================================================
// TRIGGER SUM TYPE
// =============================================================================

// Trigger is the event class that may initiate a routine. Only Manual and
// VoiceCommand execution paths are wired; Schedule and SystemEvent triggers
// are stored and displayed but never fired by this core.
type Trigger interface {
	// Describe returns a short human-readable description.
	Describe() string

	isTrigger()
}

// Manual means the routine only runs when invoked explicitly.
type Manual struct{}

// Schedule fires at a time of day, "HH:MM" format.
type Schedule struct {
	Time string `json:"time"`
}

// VoiceCommand fires when a spoken or typed command contains the phrase.
type VoiceCommand struct {
	Phrase string `json:"phrase"`
}

// SystemEvent fires on a named system event.
type SystemEvent struct {
	Event string `json:"event"`
}

func (Manual) isTrigger()       {}
func (Schedule) isTrigger()     {}
func (VoiceCommand) isTrigger() {}
func (SystemEvent) isTrigger()  {}

func (Manual) Describe() string         { return "manual" }
func (t Schedule) Describe() string     { return "daily at " + t.Time }
func (t VoiceCommand) Describe() string { return fmt.Sprintf("voice: %q", t.Phrase) }
func (t SystemEvent) Describe() string  { return "on " + t.Event }

// =============================================================================
// SERIALIZATION
// =============================================================================

// EncodeTrigger serializes a trigger to tagged JSON.
func EncodeTrigger(t Trigger) ([]byte, error) {
	fields, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(fields, &m); err != nil {
		return nil, err
	}
	switch t.(type) {
	case Manual:
		m["type"] = "manual"
	case Schedule:
		m["type"] = "schedule"
	case VoiceCommand:
		m["type"] = "voice_command"
	case SystemEvent:
		m["type"] = "system_event"
	default:
		return nil, fmt.Errorf("unknown trigger kind %T", t)
	}
	return json.Marshal(m)
}

// DecodeTrigger parses a tagged JSON trigger.
func DecodeTrigger(data []byte) (Trigger, error) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}

	switch env.Type {
	case "manual":
		return Manual{}, nil
	case "schedule":
		var v Schedule
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	case "voice_command":
		var v VoiceCommand
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	case "system_event":
		var v SystemEvent
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unknown trigger type %q", env.Type)
	}
}
