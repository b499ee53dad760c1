// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package automation

import (
	"strings"
	"testing"
)

func TestActionCodecRoundTrip(t *testing.T) {
	actions := []Action{
		Speak{Text: "Good morning"},
		SetVolume{Level: 50},
		LaunchApp{AppName: "Calendar"},
		Wait{Seconds: 2},
		OpenWebsite{URL: "https://news.google.com"},
		Notify{Title: "Ready", Message: "All set"},
		MediaControl{Action: "play-pause"},
		RunCommand{Command: "echo hi"},
	}

	data, err := EncodeActions(actions)
	if err != nil {
		t.Fatalf("EncodeActions() error: %v", err)
	}

	decoded, err := DecodeActions(data)
	if err != nil {
		t.Fatalf("DecodeActions() error: %v", err)
	}
	if len(decoded) != len(actions) {
		t.Fatalf("decoded %d actions, want %d", len(decoded), len(actions))
	}
	for i := range actions {
		if decoded[i] != actions[i] {
			t.Errorf("action %d: got %#v, want %#v", i, decoded[i], actions[i])
		}
	}
}

// The stored envelope tags are a persistence format; renaming one silently
// orphans stored routines.
func TestActionEnvelopeTags(t *testing.T) {
	data, err := EncodeActions([]Action{LaunchApp{AppName: "Code"}})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"type":"launch_app"`) {
		t.Errorf("envelope missing launch_app tag: %s", data)
	}
}

func TestDecodeActionsUnknownTag(t *testing.T) {
	_, err := DecodeActions([]byte(`[{"type": "teleport", "where": "moon"}]`))
	if err == nil {
		t.Fatal("unknown action tag must be rejected")
	}
	if !strings.Contains(err.Error(), "teleport") {
		t.Errorf("error should name the unknown tag: %v", err)
	}
}

func TestTriggerCodecRoundTrip(t *testing.T) {
	triggers := []Trigger{
		Manual{},
		Schedule{Time: "20:00"},
		VoiceCommand{Phrase: "start work mode"},
		SystemEvent{Event: "login"},
	}

	for _, trig := range triggers {
		data, err := EncodeTrigger(trig)
		if err != nil {
			t.Fatalf("EncodeTrigger(%#v) error: %v", trig, err)
		}
		decoded, err := DecodeTrigger(data)
		if err != nil {
			t.Fatalf("DecodeTrigger(%s) error: %v", data, err)
		}
		if decoded != trig {
			t.Errorf("round trip: got %#v, want %#v", decoded, trig)
		}
	}
}

func TestDecodeTriggerUnknownTag(t *testing.T) {
	if _, err := DecodeTrigger([]byte(`{"type": "full_moon"}`)); err == nil {
		t.Fatal("unknown trigger tag must be rejected")
	}
}
