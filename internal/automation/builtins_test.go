// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package automation

import (
	"testing"
)

// The built-in routines are a compatibility surface: users know their
// phrases and behavior. Pin the fields that must not drift.
func TestBuiltinFixtures(t *testing.T) {
	r := NewRegistry()

	morning, err := r.Get("morning-routine")
	if err != nil {
		t.Fatal(err)
	}
	if morning.Trigger != (Schedule{Time: "08:00"}) {
		t.Errorf("morning trigger = %#v", morning.Trigger)
	}
	wantMorning := []Action{
		Speak{Text: "Good morning! Starting your morning routine."},
		SetVolume{Level: 50},
		LaunchApp{AppName: "Calendar"},
		Wait{Seconds: 2},
		OpenWebsite{URL: "https://news.google.com"},
		Notify{Title: "Morning Routine", Message: "Your morning routine is complete!"},
	}
	if len(morning.Actions) != len(wantMorning) {
		t.Fatalf("morning actions = %d, want %d", len(morning.Actions), len(wantMorning))
	}
	for i := range wantMorning {
		if morning.Actions[i] != wantMorning[i] {
			t.Errorf("morning action %d = %#v, want %#v", i, morning.Actions[i], wantMorning[i])
		}
	}

	work, err := r.Get("work-mode")
	if err != nil {
		t.Fatal(err)
	}
	if work.Trigger != (VoiceCommand{Phrase: "start work mode"}) {
		t.Errorf("work trigger = %#v", work.Trigger)
	}
	if len(work.Actions) != 6 {
		t.Errorf("work actions = %d, want 6", len(work.Actions))
	}

	evening, err := r.Get("evening-winddown")
	if err != nil {
		t.Fatal(err)
	}
	if evening.Trigger != (Schedule{Time: "20:00"}) {
		t.Errorf("evening trigger = %#v", evening.Trigger)
	}

	gaming, err := r.Get("gaming-mode")
	if err != nil {
		t.Fatal(err)
	}
	if gaming.Actions[1] != (SetVolume{Level: 80}) {
		t.Errorf("gaming volume action = %#v", gaming.Actions[1])
	}
}
