// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package automation

import (
	"errors"
	"sort"
	"testing"
	"time"
)

func TestNewRegistrySeedsBuiltins(t *testing.T) {
	r := NewRegistry()

	for _, id := range BuiltinIDs {
		routine, err := r.Get(id)
		if err != nil {
			t.Errorf("builtin %s missing: %v", id, err)
			continue
		}
		if !routine.Enabled {
			t.Errorf("builtin %s should start enabled", id)
		}
		if len(routine.Actions) == 0 {
			t.Errorf("builtin %s has no actions", id)
		}
	}

	if len(r.List()) != len(BuiltinIDs) {
		t.Errorf("List() returned %d routines, want %d", len(r.List()), len(BuiltinIDs))
	}
}

func TestBuiltinVoicePhrases(t *testing.T) {
	r := NewRegistry()

	work, err := r.Get("work-mode")
	if err != nil {
		t.Fatal(err)
	}
	if got := work.VoicePhrase(); got != "start work mode" {
		t.Errorf("work-mode phrase = %q, want %q", got, "start work mode")
	}

	gaming, err := r.Get("gaming-mode")
	if err != nil {
		t.Fatal(err)
	}
	if got := gaming.VoicePhrase(); got != "start gaming mode" {
		t.Errorf("gaming-mode phrase = %q, want %q", got, "start gaming mode")
	}

	// Schedule and manual triggers carry no phrase.
	evening, err := r.Get("evening-winddown")
	if err != nil {
		t.Fatal(err)
	}
	if got := evening.VoicePhrase(); got != "" {
		t.Errorf("evening-winddown phrase = %q, want empty", got)
	}
}

func TestToggle(t *testing.T) {
	r := NewRegistry()

	enabled, err := r.Toggle("gaming-mode")
	if err != nil {
		t.Fatalf("Toggle() error: %v", err)
	}
	if enabled {
		t.Error("first toggle should disable")
	}

	enabled, err = r.Toggle("gaming-mode")
	if err != nil {
		t.Fatalf("Toggle() error: %v", err)
	}
	if !enabled {
		t.Error("second toggle should re-enable")
	}

	if _, err := r.Toggle("no-such-routine"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Toggle(unknown) = %v, want ErrNotFound", err)
	}
}

func TestGetUnknown(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(unknown) = %v, want ErrNotFound", err)
	}
}

func TestListSortedByID(t *testing.T) {
	r := NewRegistry()
	r.Add(Routine{ID: "zzz-custom", Name: "Custom", Enabled: true, Trigger: Manual{}, CreatedAt: time.Now()})
	r.Add(Routine{ID: "aaa-custom", Name: "Custom", Enabled: true, Trigger: Manual{}, CreatedAt: time.Now()})

	list := r.List()
	ids := make([]string, len(list))
	for i, routine := range list {
		ids[i] = routine.ID
	}
	if !sort.StringsAreSorted(ids) {
		t.Errorf("List() order not sorted: %v", ids)
	}
}

func TestAddUpdateDelete(t *testing.T) {
	r := NewRegistry()

	routine := Routine{
		ID:        "focus",
		Name:      "Focus",
		Enabled:   true,
		Trigger:   VoiceCommand{Phrase: "focus time"},
		Actions:   []Action{SetVolume{Level: 0}},
		CreatedAt: time.Now(),
	}
	r.Add(routine)

	routine.Name = "Deep Focus"
	if err := r.Update(routine); err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	got, err := r.Get("focus")
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Deep Focus" {
		t.Errorf("Name = %q after update", got.Name)
	}

	if err := r.Delete("focus"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := r.Get("focus"); !errors.Is(err, ErrNotFound) {
		t.Error("routine should be gone after delete")
	}

	if err := r.Update(Routine{ID: "ghost"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update(unknown) = %v, want ErrNotFound", err)
	}
	if err := r.Delete("ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete(unknown) = %v, want ErrNotFound", err)
	}
}

func TestGetReturnsCopy(t *testing.T) {
	r := NewRegistry()

	got, err := r.Get("morning-routine")
	if err != nil {
		t.Fatal(err)
	}
	got.Actions[0] = Notify{Title: "tampered"}

	fresh, err := r.Get("morning-routine")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := fresh.Actions[0].(Notify); ok {
		t.Error("mutating a returned routine must not affect the registry")
	}
}
