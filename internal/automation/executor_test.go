// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Executor tests: disabled fail-fast, continue-past-failure accounting,
// LastRun stamping, and per-routine serialization.
package automation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/precie21/astral-assistant/internal/system"
)

// recordingServices implements every collaborator and records calls in order.
// Individual calls can be scripted to fail.
type recordingServices struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error // call label -> error
}

func (s *recordingServices) record(label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, label)
	if err, ok := s.fail[label]; ok {
		return err
	}
	return nil
}

func (s *recordingServices) Launch(ctx context.Context, app string) (string, error) {
	return "", s.record("launch:" + app)
}
func (s *recordingServices) Open(ctx context.Context, url string) error {
	return s.record("open:" + url)
}
func (s *recordingServices) Notify(ctx context.Context, title, message string) error {
	return s.record("notify:" + title)
}
func (s *recordingServices) SetVolume(ctx context.Context, level int) error {
	return s.record(fmt.Sprintf("volume:%d", level))
}
func (s *recordingServices) Control(ctx context.Context, action string) error {
	return s.record("media:" + action)
}
func (s *recordingServices) Run(ctx context.Context, command string) error {
	return s.record("shell:" + command)
}
func (s *recordingServices) Speak(ctx context.Context, text string) (string, error) {
	return "", s.record("speak")
}

func newTestExecutor(t *testing.T, registry *Registry, rec *recordingServices) *Executor {
	t.Helper()
	services := &system.Services{
		Launcher: rec,
		Web:      rec,
		Notify:   rec,
		Volume:   rec,
		Media:    rec,
		Shell:    rec,
		Speech:   rec,
	}
	e := NewExecutor(registry, services, nil)
	e.waitFn = func(ctx context.Context, d time.Duration) error { return nil }
	return e
}

func TestExecuteUnknownRoutine(t *testing.T) {
	e := newTestExecutor(t, NewRegistry(), &recordingServices{})
	if _, err := e.Execute(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Execute(unknown) = %v, want ErrNotFound", err)
	}
}

func TestExecuteDisabledFailsFast(t *testing.T) {
	registry := NewRegistry()
	rec := &recordingServices{}
	e := newTestExecutor(t, registry, rec)

	if _, err := registry.Toggle("gaming-mode"); err != nil {
		t.Fatal(err)
	}

	_, err := e.Execute(context.Background(), "gaming-mode")
	if !errors.Is(err, ErrDisabled) {
		t.Fatalf("Execute(disabled) = %v, want ErrDisabled", err)
	}
	if len(rec.calls) != 0 {
		t.Errorf("disabled routine must execute zero actions, saw %v", rec.calls)
	}

	routine, err := registry.Get("gaming-mode")
	if err != nil {
		t.Fatal(err)
	}
	if routine.LastRun != nil {
		t.Error("LastRun must stay unset when a disabled routine is refused")
	}
}

func TestExecuteContinuesPastFailure(t *testing.T) {
	registry := NewRegistry()
	registry.Add(Routine{
		ID:      "test-run",
		Name:    "Test Run",
		Enabled: true,
		Trigger: Manual{},
		Actions: []Action{
			SetVolume{Level: 40},
			LaunchApp{AppName: "Ghost"},
			Notify{Title: "Done", Message: "All set"},
		},
		CreatedAt: time.Now(),
	})

	rec := &recordingServices{fail: map[string]error{
		"launch:Ghost": errors.New("app not found"),
	}}
	e := newTestExecutor(t, registry, rec)

	result, err := e.Execute(context.Background(), "test-run")
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if result.Success {
		t.Error("Success must be false when an action fails")
	}
	if result.ActionsExecuted != 2 {
		t.Errorf("ActionsExecuted = %d, want 2", result.ActionsExecuted)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("Errors = %v, want one entry", result.Errors)
	}
	if result.Errors[0] != "Action 2 failed: app not found" {
		t.Errorf("Errors[0] = %q", result.Errors[0])
	}

	// The failing action must not stop the ones after it.
	want := []string{"volume:40", "launch:Ghost", "notify:Done"}
	if len(rec.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", rec.calls, want)
	}
	for i := range want {
		if rec.calls[i] != want[i] {
			t.Errorf("calls[%d] = %q, want %q", i, rec.calls[i], want[i])
		}
	}

	routine, err := registry.Get("test-run")
	if err != nil {
		t.Fatal(err)
	}
	if routine.LastRun == nil {
		t.Error("LastRun must be stamped even when actions fail")
	}
}

func TestExecuteAllSucceed(t *testing.T) {
	registry := NewRegistry()
	rec := &recordingServices{}
	e := newTestExecutor(t, registry, rec)

	result, err := e.Execute(context.Background(), "gaming-mode")
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !result.Success {
		t.Errorf("Success = false, errors: %v", result.Errors)
	}
	if result.ActionsExecuted == 0 {
		t.Error("expected executed actions")
	}
	if result.RoutineID != "gaming-mode" {
		t.Errorf("RoutineID = %q", result.RoutineID)
	}
}

func TestExecuteSerializesSameRoutine(t *testing.T) {
	registry := NewRegistry()
	registry.Add(Routine{
		ID:        "slow",
		Name:      "Slow",
		Enabled:   true,
		Trigger:   Manual{},
		Actions:   []Action{Wait{Seconds: 1}},
		CreatedAt: time.Now(),
	})

	rec := &recordingServices{}
	e := newTestExecutor(t, registry, rec)

	var active, maxActive int32
	var mu sync.Mutex
	e.waitFn = func(ctx context.Context, d time.Duration) error {
		mu.Lock()
		active++
		if active > maxActive {
			maxActive = active
		}
		mu.Unlock()
		time.Sleep(10 * time.Millisecond)
		mu.Lock()
		active--
		mu.Unlock()
		return nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.Execute(context.Background(), "slow")
		}()
	}
	wg.Wait()

	if maxActive != 1 {
		t.Errorf("max concurrent executions of one routine = %d, want 1", maxActive)
	}
}
