// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Router tests: trigger phrases go to the executor and never to the LLM,
// everything else goes to the dispatcher, and failures degrade to a
// user-readable fallback instead of an error.
package router

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/precie21/astral-assistant/internal/automation"
	"github.com/precie21/astral-assistant/internal/dispatch"
)

type spyRunner struct {
	executed []string
	result   *automation.Result
	err      error
}

func (s *spyRunner) Execute(ctx context.Context, id string) (*automation.Result, error) {
	s.executed = append(s.executed, id)
	if s.err != nil {
		return nil, s.err
	}
	if s.result != nil {
		return s.result, nil
	}
	return &automation.Result{RoutineID: id, Success: true, ActionsExecuted: 3, Duration: 20 * time.Millisecond}, nil
}

type spySender struct {
	sent  []string
	reply string
	err   error
}

func (s *spySender) Send(ctx context.Context, text string) (*dispatch.Reply, error) {
	s.sent = append(s.sent, text)
	if s.err != nil {
		return nil, s.err
	}
	return &dispatch.Reply{Content: s.reply}, nil
}

func TestTriggerPhraseRunsRoutineNotLLM(t *testing.T) {
	runner := &spyRunner{}
	sender := &spySender{reply: "should not be used"}
	r := New(automation.NewRegistry(), runner, sender, nil)

	out := r.Route(context.Background(), "Hey, start work mode please")

	if len(runner.executed) != 1 || runner.executed[0] != "work-mode" {
		t.Errorf("executed = %v, want [work-mode]", runner.executed)
	}
	if len(sender.sent) != 0 {
		t.Errorf("dispatcher must not be called for a trigger phrase, sent %v", sender.sent)
	}
	if !strings.Contains(out, "completed") {
		t.Errorf("Route() = %q, want a completion status", out)
	}
}

func TestDisabledRoutineDoesNotMatch(t *testing.T) {
	registry := automation.NewRegistry()
	if _, err := registry.Toggle("work-mode"); err != nil {
		t.Fatal(err)
	}

	runner := &spyRunner{}
	sender := &spySender{reply: "llm answer"}
	r := New(registry, runner, sender, nil)

	out := r.Route(context.Background(), "start work mode")

	if len(runner.executed) != 0 {
		t.Errorf("disabled routine must not execute, got %v", runner.executed)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("command should fall through to the LLM, sent %v", sender.sent)
	}
	if out != "llm answer" {
		t.Errorf("Route() = %q", out)
	}
}

func TestNonTriggerGoesToLLM(t *testing.T) {
	runner := &spyRunner{}
	sender := &spySender{reply: "The capital of France is Paris."}
	r := New(automation.NewRegistry(), runner, sender, nil)

	out := r.Route(context.Background(), "what is the capital of France?")

	if len(runner.executed) != 0 {
		t.Errorf("no routine should run, got %v", runner.executed)
	}
	if len(sender.sent) != 1 || sender.sent[0] != "what is the capital of France?" {
		t.Errorf("sent = %v", sender.sent)
	}
	if out != "The capital of France is Paris." {
		t.Errorf("Route() = %q", out)
	}
}

func TestDispatchFailureDegradesToFallback(t *testing.T) {
	runner := &spyRunner{}
	sender := &spySender{err: errors.New("backend down")}
	r := New(automation.NewRegistry(), runner, sender, nil)

	out := r.Route(context.Background(), "tell me a joke")

	if out == "" {
		t.Fatal("Route() must never return an empty string")
	}
	if !strings.Contains(out, "tell me a joke") {
		t.Errorf("fallback should echo the original command: %q", out)
	}
	if !strings.Contains(out, "sorry") {
		t.Errorf("fallback should apologize: %q", out)
	}
}

func TestRoutineFailureReportedToUser(t *testing.T) {
	runner := &spyRunner{err: errors.New("routine is disabled: work-mode")}
	sender := &spySender{}
	r := New(automation.NewRegistry(), runner, sender, nil)

	out := r.Route(context.Background(), "start work mode")

	if !strings.Contains(out, "Couldn't run") {
		t.Errorf("Route() = %q, want an execution failure message", out)
	}
	if len(sender.sent) != 0 {
		t.Error("a failed routine run must not fall through to the LLM")
	}
}

func TestPartialFailureSummarized(t *testing.T) {
	runner := &spyRunner{result: &automation.Result{
		RoutineID:       "work-mode",
		Success:         false,
		ActionsExecuted: 4,
		Errors:          []string{"Action 2 failed: app not found"},
		Duration:        50 * time.Millisecond,
	}}
	r := New(automation.NewRegistry(), runner, &spySender{}, nil)

	out := r.Route(context.Background(), "start work mode")

	if !strings.Contains(out, "1 of 5 steps failing") {
		t.Errorf("Route() = %q, want partial failure accounting", out)
	}
	if !strings.Contains(out, "app not found") {
		t.Errorf("Route() = %q, should carry the action error", out)
	}
}

func TestCaseInsensitiveMatching(t *testing.T) {
	runner := &spyRunner{}
	sender := &spySender{}
	r := New(automation.NewRegistry(), runner, sender, nil)

	r.Route(context.Background(), "START GAMING MODE")

	if len(runner.executed) != 1 || runner.executed[0] != "gaming-mode" {
		t.Errorf("executed = %v, want [gaming-mode]", runner.executed)
	}
}
