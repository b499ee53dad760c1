// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package router classifies an incoming command against the registered
// voice trigger phrases and dispatches it either to the automation executor
// or to the language-model dispatcher.
package router

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/precie21/astral-assistant/internal/automation"
	"github.com/precie21/astral-assistant/internal/dispatch"
)

// =============================================================================
// COLLABORATOR INTERFACES
// =============================================================================

// RoutineRunner executes an automation routine by ID.
type RoutineRunner interface {
	Execute(ctx context.Context, id string) (*automation.Result, error)
}

// Sender forwards a user message to the language-model dispatcher.
type Sender interface {
	Send(ctx context.Context, text string) (*dispatch.Reply, error)
}

// =============================================================================
// ROUTER
// =============================================================================

// Router routes raw command text. Trigger phrase matching takes priority
// over LLM dispatch, even when the phrase would also read as a general
// query: routines first, first match wins.
type Router struct {
	registry   *automation.Registry
	executor   RoutineRunner
	dispatcher Sender
	logger     *zap.Logger
}

// New creates a router.
func New(registry *automation.Registry, executor RoutineRunner, dispatcher Sender, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{
		registry:   registry,
		executor:   executor,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Route handles one raw command. Its public contract degrades rather than
// fails: once an automation or LLM attempt was made, the caller always gets
// a human-readable string back.
func (r *Router) Route(ctx context.Context, raw string) string {
	normalized := strings.ToLower(strings.TrimSpace(raw))

	if routine, ok := r.matchRoutine(normalized); ok {
		r.logger.Info("command matched routine trigger",
			zap.String("routine", routine.ID),
			zap.String("command", raw))
		return r.runRoutine(ctx, routine)
	}

	reply, err := r.dispatcher.Send(ctx, raw)
	if err != nil {
		r.logger.Warn("dispatch failed, degrading to fallback",
			zap.String("command", raw),
			zap.Error(err))
		return fmt.Sprintf("I'm sorry, I couldn't process %q right now. Please check the assistant settings and try again.", raw)
	}
	return reply.Content
}

// matchRoutine scans enabled, voice-triggered routines in stable (sorted by
// ID) order and returns the first whose phrase is contained in the
// normalized command.
func (r *Router) matchRoutine(normalized string) (automation.Routine, bool) {
	for _, routine := range r.registry.List() {
		if !routine.Enabled {
			continue
		}
		phrase := routine.VoicePhrase()
		if phrase == "" {
			continue
		}
		if strings.Contains(normalized, strings.ToLower(phrase)) {
			return routine, true
		}
	}
	return automation.Routine{}, false
}

// runRoutine executes the matched routine and translates the outcome into a
// short status string. Execution failures (e.g. disabled) are reported to
// the user, not escalated.
func (r *Router) runRoutine(ctx context.Context, routine automation.Routine) string {
	result, err := r.executor.Execute(ctx, routine.ID)
	if err != nil {
		return fmt.Sprintf("Couldn't run %s: %v.", routine.Name, err)
	}

	if result.Success {
		return fmt.Sprintf("%s completed: %d actions in %s.",
			routine.Name, result.ActionsExecuted, result.Duration.Round(10*time.Millisecond))
	}
	return fmt.Sprintf("%s finished with %d of %d steps failing: %s",
		routine.Name, len(result.Errors), result.ActionsExecuted+len(result.Errors),
		strings.Join(result.Errors, "; "))
}
