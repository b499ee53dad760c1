// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package automation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/precie21/astral-assistant/internal/system"
)

// =============================================================================
// EXECUTION RESULT
// =============================================================================

// Result is the accounting record of one routine execution.
type Result struct {
	// RoutineID identifies the executed routine.
	RoutineID string `json:"routine_id"`

	// Success is true iff no action errored.
	Success bool `json:"success"`

	// ActionsExecuted counts successful actions only.
	ActionsExecuted int `json:"actions_executed"`

	// Errors holds one description per failed action, in action order.
	Errors []string `json:"errors"`

	// Duration is the elapsed wall time of the run.
	Duration time.Duration `json:"duration_ms"`
}

// =============================================================================
// EXECUTOR
// =============================================================================

// Executor runs a routine's action list to completion, continuing past
// individual action failures. Different routine IDs execute concurrently;
// overlapping triggers of the same ID are serialized by a per-ID mutex so
// LastRun and the action side effects stay meaningful.
type Executor struct {
	registry *Registry
	services *system.Services
	logger   *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	// waitFn suspends the calling execution for a Wait action. Injectable
	// so tests do not sleep.
	waitFn func(ctx context.Context, d time.Duration) error
}

// NewExecutor creates an executor over the given registry and collaborators.
func NewExecutor(registry *Registry, services *system.Services, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{
		registry: registry,
		services: services,
		logger:   logger,
		locks:    make(map[string]*sync.Mutex),
		waitFn:   sleepCtx,
	}
}

// routineLock returns the mutex guarding one routine ID.
func (e *Executor) routineLock(id string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[id]
	if !ok {
		l = &sync.Mutex{}
		e.locks[id] = l
	}
	return l
}

// Execute runs the identified routine. It fails fast with ErrNotFound or
// ErrDisabled; otherwise it executes every action in declared order,
// records failures without aborting, stamps LastRun unconditionally, and
// reports Success iff the error list is empty.
func (e *Executor) Execute(ctx context.Context, id string) (*Result, error) {
	lock := e.routineLock(id)
	lock.Lock()
	defer lock.Unlock()

	routine, err := e.registry.Get(id)
	if err != nil {
		return nil, err
	}
	if !routine.Enabled {
		e.logger.Warn("routine is disabled", zap.String("routine", routine.Name))
		return nil, fmt.Errorf("%w: %s", ErrDisabled, id)
	}

	e.logger.Info("executing routine",
		zap.String("routine", routine.Name),
		zap.Int("actions", len(routine.Actions)))

	start := time.Now()
	executed := 0
	var errs []string

	for i, action := range routine.Actions {
		if err := e.runAction(ctx, action); err != nil {
			msg := fmt.Sprintf("Action %d failed: %v", i+1, err)
			e.logger.Warn("action failed",
				zap.String("routine", routine.Name),
				zap.String("action", action.Describe()),
				zap.Error(err))
			errs = append(errs, msg)
			continue
		}
		executed++
		e.logger.Debug("action completed",
			zap.String("routine", routine.Name),
			zap.Int("step", i+1),
			zap.Int("total", len(routine.Actions)))
	}

	// LastRun is stamped even when every action failed: the routine ran.
	e.registry.touchLastRun(id, time.Now().UTC())

	result := &Result{
		RoutineID:       id,
		Success:         len(errs) == 0,
		ActionsExecuted: executed,
		Errors:          errs,
		Duration:        time.Since(start),
	}

	e.logger.Info("routine completed",
		zap.String("routine", routine.Name),
		zap.Int("executed", executed),
		zap.Int("errors", len(errs)),
		zap.Duration("duration", result.Duration))

	return result, nil
}

// runAction dispatches one action to its collaborator. The type switch is
// exhaustive over the closed Action set.
func (e *Executor) runAction(ctx context.Context, action Action) error {
	switch a := action.(type) {
	case LaunchApp:
		_, err := e.services.Launcher.Launch(ctx, a.AppName)
		return err
	case OpenWebsite:
		return e.services.Web.Open(ctx, a.URL)
	case Notify:
		return e.services.Notify.Notify(ctx, a.Title, a.Message)
	case SetVolume:
		return e.services.Volume.SetVolume(ctx, a.Level)
	case MediaControl:
		return e.services.Media.Control(ctx, a.Action)
	case RunCommand:
		return e.services.Shell.Run(ctx, a.Command)
	case Wait:
		return e.waitFn(ctx, time.Duration(a.Seconds)*time.Second)
	case Speak:
		_, err := e.services.Speech.Speak(ctx, a.Text)
		return err
	default:
		return fmt.Errorf("unhandled action kind %T", action)
	}
}

// sleepCtx blocks for d or until the context is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
