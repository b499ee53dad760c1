// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package automation

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

// =============================================================================
// ROUTINE TYPE
// =============================================================================

// Routine is a named, user-toggleable list of automation actions with a
// trigger condition. Identity is the ID; the ID space is flat and owned by
// the registry.
type Routine struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Enabled     bool       `json:"enabled"`
	Trigger     Trigger    `json:"-"`
	Actions     []Action   `json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	LastRun     *time.Time `json:"last_run,omitempty"`
}

// VoicePhrase returns the voice trigger phrase, or "" when the routine is
// not voice-triggered.
func (r Routine) VoicePhrase() string {
	if vc, ok := r.Trigger.(VoiceCommand); ok {
		return vc.Phrase
	}
	return ""
}

// clone copies the routine so callers cannot mutate registry state through
// shared slices.
func (r Routine) clone() Routine {
	out := r
	out.Actions = make([]Action, len(r.Actions))
	copy(out.Actions, r.Actions)
	if r.LastRun != nil {
		t := *r.LastRun
		out.LastRun = &t
	}
	return out
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrNotFound is returned when a routine ID is unknown.
var ErrNotFound = errors.New("routine not found")

// ErrDisabled is returned when a routine exists but is disabled.
var ErrDisabled = errors.New("routine is disabled")

// =============================================================================
// REGISTRY
// =============================================================================

// Registry is the in-memory mapping of routine ID to definition. All methods
// are safe for concurrent use; mutations are serialized against concurrent
// executions reading a routine's action list.
type Registry struct {
	mu       sync.RWMutex
	routines map[string]Routine
}

// NewRegistry creates a registry seeded with the built-in routines.
func NewRegistry() *Registry {
	r := &Registry{routines: make(map[string]Routine)}
	for _, routine := range builtinRoutines() {
		r.routines[routine.ID] = routine
	}
	return r
}

// Add inserts a routine, overwriting any existing routine with the same ID.
func (r *Registry) Add(routine Routine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routines[routine.ID] = routine.clone()
}

// Get returns the routine with the given ID.
func (r *Registry) Get(id string) (Routine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	routine, ok := r.routines[id]
	if !ok {
		return Routine{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return routine.clone(), nil
}

// List returns all routines sorted by ID, so the order is stable within a
// process run.
func (r *Registry) List() []Routine {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Routine, 0, len(r.routines))
	for _, routine := range r.routines {
		out = append(out, routine.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Update replaces an existing routine wholesale.
func (r *Registry) Update(routine Routine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.routines[routine.ID]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, routine.ID)
	}
	r.routines[routine.ID] = routine.clone()
	return nil
}

// Delete removes a routine by ID.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.routines[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(r.routines, id)
	return nil
}

// Toggle flips the enabled flag and returns the new value.
func (r *Registry) Toggle(id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	routine, ok := r.routines[id]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	routine.Enabled = !routine.Enabled
	r.routines[id] = routine
	return routine.Enabled, nil
}

// touchLastRun stamps the routine's last run time. A missing ID is ignored:
// the routine may have been deleted while executing.
func (r *Registry) touchLastRun(id string, t time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	routine, ok := r.routines[id]
	if !ok {
		return
	}
	routine.LastRun = &t
	r.routines[id] = routine
}
