// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package assistant wires the pieces together behind one facade: settings,
// the LLM dispatcher, the routine registry and executor, command routing,
// persistence, and telemetry. The CLI talks only to this package.
package assistant

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/precie21/astral-assistant/internal/automation"
	"github.com/precie21/astral-assistant/internal/dispatch"
	"github.com/precie21/astral-assistant/internal/model"
	"github.com/precie21/astral-assistant/internal/provider"
	"github.com/precie21/astral-assistant/internal/router"
	"github.com/precie21/astral-assistant/internal/settings"
	"github.com/precie21/astral-assistant/internal/speech"
	"github.com/precie21/astral-assistant/internal/storage"
	"github.com/precie21/astral-assistant/internal/system"
	"github.com/precie21/astral-assistant/internal/telemetry"
)

// =============================================================================
// ASSISTANT
// =============================================================================

// Assistant is the top-level application object.
type Assistant struct {
	settings   *settings.Store
	dispatcher *dispatch.Dispatcher
	registry   *automation.Registry
	executor   *automation.Executor
	router     *router.Router
	store      *storage.Store    // nil when persistence is unavailable
	watcher    *settings.Watcher // nil when the settings file cannot be watched
	monitor    *telemetry.Monitor
	logger     *zap.Logger
}

// Options control optional collaborators.
type Options struct {
	SettingsPath string // empty means ~/.astral/settings.toml
	DatabasePath string // empty means ~/.astral/astral.db
	Logger       *zap.Logger
}

// New builds a fully wired assistant. A broken database is downgraded to a
// warning; the assistant still works, it just forgets between runs.
func New(opts Options) (*Assistant, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	settingsPath := opts.SettingsPath
	if settingsPath == "" {
		p, err := settings.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("resolve settings path: %w", err)
		}
		settingsPath = p
	}
	store, err := settings.NewStore(settingsPath)
	if err != nil {
		return nil, err
	}
	cur := store.Current()

	cfg, err := cur.ProviderConfig()
	if err != nil {
		logger.Warn("stored provider settings invalid, using defaults", zap.Error(err))
		cfg = provider.DefaultConfig()
	}

	dispatcher := dispatch.New(cfg, logger.Named("dispatch"))

	var synth system.SpeechSynthesizer
	if cur.ElevenLabsEnabled {
		synth = speech.NewElevenLabsClient(speech.ElevenLabsConfig{
			Enabled: true,
			APIKey:  cur.ElevenLabsAPIKey,
			VoiceID: cur.ElevenLabsVoiceID,
			ModelID: cur.ElevenLabsModelID,
		})
	}
	services := system.NewServices(logger.Named("system"), synth)

	registry := automation.NewRegistry()
	executor := automation.NewExecutor(registry, services, logger.Named("automation"))

	a := &Assistant{
		settings:   store,
		dispatcher: dispatcher,
		registry:   registry,
		executor:   executor,
		router:     router.New(registry, executor, dispatcher, logger.Named("router")),
		monitor:    telemetry.NewMonitor(),
		logger:     logger,
	}

	dbPath := opts.DatabasePath
	if dbPath == "" {
		if p, err := storage.DefaultPath(); err == nil {
			dbPath = p
		}
	}
	if dbPath != "" {
		db, err := storage.Open(dbPath)
		if err != nil {
			logger.Warn("persistence unavailable", zap.String("path", dbPath), zap.Error(err))
		} else {
			a.store = db
			a.loadStoredRoutines()
		}
	}

	// Live-reload: external edits to the settings file retarget the provider.
	watcher, err := settings.NewWatcher(store, a.applySettings, logger.Named("settings"))
	if err != nil {
		logger.Warn("settings watcher unavailable", zap.Error(err))
	} else if err := watcher.Watch(); err != nil {
		logger.Warn("settings watcher unavailable", zap.Error(err))
		watcher.Close()
	} else {
		a.watcher = watcher
	}

	return a, nil
}

// applySettings propagates an on-disk settings change to the dispatcher.
func (a *Assistant) applySettings(s settings.Settings) {
	cfg, err := s.ProviderConfig()
	if err != nil {
		a.logger.Warn("reloaded settings invalid, keeping current provider config", zap.Error(err))
		return
	}
	if err := a.dispatcher.UpdateConfig(cfg); err != nil {
		a.logger.Warn("failed to apply reloaded settings", zap.Error(err))
	}
}

// Close releases resources.
func (a *Assistant) Close() error {
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			a.logger.Warn("settings watcher close failed", zap.Error(err))
		}
		a.watcher = nil
	}
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

// loadStoredRoutines merges persisted user routines over the built-ins.
func (a *Assistant) loadStoredRoutines() {
	routines, err := a.store.LoadRoutines()
	if err != nil {
		a.logger.Warn("failed to load stored routines", zap.Error(err))
		return
	}
	for _, r := range routines {
		a.registry.Add(r)
	}
}

// =============================================================================
// CONVERSATION
// =============================================================================

// RouteCommand routes raw user input: routine trigger phrases run routines,
// everything else goes to the language model. Always returns something to
// show the user.
func (a *Assistant) RouteCommand(ctx context.Context, raw string) string {
	reply := a.router.Route(ctx, raw)
	a.recordExchange(raw, reply)
	return reply
}

// SendMessage sends text straight to the language model, bypassing trigger
// matching.
func (a *Assistant) SendMessage(ctx context.Context, text string) (string, error) {
	reply, err := a.dispatcher.Send(ctx, text)
	if err != nil {
		return "", err
	}
	a.recordExchange(text, reply.Content)
	return reply.Content, nil
}

func (a *Assistant) recordExchange(userText, assistantText string) {
	if a.store == nil {
		return
	}
	if err := a.store.AppendTranscript(model.NewUserMessage(userText)); err != nil {
		a.logger.Warn("transcript write failed", zap.Error(err))
		return
	}
	if err := a.store.AppendTranscript(model.NewAssistantMessage(assistantText)); err != nil {
		a.logger.Warn("transcript write failed", zap.Error(err))
	}
}

// Transcribe runs a WAV file through the configured Whisper server and
// returns the recognized text. The client is built per call so live settings
// edits take effect immediately.
func (a *Assistant) Transcribe(ctx context.Context, wavPath string) (string, error) {
	s := a.settings.Current()
	client := speech.NewWhisperClient(speech.WhisperConfig{
		Enabled:   s.WhisperEnabled,
		ServerURL: s.WhisperServerURL,
		Model:     s.WhisperModel,
	})
	return client.TranscribeFile(ctx, wavPath)
}

// History returns the in-memory conversation window.
func (a *Assistant) History() []model.Message {
	return a.dispatcher.History()
}

// ClearHistory empties the conversation window.
func (a *Assistant) ClearHistory() {
	a.dispatcher.ClearHistory()
}

// =============================================================================
// CONFIGURATION
// =============================================================================

// Config returns the active provider configuration.
func (a *Assistant) Config() provider.Config {
	return a.dispatcher.Config()
}

// UpdateConfig validates and applies a provider configuration, and persists
// it to the settings file.
func (a *Assistant) UpdateConfig(cfg provider.Config) error {
	if err := a.dispatcher.UpdateConfig(cfg); err != nil {
		return err
	}

	s := a.settings.Current()
	s.LLMProvider = string(cfg.Provider)
	s.LLMModel = cfg.Model
	s.LLMAPIKey = cfg.APIKey
	s.Temperature = cfg.Temperature
	s.MaxTokens = cfg.MaxTokens
	s.OllamaURL = cfg.OllamaURL
	if err := a.settings.Save(s); err != nil {
		a.logger.Warn("failed to persist settings", zap.Error(err))
	}
	return nil
}

// Settings returns the full persisted settings.
func (a *Assistant) Settings() settings.Settings {
	return a.settings.Current()
}

// SaveSettings persists full settings and applies the provider portion.
func (a *Assistant) SaveSettings(s settings.Settings) error {
	cfg, err := s.ProviderConfig()
	if err != nil {
		return err
	}
	if err := a.dispatcher.UpdateConfig(cfg); err != nil {
		return err
	}
	return a.settings.Save(s)
}

// TestConnection probes whether the configured provider is usable.
func (a *Assistant) TestConnection(ctx context.Context) bool {
	return provider.TestConnection(ctx, a.dispatcher.Config())
}

// =============================================================================
// ROUTINES
// =============================================================================

// Routines lists all registered routines, built-in and user-created.
func (a *Assistant) Routines() []automation.Routine {
	return a.registry.List()
}

// ExecuteRoutine runs a routine by ID.
func (a *Assistant) ExecuteRoutine(ctx context.Context, id string) (*automation.Result, error) {
	result, err := a.executor.Execute(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.store != nil && !a.isBuiltin(id) {
		if err := a.store.TouchLastRun(id, time.Now()); err != nil {
			a.logger.Warn("failed to persist last run", zap.String("routine", id), zap.Error(err))
		}
	}
	return result, nil
}

// ToggleRoutine flips a routine's enabled state and returns the new state.
func (a *Assistant) ToggleRoutine(id string) (bool, error) {
	enabled, err := a.registry.Toggle(id)
	if err != nil {
		return false, err
	}
	a.persistRoutine(id)
	return enabled, nil
}

// CreateRoutine registers a user routine. A blank ID gets a generated one.
func (a *Assistant) CreateRoutine(r automation.Routine) (automation.Routine, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Name == "" {
		return automation.Routine{}, fmt.Errorf("routine name is required")
	}
	if len(r.Actions) == 0 {
		return automation.Routine{}, fmt.Errorf("routine needs at least one action")
	}
	if r.Trigger == nil {
		r.Trigger = automation.Manual{}
	}
	r.CreatedAt = time.Now()
	r.Enabled = true

	a.registry.Add(r)
	a.persistRoutine(r.ID)
	return r, nil
}

// DeleteRoutine removes a user routine. Built-ins cannot be deleted.
func (a *Assistant) DeleteRoutine(id string) error {
	if a.isBuiltin(id) {
		return fmt.Errorf("%s is built in and cannot be deleted", id)
	}
	if err := a.registry.Delete(id); err != nil {
		return err
	}
	if a.store != nil {
		if err := a.store.DeleteRoutine(id); err != nil {
			a.logger.Warn("failed to delete stored routine", zap.String("routine", id), zap.Error(err))
		}
	}
	return nil
}

func (a *Assistant) isBuiltin(id string) bool {
	for _, b := range automation.BuiltinIDs {
		if b == id {
			return true
		}
	}
	return false
}

// persistRoutine writes the current state of a user routine to storage.
func (a *Assistant) persistRoutine(id string) {
	if a.store == nil || a.isBuiltin(id) {
		return
	}
	r, err := a.registry.Get(id)
	if err != nil {
		return
	}
	if err := a.store.SaveRoutine(r); err != nil {
		a.logger.Warn("failed to persist routine", zap.String("routine", id), zap.Error(err))
	}
}

// =============================================================================
// STATUS
// =============================================================================

// Status summarizes the assistant's runtime state.
type Status struct {
	Provider          provider.Provider
	Model             string
	ProviderReachable bool
	HistoryLen        int
	RoutineCount      int
	Telemetry         *telemetry.Snapshot
}

// Status collects provider, conversation, and host telemetry state.
func (a *Assistant) Status(ctx context.Context) Status {
	cfg := a.dispatcher.Config()
	st := Status{
		Provider:          cfg.Provider,
		Model:             cfg.Model,
		ProviderReachable: provider.TestConnection(ctx, cfg),
		HistoryLen:        len(a.dispatcher.History()),
		RoutineCount:      len(a.registry.List()),
	}
	if snap, err := a.monitor.Collect(ctx); err == nil {
		st.Telemetry = &snap
	} else {
		a.logger.Debug("telemetry unavailable", zap.Error(err))
	}
	return st
}
