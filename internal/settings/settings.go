// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package settings provides the persisted application configuration:
// provider selection, credentials, service endpoints, and feature toggles.
//
// Settings live in TOML at ~/.astral/settings.toml. Missing file means
// defaults; unknown keys are ignored so older releases can read newer files.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/precie21/astral-assistant/internal/provider"
)

// =============================================================================
// SETTINGS STRUCTURE
// =============================================================================

// Settings is the complete persisted configuration.
type Settings struct {
	// LLM provider selection
	LLMProvider string `toml:"llm_provider"`
	LLMModel    string `toml:"llm_model"`
	LLMAPIKey   string `toml:"llm_api_key"`
	Temperature float64 `toml:"temperature"`
	MaxTokens   int     `toml:"max_tokens"`
	OllamaURL   string  `toml:"ollama_url"`

	// Speech-to-text (local Whisper server)
	WhisperEnabled   bool   `toml:"whisper_enabled"`
	WhisperServerURL string `toml:"whisper_server_url"`
	WhisperModel     string `toml:"whisper_model"`

	// Text-to-speech (ElevenLabs)
	ElevenLabsEnabled bool   `toml:"elevenlabs_enabled"`
	ElevenLabsAPIKey  string `toml:"elevenlabs_api_key"`
	ElevenLabsVoiceID string `toml:"elevenlabs_voice_id"`
	ElevenLabsModelID string `toml:"elevenlabs_model_id"`

	// Feature toggles
	WakeWordEnabled bool   `toml:"wake_word_enabled"`
	Theme           string `toml:"theme"`
}

// Default returns the out-of-the-box settings: local Ollama, speech features
// disabled, dark theme.
func Default() Settings {
	return Settings{
		LLMProvider:       "ollama",
		LLMModel:          "mistral:latest",
		Temperature:       0.7,
		MaxTokens:         500,
		OllamaURL:         provider.DefaultOllamaURL,
		WhisperEnabled:    false,
		WhisperServerURL:  "http://localhost:9881",
		WhisperModel:      "base.en",
		ElevenLabsEnabled: false,
		ElevenLabsVoiceID: "21m00Tcm4TlvDq8ikWAM",
		ElevenLabsModelID: "eleven_turbo_v2_5",
		WakeWordEnabled:   false,
		Theme:             "dark",
	}
}

// ProviderConfig maps the settings onto a provider configuration.
func (s Settings) ProviderConfig() (provider.Config, error) {
	p, err := provider.ParseProvider(s.LLMProvider)
	if err != nil {
		return provider.Config{}, err
	}
	cfg := provider.Config{
		Provider:    p,
		APIKey:      s.LLMAPIKey,
		Model:       s.LLMModel,
		Temperature: s.Temperature,
		MaxTokens:   s.MaxTokens,
		OllamaURL:   s.OllamaURL,
	}
	if err := cfg.Validate(); err != nil {
		return provider.Config{}, err
	}
	return cfg, nil
}

// =============================================================================
// STORE
// =============================================================================

// Store loads and saves settings at a fixed path, guarded for concurrent
// readers.
type Store struct {
	mu   sync.RWMutex
	path string
	cur  Settings
}

// DefaultPath returns ~/.astral/settings.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".astral", "settings.toml"), nil
}

// NewStore creates a store bound to path and loads the current contents.
// A missing file is not an error; defaults apply until the first Save.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path, cur: Default()}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Current returns a copy of the in-memory settings.
func (s *Store) Current() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// Reload re-reads the file, keeping defaults for anything unset.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	loaded := Default()
	if _, err := os.Stat(s.path); err != nil {
		if os.IsNotExist(err) {
			s.cur = loaded
			return nil
		}
		return fmt.Errorf("stat settings file: %w", err)
	}
	if _, err := toml.DecodeFile(s.path, &loaded); err != nil {
		return fmt.Errorf("parse %s: %w", s.path, err)
	}
	s.cur = loaded
	return nil
}

// Save persists the given settings and makes them current. The write goes
// through a temp file and rename so a crash cannot leave a torn file.
func (s *Store) Save(settings Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".settings-*.toml")
	if err != nil {
		return fmt.Errorf("create temp settings file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := toml.NewEncoder(tmp).Encode(settings); err != nil {
		tmp.Close()
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace settings file: %w", err)
	}

	s.cur = settings
	return nil
}

// Path returns the file path the store is bound to.
func (s *Store) Path() string {
	return s.path
}
