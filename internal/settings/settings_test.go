// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/precie21/astral-assistant/internal/provider"
)

func TestMissingFileMeansDefaults(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "settings.toml"))
	require.NoError(t, err)

	got := store.Current()
	assert.Equal(t, Default(), got)
	assert.Equal(t, "ollama", got.LLMProvider)
	assert.Equal(t, provider.DefaultOllamaURL, got.OllamaURL)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	store, err := NewStore(path)
	require.NoError(t, err)

	s := store.Current()
	s.LLMProvider = "claude"
	s.LLMModel = "claude-3-sonnet"
	s.LLMAPIKey = "sk-ant-test"
	s.Temperature = 0.3
	s.ElevenLabsEnabled = true
	require.NoError(t, store.Save(s))

	// Second store re-reads from disk.
	reopened, err := NewStore(path)
	require.NoError(t, err)
	assert.Equal(t, s, reopened.Current())
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte("llm_provider = \"openai\"\nllm_model = \"gpt-4\"\n"), 0o644))

	store, err := NewStore(path)
	require.NoError(t, err)

	got := store.Current()
	assert.Equal(t, "openai", got.LLMProvider)
	assert.Equal(t, "gpt-4", got.LLMModel)
	// Everything unset falls back to the defaults.
	assert.Equal(t, Default().WhisperServerURL, got.WhisperServerURL)
	assert.Equal(t, Default().ElevenLabsVoiceID, got.ElevenLabsVoiceID)
}

func TestCorruptFileRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte("{not toml"), 0o644))

	_, err := NewStore(path)
	assert.Error(t, err)
}

func TestProviderConfigMapping(t *testing.T) {
	s := Default()
	s.LLMProvider = "claude"
	s.LLMModel = "claude-3-sonnet"
	s.LLMAPIKey = "sk-ant-test"
	s.Temperature = 0.5
	s.MaxTokens = 300

	cfg, err := s.ProviderConfig()
	require.NoError(t, err)
	assert.Equal(t, provider.ProviderClaude, cfg.Provider)
	assert.Equal(t, "claude-3-sonnet", cfg.Model)
	assert.Equal(t, "sk-ant-test", cfg.APIKey)
	assert.Equal(t, 0.5, cfg.Temperature)
	assert.Equal(t, 300, cfg.MaxTokens)
}

func TestProviderConfigRejectsUnknownProvider(t *testing.T) {
	s := Default()
	s.LLMProvider = "skynet"
	_, err := s.ProviderConfig()
	assert.Error(t, err)
}
