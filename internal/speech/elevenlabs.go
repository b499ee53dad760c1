// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// =============================================================================
// ELEVENLABS TEXT-TO-SPEECH
// =============================================================================

const defaultElevenLabsURL = "https://api.elevenlabs.io"

// ElevenLabsConfig configures the ElevenLabs client.
type ElevenLabsConfig struct {
	Enabled bool
	APIKey  string
	VoiceID string
	ModelID string
}

// DefaultElevenLabsConfig returns the Rachel voice with the turbo model.
func DefaultElevenLabsConfig() ElevenLabsConfig {
	return ElevenLabsConfig{
		Enabled: false,
		VoiceID: "21m00Tcm4TlvDq8ikWAM",
		ModelID: "eleven_turbo_v2_5",
	}
}

type ttsRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

// ElevenLabsClient synthesizes speech through the ElevenLabs API.
// It satisfies the system speech synthesizer interface via Speak.
type ElevenLabsClient struct {
	cfg        ElevenLabsConfig
	httpClient *http.Client
	baseURL    string // test override
	outDir     string // where Speak writes audio files
}

// NewElevenLabsClient creates a client. Audio produced by Speak lands in
// the OS temp directory.
func NewElevenLabsClient(cfg ElevenLabsConfig) *ElevenLabsClient {
	return &ElevenLabsClient{
		cfg:        cfg,
		httpClient: sharedHTTPClient,
		baseURL:    defaultElevenLabsURL,
		outDir:     os.TempDir(),
	}
}

// Synthesize converts text to MP3 audio bytes.
func (c *ElevenLabsClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if !c.cfg.Enabled {
		return nil, fmt.Errorf("ElevenLabs is disabled")
	}
	if c.cfg.APIKey == "" {
		return nil, fmt.Errorf("ElevenLabs API key not set. Get one at: https://elevenlabs.io/")
	}

	body, err := json.Marshal(ttsRequest{
		Text:    text,
		ModelID: c.cfg.ModelID,
		VoiceSettings: voiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.75,
		},
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s", c.baseURL, c.cfg.VoiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("xi-api-key", c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))
		return nil, fmt.Errorf("ElevenLabs API error %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	return io.ReadAll(resp.Body)
}

// Speak synthesizes text and writes the audio to a file, returning its path.
func (c *ElevenLabsClient) Speak(ctx context.Context, text string) (string, error) {
	audio, err := c.Synthesize(ctx, text)
	if err != nil {
		return "", err
	}
	path := filepath.Join(c.outDir, fmt.Sprintf("astral-tts-%s.mp3", uuid.NewString()))
	if err := os.WriteFile(path, audio, 0o600); err != nil {
		return "", fmt.Errorf("failed to write audio file: %w", err)
	}
	return path, nil
}
