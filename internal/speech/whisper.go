// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"
)

// =============================================================================
// WHISPER SPEECH-TO-TEXT
// =============================================================================

// WhisperConfig configures the local Whisper server client.
type WhisperConfig struct {
	Enabled   bool
	ServerURL string
	Model     string
}

// DefaultWhisperConfig returns the defaults for a locally-run server.
func DefaultWhisperConfig() WhisperConfig {
	return WhisperConfig{
		Enabled:   false,
		ServerURL: "http://localhost:9881",
		Model:     "base.en",
	}
}

// WhisperClient transcribes WAV audio via a local Whisper HTTP server.
type WhisperClient struct {
	cfg        WhisperConfig
	httpClient *http.Client
}

// NewWhisperClient creates a client for the given config.
func NewWhisperClient(cfg WhisperConfig) *WhisperClient {
	return &WhisperClient{cfg: cfg, httpClient: sharedHTTPClient}
}

// Healthy probes GET /health. Any failure means unhealthy, never an error.
func (c *WhisperClient) Healthy(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.ServerURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// TranscribeFile reads a WAV file and transcribes it.
func (c *WhisperClient) TranscribeFile(ctx context.Context, path string) (string, error) {
	audio, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read audio file: %w", err)
	}
	return c.Transcribe(ctx, audio)
}

// Transcribe sends raw WAV bytes to POST /transcribe as a multipart upload
// and returns the recognized text, trimmed.
func (c *WhisperClient) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if !c.cfg.Enabled {
		return "", fmt.Errorf("whisper is not enabled")
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", "audio.wav")
	if err != nil {
		return "", err
	}
	if _, err := part.Write(audio); err != nil {
		return "", err
	}
	if err := form.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.ServerURL+"/transcribe", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach whisper server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))
		return "", fmt.Errorf("whisper server error: %s", strings.TrimSpace(string(body)))
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to parse whisper response: %w", err)
	}
	return strings.TrimSpace(out.Text), nil
}
