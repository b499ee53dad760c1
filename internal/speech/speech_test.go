// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package speech

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

// =============================================================================
// WHISPER
// =============================================================================

func TestWhisperTranscribe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transcribe" {
			t.Errorf("path = %q, want /transcribe", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("expected multipart form: %v", err)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("missing file part: %v", err)
		}
		file.Close()
		if header.Filename != "audio.wav" {
			t.Errorf("filename = %q, want audio.wav", header.Filename)
		}
		w.Write([]byte(`{"text": "  turn on the lights  "}`))
	}))
	defer server.Close()

	client := NewWhisperClient(WhisperConfig{Enabled: true, ServerURL: server.URL, Model: "base.en"})
	text, err := client.Transcribe(context.Background(), []byte("RIFFfakewav"))
	if err != nil {
		t.Fatalf("Transcribe() error: %v", err)
	}
	if text != "turn on the lights" {
		t.Errorf("text = %q, want trimmed transcription", text)
	}
}

func TestWhisperDisabled(t *testing.T) {
	client := NewWhisperClient(DefaultWhisperConfig())
	if _, err := client.Transcribe(context.Background(), []byte("x")); err == nil {
		t.Fatal("disabled client must refuse to transcribe")
	}
}

func TestWhisperServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewWhisperClient(WhisperConfig{Enabled: true, ServerURL: server.URL})
	_, err := client.Transcribe(context.Background(), []byte("x"))
	if err == nil {
		t.Fatal("expected error for HTTP 500")
	}
	if !strings.Contains(err.Error(), "model not loaded") {
		t.Errorf("error should carry the server message: %v", err)
	}
}

func TestWhisperHealthy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("path = %q, want /health", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewWhisperClient(WhisperConfig{Enabled: true, ServerURL: server.URL})
	if !client.Healthy(context.Background()) {
		t.Error("healthy server reported unhealthy")
	}

	server.Close()
	if client.Healthy(context.Background()) {
		t.Error("stopped server reported healthy")
	}
}

// =============================================================================
// ELEVENLABS
// =============================================================================

func TestElevenLabsSynthesize(t *testing.T) {
	audio := []byte("ID3fake-mp3-bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("xi-api-key"); got != "el-test-key" {
			t.Errorf("xi-api-key = %q", got)
		}
		if !strings.HasPrefix(r.URL.Path, "/v1/text-to-speech/") {
			t.Errorf("path = %q", r.URL.Path)
		}
		if !strings.HasSuffix(r.URL.Path, "voice-123") {
			t.Errorf("voice ID missing from path: %q", r.URL.Path)
		}
		w.Write(audio)
	}))
	defer server.Close()

	client := NewElevenLabsClient(ElevenLabsConfig{
		Enabled: true,
		APIKey:  "el-test-key",
		VoiceID: "voice-123",
		ModelID: "eleven_turbo_v2_5",
	})
	client.baseURL = server.URL

	got, err := client.Synthesize(context.Background(), "Good morning")
	if err != nil {
		t.Fatalf("Synthesize() error: %v", err)
	}
	if string(got) != string(audio) {
		t.Errorf("audio bytes mismatch")
	}
}

func TestElevenLabsRequiresKey(t *testing.T) {
	cfg := DefaultElevenLabsConfig()
	cfg.Enabled = true
	client := NewElevenLabsClient(cfg)

	_, err := client.Synthesize(context.Background(), "hi")
	if err == nil {
		t.Fatal("missing API key must be rejected")
	}
}

func TestElevenLabsDisabled(t *testing.T) {
	client := NewElevenLabsClient(DefaultElevenLabsConfig())
	if _, err := client.Synthesize(context.Background(), "hi"); err == nil {
		t.Fatal("disabled client must refuse to synthesize")
	}
}

func TestElevenLabsSpeakWritesFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("audio"))
	}))
	defer server.Close()

	client := NewElevenLabsClient(ElevenLabsConfig{
		Enabled: true,
		APIKey:  "el-test-key",
		VoiceID: "voice-123",
		ModelID: "eleven_turbo_v2_5",
	})
	client.baseURL = server.URL
	client.outDir = t.TempDir()

	path, err := client.Speak(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Speak() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("audio file not written: %v", err)
	}
	if string(data) != "audio" {
		t.Errorf("file contents = %q", data)
	}
}
