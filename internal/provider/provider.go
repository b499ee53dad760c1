// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package provider unifies the supported chat completion backends (OpenAI,
// Anthropic Claude, and a local Ollama server) behind a single Client
// interface. Each adapter translates the shared message format into the
// backend's wire format and maps failures onto one error taxonomy.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/precie21/astral-assistant/internal/model"
)

// =============================================================================
// PROVIDER SELECTION
// =============================================================================

// Provider identifies a chat completion backend.
type Provider string

const (
	// ProviderOpenAI is the OpenAI chat completions API (requires an API key).
	ProviderOpenAI Provider = "openai"

	// ProviderClaude is the Anthropic messages API (requires an API key).
	ProviderClaude Provider = "claude"

	// ProviderOllama is a locally running Ollama server (requires only a URL).
	ProviderOllama Provider = "ollama"
)

// String returns the string representation of the provider.
func (p Provider) String() string {
	return string(p)
}

// ParseProvider maps a settings value onto a Provider. Matching is
// case-insensitive so values persisted by older releases keep working.
func ParseProvider(s string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "openai":
		return ProviderOpenAI, nil
	case "claude", "anthropic":
		return ProviderClaude, nil
	case "ollama", "local":
		return ProviderOllama, nil
	default:
		return "", fmt.Errorf("unknown provider %q", s)
	}
}

// RequiresAPIKey reports whether the provider needs a credential.
func (p Provider) RequiresAPIKey() bool {
	return p == ProviderOpenAI || p == ProviderClaude
}

// =============================================================================
// CONFIGURATION
// =============================================================================

// DefaultTimeout is the fixed request timeout applied to every provider call.
const DefaultTimeout = 30 * time.Second

// DefaultOllamaURL is the default local Ollama endpoint.
const DefaultOllamaURL = "http://localhost:11434"

// Config holds the active provider selection and generation parameters.
// A Config is immutable per request: the dispatcher replaces it wholesale
// on update and never mutates one concurrently with an in-flight call.
type Config struct {
	Provider    Provider `json:"provider"`
	APIKey      string   `json:"api_key,omitempty"`
	Model       string   `json:"model"`
	Temperature float64  `json:"temperature"`
	MaxTokens   int      `json:"max_tokens"`
	OllamaURL   string   `json:"ollama_url,omitempty"`
}

// DefaultConfig returns the default configuration: local Ollama, so the
// assistant works without any credentials.
func DefaultConfig() Config {
	return Config{
		Provider:    ProviderOllama,
		Model:       "llama2",
		Temperature: 0.7,
		MaxTokens:   500,
		OllamaURL:   DefaultOllamaURL,
	}
}

// Validate checks the generation parameters and provider requirements.
// Credential presence is checked again by each adapter before any network
// I/O; Validate exists so a bad config is rejected at update time too.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI, ProviderClaude, ProviderOllama:
	default:
		return &ClientError{Kind: KindConfig, Message: fmt.Sprintf("unknown provider %q", c.Provider)}
	}
	if c.Model == "" {
		return &ClientError{Kind: KindConfig, Message: "model is not set"}
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return &ClientError{Kind: KindConfig, Message: fmt.Sprintf("temperature %.2f out of range [0, 2]", c.Temperature)}
	}
	if c.MaxTokens <= 0 {
		return &ClientError{Kind: KindConfig, Message: "max_tokens must be positive"}
	}
	if c.Provider == ProviderOllama && c.OllamaURL == "" {
		return &ClientError{Kind: KindConfig, Message: "Ollama URL is not set"}
	}
	return nil
}

// =============================================================================
// CLIENT INTERFACE
// =============================================================================

// Response is the uniform result of a completed chat request.
type Response struct {
	// Content is the assistant reply text.
	Content string

	// Model is the model identifier the request was made with.
	Model string

	// TokensUsed is the total token count reported by the backend,
	// or 0 when the backend does not report usage.
	TokensUsed int
}

// Client is the uniform capability over a chat completion backend.
// Implementations must not retry on their own: every call is single-shot
// and the caller decides whether to try again.
type Client interface {
	// Complete sends the full message sequence (system preamble included)
	// and returns the assistant reply. The messages slice is not retained.
	Complete(ctx context.Context, messages []model.Message, cfg Config) (*Response, error)
}

// NewClient returns the adapter for the configured provider. The returned
// client is safe for concurrent use.
func NewClient(p Provider) Client {
	switch p {
	case ProviderOpenAI:
		return &openAIClient{httpClient: sharedHTTPClient}
	case ProviderClaude:
		return &claudeClient{httpClient: sharedHTTPClient}
	default:
		return &ollamaClient{httpClient: sharedHTTPClient}
	}
}

// sharedHTTPClient is used by all adapters. The fixed timeout is the only
// bound on an unresponsive backend; no cancellation is threaded beyond it.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
	Timeout: DefaultTimeout,
}

// =============================================================================
// SHARED REQUEST PLUMBING
// =============================================================================

// postJSON marshals body, POSTs it with the given headers, and decodes a
// 2xx response into out. Non-2xx responses become Protocol errors carrying
// the raw error body; transport failures are classified as Timeout or
// Connection errors.
func postJSON(ctx context.Context, httpClient *http.Client, url string, headers map[string]string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &ClientError{Kind: KindProtocol, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return &ClientError{Kind: KindConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &ClientError{
			Kind:    KindProtocol,
			Message: fmt.Sprintf("%s: %s", resp.Status, strings.TrimSpace(string(raw))),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ClientError{Kind: KindProtocol, Message: "failed to decode response", Cause: err}
	}
	return nil
}

// maxErrorBody bounds how much of an error response is kept for diagnostics.
const maxErrorBody = 8 * 1024

// classifyTransportError maps an http.Client error onto the taxonomy.
func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &ClientError{Kind: KindTimeout, Message: "request timed out", Cause: err}
	}
	var ne interface{ Timeout() bool }
	if errors.As(err, &ne) && ne.Timeout() {
		return &ClientError{Kind: KindTimeout, Message: "request timed out", Cause: err}
	}
	return &ClientError{Kind: KindConnection, Message: "connection failed", Cause: err}
}
