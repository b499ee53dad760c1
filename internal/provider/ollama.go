// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/precie21/astral-assistant/internal/model"
)

// =============================================================================
// WIRE TYPES
// =============================================================================

type ollamaRequest struct {
	Model    string         `json:"model"`
	Messages []chatMessage  `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  *ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaResponse struct {
	Message         chatMessage `json:"message"`
	Done            bool        `json:"done"`
	PromptEvalCount int         `json:"prompt_eval_count,omitempty"`
	EvalCount       int         `json:"eval_count,omitempty"`
}

// =============================================================================
// CLIENT
// =============================================================================

// ollamaClient talks to a locally running Ollama server. It needs no
// credential, only a reachable URL; a refused connection is reported as a
// distinct, user-actionable error ("is Ollama running?") rather than a
// protocol failure.
type ollamaClient struct {
	httpClient *http.Client
}

func (c *ollamaClient) Complete(ctx context.Context, messages []model.Message, cfg Config) (*Response, error) {
	if cfg.OllamaURL == "" {
		return nil, &ClientError{Kind: KindConfig, Message: "Ollama URL not configured"}
	}

	req := ollamaRequest{
		Model:    cfg.Model,
		Messages: toChatMessages(messages),
		Stream:   false,
		Options: &ollamaOptions{
			Temperature: cfg.Temperature,
			NumPredict:  cfg.MaxTokens,
		},
	}

	url := strings.TrimSuffix(cfg.OllamaURL, "/") + "/api/chat"

	var out ollamaResponse
	if err := postJSON(ctx, c.httpClient, url, nil, req, &out); err != nil {
		if IsConnectionError(err) {
			return nil, &ClientError{
				Kind:    KindConnection,
				Message: "Ollama is not reachable - make sure it is running with 'ollama serve'",
				Cause:   err,
			}
		}
		return nil, err
	}

	if out.Message.Content == "" {
		return nil, &ClientError{Kind: KindProtocol, Message: "no response from Ollama"}
	}

	resp := &Response{
		Content: out.Message.Content,
		Model:   cfg.Model,
	}
	if out.EvalCount > 0 {
		resp.TokensUsed = out.PromptEvalCount + out.EvalCount
	}
	return resp, nil
}

// =============================================================================
// CONNECTION PROBE
// =============================================================================

// probeTimeout bounds the reachability check; it is deliberately short so
// a status display does not hang on a stopped server.
const probeTimeout = 2 * time.Second

// TestConnection reports whether the configured provider looks usable.
// For the cloud providers this is a credential-presence check only; for
// Ollama it probes the /api/tags endpoint.
func TestConnection(ctx context.Context, cfg Config) bool {
	switch cfg.Provider {
	case ProviderOpenAI, ProviderClaude:
		return cfg.APIKey != ""
	case ProviderOllama:
		if cfg.OllamaURL == "" {
			return false
		}
		ctx, cancel := context.WithTimeout(ctx, probeTimeout)
		defer cancel()

		url := strings.TrimSuffix(cfg.OllamaURL, "/") + "/api/tags"
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return false
		}
		resp, err := sharedHTTPClient.Do(req)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	default:
		return false
	}
}
