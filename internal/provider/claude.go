// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"context"
	"net/http"

	"github.com/precie21/astral-assistant/internal/model"
)

const (
	// defaultClaudeURL is the Anthropic messages endpoint.
	defaultClaudeURL = "https://api.anthropic.com/v1/messages"

	// anthropicVersion is the required API version header value.
	anthropicVersion = "2023-06-01"
)

// =============================================================================
// WIRE TYPES
// =============================================================================

type claudeRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	System      string        `json:"system,omitempty"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type claudeResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
	Usage *struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// =============================================================================
// CLIENT
// =============================================================================

// claudeClient talks to the Anthropic messages API. Unlike the other two
// backends, Claude takes the system preamble as a top-level field rather
// than a message with role "system", so system entries are lifted out of
// the sequence before sending.
type claudeClient struct {
	httpClient *http.Client
	baseURL    string // test override, defaults to defaultClaudeURL
}

func (c *claudeClient) Complete(ctx context.Context, messages []model.Message, cfg Config) (*Response, error) {
	if cfg.APIKey == "" {
		return nil, &ClientError{Kind: KindConfig, Message: "Claude API key not configured"}
	}

	system, conversation := splitSystem(messages)
	req := claudeRequest{
		Model:       cfg.Model,
		Messages:    toChatMessages(conversation),
		System:      system,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}

	url := c.baseURL
	if url == "" {
		url = defaultClaudeURL
	}
	headers := map[string]string{
		"x-api-key":         cfg.APIKey,
		"anthropic-version": anthropicVersion,
	}

	var out claudeResponse
	if err := postJSON(ctx, c.httpClient, url, headers, req, &out); err != nil {
		return nil, err
	}

	if len(out.Content) == 0 {
		return nil, &ClientError{Kind: KindProtocol, Message: "no response from Claude"}
	}

	resp := &Response{
		Content: out.Content[0].Text,
		Model:   cfg.Model,
	}
	if out.Usage != nil {
		resp.TokensUsed = out.Usage.InputTokens + out.Usage.OutputTokens
	}
	return resp, nil
}

// splitSystem separates system messages from the conversation. Multiple
// system entries are joined with blank lines; in practice the dispatcher
// sends exactly one.
func splitSystem(messages []model.Message) (string, []model.Message) {
	var system string
	conversation := make([]model.Message, 0, len(messages))
	for _, m := range messages {
		if m.Role == model.RoleSystem {
			if system != "" {
				system += "\n\n"
			}
			system += m.Content
			continue
		}
		conversation = append(conversation, m)
	}
	return system, conversation
}
