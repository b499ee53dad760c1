// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"context"
	"net/http"

	"github.com/precie21/astral-assistant/internal/model"
)

// defaultOpenAIURL is the OpenAI chat completions endpoint.
const defaultOpenAIURL = "https://api.openai.com/v1/chat/completions"

// =============================================================================
// WIRE TYPES
// =============================================================================

// chatMessage is the role/content pair shared by the OpenAI and Ollama
// wire formats.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type openAIResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage *struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// =============================================================================
// CLIENT
// =============================================================================

// openAIClient talks to the OpenAI chat completions API.
type openAIClient struct {
	httpClient *http.Client
	baseURL    string // test override, defaults to defaultOpenAIURL
}

func (c *openAIClient) Complete(ctx context.Context, messages []model.Message, cfg Config) (*Response, error) {
	if cfg.APIKey == "" {
		return nil, &ClientError{Kind: KindConfig, Message: "OpenAI API key not configured"}
	}

	req := openAIRequest{
		Model:       cfg.Model,
		Messages:    toChatMessages(messages),
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}

	url := c.baseURL
	if url == "" {
		url = defaultOpenAIURL
	}
	headers := map[string]string{
		"Authorization": "Bearer " + cfg.APIKey,
	}

	var out openAIResponse
	if err := postJSON(ctx, c.httpClient, url, headers, req, &out); err != nil {
		return nil, err
	}

	if len(out.Choices) == 0 {
		return nil, &ClientError{Kind: KindProtocol, Message: "no response from OpenAI"}
	}

	resp := &Response{
		Content: out.Choices[0].Message.Content,
		Model:   cfg.Model,
	}
	if out.Usage != nil {
		resp.TokensUsed = out.Usage.TotalTokens
	}
	return resp, nil
}

// toChatMessages converts the shared message type to the wire format.
func toChatMessages(messages []model.Message) []chatMessage {
	out := make([]chatMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, chatMessage{Role: m.Role.String(), Content: m.Content})
	}
	return out
}
