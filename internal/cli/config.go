// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - Configuration command handlers for astral CLI.
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/precie21/astral-assistant/internal/assistant"
	"github.com/precie21/astral-assistant/internal/provider"
)

// HandleConfig handles the "config" command.
func HandleConfig(a *assistant.Assistant, args Args) error {
	switch args.Subcommand {
	case "", "show":
		printConfig(a)
		return nil
	case "set":
		return handleConfigSet(a, args.ConfigKey, args.ConfigVal)
	default:
		return fmt.Errorf("unknown config subcommand %q (try: show, set)", args.Subcommand)
	}
}

// printConfig shows the active provider configuration. API keys are masked.
func printConfig(a *assistant.Assistant) {
	cfg := a.Config()

	fmt.Println(TitleStyle.Render("Configuration"))
	fmt.Printf("%s %s\n", LabelStyle.Render("provider:"), ValueStyle.Render(string(cfg.Provider)))
	fmt.Printf("%s %s\n", LabelStyle.Render("model:"), ValueStyle.Render(cfg.Model))
	fmt.Printf("%s %s\n", LabelStyle.Render("api_key:"), ValueStyle.Render(maskKey(cfg.APIKey)))
	fmt.Printf("%s %s\n", LabelStyle.Render("temperature:"), ValueStyle.Render(strconv.FormatFloat(cfg.Temperature, 'f', -1, 64)))
	fmt.Printf("%s %s\n", LabelStyle.Render("max_tokens:"), ValueStyle.Render(strconv.Itoa(cfg.MaxTokens)))
	fmt.Printf("%s %s\n", LabelStyle.Render("ollama_url:"), ValueStyle.Render(cfg.OllamaURL))
}

func handleConfigSet(a *assistant.Assistant, key, value string) error {
	if key == "" || value == "" {
		return fmt.Errorf("usage: astral config set <key> <value>")
	}

	cfg := a.Config()

	switch strings.ToLower(key) {
	case "provider":
		p, err := provider.ParseProvider(value)
		if err != nil {
			return err
		}
		cfg.Provider = p
	case "model":
		cfg.Model = value
	case "api_key":
		cfg.APIKey = value
	case "temperature":
		t, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("temperature must be a number: %q", value)
		}
		cfg.Temperature = t
	case "max_tokens":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("max_tokens must be an integer: %q", value)
		}
		cfg.MaxTokens = n
	case "ollama_url":
		cfg.OllamaURL = value
	default:
		return fmt.Errorf("unknown config key %q (keys: provider, model, api_key, temperature, max_tokens, ollama_url)", key)
	}

	if err := a.UpdateConfig(cfg); err != nil {
		return err
	}
	fmt.Println(SuccessStyle.Render(fmt.Sprintf("Set %s", key)))
	return nil
}

// maskKey hides all but the last four characters of an API key.
func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 4 {
		return "****"
	}
	return strings.Repeat("*", 8) + key[len(key)-4:]
}
