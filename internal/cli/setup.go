// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// setup.go - First-run wizard for astral CLI.
//
// Walks through provider selection and credentials, probes the connection,
// and saves the result to the settings file.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/precie21/astral-assistant/internal/assistant"
	"github.com/precie21/astral-assistant/internal/provider"
)

// HandleSetup handles the "setup" command.
func HandleSetup(a *assistant.Assistant, args Args) error {
	if !IsTTY() {
		return fmt.Errorf("setup needs an interactive terminal")
	}

	fmt.Println(TitleStyle.Render("ASTRAL Setup"))
	fmt.Println(DimStyle.Render("Configure your language model provider. Press Enter to keep defaults."))
	fmt.Println()

	cfg := a.Config()

	fmt.Println(SectionStyle.Render("Provider"))
	fmt.Println("  1. ollama  - local models, no API key needed")
	fmt.Println("  2. openai  - OpenAI API")
	fmt.Println("  3. claude  - Anthropic API")
	choice := promptString(fmt.Sprintf("Choose [1-3] (current: %s)", cfg.Provider), "")

	switch strings.TrimSpace(choice) {
	case "1", "ollama":
		cfg.Provider = provider.ProviderOllama
	case "2", "openai":
		cfg.Provider = provider.ProviderOpenAI
	case "3", "claude", "anthropic":
		cfg.Provider = provider.ProviderClaude
	case "":
		// keep current
	default:
		return fmt.Errorf("unknown provider choice %q", choice)
	}

	if cfg.Provider.RequiresAPIKey() {
		key := promptSecure(fmt.Sprintf("API key for %s (hidden, Enter to keep current)", cfg.Provider))
		if key != "" {
			cfg.APIKey = key
		}
	} else {
		url := promptString("Ollama URL", cfg.OllamaURL)
		if url != "" {
			cfg.OllamaURL = url
		}
	}

	model := promptString("Model", cfg.Model)
	if model != "" {
		cfg.Model = model
	}

	if err := a.UpdateConfig(cfg); err != nil {
		return err
	}

	fmt.Println()
	fmt.Print(DimStyle.Render("Testing connection... "))
	if a.TestConnection(context.Background()) {
		fmt.Println(SuccessStyle.Render("OK"))
	} else {
		fmt.Println(WarningStyle.Render("unreachable (saved anyway)"))
	}

	fmt.Println(SuccessStyle.Render("Setup complete."))
	return nil
}

// promptString prompts for a string input with optional default.
func promptString(prompt, defaultVal string) string {
	if defaultVal != "" {
		fmt.Printf("%s [%s]: ", prompt, defaultVal)
	} else {
		fmt.Printf("%s: ", prompt)
	}

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return defaultVal
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return defaultVal
	}
	return input
}

// promptSecure prompts for sensitive input (API keys) without echoing.
func promptSecure(prompt string) string {
	fmt.Print(prompt + ": ")
	keyBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(keyBytes))
}
