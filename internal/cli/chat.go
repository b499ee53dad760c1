// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat command handler for astral CLI.
//
// Handles the "astral chat" command which provides an interactive REPL.
// Every line goes through command routing, so trigger phrases run their
// routines and everything else reaches the language model.
//
// Interactive Commands (during chat):
//   /help, /h        Show available commands
//   /clear, /c       Clear conversation history
//   /config          Show current configuration
//   /history         Show conversation history
//   /quit, /q        Exit chat
//   Ctrl+C           Abort current input
//   Ctrl+D           Exit chat
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/precie21/astral-assistant/internal/assistant"
)

// =============================================================================
// INPUT WITH HISTORY
// =============================================================================

// chatInput provides input history and line editing for interactive chat.
type chatInput struct {
	line        *liner.State
	historyFile string
}

func newChatInput() *chatInput {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir := os.TempDir()
	if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, ".astral")
	}

	c := &chatInput{
		line:        line,
		historyFile: filepath.Join(dir, "chat_history"),
	}
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
	return c
}

func (c *chatInput) read(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

func (c *chatInput) close() {
	if err := os.MkdirAll(filepath.Dir(c.historyFile), 0o755); err == nil {
		if f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			c.line.WriteHistory(f)
			f.Close()
		}
	}
	c.line.Close()
}

// =============================================================================
// CHAT COMMAND
// =============================================================================

// HandleChat handles the "chat" command.
func HandleChat(a *assistant.Assistant, args Args) error {
	if args.Model != "" {
		cfg := a.Config()
		cfg.Model = args.Model
		if err := a.UpdateConfig(cfg); err != nil {
			return err
		}
	}

	input := newChatInput()
	defer input.close()

	if !args.Quiet {
		cfg := a.Config()
		fmt.Println(TitleStyle.Render("ASTRAL"))
		fmt.Printf("%s %s\n", LabelStyle.Render("Provider:"), ValueStyle.Render(string(cfg.Provider)))
		fmt.Printf("%s %s\n", LabelStyle.Render("Model:"), ValueStyle.Render(cfg.Model))
		fmt.Println(DimStyle.Render("Type /help for commands, /quit to exit."))
		fmt.Println()
	}

	ctx := context.Background()

	for {
		line, err := input.read(PromptStyle.Render("you> "))
		if err != nil {
			if err == liner.ErrPromptAborted {
				continue
			}
			if err == io.EOF {
				fmt.Println()
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if done := handleChatCommand(a, line); done {
				return nil
			}
			continue
		}

		reply := a.RouteCommand(ctx, line)
		fmt.Println(AssistantStyle.Render(reply))
		fmt.Println()
	}
}

// handleChatCommand processes slash commands. Returns true to exit.
func handleChatCommand(a *assistant.Assistant, line string) bool {
	switch strings.ToLower(strings.Fields(line)[0]) {
	case "/quit", "/q", "/exit":
		fmt.Println(DimStyle.Render("Goodbye."))
		return true

	case "/clear", "/c":
		a.ClearHistory()
		fmt.Println(DimStyle.Render("Conversation history cleared."))

	case "/config":
		printConfig(a)

	case "/history":
		history := a.History()
		if len(history) == 0 {
			fmt.Println(DimStyle.Render("No conversation history yet."))
			break
		}
		for _, msg := range history {
			fmt.Printf("%s %s\n",
				LabelStyle.Render(msg.Role.DisplayName()+":"),
				ValueStyle.Render(msg.Content))
		}

	case "/help", "/h":
		fmt.Println(SectionStyle.Render("Commands"))
		fmt.Println("  /clear, /c    Clear conversation history")
		fmt.Println("  /config       Show current configuration")
		fmt.Println("  /history      Show conversation history")
		fmt.Println("  /quit, /q     Exit chat")

	default:
		fmt.Println(WarningStyle.Render("Unknown command. Type /help for commands."))
	}
	return false
}
