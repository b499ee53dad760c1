// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - Single-shot command handler for astral CLI.
//
// Handles "astral ask" which routes one command and prints the reply.
// Trigger phrases run the matching routine; anything else goes to the
// language model.
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/precie21/astral-assistant/internal/assistant"
)

// HandleAsk handles the "ask" command.
func HandleAsk(a *assistant.Assistant, args Args) error {
	query := strings.TrimSpace(args.Query)
	if query == "" {
		return fmt.Errorf("nothing to ask: astral ask \"your question\"")
	}

	if args.Model != "" {
		cfg := a.Config()
		cfg.Model = args.Model
		if err := a.UpdateConfig(cfg); err != nil {
			return err
		}
	}

	reply := a.RouteCommand(context.Background(), query)

	if args.Quiet {
		fmt.Println(reply)
		return nil
	}
	fmt.Println(AssistantStyle.Render(reply))
	return nil
}
