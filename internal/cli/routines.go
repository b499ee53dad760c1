// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// routines.go - Routine management command handlers for astral CLI.
package cli

import (
	"context"
	"fmt"

	"github.com/precie21/astral-assistant/internal/assistant"
	"github.com/precie21/astral-assistant/internal/automation"
)

// HandleRoutines handles the "routines" command and its subcommands.
func HandleRoutines(a *assistant.Assistant, args Args) error {
	switch args.Subcommand {
	case "", "list", "ls", "l":
		return handleRoutinesList(a)
	case "run":
		return handleRoutinesRun(a, args.Query)
	case "toggle":
		return handleRoutinesToggle(a, args.Query)
	case "delete", "rm":
		return handleRoutinesDelete(a, args.Query)
	default:
		return fmt.Errorf("unknown routines subcommand %q (try: list, run, toggle, delete)", args.Subcommand)
	}
}

func handleRoutinesList(a *assistant.Assistant) error {
	routines := a.Routines()

	fmt.Println(TitleStyle.Render("Routines"))
	for _, r := range routines {
		state := SuccessStyle.Render("enabled")
		if !r.Enabled {
			state = DimStyle.Render("disabled")
		}
		fmt.Printf("%s %s  [%s]\n", LabelStyle.Render(r.ID), ValueStyle.Render(r.Name), state)
		if r.Description != "" {
			fmt.Printf("%s %s\n", LabelStyle.Render(""), DimStyle.Render(r.Description))
		}
		fmt.Printf("%s %s\n", LabelStyle.Render(""), DimStyle.Render(describeActions(r.Actions)))
		if phrase := r.VoicePhrase(); phrase != "" {
			fmt.Printf("%s %s\n", LabelStyle.Render(""), DimStyle.Render("say: \""+phrase+"\""))
		}
		if r.LastRun != nil {
			fmt.Printf("%s %s\n", LabelStyle.Render(""), DimStyle.Render("last run: "+r.LastRun.Format("2006-01-02 15:04:05")))
		}
	}
	fmt.Printf("\n%d routines\n", len(routines))
	return nil
}

func handleRoutinesRun(a *assistant.Assistant, id string) error {
	if id == "" {
		return fmt.Errorf("routine ID required: astral routines run <id>")
	}

	result, err := a.ExecuteRoutine(context.Background(), id)
	if err != nil {
		return fmt.Errorf("could not run %s: %w", id, err)
	}

	if result.Success {
		fmt.Println(SuccessStyle.Render(fmt.Sprintf("%s completed: %d actions in %s",
			id, result.ActionsExecuted, result.Duration)))
		return nil
	}

	fmt.Println(WarningStyle.Render(fmt.Sprintf("%s finished with errors (%d actions succeeded):",
		id, result.ActionsExecuted)))
	for _, msg := range result.Errors {
		fmt.Println("  " + ErrorStyle.Render(msg))
	}
	return nil
}

func handleRoutinesToggle(a *assistant.Assistant, id string) error {
	if id == "" {
		return fmt.Errorf("routine ID required: astral routines toggle <id>")
	}

	enabled, err := a.ToggleRoutine(id)
	if err != nil {
		return err
	}
	if enabled {
		fmt.Printf("%s is now %s\n", id, SuccessStyle.Render("enabled"))
	} else {
		fmt.Printf("%s is now %s\n", id, DimStyle.Render("disabled"))
	}
	return nil
}

func handleRoutinesDelete(a *assistant.Assistant, id string) error {
	if id == "" {
		return fmt.Errorf("routine ID required: astral routines delete <id>")
	}
	if err := a.DeleteRoutine(id); err != nil {
		return err
	}
	fmt.Printf("Deleted %s\n", id)
	return nil
}

// describeActions is a short human summary used by list output.
func describeActions(actions []automation.Action) string {
	if len(actions) == 1 {
		return actions[0].Describe()
	}
	return fmt.Sprintf("%d actions", len(actions))
}
