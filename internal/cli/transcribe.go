// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// transcribe.go - Speech-to-text handler for astral CLI.
//
// Handles "astral transcribe <file.wav>" which sends a WAV file to the
// configured Whisper server and prints the recognized text. Pipe it back
// into ask to speak a command from a recording:
//
//	astral ask "$(astral transcribe -q note.wav)"
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/precie21/astral-assistant/internal/assistant"
)

// HandleTranscribe handles the "transcribe" command.
func HandleTranscribe(a *assistant.Assistant, args Args) error {
	path := strings.TrimSpace(args.Query)
	if path == "" {
		return fmt.Errorf("nothing to transcribe: astral transcribe <file.wav>")
	}

	text, err := a.Transcribe(context.Background(), path)
	if err != nil {
		return err
	}

	if args.Quiet {
		fmt.Println(text)
		return nil
	}
	fmt.Println(LabelStyle.Render("Transcript"))
	fmt.Println(ValueStyle.Render(text))
	return nil
}
