// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Status command handler for astral CLI.
package cli

import (
	"context"
	"fmt"

	"github.com/precie21/astral-assistant/internal/assistant"
)

// HandleStatus handles the "status" command.
func HandleStatus(a *assistant.Assistant, args Args) error {
	st := a.Status(context.Background())

	fmt.Println(TitleStyle.Render("ASTRAL Status"))

	fmt.Println(SectionStyle.Render("Provider"))
	fmt.Printf("%s %s\n", LabelStyle.Render("Provider:"), ValueStyle.Render(string(st.Provider)))
	fmt.Printf("%s %s\n", LabelStyle.Render("Model:"), ValueStyle.Render(st.Model))
	if st.ProviderReachable {
		fmt.Printf("%s %s\n", LabelStyle.Render("Connection:"), SuccessStyle.Render("OK"))
	} else {
		fmt.Printf("%s %s\n", LabelStyle.Render("Connection:"), ErrorStyle.Render("unreachable"))
	}

	fmt.Println(SectionStyle.Render("Session"))
	fmt.Printf("%s %d messages\n", LabelStyle.Render("History:"), st.HistoryLen)
	fmt.Printf("%s %d\n", LabelStyle.Render("Routines:"), st.RoutineCount)

	if st.Telemetry != nil {
		fmt.Println(SectionStyle.Render("System"))
		fmt.Printf("%s %.1f%%\n", LabelStyle.Render("CPU:"), st.Telemetry.CPUPercent)
		fmt.Printf("%s %.1f%% (%s / %s)\n", LabelStyle.Render("Memory:"),
			st.Telemetry.MemoryPercent,
			formatBytes(st.Telemetry.MemoryUsed),
			formatBytes(st.Telemetry.MemoryTotal))
	}

	return nil
}

// formatBytes renders a byte count in human units.
func formatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
