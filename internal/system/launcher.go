// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package system

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"go.uber.org/zap"
)

// =============================================================================
// APPLICATION REGISTRY
// =============================================================================

// AppInfo describes a launchable application.
type AppInfo struct {
	Name       string   `json:"name"`
	Executable string   `json:"executable"`
	Aliases    []string `json:"aliases"`
}

// knownApps maps a canonical key to the application record. The alias lists
// cover the phrasings a voice command is likely to use.
var knownApps = map[string]AppInfo{
	"chrome": {
		Name:       "Google Chrome",
		Executable: "google-chrome",
		Aliases:    []string{"chrome", "google chrome", "browser"},
	},
	"firefox": {
		Name:       "Firefox",
		Executable: "firefox",
		Aliases:    []string{"firefox", "mozilla"},
	},
	"spotify": {
		Name:       "Spotify",
		Executable: "spotify",
		Aliases:    []string{"spotify", "music"},
	},
	"vlc": {
		Name:       "VLC Media Player",
		Executable: "vlc",
		Aliases:    []string{"vlc", "video player"},
	},
	"discord": {
		Name:       "Discord",
		Executable: "discord",
		Aliases:    []string{"discord"},
	},
	"slack": {
		Name:       "Slack",
		Executable: "slack",
		Aliases:    []string{"slack"},
	},
	"teams": {
		Name:       "Microsoft Teams",
		Executable: "teams",
		Aliases:    []string{"teams", "microsoft teams"},
	},
	"vscode": {
		Name:       "Visual Studio Code",
		Executable: "code",
		Aliases:    []string{"vscode", "vs code", "code", "visual studio code"},
	},
	"calendar": {
		Name:       "Calendar",
		Executable: "gnome-calendar",
		Aliases:    []string{"calendar"},
	},
	"calculator": {
		Name:       "Calculator",
		Executable: "gnome-calculator",
		Aliases:    []string{"calculator", "calc"},
	},
	"files": {
		Name:       "File Manager",
		Executable: "nautilus",
		Aliases:    []string{"files", "file explorer", "explorer", "folder"},
	},
	"terminal": {
		Name:       "Terminal",
		Executable: "x-terminal-emulator",
		Aliases:    []string{"terminal", "console", "shell"},
	},
}

// FindApp resolves a query against the registry: exact key match first,
// then alias equality, then substring containment.
func FindApp(query string) (AppInfo, bool) {
	q := strings.ToLower(strings.TrimSpace(query))

	if app, ok := knownApps[q]; ok {
		return app, true
	}
	for _, app := range knownApps {
		for _, alias := range app.Aliases {
			if alias == q || strings.Contains(q, alias) {
				return app, true
			}
		}
	}
	return AppInfo{}, false
}

// KnownApps returns the registry contents for display.
func KnownApps() []AppInfo {
	out := make([]AppInfo, 0, len(knownApps))
	for _, app := range knownApps {
		out = append(out, app)
	}
	return out
}

// =============================================================================
// LAUNCHER
// =============================================================================

// execLauncher starts applications via os/exec, trying a direct start first
// and falling back to the platform opener.
type execLauncher struct {
	logger *zap.Logger
}

func (l *execLauncher) Launch(ctx context.Context, appName string) (string, error) {
	app, ok := FindApp(appName)
	if !ok {
		return "", fmt.Errorf("application %q not found", appName)
	}

	l.logger.Info("launching application",
		zap.String("app", app.Name),
		zap.String("executable", app.Executable))

	// Direct start works when the executable is on PATH.
	if _, err := exec.LookPath(app.Executable); err == nil {
		cmd := exec.CommandContext(ctx, app.Executable)
		if err := cmd.Start(); err == nil {
			return fmt.Sprintf("Launched %s", app.Name), nil
		}
	}

	// Fall back to the platform opener, which resolves registered
	// applications the direct start cannot.
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", "-a", app.Name)
	case "windows":
		cmd = exec.CommandContext(ctx, "cmd", "/C", "start", "", app.Executable)
	default:
		cmd = exec.CommandContext(ctx, "xdg-open", app.Executable)
	}
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("failed to launch %s: %w", app.Name, err)
	}
	return fmt.Sprintf("Launched %s", app.Name), nil
}
