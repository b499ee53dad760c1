// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package system

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// =============================================================================
// WEB OPENER
// =============================================================================

type execOpener struct {
	logger *zap.Logger
}

func (o *execOpener) Open(ctx context.Context, url string) error {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("refusing to open non-http URL %q", url)
	}
	o.logger.Info("opening website", zap.String("url", url))

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", url)
	case "windows":
		cmd = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.CommandContext(ctx, "xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open %s: %w", url, err)
	}
	return nil
}

// =============================================================================
// NOTIFIER
// =============================================================================

type execNotifier struct {
	logger *zap.Logger
}

func (n *execNotifier) Notify(ctx context.Context, title, message string) error {
	n.logger.Info("sending notification", zap.String("title", title))

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf("display notification %q with title %q", message, title)
		cmd = exec.CommandContext(ctx, "osascript", "-e", script)
	case "windows":
		script := fmt.Sprintf("msg * /TIME:5 %s: %s", title, message)
		cmd = exec.CommandContext(ctx, "cmd", "/C", script)
	default:
		cmd = exec.CommandContext(ctx, "notify-send", title, message)
	}
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("notification failed: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// =============================================================================
// VOLUME CONTROL
// =============================================================================

type execVolume struct {
	logger *zap.Logger
}

func (v *execVolume) SetVolume(ctx context.Context, level int) error {
	if level < 0 || level > 100 {
		return fmt.Errorf("volume level %d out of range [0, 100]", level)
	}
	v.logger.Info("setting volume", zap.Int("level", level))

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf("set volume output volume %d", level)
		cmd = exec.CommandContext(ctx, "osascript", "-e", script)
	default:
		cmd = exec.CommandContext(ctx, "pactl", "set-sink-volume", "@DEFAULT_SINK@", strconv.Itoa(level)+"%")
	}
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("set volume failed: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// =============================================================================
// MEDIA CONTROL
// =============================================================================

// mediaActions maps the routine action names onto playerctl commands.
var mediaActions = map[string]string{
	"play":       "play",
	"pause":      "pause",
	"play-pause": "play-pause",
	"next":       "next",
	"previous":   "previous",
	"stop":       "stop",
}

type execMedia struct {
	logger *zap.Logger
}

func (m *execMedia) Control(ctx context.Context, action string) error {
	verb, ok := mediaActions[strings.ToLower(strings.TrimSpace(action))]
	if !ok {
		return fmt.Errorf("unknown media action %q", action)
	}
	m.logger.Info("media control", zap.String("action", verb))

	cmd := exec.CommandContext(ctx, "playerctl", verb)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("media control failed: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// =============================================================================
// SHELL RUNNER
// =============================================================================

// execShell runs arbitrary command text through the platform shell. This is
// a trust boundary: output and failures are reported verbatim so the user
// can see exactly what their command did.
type execShell struct {
	logger *zap.Logger
}

func (s *execShell) Run(ctx context.Context, command string) error {
	if strings.TrimSpace(command) == "" {
		return fmt.Errorf("empty command")
	}
	s.logger.Warn("running shell command", zap.String("command", command))

	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(ctx, "cmd", "/C", command)
	} else {
		cmd = exec.CommandContext(ctx, "sh", "-c", command)
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return fmt.Errorf("command failed: %w: %s", err, strings.TrimSpace(stderr.String()))
		}
		return fmt.Errorf("command failed: %w", err)
	}
	return nil
}

// =============================================================================
// SPEECH FALLBACK
// =============================================================================

// espeakSynthesizer is the zero-configuration speech fallback: it shells out
// to the espeak binary and plays directly, returning no audio path.
type espeakSynthesizer struct {
	logger *zap.Logger
}

func (e *espeakSynthesizer) Speak(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	e.logger.Info("speaking", zap.String("text", text))

	cmd := exec.CommandContext(ctx, "espeak", text)
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("espeak failed: %w", err)
	}
	return "", nil
}
