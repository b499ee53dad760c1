// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package system provides the narrow capability interfaces the automation
// executor delegates to, plus exec-based default implementations. Every
// collaborator is swappable: the executor only sees the interfaces.
package system

import (
	"context"

	"go.uber.org/zap"
)

// =============================================================================
// COLLABORATOR INTERFACES
// =============================================================================

// AppLauncher starts a desktop application by name or alias.
type AppLauncher interface {
	// Launch resolves the name against the known-application registry and
	// starts it. Returns a short human-readable outcome.
	Launch(ctx context.Context, appName string) (string, error)
}

// WebOpener opens a URL in the default browser.
type WebOpener interface {
	Open(ctx context.Context, url string) error
}

// Notifier shows a desktop notification.
type Notifier interface {
	Notify(ctx context.Context, title, message string) error
}

// VolumeControl sets the master output volume.
type VolumeControl interface {
	// SetVolume sets the volume to a level in [0, 100].
	SetVolume(ctx context.Context, level int) error
}

// MediaControl issues a media transport command (play-pause, next, previous).
type MediaControl interface {
	Control(ctx context.Context, action string) error
}

// ShellRunner executes an arbitrary shell command. This is a trust boundary:
// failures are surfaced verbatim and never swallowed.
type ShellRunner interface {
	Run(ctx context.Context, command string) error
}

// SpeechSynthesizer renders text to audible speech. Returns the path of the
// rendered audio when the backend produces a file, or "" when it plays
// directly.
type SpeechSynthesizer interface {
	Speak(ctx context.Context, text string) (string, error)
}

// =============================================================================
// SERVICE BUNDLE
// =============================================================================

// Services bundles the collaborators consumed by the automation executor.
type Services struct {
	Launcher AppLauncher
	Web      WebOpener
	Notify   Notifier
	Volume   VolumeControl
	Media    MediaControl
	Shell    ShellRunner
	Speech   SpeechSynthesizer
}

// NewServices returns the default exec-based collaborators for the current
// platform. A nil synthesizer falls back to the local espeak binary.
func NewServices(logger *zap.Logger, synth SpeechSynthesizer) *Services {
	if logger == nil {
		logger = zap.NewNop()
	}
	if synth == nil {
		synth = &espeakSynthesizer{logger: logger}
	}
	return &Services{
		Launcher: &execLauncher{logger: logger},
		Web:      &execOpener{logger: logger},
		Notify:   &execNotifier{logger: logger},
		Volume:   &execVolume{logger: logger},
		Media:    &execMedia{logger: logger},
		Shell:    &execShell{logger: logger},
		Speech:   synth,
	}
}
