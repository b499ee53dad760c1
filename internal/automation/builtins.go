// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package automation

import "time"

// builtinRoutines returns the four routines every fresh registry is seeded
// with. Field values are fixed (timestamps excepted) so the built-ins
// double as regression fixtures.
func builtinRoutines() []Routine {
	now := time.Now().UTC()

	return []Routine{
		{
			ID:          "morning-routine",
			Name:        "Morning Routine",
			Description: "Start your day with news, calendar, and music",
			Enabled:     true,
			Trigger:     Schedule{Time: "08:00"},
			Actions: []Action{
				Speak{Text: "Good morning! Starting your morning routine."},
				SetVolume{Level: 50},
				LaunchApp{AppName: "Calendar"},
				Wait{Seconds: 2},
				OpenWebsite{URL: "https://news.google.com"},
				Notify{Title: "Morning Routine", Message: "Your morning routine is complete!"},
			},
			CreatedAt: now,
		},
		{
			ID:          "work-mode",
			Name:        "Work Mode",
			Description: "Focus mode with productivity apps",
			Enabled:     true,
			Trigger:     VoiceCommand{Phrase: "start work mode"},
			Actions: []Action{
				Speak{Text: "Activating work mode. Let's be productive!"},
				LaunchApp{AppName: "Code"},
				Wait{Seconds: 1},
				LaunchApp{AppName: "Teams"},
				SetVolume{Level: 30},
				Notify{Title: "Work Mode", Message: "Work mode activated. Focus time!"},
			},
			CreatedAt: now,
		},
		{
			ID:          "evening-winddown",
			Name:        "Evening Wind Down",
			Description: "Relax and prepare for tomorrow",
			Enabled:     true,
			Trigger:     Schedule{Time: "20:00"},
			Actions: []Action{
				Speak{Text: "Good evening! Time to wind down."},
				SetVolume{Level: 40},
				OpenWebsite{URL: "https://open.spotify.com"},
				Notify{Title: "Evening Routine", Message: "Time to relax and recharge!"},
			},
			CreatedAt: now,
		},
		{
			ID:          "gaming-mode",
			Name:        "Gaming Mode",
			Description: "Optimize system for gaming",
			Enabled:     true,
			Trigger:     VoiceCommand{Phrase: "start gaming mode"},
			Actions: []Action{
				Speak{Text: "Activating gaming mode. Good luck and have fun!"},
				SetVolume{Level: 80},
				Notify{Title: "Gaming Mode", Message: "System optimized for gaming!"},
			},
			CreatedAt: now,
		},
	}
}

// BuiltinIDs lists the seeded routine IDs in display order.
var BuiltinIDs = []string{"morning-routine", "work-mode", "evening-winddown", "gaming-mode"}
