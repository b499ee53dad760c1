// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package automation implements user-toggleable routines: a trigger plus an
// ordered action list, executed with a continue-on-partial-failure policy.
package automation

import (
	"encoding/json"
	"fmt"
)

// =============================================================================
// ACTION SUM TYPE
// =============================================================================

// Action is one step of a routine. The set of kinds is closed: the executor
// dispatches with an exhaustive type switch, so adding a kind without
// handling it is a compile-visible gap in the switch, not a silent no-op.
type Action interface {
	// Describe returns a short human-readable description of the step.
	Describe() string

	// isAction seals the interface to this package.
	isAction()
}

// LaunchApp starts a desktop application by name.
type LaunchApp struct {
	AppName string `json:"app_name"`
}

// OpenWebsite opens a URL in the default browser.
type OpenWebsite struct {
	URL string `json:"url"`
}

// Notify shows a desktop notification.
type Notify struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// SetVolume sets the master volume to a level in [0, 100].
type SetVolume struct {
	Level int `json:"level"`
}

// MediaControl issues a media transport command.
type MediaControl struct {
	Action string `json:"action"`
}

// RunCommand executes arbitrary shell command text (trust boundary).
type RunCommand struct {
	Command string `json:"command"`
}

// Wait suspends the routine for the given number of seconds. It is the only
// action that blocks the executor itself.
type Wait struct {
	Seconds int `json:"seconds"`
}

// Speak renders text to speech.
type Speak struct {
	Text string `json:"text"`
}

func (LaunchApp) isAction()    {}
func (OpenWebsite) isAction()  {}
func (Notify) isAction()       {}
func (SetVolume) isAction()    {}
func (MediaControl) isAction() {}
func (RunCommand) isAction()   {}
func (Wait) isAction()         {}
func (Speak) isAction()        {}

func (a LaunchApp) Describe() string    { return fmt.Sprintf("launch %s", a.AppName) }
func (a OpenWebsite) Describe() string  { return fmt.Sprintf("open %s", a.URL) }
func (a Notify) Describe() string       { return fmt.Sprintf("notify %q", a.Title) }
func (a SetVolume) Describe() string    { return fmt.Sprintf("set volume to %d%%", a.Level) }
func (a MediaControl) Describe() string { return fmt.Sprintf("media %s", a.Action) }
func (a RunCommand) Describe() string   { return fmt.Sprintf("run %q", a.Command) }
func (a Wait) Describe() string         { return fmt.Sprintf("wait %ds", a.Seconds) }
func (a Speak) Describe() string        { return fmt.Sprintf("speak %q", a.Text) }

// =============================================================================
// SERIALIZATION
// =============================================================================

// actionTag returns the persisted tag for an action kind. The tagged form
// is {"type": "launch_app", "app_name": "..."}.
func actionTag(a Action) string {
	switch a.(type) {
	case LaunchApp:
		return "launch_app"
	case OpenWebsite:
		return "open_website"
	case Notify:
		return "notify"
	case SetVolume:
		return "set_volume"
	case MediaControl:
		return "media_control"
	case RunCommand:
		return "run_command"
	case Wait:
		return "wait"
	case Speak:
		return "speak"
	default:
		return ""
	}
}

// EncodeActions serializes an action list to tagged JSON.
func EncodeActions(actions []Action) ([]byte, error) {
	out := make([]map[string]any, 0, len(actions))
	for _, a := range actions {
		fields, err := json.Marshal(a)
		if err != nil {
			return nil, err
		}
		var m map[string]any
		if err := json.Unmarshal(fields, &m); err != nil {
			return nil, err
		}
		tag := actionTag(a)
		if tag == "" {
			return nil, fmt.Errorf("unknown action kind %T", a)
		}
		m["type"] = tag
		out = append(out, m)
	}
	return json.Marshal(out)
}

// DecodeActions parses a tagged JSON action list.
func DecodeActions(data []byte) ([]Action, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	actions := make([]Action, 0, len(raw))
	for _, entry := range raw {
		var env struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(entry, &env); err != nil {
			return nil, err
		}

		var (
			a   Action
			err error
		)
		switch env.Type {
		case "launch_app":
			a, err = decodeAction[LaunchApp](entry)
		case "open_website":
			a, err = decodeAction[OpenWebsite](entry)
		case "notify":
			a, err = decodeAction[Notify](entry)
		case "set_volume":
			a, err = decodeAction[SetVolume](entry)
		case "media_control":
			a, err = decodeAction[MediaControl](entry)
		case "run_command":
			a, err = decodeAction[RunCommand](entry)
		case "wait":
			a, err = decodeAction[Wait](entry)
		case "speak":
			a, err = decodeAction[Speak](entry)
		default:
			return nil, fmt.Errorf("unknown action type %q", env.Type)
		}
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, nil
}

func decodeAction[T Action](data []byte) (Action, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}
