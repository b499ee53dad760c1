// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command handlers for astral.
package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdChat Command = iota
	CmdAsk
	CmdRoutines
	CmdTranscribe
	CmdStatus
	CmdConfig
	CmdSetup
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	Model   string

	// Command-specific
	Query      string
	Subcommand string
	ConfigKey  string
	ConfigVal  string

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `astral - voice-first AI desktop assistant

Astral routes your commands: routine trigger phrases run automations,
everything else goes to the configured language model.

Usage:
  astral                       Interactive chat (default)
  astral ask "question"        Ask a single question
  astral chat                  Interactive chat
  astral routines [subcommand] Manage automation routines
  astral transcribe <file.wav> Transcribe audio via the Whisper server
  astral status, s             Show system status
  astral config [show|set]     Configuration
  astral setup                 First-run wizard

Routine Commands:
  astral routines list         List all routines
  astral routines run <id>     Run a routine now
  astral routines toggle <id>  Enable or disable a routine
  astral routines delete <id>  Delete a user-created routine

Config Commands:
  astral config show           Show current configuration
  astral config set <key> <value>
                               Set a configuration value
  Keys: provider, model, api_key, temperature, max_tokens, ollama_url

Interactive Commands (during chat):
  /help, /h        Show available commands
  /clear, /c       Clear conversation history
  /config          Show current configuration
  /history         Show conversation history
  /quit, /q        Exit chat

Global Flags:
  -q, --quiet      Minimal output
  -v, --verbose    Debug output
  --model NAME     Override default model

Examples:
  astral ask "What is the weather like?"
  astral "start work mode"             Trigger phrase runs the routine
  astral routines run morning-routine
  astral config set provider claude
  astral config set api_key sk-ant-...

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("astral version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	args := os.Args[1:]

	remaining, parsedArgs := parseGlobalFlags(args)

	// If no remaining args, default to chat
	if len(remaining) == 0 {
		return CmdChat, parsedArgs
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining

	switch cmd {
	case "ask":
		parseAskArgs(&parsedArgs, remaining)
		return CmdAsk, parsedArgs

	case "chat":
		return CmdChat, parsedArgs

	case "routines", "routine", "r":
		parseRoutinesArgs(&parsedArgs, remaining)
		return CmdRoutines, parsedArgs

	case "transcribe":
		if len(remaining) > 0 {
			parsedArgs.Query = remaining[0]
		}
		return CmdTranscribe, parsedArgs

	case "status", "s":
		return CmdStatus, parsedArgs

	case "config":
		parseConfigArgs(&parsedArgs, remaining)
		return CmdConfig, parsedArgs

	case "setup":
		return CmdSetup, parsedArgs

	case "version", "--version":
		return CmdVersion, parsedArgs

	case "help", "-h", "--help":
		return CmdHelp, parsedArgs

	default:
		// Unknown command - treat the whole line as a spoken command
		parsedArgs.Query = strings.Join(append([]string{cmd}, remaining...), " ")
		return CmdAsk, parsedArgs
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsedArgs Args

	i := 0
	for i < len(args) {
		arg := args[i]

		switch arg {
		case "-q", "--quiet":
			parsedArgs.Quiet = true
		case "-v", "--verbose":
			parsedArgs.Verbose = true
		case "--model":
			if i+1 < len(args) {
				i++
				parsedArgs.Model = args[i]
			}
		default:
			if strings.HasPrefix(arg, "--model=") {
				parsedArgs.Model = strings.TrimPrefix(arg, "--model=")
			} else {
				remaining = append(remaining, arg)
			}
		}
		i++
	}

	return remaining, parsedArgs
}

// parseAskArgs parses ask command specific arguments.
func parseAskArgs(args *Args, remaining []string) {
	var query []string

	for i := 0; i < len(remaining); i++ {
		arg := remaining[i]

		switch arg {
		case "-m", "--model":
			if i+1 < len(remaining) {
				i++
				args.Model = remaining[i]
			}
		default:
			if strings.HasPrefix(arg, "--model=") {
				args.Model = strings.TrimPrefix(arg, "--model=")
			} else if !strings.HasPrefix(arg, "-") {
				query = append(query, arg)
			}
		}
	}

	args.Query = strings.Join(query, " ")
}

// parseRoutinesArgs parses routines command specific arguments.
func parseRoutinesArgs(args *Args, remaining []string) {
	if len(remaining) > 0 {
		args.Subcommand = remaining[0]
		if len(remaining) > 1 {
			args.Query = remaining[1]
		}
	}
}

// parseConfigArgs parses config command specific arguments.
func parseConfigArgs(args *Args, remaining []string) {
	if len(remaining) > 0 {
		args.Subcommand = remaining[0]
		if len(remaining) > 1 {
			args.ConfigKey = remaining[1]
		}
		if len(remaining) > 2 {
			args.ConfigVal = remaining[2]
		}
	}
}

// HandleVersion handles the "version" command.
func HandleVersion() {
	PrintVersion()
}

// HandleHelp handles the "help" command.
func HandleHelp() {
	PrintUsage()
}
