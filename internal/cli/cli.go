// Copyright (c) 2023-2025 The yakGPT Authors
// SPDX-License-Identifier: MIT

// cli.go - argument parsing and command routing for yakgpt.
package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdHistory Command = iota
	CmdShow
	CmdNew
	CmdSend
	CmdDelete
	CmdClear
	CmdSettings
	CmdKey
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet bool
	JSON  bool

	// Command-specific
	ChatID     string
	Query      string
	Subcommand string

	// Raw args remaining after flag parsing
	Raw []string

	// Options holds command-specific named options (e.g., --model)
	Options map[string]string
}

const usageText = `yakgpt - chat with OpenAI-compatible models from the terminal

Usage:
  yakgpt                        List chat history grouped by date (default)
  yakgpt history                Same as above
  yakgpt show <chat-id>         Print one chat's messages
  yakgpt new                    Create an empty chat
  yakgpt send [--chat id] "…"   Send a prompt, streaming the answer
  yakgpt delete <chat-id>       Delete a chat
  yakgpt clear                  Delete all chats
  yakgpt settings [show|set|reset]   Generation settings
  yakgpt key [set|validate|delete]   Provider API keys
  yakgpt version                Show version
  yakgpt help                   Show this help

Flags:
  --chat <id>      Target an existing chat for send
  --model <name>   Override the configured model for one send
  --json           Machine-readable output where supported
  -q, --quiet      Suppress non-essential output

Examples:
  yakgpt send "explain goroutines in two sentences"
  yakgpt send --chat 5f3a… "and channels?"
  yakgpt settings set temperature 0.4
  yakgpt key set openai sk-…
`

// Usage prints the top-level help text.
func Usage() {
	fmt.Print(usageText)
}

// Parse reads os.Args and returns the command to run plus its arguments.
func Parse() (Command, Args) {
	args := os.Args[1:]
	remaining, parsed := parseGlobalFlags(args)

	if len(remaining) == 0 {
		return CmdHistory, parsed
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsed.Raw = remaining

	switch cmd {
	case "history", "ls", "list":
		return CmdHistory, parsed

	case "show":
		if len(remaining) > 0 {
			parsed.ChatID = remaining[0]
		}
		return CmdShow, parsed

	case "new":
		return CmdNew, parsed

	case "send", "ask":
		parseSendArgs(&parsed, remaining)
		return CmdSend, parsed

	case "delete", "rm":
		if len(remaining) > 0 {
			parsed.ChatID = remaining[0]
		}
		return CmdDelete, parsed

	case "clear":
		return CmdClear, parsed

	case "settings", "config":
		if len(remaining) > 0 {
			parsed.Subcommand = remaining[0]
			parsed.Raw = remaining[1:]
		}
		return CmdSettings, parsed

	case "key", "keys":
		if len(remaining) > 0 {
			parsed.Subcommand = remaining[0]
			parsed.Raw = remaining[1:]
		}
		return CmdKey, parsed

	case "version", "-v", "--version":
		return CmdVersion, parsed

	case "help", "-h", "--help":
		return CmdHelp, parsed

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", cmd)
		return CmdHelp, parsed
	}
}

// parseGlobalFlags strips global flags from args and returns what is left.
func parseGlobalFlags(args []string) ([]string, Args) {
	parsed := Args{Options: make(map[string]string)}
	var remaining []string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-q", "--quiet":
			parsed.Quiet = true
		case "--json":
			parsed.JSON = true
		default:
			remaining = append(remaining, args[i])
		}
	}
	return remaining, parsed
}

// parseSendArgs handles send's flags and joins the rest into the prompt.
func parseSendArgs(parsed *Args, args []string) {
	var queryParts []string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--chat":
			if i+1 < len(args) {
				parsed.ChatID = args[i+1]
				i++
			}
		case "--model":
			if i+1 < len(args) {
				parsed.Options["model"] = args[i+1]
				i++
			}
		default:
			queryParts = append(queryParts, args[i])
		}
	}
	parsed.Query = strings.Join(queryParts, " ")
}
