// Copyright (c) 2023-2025 The yakGPT Authors
// SPDX-License-Identifier: MIT

package cli

import (
	"os"
	"testing"
)

func parseArgs(t *testing.T, argv ...string) (Command, Args) {
	t.Helper()
	old := os.Args
	os.Args = append([]string{"yakgpt"}, argv...)
	defer func() { os.Args = old }()
	return Parse()
}

func TestParseDefaultsToHistory(t *testing.T) {
	cmd, _ := parseArgs(t)
	if cmd != CmdHistory {
		t.Errorf("bare invocation = %v, want CmdHistory", cmd)
	}
}

func TestParseCommands(t *testing.T) {
	tests := []struct {
		argv []string
		want Command
	}{
		{[]string{"history"}, CmdHistory},
		{[]string{"ls"}, CmdHistory},
		{[]string{"show", "abc"}, CmdShow},
		{[]string{"new"}, CmdNew},
		{[]string{"send", "hello"}, CmdSend},
		{[]string{"ask", "hello"}, CmdSend},
		{[]string{"delete", "abc"}, CmdDelete},
		{[]string{"rm", "abc"}, CmdDelete},
		{[]string{"clear"}, CmdClear},
		{[]string{"settings"}, CmdSettings},
		{[]string{"key", "list"}, CmdKey},
		{[]string{"version"}, CmdVersion},
		{[]string{"help"}, CmdHelp},
		{[]string{"bogus"}, CmdHelp},
	}

	for _, tt := range tests {
		cmd, _ := parseArgs(t, tt.argv...)
		if cmd != tt.want {
			t.Errorf("Parse(%v) = %v, want %v", tt.argv, cmd, tt.want)
		}
	}
}

func TestParseGlobalFlags(t *testing.T) {
	cmd, args := parseArgs(t, "--json", "-q", "history")
	if cmd != CmdHistory {
		t.Fatalf("cmd = %v", cmd)
	}
	if !args.JSON || !args.Quiet {
		t.Errorf("flags not parsed: %+v", args)
	}
}

func TestParseSendArgs(t *testing.T) {
	cmd, args := parseArgs(t, "send", "--chat", "abc123", "--model", "gpt-4", "explain", "channels")
	if cmd != CmdSend {
		t.Fatalf("cmd = %v", cmd)
	}
	if args.ChatID != "abc123" {
		t.Errorf("chat id = %q", args.ChatID)
	}
	if args.Options["model"] != "gpt-4" {
		t.Errorf("model option = %q", args.Options["model"])
	}
	if args.Query != "explain channels" {
		t.Errorf("query = %q", args.Query)
	}
}

func TestParseSubcommands(t *testing.T) {
	_, args := parseArgs(t, "settings", "set", "temperature", "0.4")
	if args.Subcommand != "set" {
		t.Errorf("subcommand = %q", args.Subcommand)
	}
	if len(args.Raw) != 2 || args.Raw[0] != "temperature" || args.Raw[1] != "0.4" {
		t.Errorf("raw = %v", args.Raw)
	}

	_, args = parseArgs(t, "key", "set", "openai", "sk-x")
	if args.Subcommand != "set" || len(args.Raw) != 2 {
		t.Errorf("key args = %+v", args)
	}
}

func TestParseShowChatID(t *testing.T) {
	_, args := parseArgs(t, "show", "5f3a")
	if args.ChatID != "5f3a" {
		t.Errorf("chat id = %q", args.ChatID)
	}
}
