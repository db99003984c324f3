// yakgpt - chat with OpenAI-compatible models from the terminal.
//
// Copyright (c) 2023-2025 The yakGPT Authors
// SPDX-License-Identifier: MIT
package main

import (
	"fmt"
	"os"

	"github.com/Clueed/yakGPT/internal/cli"
)

// Version information (set at build time)
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	var err error
	switch cmd {
	case cli.CmdHistory:
		err = cli.HandleHistory(args)
	case cli.CmdShow:
		err = cli.HandleShow(args)
	case cli.CmdNew:
		err = cli.HandleNew(args)
	case cli.CmdSend:
		err = cli.HandleSend(args)
	case cli.CmdDelete:
		err = cli.HandleDelete(args)
	case cli.CmdClear:
		err = cli.HandleClear(args)
	case cli.CmdSettings:
		err = cli.HandleSettings(args)
	case cli.CmdKey:
		err = cli.HandleKey(args)
	case cli.CmdVersion:
		fmt.Printf("yakgpt %s (%s, built %s)\n", Version, GitCommit, BuildDate)
	case cli.CmdHelp:
		cli.Usage()
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
