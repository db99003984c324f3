// Copyright (c) 2023-2025 The yakGPT Authors
// SPDX-License-Identifier: MIT

// key_cmd.go - the key command: set, validate, delete, list.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Clueed/yakGPT/internal/keyring"
	"github.com/Clueed/yakGPT/internal/provider"
)

func openKeyring() (*keyring.Keyring, error) {
	dir, err := keyring.DefaultDir()
	if err != nil {
		return nil, err
	}
	return keyring.Open(dir, os.Getenv("YAKGPT_PASSPHRASE"))
}

// HandleKey dispatches the key subcommands.
func HandleKey(args Args) error {
	switch args.Subcommand {
	case "", "list":
		return keyList(args)
	case "set":
		return keySet(args)
	case "validate":
		return keyValidate(args)
	case "delete", "rm":
		return keyDelete(args)
	default:
		return fmt.Errorf("unknown key subcommand: %s", args.Subcommand)
	}
}

func keyList(args Args) error {
	k, err := openKeyring()
	if err != nil {
		return err
	}
	providers := k.Providers()
	if len(providers) == 0 {
		fmt.Println("no API keys stored")
		return nil
	}
	for _, p := range providers {
		fmt.Println(p)
	}
	return nil
}

func keySet(args Args) error {
	if len(args.Raw) < 2 {
		return fmt.Errorf("usage: yakgpt key set <provider> <key>")
	}
	providerName, apiKey := args.Raw[0], args.Raw[1]

	k, err := openKeyring()
	if err != nil {
		return err
	}
	if err := k.Set(providerName, apiKey); err != nil {
		return err
	}
	if !args.Quiet {
		fmt.Printf("stored key for %s\n", providerName)
	}
	return nil
}

// keyValidate checks the stored OpenAI key against the live API.
func keyValidate(args Args) error {
	providerName := keyring.ProviderOpenAI
	if len(args.Raw) > 0 {
		providerName = args.Raw[0]
	}

	k, err := openKeyring()
	if err != nil {
		return err
	}
	apiKey, err := k.Get(providerName)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	ok, err := provider.NewClient("").ValidateKey(ctx, apiKey)
	if err != nil {
		return fmt.Errorf("could not validate key: %w", err)
	}
	if !ok {
		return fmt.Errorf("key for %s was rejected by the provider", providerName)
	}
	fmt.Printf("key for %s is valid\n", providerName)
	return nil
}

func keyDelete(args Args) error {
	if len(args.Raw) < 1 {
		return fmt.Errorf("usage: yakgpt key delete <provider>")
	}
	k, err := openKeyring()
	if err != nil {
		return err
	}
	if err := k.Delete(args.Raw[0]); err != nil {
		return err
	}
	if !args.Quiet {
		fmt.Printf("deleted key for %s\n", args.Raw[0])
	}
	return nil
}
