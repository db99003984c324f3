// Copyright (c) 2023-2025 The yakGPT Authors
// SPDX-License-Identifier: MIT

// settings_cmd.go - the settings command: show, set, reset.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/Clueed/yakGPT/internal/settings"
)

// HandleSettings dispatches the settings subcommands.
func HandleSettings(args Args) error {
	switch args.Subcommand {
	case "", "show":
		return settingsShow(args)
	case "set":
		return settingsSet(args)
	case "reset":
		return settingsReset(args)
	default:
		return fmt.Errorf("unknown settings subcommand: %s", args.Subcommand)
	}
}

func settingsShow(args Args) error {
	path, err := settings.DefaultPath()
	if err != nil {
		return err
	}
	s, err := settings.Load(path)
	if err != nil {
		return err
	}

	if args.JSON {
		return json.NewEncoder(os.Stdout).Encode(s)
	}

	fmt.Printf("model               %s\n", s.Model)
	fmt.Printf("temperature         %g\n", s.Temperature)
	fmt.Printf("top_p               %g\n", s.TopP)
	fmt.Printf("n                   %d\n", s.N)
	fmt.Printf("stop                %q\n", s.Stop)
	fmt.Printf("max_tokens          %d\n", s.MaxTokens)
	fmt.Printf("presence_penalty    %g\n", s.PresencePenalty)
	fmt.Printf("frequency_penalty   %g\n", s.FrequencyPenalty)
	fmt.Printf("logit_bias          %q\n", s.LogitBias)
	fmt.Printf("auto_title          %t\n", s.AutoTitle)
	fmt.Printf("spoken_language     %s (auto-detect: %t)\n", s.SpokenLanguage, s.AutoDetectLanguage)
	return nil
}

// settingsSet edits one field through a form session, so validation gates
// the write exactly as the settings modal would.
func settingsSet(args Args) error {
	if len(args.Raw) < 2 {
		return fmt.Errorf("usage: yakgpt settings set <field> <value>")
	}
	field, value := args.Raw[0], args.Raw[1]

	path, err := settings.DefaultPath()
	if err != nil {
		return err
	}
	current, err := settings.Load(path)
	if err != nil {
		return err
	}

	form := settings.NewForm(current, settings.Default())
	if err := applyField(form, field, value); err != nil {
		return err
	}

	saved, err := form.Save()
	if err != nil {
		return fmt.Errorf("invalid value: %w", err)
	}
	return settings.Save(saved, path)
}

func settingsReset(args Args) error {
	path, err := settings.DefaultPath()
	if err != nil {
		return err
	}
	if err := settings.Save(settings.Default(), path); err != nil {
		return err
	}
	if !args.Quiet {
		fmt.Println("settings reset to defaults")
	}
	return nil
}

func applyField(form *settings.Form, field, value string) error {
	parseFloat := func() (float64, error) {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("%s must be a number, got %q", field, value)
		}
		return f, nil
	}
	parseInt := func() (int, error) {
		n, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("%s must be an integer, got %q", field, value)
		}
		return n, nil
	}
	parseBool := func() (bool, error) {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("%s must be true or false, got %q", field, value)
		}
		return b, nil
	}

	switch field {
	case "model":
		form.Apply(func(s *settings.Settings) { s.Model = value })
	case "temperature":
		f, err := parseFloat()
		if err != nil {
			return err
		}
		form.Apply(func(s *settings.Settings) { s.Temperature = f })
	case "top_p":
		f, err := parseFloat()
		if err != nil {
			return err
		}
		form.Apply(func(s *settings.Settings) { s.TopP = f })
	case "n":
		n, err := parseInt()
		if err != nil {
			return err
		}
		form.Apply(func(s *settings.Settings) { s.N = n })
	case "stop":
		form.Apply(func(s *settings.Settings) { s.Stop = value })
	case "max_tokens":
		n, err := parseInt()
		if err != nil {
			return err
		}
		form.Apply(func(s *settings.Settings) { s.MaxTokens = n })
	case "presence_penalty":
		f, err := parseFloat()
		if err != nil {
			return err
		}
		form.Apply(func(s *settings.Settings) { s.PresencePenalty = f })
	case "frequency_penalty":
		f, err := parseFloat()
		if err != nil {
			return err
		}
		form.Apply(func(s *settings.Settings) { s.FrequencyPenalty = f })
	case "logit_bias":
		form.SetLogitBias(value)
	case "auto_title":
		b, err := parseBool()
		if err != nil {
			return err
		}
		form.Apply(func(s *settings.Settings) { s.AutoTitle = b })
	case "auto_detect_language":
		b, err := parseBool()
		if err != nil {
			return err
		}
		form.SetAutoDetectLanguage(b)
	default:
		return fmt.Errorf("unknown settings field: %s", field)
	}
	return nil
}
