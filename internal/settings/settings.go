// Copyright (c) 2023-2025 The yakGPT Authors
// SPDX-License-Identifier: MIT

package settings

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// =============================================================================
// SETTINGS STRUCTURE
// =============================================================================

// Settings holds every generation and voice parameter. LogitBias is kept as
// the raw string the user typed; it is validated, then parsed only when a
// request is built.
type Settings struct {
	// Chat completion
	Model            string  `toml:"model" json:"model"`
	Temperature      float64 `toml:"temperature" json:"temperature"`
	TopP             float64 `toml:"top_p" json:"top_p"`
	N                int     `toml:"n" json:"n"`
	Stop             string  `toml:"stop" json:"stop"`
	MaxTokens        int     `toml:"max_tokens" json:"max_tokens"`
	PresencePenalty  float64 `toml:"presence_penalty" json:"presence_penalty"`
	FrequencyPenalty float64 `toml:"frequency_penalty" json:"frequency_penalty"`
	LogitBias        string  `toml:"logit_bias" json:"logit_bias"`

	// Behavior flags
	AutoTitle bool `toml:"auto_title" json:"auto_title"`

	// Speech to text
	AutoDetectLanguage bool   `toml:"auto_detect_language" json:"auto_detect_language"`
	SpokenLanguage     string `toml:"spoken_language" json:"spoken_language"`
	SpokenLanguageCode string `toml:"spoken_language_code" json:"spoken_language_code"`

	// Azure speech
	AutoDetectLanguageAzure bool   `toml:"auto_detect_language_azure" json:"auto_detect_language_azure"`
	SpokenLanguageAzure     string `toml:"spoken_language_azure" json:"spoken_language_azure"`
	SpokenLanguageCodeAzure string `toml:"spoken_language_code_azure" json:"spoken_language_code_azure"`
	SpokenLanguageStyle     string `toml:"spoken_language_style" json:"spoken_language_style"`

	// Text to speech voices
	VoiceID      string `toml:"voice_id" json:"voice_id"`
	VoiceIDAzure string `toml:"voice_id_azure" json:"voice_id_azure"`
}

// Default returns the settings used before the user has saved anything, and
// the target of the form's Reset action.
func Default() Settings {
	return Settings{
		Model:            "gpt-3.5-turbo",
		Temperature:      1.0,
		TopP:             1.0,
		N:                1,
		Stop:             "",
		MaxTokens:        0, // unlimited
		PresencePenalty:  0,
		FrequencyPenalty: 0,
		LogitBias:        "",

		AutoTitle: true,

		AutoDetectLanguage: true,
		SpokenLanguage:     "English (en)",
		SpokenLanguageCode: "en",

		AutoDetectLanguageAzure: true,
		SpokenLanguageAzure:     "English (United States)",
		SpokenLanguageCodeAzure: "en-US",
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError describes one invalid field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// ValidateLogitBias checks the raw logit-bias string. Empty means "unset"
// and passes. Otherwise it must parse as a JSON object whose values are all
// finite numbers in [-100, 100].
func ValidateLogitBias(raw string) error {
	if raw == "" {
		return nil
	}

	var bias map[string]float64
	if err := json.Unmarshal([]byte(raw), &bias); err != nil {
		return ValidationError{
			Field:   "logit_bias",
			Message: "must be a valid JSON object with keys representing token IDs and values between -100 and 100",
		}
	}
	for token, v := range bias {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < -100 || v > 100 {
			return ValidationError{
				Field:   "logit_bias",
				Message: fmt.Sprintf("value for token %q must be a finite number between -100 and 100", token),
			}
		}
	}
	return nil
}

// LogitBiasMap parses the raw logit-bias string into the map sent to the
// provider. Returns nil for the empty ("unset") string. Callers validate
// first; a parse failure here also yields nil.
func (s Settings) LogitBiasMap() map[string]float64 {
	if s.LogitBias == "" {
		return nil
	}
	var bias map[string]float64
	if err := json.Unmarshal([]byte(s.LogitBias), &bias); err != nil {
		return nil
	}
	return bias
}

// Validate checks every constrained field and returns all violations.
func (s Settings) Validate() error {
	var errs ValidateErrors

	if s.Model == "" {
		errs = append(errs, ValidationError{Field: "model", Message: "must not be empty"})
	}
	if s.Temperature < 0 || s.Temperature > 2 {
		errs = append(errs, ValidationError{
			Field:   "temperature",
			Message: fmt.Sprintf("must be between 0 and 2, got %g", s.Temperature),
		})
	}
	if s.TopP < 0 || s.TopP > 1 {
		errs = append(errs, ValidationError{
			Field:   "top_p",
			Message: fmt.Sprintf("must be between 0 and 1, got %g", s.TopP),
		})
	}
	if s.N < 1 || s.N > 10 {
		errs = append(errs, ValidationError{
			Field:   "n",
			Message: fmt.Sprintf("must be between 1 and 10, got %d", s.N),
		})
	}
	if s.MaxTokens < 0 {
		errs = append(errs, ValidationError{
			Field:   "max_tokens",
			Message: fmt.Sprintf("must be non-negative (0 = unlimited), got %d", s.MaxTokens),
		})
	}
	if s.PresencePenalty < -2 || s.PresencePenalty > 2 {
		errs = append(errs, ValidationError{
			Field:   "presence_penalty",
			Message: fmt.Sprintf("must be between -2 and 2, got %g", s.PresencePenalty),
		})
	}
	if s.FrequencyPenalty < -2 || s.FrequencyPenalty > 2 {
		errs = append(errs, ValidationError{
			Field:   "frequency_penalty",
			Message: fmt.Sprintf("must be between -2 and 2, got %g", s.FrequencyPenalty),
		})
	}
	if err := ValidateLogitBias(s.LogitBias); err != nil {
		if verr, ok := err.(ValidationError); ok {
			errs = append(errs, verr)
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// fillDefaults fills zero values that have no meaningful zero with defaults.
// Numeric fields where zero is a legal choice (penalties, max_tokens) are
// left alone.
func (s *Settings) fillDefaults() {
	defaults := Default()
	if s.Model == "" {
		s.Model = defaults.Model
	}
	if s.N == 0 {
		s.N = defaults.N
	}
	if s.SpokenLanguage == "" {
		s.SpokenLanguage = defaults.SpokenLanguage
		s.SpokenLanguageCode = defaults.SpokenLanguageCode
	}
	if s.SpokenLanguageAzure == "" {
		s.SpokenLanguageAzure = defaults.SpokenLanguageAzure
		s.SpokenLanguageCodeAzure = defaults.SpokenLanguageCodeAzure
	}
}
