// Copyright (c) 2023-2025 The yakGPT Authors
// SPDX-License-Identifier: MIT

package settings

// =============================================================================
// SETTINGS FORM
// =============================================================================

// Form is the mutable working copy edited during a settings-modal session.
// Nothing touches the persisted settings until Save; Reset discards the
// working values in favor of the defaults.
type Form struct {
	values   Settings
	defaults Settings
}

// NewForm starts a form session from the currently persisted settings.
func NewForm(current, defaults Settings) *Form {
	return &Form{values: current, defaults: defaults}
}

// Values returns the current working copy.
func (f *Form) Values() Settings {
	return f.values
}

// Apply lets the caller mutate unconstrained fields of the working copy
// directly (model choice, sliders, switches). Constrained or dependent
// fields have dedicated setters below.
func (f *Form) Apply(mutate func(*Settings)) {
	mutate(&f.values)
}

// SetLogitBias stores the raw logit-bias text. The value is checked again at
// Save; storing invalid text here is allowed so the user can keep typing.
func (f *Form) SetLogitBias(raw string) {
	f.values.LogitBias = raw
}

// SetAutoDetectLanguage toggles language auto-detection. The spoken-language
// fields are deliberately left untouched: while auto-detect is on they are
// merely disabled for editing, and toggling it off must bring back the last
// explicit choice.
func (f *Form) SetAutoDetectLanguage(on bool) {
	f.values.AutoDetectLanguage = on
}

// SetAutoDetectLanguageAzure is the Azure counterpart of
// SetAutoDetectLanguage, with the same preserve-don't-clear behavior.
func (f *Form) SetAutoDetectLanguageAzure(on bool) {
	f.values.AutoDetectLanguageAzure = on
}

// SetSpokenLanguage records an explicit language choice. Ignored while
// auto-detect is on, mirroring the disabled input field.
func (f *Form) SetSpokenLanguage(language, code string) {
	if f.values.AutoDetectLanguage {
		return
	}
	f.values.SpokenLanguage = language
	f.values.SpokenLanguageCode = code
}

// SetSpokenLanguageAzure records an explicit Azure language choice. Ignored
// while the Azure auto-detect is on.
func (f *Form) SetSpokenLanguageAzure(language, code string) {
	if f.values.AutoDetectLanguageAzure {
		return
	}
	f.values.SpokenLanguageAzure = language
	f.values.SpokenLanguageCodeAzure = code
}

// Reset replaces the working copy with the defaults verbatim. Persisted
// settings are untouched until the next Save.
func (f *Form) Reset() {
	f.values = f.defaults
}

// Save validates the working copy and, when valid, returns it as the new
// effective settings (a full replace of the persisted copy, not a merge).
// On validation failure the working copy is returned unchanged alongside the
// error and nothing may be persisted.
func (f *Form) Save() (Settings, error) {
	if err := f.values.Validate(); err != nil {
		return f.values, err
	}
	return f.values, nil
}
