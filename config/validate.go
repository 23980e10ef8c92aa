// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// validLogLevels lists the accepted log level strings.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validBackends = map[string]bool{
	BackendFile:   true,
	BackendBolt:   true,
	BackendMemory: true,
}

// ValidateConfig checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid.
func ValidateConfig(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrEmptyDataDir
	}

	if !validBackends[cfg.Backend] {
		return ErrInvalidBackend
	}

	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		return ErrInvalidLogLevel
	}

	switch strings.ToLower(cfg.LogFormat) {
	case "text", "json":
	default:
		return ErrInvalidLogFormat
	}

	if _, err := language.Parse(cfg.Locale); err != nil {
		return fmt.Errorf("%w: locale %q: %w", ErrInvalidConfig, cfg.Locale, err)
	}

	if err := cfg.Policy().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPolicy, err)
	}

	return nil
}
