// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

// Package config loads tiershare settings from a TOML file with
// TIERSHARE_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"golang.org/x/text/language"

	"github.com/bitfsorg/tiershare/revshare"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendBolt   = "bolt"
	BackendMemory = "memory"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "TIERSHARE_"

const (
	configFileName = "config.toml"
	documentName   = "project.json"
	databaseName   = "tiershare.db"
)

// Config holds the tiershare settings.
type Config struct {
	DataDir   string `toml:"data_dir" env:"DATA_DIR"`
	Backend   string `toml:"backend" env:"BACKEND"`
	LogLevel  string `toml:"log_level" env:"LOG_LEVEL"`
	LogFile   string `toml:"log_file" env:"LOG_FILE"` // empty logs to stderr
	LogFormat string `toml:"log_format" env:"LOG_FORMAT"`

	// Locale drives digit grouping in Markdown exports (BCP 47 tag).
	Locale   string `toml:"locale" env:"LOCALE"`
	Currency string `toml:"currency" env:"CURRENCY"`

	FairnessRatio float64 `toml:"fairness_ratio" env:"FAIRNESS_RATIO"`
	MainFloor     float64 `toml:"main_floor" env:"MAIN_FLOOR"`
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	p := revshare.DefaultPolicy()
	return Config{
		DataDir:       DefaultDataDir(),
		Backend:       BackendFile,
		LogLevel:      "info",
		LogFormat:     "text",
		Locale:        "en",
		Currency:      "€",
		FairnessRatio: p.RatioThreshold,
		MainFloor:     p.MainFloor,
	}
}

// DefaultDataDir returns ~/.tiershare, or .tiershare in the working
// directory when the home directory is unknown.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tiershare"
	}
	return filepath.Join(home, ".tiershare")
}

// ConfigPath returns the configuration file location inside dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, configFileName)
}

// LoadConfig reads a TOML configuration file. Keys absent from the file
// keep their DefaultConfig value; unknown keys are ignored.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		return Config{}, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}
	return cfg, nil
}

// SaveConfig writes cfg as TOML, creating parent directories as needed.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0600)
	if err != nil {
		return fmt.Errorf("config: create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if _, err := fmt.Fprint(f, "# tiershare Configuration\n\n"); err != nil {
		return fmt.Errorf("config: write header: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	return nil
}

// ApplyEnv overrides cfg with any TIERSHARE_* variables that are set.
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("%w: parse env: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Load reads the file at path if it exists, then applies environment
// overrides and validates the result. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg, err := LoadConfig(path)
	if errors.Is(err, ErrConfigNotFound) {
		cfg, err = DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, err
	}
	if err := ApplyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := ValidateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Policy returns the fairness policy described by cfg.
func (c Config) Policy() revshare.Policy {
	return revshare.Policy{RatioThreshold: c.FairnessRatio, MainFloor: c.MainFloor}
}

// Language returns the parsed locale, or English if it does not parse.
func (c Config) Language() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.English
	}
	return tag
}

// StorePath returns the on-disk location of the configured backend, or
// an empty string for the memory backend.
func (c Config) StorePath() string {
	switch c.Backend {
	case BackendBolt:
		return filepath.Join(c.DataDir, databaseName)
	case BackendFile:
		return filepath.Join(c.DataDir, documentName)
	default:
		return ""
	}
}
