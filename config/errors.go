// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import "errors"

var (
	// ErrInvalidConfig indicates the configuration file cannot be decoded
	// or holds an unusable value.
	ErrInvalidConfig = errors.New("config: invalid configuration")

	// ErrInvalidBackend indicates the storage backend is not recognized.
	ErrInvalidBackend = errors.New("config: invalid backend (must be \"file\", \"bolt\", or \"memory\")")

	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("config: invalid log level (must be \"debug\", \"info\", \"warn\", or \"error\")")

	// ErrInvalidLogFormat indicates the log format is not recognized.
	ErrInvalidLogFormat = errors.New("config: invalid log format (must be \"text\" or \"json\")")

	// ErrInvalidPolicy indicates the fairness ratio or main floor is out of range.
	ErrInvalidPolicy = errors.New("config: invalid fairness policy")

	// ErrEmptyDataDir indicates the data directory path is empty.
	ErrEmptyDataDir = errors.New("config: data directory must not be empty")

	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("config: configuration file not found")
)
