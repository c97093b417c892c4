// Copyright 2024 The chrdev Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package config loads the chrdevfs daemon configuration.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config is the on-disk daemon configuration.  Values left unset in
// the file keep their defaults; command-line flags override both.
type Config struct {
	Mountpoint  string `toml:"mountpoint"`
	DeviceName  string `toml:"device_name"`
	PayloadFile string `toml:"payload_file"`
	AllowOther  bool   `toml:"allow_other"`
	MaxSessions int    `toml:"max_sessions"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		DeviceName: "chrdev",
	}
}

// Load parses the TOML file at path on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks invariants that hold for any source of the config.
func (c Config) Validate() error {
	if c.DeviceName == "" {
		return fmt.Errorf("device_name must not be empty")
	}
	if c.MaxSessions < 0 {
		return fmt.Errorf("max_sessions must not be negative (got %d)", c.MaxSessions)
	}
	return nil
}
