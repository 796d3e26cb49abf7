// Copyright 2026 the JHOVE project contributors
// SPDX-License-Identifier: MIT

// Package config reads the application configuration document. Fields are
// PascalCase here and camelCase in the YAML file.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// ModuleConfig enables one format module with optional parameters.
type ModuleConfig struct {
	Name   string   `yaml:"name"`
	Params []string `yaml:"params,omitempty"`
}

// Config holds the user-configurable options for a run.
type Config struct {
	// Modules lists the format modules to register, in order. Order
	// matters: it breaks signature-candidate ties.
	Modules []ModuleConfig `yaml:"modules,omitempty"`

	// Handler selects the output handler ("text" or "json").
	Handler string `yaml:"handler,omitempty"`

	// Checksums lists digest algorithms to compute per file
	// (CRC32, MD5, SHA-1).
	Checksums []string `yaml:"checksums,omitempty"`

	// Raw emits bitfield and enumeration properties as integers.
	Raw bool `yaml:"raw,omitempty"`

	// Verbose includes low-level segment detail.
	Verbose bool `yaml:"verbose,omitempty"`

	// SignatureOnly stops after the signature check.
	SignatureOnly bool `yaml:"signatureOnly,omitempty"`

	// LogLevel overrides the logger level (logrus level names).
	LogLevel string `yaml:"logLevel,omitempty"`
}

// Default returns the configuration used when no document is given.
func Default() Config {
	return Config{
		Modules: []ModuleConfig{
			{Name: "TIFF-hul"},
			{Name: "JPEG-hul"},
			{Name: "JPEG2000-hul"},
		},
		Handler: "text",
	}
}

// Load reads a YAML configuration document, merged over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Handler == "" {
		cfg.Handler = "text"
	}
	if len(cfg.Modules) == 0 {
		cfg.Modules = Default().Modules
	}
	return cfg, nil
}
