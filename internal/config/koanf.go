// Orrery - High-Precision Ephemeris and Attitude Query Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orrery

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "ORRERY_"

// defaultConfigPaths are checked in order when ORRERY_CONFIG_PATH is unset.
var defaultConfigPaths = []string{
	"orrery.yaml",
	"config/orrery.yaml",
	"/etc/orrery/orrery.yaml",
}

// Load builds the configuration from defaults, an optional YAML file,
// and ORRERY_-prefixed environment variables, in that precedence order.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(DefaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	// ORRERY_SERVER_PORT=9090 maps to server.port. Kernel lists use
	// comma separation: ORRERY_KERNELS_SPK=de440s.bsp,mar097.bsp
	envProvider := env.Provider(envPrefix, ".", envKeyTransform)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	normalizeLists(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFile loads configuration from an explicit YAML path layered over
// defaults, skipping environment overrides.
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(DefaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("loading config file %s: %w", path, err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	normalizeLists(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKeyTransform maps ORRERY_SERVER_READ_TIMEOUT to server.read_timeout.
// Only the section separator becomes a dot; underscores within field
// names are preserved.
func envKeyTransform(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	if rest, ok := strings.CutPrefix(key, "rate_limit_"); ok {
		return "rate_limit." + rest
	}
	section, field, found := strings.Cut(key, "_")
	if !found {
		return key
	}
	return section + "." + field
}

func findConfigFile() string {
	if path := os.Getenv(envPrefix + "CONFIG_PATH"); path != "" {
		return path
	}
	for _, path := range defaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// normalizeLists splits comma-separated single-element lists, which is
// how list values arrive from environment variables.
func normalizeLists(cfg *Config) {
	cfg.Kernels.SPK = splitCommas(cfg.Kernels.SPK)
	cfg.Kernels.BPC = splitCommas(cfg.Kernels.BPC)
	cfg.CORS.AllowedOrigins = splitCommas(cfg.CORS.AllowedOrigins)
}

func splitCommas(in []string) []string {
	if len(in) != 1 || !strings.Contains(in[0], ",") {
		return in
	}
	parts := strings.Split(in[0], ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
