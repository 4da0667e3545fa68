// Orrery - High-Precision Ephemeris and Attitude Query Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orrery

// Package config loads and validates Orrery's runtime configuration.
//
// Configuration is layered: defaults, then an optional YAML file, then
// ORRERY_-prefixed environment variables. Later layers override earlier
// ones.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the Orrery service.
type Config struct {
	Server    ServerConfig    `koanf:"server" validate:"required"`
	Logging   LoggingConfig   `koanf:"logging" validate:"required"`
	Kernels   KernelsConfig   `koanf:"kernels"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	CORS      CORSConfig      `koanf:"cors"`
}

// ServerConfig configures the HTTP query server.
type ServerConfig struct {
	Host            string        `koanf:"host" validate:"required"`
	Port            int           `koanf:"port" validate:"required,min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"min=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"min=0"`
	IdleTimeout     time.Duration `koanf:"idle_timeout" validate:"min=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"min=0"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"required,oneof=trace debug info warn warning error fatal panic disabled"`
	Format string `koanf:"format" validate:"required,oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// KernelsConfig lists the kernel and dataset files loaded at startup.
// All paths are optional; an empty config starts a server with no
// loaded data, useful for health-check smoke tests.
type KernelsConfig struct {
	// SPK lists ephemeris kernel paths, loaded in order. When two
	// kernels cover the same body and epoch, the later one wins.
	SPK []string `koanf:"spk" validate:"max=32,dive,required"`

	// BPC lists binary orientation kernel paths, loaded in order.
	BPC []string `koanf:"bpc" validate:"max=8,dive,required"`

	// PlanetaryData is the path to a planetary constants dataset.
	PlanetaryData string `koanf:"planetary_data"`

	// SpacecraftData is the path to a spacecraft constants dataset.
	SpacecraftData string `koanf:"spacecraft_data"`

	// EulerParameters is the path to an orientation parameter dataset.
	EulerParameters string `koanf:"euler_parameters"`

	// Locations is the path to a surface location dataset.
	Locations string `koanf:"locations"`
}

// RateLimitConfig configures per-IP request rate limiting.
type RateLimitConfig struct {
	Enabled           bool `koanf:"enabled"`
	RequestsPerMinute int  `koanf:"requests_per_minute" validate:"min=1"`
}

// Window returns the rate limit accounting window.
func (r RateLimitConfig) Window() time.Duration {
	return time.Minute
}

// CORSConfig configures cross-origin resource sharing.
type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
	MaxAge         int      `koanf:"max_age" validate:"min=0"`
}

// DefaultConfig returns the configuration used when no file or
// environment overrides are present.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 600,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
			MaxAge:         300,
		},
	}
}
