// Orrery - High-Precision Ephemeris and Attitude Query Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orrery

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v, want nil", err)
	}
	if got := cfg.Server.Addr(); got != "0.0.0.0:8080" {
		t.Errorf("Addr() = %q, want 0.0.0.0:8080", got)
	}
}

func TestLoadFileLayersOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "orrery.yaml")
	yaml := `
server:
  port: 9090
logging:
  level: debug
kernels:
  spk:
    - testdata/de440s.bsp
    - testdata/mar097.bsp
  planetary_data: testdata/pck11.pca
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
	// Untouched fields keep their defaults.
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Host = %q, want default 0.0.0.0", cfg.Server.Host)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("ReadTimeout = %s, want default 15s", cfg.Server.ReadTimeout)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q, want debug", cfg.Logging.Level)
	}
	if len(cfg.Kernels.SPK) != 2 || cfg.Kernels.SPK[1] != "testdata/mar097.bsp" {
		t.Errorf("SPK = %v, want two entries", cfg.Kernels.SPK)
	}
	if cfg.Kernels.PlanetaryData != "testdata/pck11.pca" {
		t.Errorf("PlanetaryData = %q", cfg.Kernels.PlanetaryData)
	}
}

func TestLoadFileRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "orrery.yaml")
	yaml := `
server:
  port: 99999
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFile(path); err == nil {
		t.Fatal("LoadFile() with out-of-range port should fail validation")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ORRERY_SERVER_PORT", "7070")
	t.Setenv("ORRERY_LOGGING_FORMAT", "console")
	t.Setenv("ORRERY_KERNELS_SPK", "a.bsp,b.bsp,c.bsp")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("Port = %d, want 7070", cfg.Server.Port)
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("Format = %q, want console", cfg.Logging.Format)
	}
	if len(cfg.Kernels.SPK) != 3 || cfg.Kernels.SPK[2] != "c.bsp" {
		t.Errorf("SPK = %v, want comma-split three entries", cfg.Kernels.SPK)
	}
}

func TestValidateShutdownVsWriteTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.WriteTimeout = 30 * time.Second
	cfg.Server.ShutdownTimeout = 5 * time.Second

	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() should reject shutdown_timeout shorter than write_timeout")
	}
}
