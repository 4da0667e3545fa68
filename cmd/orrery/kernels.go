// Orrery - High-Precision Ephemeris and Attitude Query Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orrery

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/tomtom215/orrery/internal/almanac"
	"github.com/tomtom215/orrery/internal/bpc"
	"github.com/tomtom215/orrery/internal/config"
	"github.com/tomtom215/orrery/internal/dataset"
	"github.com/tomtom215/orrery/internal/logging"
	"github.com/tomtom215/orrery/internal/metrics"
	"github.com/tomtom215/orrery/internal/spk"
)

// buildAlmanac parses every configured kernel and dataset file and
// assembles the immutable almanac the server will answer from.
// Kernels load in configuration order, so a later kernel overrides an
// earlier one for the segments they both cover.
func buildAlmanac(cfg *config.KernelsConfig) (*almanac.Almanac, error) {
	a := almanac.New().WithLogger(logging.Logger())

	for _, path := range cfg.SPK {
		start := time.Now()
		data, err := os.ReadFile(path)
		if err != nil {
			metrics.RecordKernelLoad("spk", time.Since(start), err)
			return nil, fmt.Errorf("reading spk %s: %w", path, err)
		}
		k, err := spk.Load(data)
		metrics.RecordKernelLoad("spk", time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("parsing spk %s: %w", path, err)
		}
		if a, err = a.WithSPK(k); err != nil {
			return nil, fmt.Errorf("loading spk %s: %w", path, err)
		}
		logging.Info().Str("path", path).Int("segments", len(k.Summaries())).Msg("Loaded ephemeris kernel")
	}

	for _, path := range cfg.BPC {
		start := time.Now()
		data, err := os.ReadFile(path)
		if err != nil {
			metrics.RecordKernelLoad("bpc", time.Since(start), err)
			return nil, fmt.Errorf("reading bpc %s: %w", path, err)
		}
		k, err := bpc.Load(data)
		metrics.RecordKernelLoad("bpc", time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("parsing bpc %s: %w", path, err)
		}
		if a, err = a.WithBPC(k); err != nil {
			return nil, fmt.Errorf("loading bpc %s: %w", path, err)
		}
		logging.Info().Str("path", path).Int("segments", len(k.Summaries())).Msg("Loaded orientation kernel")
	}

	if cfg.PlanetaryData != "" {
		data, err := os.ReadFile(cfg.PlanetaryData)
		if err != nil {
			return nil, fmt.Errorf("reading planetary data %s: %w", cfg.PlanetaryData, err)
		}
		set, err := dataset.DecodePlanetarySet(data)
		if err != nil {
			return nil, fmt.Errorf("parsing planetary data %s: %w", cfg.PlanetaryData, err)
		}
		a = a.WithPlanetaryData(set)
		logging.Info().Str("path", cfg.PlanetaryData).Int("records", set.Len()).Msg("Loaded planetary dataset")
	}

	if cfg.SpacecraftData != "" {
		data, err := os.ReadFile(cfg.SpacecraftData)
		if err != nil {
			return nil, fmt.Errorf("reading spacecraft data %s: %w", cfg.SpacecraftData, err)
		}
		set, err := dataset.DecodeSpacecraftSet(data)
		if err != nil {
			return nil, fmt.Errorf("parsing spacecraft data %s: %w", cfg.SpacecraftData, err)
		}
		a = a.WithSpacecraftData(set)
		logging.Info().Str("path", cfg.SpacecraftData).Int("records", set.Len()).Msg("Loaded spacecraft dataset")
	}

	if cfg.EulerParameters != "" {
		data, err := os.ReadFile(cfg.EulerParameters)
		if err != nil {
			return nil, fmt.Errorf("reading euler parameters %s: %w", cfg.EulerParameters, err)
		}
		set, err := dataset.DecodeEulerParameterSet(data)
		if err != nil {
			return nil, fmt.Errorf("parsing euler parameters %s: %w", cfg.EulerParameters, err)
		}
		a = a.WithEulerParameters(set)
		logging.Info().Str("path", cfg.EulerParameters).Int("records", set.Len()).Msg("Loaded orientation parameter dataset")
	}

	if cfg.Locations != "" {
		data, err := os.ReadFile(cfg.Locations)
		if err != nil {
			return nil, fmt.Errorf("reading locations %s: %w", cfg.Locations, err)
		}
		set, err := dataset.DecodeLocationSet(data)
		if err != nil {
			return nil, fmt.Errorf("parsing locations %s: %w", cfg.Locations, err)
		}
		a = a.WithLocations(set)
		logging.Info().Str("path", cfg.Locations).Int("records", set.Len()).Msg("Loaded location dataset")
	}

	metrics.SetKernelsLoaded(a.NumLoadedSPKs(), a.NumLoadedBPCs())
	return a, nil
}
