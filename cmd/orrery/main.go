// Orrery - High-Precision Ephemeris and Attitude Query Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orrery

// Package main is the entry point for the Orrery query server.
//
// Orrery answers high-precision ephemeris and attitude queries from
// binary SPICE kernels. The server loads every configured kernel at
// startup into an immutable almanac, then serves translation,
// rotation, and transform queries over HTTP.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: defaults, optional YAML file, ORRERY_ environment
//     variables (Koanf v2)
//  2. Logging: zerolog, JSON or console format
//  3. Almanac: parse SPK/BPC kernels and constant datasets
//  4. HTTP server: Chi router under a Suture supervisor tree
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM: it stops
// accepting new connections and waits for in-flight requests up to the
// configured shutdown timeout.
//
// # Example Usage
//
//	export ORRERY_KERNELS_SPK=de440s.bsp
//	export ORRERY_KERNELS_BPC=earth_latest_high_prec.bpc
//	export ORRERY_KERNELS_PLANETARY_DATA=pck11.pca
//	./orrery
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/orrery/internal/api"
	"github.com/tomtom215/orrery/internal/config"
	"github.com/tomtom215/orrery/internal/logging"
	"github.com/tomtom215/orrery/internal/supervisor"
	"github.com/tomtom215/orrery/internal/supervisor/services"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Load configuration first to get logging settings.
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Int("spk_kernels", len(cfg.Kernels.SPK)).
		Int("bpc_kernels", len(cfg.Kernels.BPC)).
		Msg("Starting Orrery")

	engine, err := buildAlmanac(&cfg.Kernels)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to build almanac")
	}
	logging.Info().
		Int("spks_loaded", engine.NumLoadedSPKs()).
		Int("bpcs_loaded", engine.NumLoadedBPCs()).
		Msg("Almanac ready")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridge zerolog to slog for sutureslog compatibility.
	slogLogger := logging.NewSlogLogger()

	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	router := api.NewRouter(
		api.NewHandler(engine, version),
		api.NewChiMiddleware(&api.ChiMiddlewareConfig{
			CORSAllowedOrigins: cfg.CORS.AllowedOrigins,
			CORSMaxAge:         cfg.CORS.MaxAge,
			RateLimitRequests:  cfg.RateLimit.RequestsPerMinute,
			RateLimitWindow:    cfg.RateLimit.Window(),
			RateLimitDisabled:  !cfg.RateLimit.Enabled,
		}),
	)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Orrery stopped gracefully")
}
