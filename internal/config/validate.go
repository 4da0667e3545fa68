// Orrery - High-Precision Ephemeris and Attitude Query Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orrery

package config

import (
	"fmt"

	"github.com/tomtom215/orrery/internal/validation"
)

// Validate checks the configuration for invalid or inconsistent values.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.Server.ShutdownTimeout > 0 && c.Server.ShutdownTimeout < c.Server.WriteTimeout {
		return fmt.Errorf("invalid configuration: shutdown_timeout %s is shorter than write_timeout %s",
			c.Server.ShutdownTimeout, c.Server.WriteTimeout)
	}

	return nil
}
