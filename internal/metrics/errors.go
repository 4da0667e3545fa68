// Orrery - High-Precision Ephemeris and Attitude Query Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orrery

package metrics

import (
	"errors"

	"github.com/tomtom215/orrery/internal/almanac"
	"github.com/tomtom215/orrery/internal/daf"
)

// classifyError maps engine errors to a bounded label set. Unknown
// errors collapse to "internal" to keep cardinality fixed.
func classifyError(err error) string {
	switch {
	case errors.Is(err, almanac.ErrNoEphemerisData):
		return "no_ephemeris_data"
	case errors.Is(err, almanac.ErrNoOrientationData):
		return "no_orientation_data"
	case errors.Is(err, almanac.ErrCapacity):
		return "capacity"
	case errors.Is(err, almanac.ErrPath):
		return "path"
	case errors.Is(err, almanac.ErrMissingDerivative):
		return "missing_derivative"
	case errors.Is(err, almanac.ErrAberration):
		return "aberration"
	case errors.Is(err, daf.ErrNotFound):
		return "not_found"
	case errors.Is(err, daf.ErrParse):
		return "parse"
	default:
		return "internal"
	}
}
