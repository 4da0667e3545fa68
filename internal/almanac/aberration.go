// Orrery - High-Precision Ephemeris and Attitude Query Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orrery

package almanac

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/tomtom215/orrery/internal/frames"
	"github.com/tomtom215/orrery/internal/linalg"
)

// Aberration selects the light time and stellar corrections applied
// to a translation. The zero value applies no correction and returns
// the geometric state.
type Aberration uint8

const (
	// NoAberration returns the geometric state.
	NoAberration Aberration = iota
	// LightTime applies a single light time iteration (reception).
	LightTime
	// ConvergedLightTime applies three light time iterations
	// (reception).
	ConvergedLightTime
	// LightTimeStellar is LightTime plus stellar aberration.
	LightTimeStellar
	// ConvergedLightTimeStellar is ConvergedLightTime plus stellar
	// aberration.
	ConvergedLightTimeStellar
	// TxLightTime is the transmission case of LightTime.
	TxLightTime
	// TxConvergedLightTime is the transmission case of
	// ConvergedLightTime.
	TxConvergedLightTime
	// TxLightTimeStellar is the transmission case of
	// LightTimeStellar.
	TxLightTimeStellar
	// TxConvergedLightTimeStellar is the transmission case of
	// ConvergedLightTimeStellar.
	TxConvergedLightTimeStellar
)

// ErrAberration reports an unrecognized correction name or an input
// the correction cannot handle.
var ErrAberration = errors.New("almanac: invalid aberration correction")

// Converged reports whether three light time iterations are used
// instead of one.
func (ab Aberration) Converged() bool {
	switch ab {
	case ConvergedLightTime, ConvergedLightTimeStellar, TxConvergedLightTime, TxConvergedLightTimeStellar:
		return true
	}
	return false
}

// Transmit reports whether the transmission case is computed, where
// light leaves the observer at the query epoch.
func (ab Aberration) Transmit() bool {
	switch ab {
	case TxLightTime, TxConvergedLightTime, TxLightTimeStellar, TxConvergedLightTimeStellar:
		return true
	}
	return false
}

// Stellar reports whether the stellar aberration correction is
// applied after the light time iteration.
func (ab Aberration) Stellar() bool {
	switch ab {
	case LightTimeStellar, ConvergedLightTimeStellar, TxLightTimeStellar, TxConvergedLightTimeStellar:
		return true
	}
	return false
}

var aberrationNames = map[Aberration]string{
	NoAberration:                "NONE",
	LightTime:                   "LT",
	ConvergedLightTime:          "CN",
	LightTimeStellar:            "LT+S",
	ConvergedLightTimeStellar:   "CN+S",
	TxLightTime:                 "XLT",
	TxConvergedLightTime:        "XCN",
	TxLightTimeStellar:          "XLT+S",
	TxConvergedLightTimeStellar: "XCN+S",
}

func (ab Aberration) String() string {
	if name, ok := aberrationNames[ab]; ok {
		return name
	}
	return fmt.Sprintf("Aberration(%d)", uint8(ab))
}

// ParseAberration maps a correction name to its Aberration value.
// Names are the conventional ones (NONE, LT, CN, LT+S, CN+S and the
// XLT transmit family), case insensitive; the empty string means no
// correction.
func ParseAberration(s string) (Aberration, error) {
	want := strings.ToUpper(strings.TrimSpace(s))
	if want == "" {
		return NoAberration, nil
	}
	for ab, name := range aberrationNames {
		if name == want {
			return ab, nil
		}
	}
	return NoAberration, fmt.Errorf("%w: %q", ErrAberration, s)
}

const machineEps = 2.220446049250313e-16

// rotateAbout rotates v about the given axis by angleRad using the
// Rodrigues formula.
func rotateAbout(v, axis linalg.Vec3, angleRad float64) linalg.Vec3 {
	k := axis.Unit()
	sin, cos := math.Sin(angleRad), math.Cos(angleRad)
	out := v.Scale(cos)
	out = out.Add(k.Cross(v).Scale(sin))
	return out.Add(k.Scale(k.Dot(v) * (1 - cos)))
}

// stellarAberration corrects the apparent position of a target for
// the observer's motion. The position is rotated about the normal of
// the position/velocity plane by the aberration angle
// asin(|u x v/c|). Rewritten from NAIF's stelab routine.
func stellarAberration(targetPosKm, obsVelKmS linalg.Vec3, transmit bool) (linalg.Vec3, error) {
	vel := obsVelKmS
	if transmit {
		vel = vel.Scale(-1)
	}
	u := targetPosKm.Unit()
	vByC := vel.Scale(1 / frames.SpeedOfLightKmS)
	if vByC.Dot(vByC) >= 1 {
		return linalg.Vec3{}, fmt.Errorf("%w: observer at or beyond the speed of light", ErrAberration)
	}
	h := u.Cross(vByC)
	sinPhi := h.Norm()
	if sinPhi <= machineEps {
		return targetPosKm, nil
	}
	return rotateAbout(targetPosKm, h, math.Asin(sinPhi)), nil
}
