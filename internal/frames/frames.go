// Orrery - High-Precision Ephemeris and Attitude Query Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orrery

// Package frames defines the frame identifier types shared across the
// kernel stores, the resolvers, and the query surface.
//
// A Frame is a pair of NAIF-style identifiers: the ephemeris center
// (whose position the frame is attached to) and the orientation (how
// its axes rotate). Frames are immutable values; any operation mixing
// two frames checks the relevant identifier first and fails fast on a
// mismatch.
package frames

import (
	"fmt"
	"math"
)

// Well-known NAIF identifiers.
const (
	SolarSystemBarycenter = 0
	EarthMoonBarycenter   = 3
	Sun                   = 10
	Mercury               = 199
	Venus                 = 299
	Earth                 = 399
	Moon                  = 301
	Mars                  = 499

	// Orientation ids. J2000 is the orientation root.
	J2000      = 1
	ECLIPJ2000 = 17
)

// J2000ToEclipJ2000AngleRad is the J2000 mean obliquity: ECLIPJ2000 is
// a single X axis rotation of this angle away from J2000.
const J2000ToEclipJ2000AngleRad = 0.40909280422232897

// SpeedOfLightKmS is the speed of light in km/s, used by the
// aberration correction.
const SpeedOfLightKmS = 299792.458

// Ellipsoid is a triaxial shape model in kilometers.
type Ellipsoid struct {
	SemiMajorEquatorialKm float64 `json:"semi_major_equatorial_km"`
	SemiMinorEquatorialKm float64 `json:"semi_minor_equatorial_km"`
	PolarRadiusKm         float64 `json:"polar_radius_km"`
}

// Spheroid returns a biaxial ellipsoid with equal equatorial radii.
func Spheroid(equatorialKm, polarKm float64) Ellipsoid {
	return Ellipsoid{
		SemiMajorEquatorialKm: equatorialKm,
		SemiMinorEquatorialKm: equatorialKm,
		PolarRadiusKm:         polarKm,
	}
}

// MeanRadiusKm returns the arithmetic mean of the three radii.
func (e Ellipsoid) MeanRadiusKm() float64 {
	return (e.SemiMajorEquatorialKm + e.SemiMinorEquatorialKm + e.PolarRadiusKm) / 3
}

// Flattening returns the polar flattening relative to the semi-major
// equatorial radius.
func (e Ellipsoid) Flattening() float64 {
	if e.SemiMajorEquatorialKm == 0 {
		return 0
	}
	return (e.SemiMajorEquatorialKm - e.PolarRadiusKm) / e.SemiMajorEquatorialKm
}

// Uid is the bare identifier pair of a frame, used as a map key and
// for equality checks.
type Uid struct {
	EphemerisID   int `json:"ephemeris_id"`
	OrientationID int `json:"orientation_id"`
}

func (u Uid) String() string {
	return fmt.Sprintf("frame %d/%d", u.EphemerisID, u.OrientationID)
}

// Frame identifies a reference frame and optionally carries the
// gravitational parameter and shape of its central body.
type Frame struct {
	EphemerisID   int
	OrientationID int

	// MuKm3S2 is NaN when unknown.
	MuKm3S2 float64
	// Shape is the zero value when unknown.
	Shape    Ellipsoid
	HasShape bool
}

// New returns a bare frame with the given identifier pair and no
// body constants.
func New(ephemerisID, orientationID int) Frame {
	return Frame{
		EphemerisID:   ephemerisID,
		OrientationID: orientationID,
		MuKm3S2:       math.NaN(),
	}
}

// FromEphemJ2000 returns the J2000-oriented frame centered on the
// given ephemeris id.
func FromEphemJ2000(ephemerisID int) Frame {
	return New(ephemerisID, J2000)
}

// FromOrientSSB returns the solar system barycenter frame with the
// given orientation id.
func FromOrientSSB(orientationID int) Frame {
	return New(SolarSystemBarycenter, orientationID)
}

// Uid returns the identifier pair of f.
func (f Frame) Uid() Uid {
	return Uid{EphemerisID: f.EphemerisID, OrientationID: f.OrientationID}
}

// EphemOriginMatch reports whether both frames are centered on the
// same ephemeris id.
func (f Frame) EphemOriginMatch(other Frame) bool {
	return f.EphemerisID == other.EphemerisID
}

// OrientOriginMatch reports whether both frames share an orientation.
func (f Frame) OrientOriginMatch(other Frame) bool {
	return f.OrientationID == other.OrientationID
}

// ExactMatch reports whether both identifier pairs agree.
func (f Frame) ExactMatch(other Frame) bool {
	return f.EphemOriginMatch(other) && f.OrientOriginMatch(other)
}

// WithOrient returns a copy of f reoriented to the given id.
func (f Frame) WithOrient(orientationID int) Frame {
	f.OrientationID = orientationID
	return f
}

// WithMu returns a copy of f carrying the given gravitational
// parameter.
func (f Frame) WithMu(muKm3S2 float64) Frame {
	f.MuKm3S2 = muKm3S2
	return f
}

// WithShape returns a copy of f carrying the given shape.
func (f Frame) WithShape(e Ellipsoid) Frame {
	f.Shape = e
	f.HasShape = true
	return f
}

// HasMu reports whether the gravitational parameter is known.
func (f Frame) HasMu() bool {
	return !math.IsNaN(f.MuKm3S2)
}

func (f Frame) String() string {
	return f.Uid().String()
}
