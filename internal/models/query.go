// Orrery - High-Precision Ephemeris and Attitude Query Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orrery

package models

// FrameRef identifies a frame on the wire by its ephemeris and
// orientation identifiers. An omitted orientation defaults to the
// inertial reference orientation.
type FrameRef struct {
	EphemerisID   int `json:"ephemeris_id" validate:"required"`
	OrientationID int `json:"orientation_id"`
}

// TranslateRequest asks for the position and velocity of a target
// relative to an observer at a single epoch.
type TranslateRequest struct {
	Target     FrameRef `json:"target" validate:"required"`
	Observer   FrameRef `json:"observer" validate:"required"`
	EpochET    float64  `json:"epoch_et"`
	Aberration string   `json:"aberration" validate:"omitempty,aberration"`
}

// RotateRequest asks for the rotation taking vectors from one
// orientation frame to another at a single epoch.
type RotateRequest struct {
	From    FrameRef `json:"from" validate:"required"`
	To      FrameRef `json:"to" validate:"required"`
	EpochET float64  `json:"epoch_et"`
}

// TransformRequest asks for the full state of a target expressed in
// the observer's frame, translation and rotation combined.
type TransformRequest struct {
	Target     FrameRef `json:"target" validate:"required"`
	Observer   FrameRef `json:"observer" validate:"required"`
	EpochET    float64  `json:"epoch_et"`
	Aberration string   `json:"aberration" validate:"omitempty,aberration"`
}

// StateResponse carries a Cartesian state in a named frame.
type StateResponse struct {
	PositionKm  [3]float64 `json:"position_km"`
	VelocityKmS [3]float64 `json:"velocity_km_s"`
	EpochET     float64    `json:"epoch_et"`
	Frame       FrameRef   `json:"frame"`
}

// RotationResponse carries a direction cosine matrix and, when the
// sources supply one, its time derivative and the instantaneous
// angular velocity.
type RotationResponse struct {
	Rotation            [3][3]float64  `json:"rotation"`
	RotationDt          *[3][3]float64 `json:"rotation_dt,omitempty"`
	AngularVelocityRadS *[3]float64    `json:"angular_velocity_rad_s,omitempty"`
	From                int            `json:"from"`
	To                  int            `json:"to"`
	EpochET             float64        `json:"epoch_et"`
}

// FrameInfoResponse describes a frame's gravity and shape data, when
// a loaded planetary dataset carries them.
type FrameInfoResponse struct {
	EphemerisID        int      `json:"ephemeris_id"`
	OrientationID      int      `json:"orientation_id"`
	MuKm3S2            *float64 `json:"mu_km3_s2,omitempty"`
	EquatorialRadiusKm *float64 `json:"equatorial_radius_km,omitempty"`
	PolarRadiusKm      *float64 `json:"polar_radius_km,omitempty"`
}

// HealthResponse reports service liveness and loaded-data counts.
type HealthResponse struct {
	Status     string `json:"status"`
	Version    string `json:"version"`
	SPKsLoaded int    `json:"spks_loaded"`
	BPCsLoaded int    `json:"bpcs_loaded"`
	UptimeS    int64  `json:"uptime_s"`
}
