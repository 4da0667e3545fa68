// Orrery - High-Precision Ephemeris and Attitude Query Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orrery

// Package rotation provides the attitude representations used by the
// orientation resolver: direction cosine matrices with an optional
// time derivative, quaternions, and modified Rodrigues parameters.
//
// Every representation is tagged with a (From, To) frame id pair and
// composition is checked: multiplying rotations whose frames do not
// chain is an error, never a silent wrong answer.
package rotation

import (
	"errors"
	"fmt"
	"math"

	"github.com/tomtom215/orrery/internal/linalg"
)

var (
	// ErrFrameMismatch reports a composition whose frame ids do not
	// chain (self.From must equal other.To).
	ErrFrameMismatch = errors.New("rotation: frame ids do not chain")

	// ErrInvalidRotation reports a matrix failing the orthonormality
	// or determinant guard.
	ErrInvalidRotation = errors.New("rotation: matrix is not a proper rotation")

	// ErrSingularMRP reports an MRP conversion at the 360 degree
	// singularity.
	ErrSingularMRP = errors.New("rotation: MRP singular at +/-360 degrees")
)

// Default tolerances for DCM validity checks.
const (
	UnitTol      = 1e-12
	DetTol       = 1e-12
	identityNorm = 1e-8
)

// DCM is a direction cosine matrix rotating vectors expressed in frame
// From into frame To, optionally carrying its time derivative.
type DCM struct {
	Rot   linalg.Mat3
	RotDt linalg.Mat3
	HasDt bool
	From  int
	To    int
}

// IdentityDCM returns the identity rotation between the given frames.
func IdentityDCM(from, to int) DCM {
	return DCM{Rot: linalg.Identity3(), From: from, To: to}
}

// R1 returns the rotation about the X axis by angle radians, from
// frame `from` to frame `to`.
func R1(angleRad float64, from, to int) DCM {
	s, c := math.Sincos(angleRad)
	return DCM{
		Rot:  linalg.Mat3{{1, 0, 0}, {0, c, s}, {0, -s, c}},
		From: from,
		To:   to,
	}
}

// R2 returns the rotation about the Y axis by angle radians.
func R2(angleRad float64, from, to int) DCM {
	s, c := math.Sincos(angleRad)
	return DCM{
		Rot:  linalg.Mat3{{c, 0, -s}, {0, 1, 0}, {s, 0, c}},
		From: from,
		To:   to,
	}
}

// R3 returns the rotation about the Z axis by angle radians.
func R3(angleRad float64, from, to int) DCM {
	s, c := math.Sincos(angleRad)
	return DCM{
		Rot:  linalg.Mat3{{c, s, 0}, {-s, c, 0}, {0, 0, 1}},
		From: from,
		To:   to,
	}
}

// R1Dot returns the angle derivative of the X axis rotation matrix.
func R1Dot(angleRad float64) linalg.Mat3 {
	s, c := math.Sincos(angleRad)
	return linalg.Mat3{{0, 0, 0}, {0, -s, c}, {0, -c, -s}}
}

// R2Dot returns the angle derivative of the Y axis rotation matrix.
func R2Dot(angleRad float64) linalg.Mat3 {
	s, c := math.Sincos(angleRad)
	return linalg.Mat3{{-s, 0, -c}, {0, 0, 0}, {c, 0, -s}}
}

// R3Dot returns the angle derivative of the Z axis rotation matrix.
func R3Dot(angleRad float64) linalg.Mat3 {
	s, c := math.Sincos(angleRad)
	return linalg.Mat3{{-s, c, 0}, {-c, -s, 0}, {0, 0, 0}}
}

// IsValid reports whether each column is unit length within unitTol
// and the determinant is +1 within detTol. Call this before trusting
// any decoded or composed rotation.
func (d DCM) IsValid(unitTol, detTol float64) bool {
	for j := 0; j < 3; j++ {
		if math.Abs(d.Rot.Col(j).Norm()-1) > unitTol {
			return false
		}
	}
	return math.Abs(d.Rot.Det()-1) <= detTol
}

// IsIdentity reports whether the rotation is a no-op, either by frame
// equality or by the matrix being the identity within a fixed norm.
func (d DCM) IsIdentity() bool {
	if d.From == d.To {
		return true
	}
	diff := d.Rot.Add(linalg.Identity3().Scale(-1))
	return diff.FrobeniusNorm() < identityNorm
}

// Transpose returns the inverse rotation with swapped frame tags. For
// a proper rotation the transpose is the inverse, and the derivative
// transposes with it.
func (d DCM) Transpose() DCM {
	out := DCM{
		Rot:  d.Rot.Transpose(),
		From: d.To,
		To:   d.From,
	}
	if d.HasDt {
		out.RotDt = d.RotDt.Transpose()
		out.HasDt = true
	}
	return out
}

// MulUnchecked composes d with other without verifying frame
// chaining. The result rotates from other.From to d.To. The
// derivative follows the transport theorem and is present only when
// both operands carry one.
func (d DCM) MulUnchecked(other DCM) DCM {
	out := DCM{
		Rot:  d.Rot.Mul(other.Rot),
		From: other.From,
		To:   d.To,
	}
	if d.HasDt && other.HasDt {
		out.RotDt = d.RotDt.Mul(other.Rot).Add(d.Rot.Mul(other.RotDt))
		out.HasDt = true
	}
	return out
}

// Mul composes d with other, requiring d.From == other.To. Identity
// operands pass through with retagged frames.
func (d DCM) Mul(other DCM) (DCM, error) {
	if d.From == other.To {
		return d.MulUnchecked(other), nil
	}
	if d.IsIdentity() {
		out := other
		out.To = d.To
		return out, nil
	}
	if other.IsIdentity() {
		out := d
		out.From = other.From
		return out, nil
	}
	return DCM{}, fmt.Errorf("%w: %d -> %d then %d -> %d", ErrFrameMismatch, other.From, other.To, d.From, d.To)
}

// StateDCM returns the 6x6 operator acting on stacked position and
// velocity vectors. The lower-left block is the time derivative when
// present, zero otherwise.
func (d DCM) StateDCM() linalg.Mat6 {
	var out linalg.Mat6
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = d.Rot[i][j]
			out[i+3][j+3] = d.Rot[i][j]
			if d.HasDt {
				out[i+3][j] = d.RotDt[i][j]
			}
		}
	}
	return out
}
