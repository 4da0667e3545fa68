// Orrery - High-Precision Ephemeris and Attitude Query Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orrery

package rotation

import (
	"fmt"
	"math"
)

// MRP is the modified Rodrigues parameter representation, a minimal
// three-component attitude set singular only at +/-360 degrees.
type MRP struct {
	S0, S1, S2 float64
	From       int
	To         int
}

// MRPFromQuaternion projects a quaternion onto its MRP. The conversion
// is singular when the rotation approaches a full turn.
func MRPFromQuaternion(q Quaternion) (MRP, error) {
	u := q.Normalize()
	den := 1 + u.W
	if den < epsilonQuat {
		return MRP{}, fmt.Errorf("%w: scalar part %v", ErrSingularMRP, u.W)
	}
	return MRP{
		S0:   u.X / den,
		S1:   u.Y / den,
		S2:   u.Z / den,
		From: u.From,
		To:   u.To,
	}, nil
}

// NormSquared returns the squared magnitude of the parameter vector.
func (m MRP) NormSquared() float64 {
	return m.S0*m.S0 + m.S1*m.S1 + m.S2*m.S2
}

// Shadow returns the shadow set describing the same attitude through
// the long way around. The zero MRP is its own shadow.
func (m MRP) Shadow() MRP {
	n2 := m.NormSquared()
	if n2 == 0 {
		return m
	}
	return MRP{
		S0:   -m.S0 / n2,
		S1:   -m.S1 / n2,
		S2:   -m.S2 / n2,
		From: m.From,
		To:   m.To,
	}
}

// Normalize returns the short-rotation set: the shadow is taken
// whenever the magnitude exceeds one.
func (m MRP) Normalize() MRP {
	if m.NormSquared() > 1 {
		return m.Shadow()
	}
	return m
}

// Quaternion converts the MRP back to the equivalent quaternion.
func (m MRP) Quaternion() Quaternion {
	n2 := m.NormSquared()
	den := 1 + n2
	return NewQuaternion(
		(1-n2)/den,
		2*m.S0/den,
		2*m.S1/den,
		2*m.S2/den,
		m.From,
		m.To,
	)
}

// IsSingular reports whether the represented rotation is within tol
// radians of a full turn, where the parameters blow up.
func (m MRP) IsSingular(tol float64) bool {
	return math.Sqrt(m.NormSquared()) > 1/tol
}
