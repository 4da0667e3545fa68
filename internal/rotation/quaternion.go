// Orrery - High-Precision Ephemeris and Attitude Query Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orrery

package rotation

import (
	"fmt"
	"math"

	"github.com/tomtom215/orrery/internal/linalg"
)

// Quaternion is a Hamiltonian attitude quaternion (scalar first), with
// the same (From, To) frame tagging as DCM. It is kept normalized by
// construction.
type Quaternion struct {
	W, X, Y, Z float64
	From       int
	To         int
}

// IdentityQuaternion returns the no-rotation quaternion between the
// given frames.
func IdentityQuaternion(from, to int) Quaternion {
	return Quaternion{W: 1, From: from, To: to}
}

// NewQuaternion normalizes the given components into a quaternion. A
// zero quaternion normalizes to identity.
func NewQuaternion(w, x, y, z float64, from, to int) Quaternion {
	q := Quaternion{W: w, X: x, Y: y, Z: z, From: from, To: to}
	return q.Normalize()
}

// AboutX returns the rotation about the X axis by angle radians.
func AboutX(angleRad float64, from, to int) Quaternion {
	s, c := math.Sincos(angleRad / 2)
	return Quaternion{W: c, X: s, From: from, To: to}
}

// AboutY returns the rotation about the Y axis by angle radians.
func AboutY(angleRad float64, from, to int) Quaternion {
	s, c := math.Sincos(angleRad / 2)
	return Quaternion{W: c, Y: s, From: from, To: to}
}

// AboutZ returns the rotation about the Z axis by angle radians.
func AboutZ(angleRad float64, from, to int) Quaternion {
	s, c := math.Sincos(angleRad / 2)
	return Quaternion{W: c, Z: s, From: from, To: to}
}

// Norm returns the four-component Euclidean norm.
func (q Quaternion) Norm() float64 {
	return math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
}

// Normalize returns q scaled to unit norm. The zero quaternion maps
// to identity.
func (q Quaternion) Normalize() Quaternion {
	n := q.Norm()
	if n < epsilonQuat {
		return IdentityQuaternion(q.From, q.To)
	}
	return Quaternion{W: q.W / n, X: q.X / n, Y: q.Y / n, Z: q.Z / n, From: q.From, To: q.To}
}

// Conjugate returns the inverse rotation with swapped frame tags.
func (q Quaternion) Conjugate() Quaternion {
	return Quaternion{W: q.W, X: -q.X, Y: -q.Y, Z: -q.Z, From: q.To, To: q.From}
}

// Mul composes q with rhs, requiring q.To == rhs.From so the result
// rotates from q.From to rhs.To.
func (q Quaternion) Mul(rhs Quaternion) (Quaternion, error) {
	if q.To != rhs.From {
		return Quaternion{}, fmt.Errorf("%w: %d -> %d then %d -> %d", ErrFrameMismatch, q.From, q.To, rhs.From, rhs.To)
	}
	s := q.W*rhs.W - q.X*rhs.X - q.Y*rhs.Y - q.Z*rhs.Z
	i := q.W*rhs.X + q.X*rhs.W + q.Y*rhs.Z - q.Z*rhs.Y
	j := q.W*rhs.Y - q.X*rhs.Z + q.Y*rhs.W + q.Z*rhs.X
	k := q.W*rhs.Z + q.X*rhs.Y - q.Y*rhs.X + q.Z*rhs.W
	return NewQuaternion(s, i, j, k, q.From, rhs.To), nil
}

// DCM converts q into the equivalent direction cosine matrix.
func (q Quaternion) DCM() DCM {
	u := q.Normalize()
	q0, q1, q2, q3 := u.W, u.X, u.Y, u.Z
	return DCM{
		Rot: linalg.Mat3{
			{
				q0*q0 + q1*q1 - q2*q2 - q3*q3,
				2 * (q1*q2 + q0*q3),
				2 * (q1*q3 - q0*q2),
			},
			{
				2 * (q1*q2 - q0*q3),
				q0*q0 - q1*q1 + q2*q2 - q3*q3,
				2 * (q2*q3 + q0*q1),
			},
			{
				2 * (q1*q3 + q0*q2),
				2 * (q2*q3 - q0*q1),
				q0*q0 - q1*q1 - q2*q2 + q3*q3,
			},
		},
		From: u.From,
		To:   u.To,
	}
}

// QuaternionFromDCM converts a proper rotation matrix into the
// equivalent quaternion using Shepperd's method: pick the largest of
// the four candidate components to avoid dividing by a small number,
// then recover the rest from the off-diagonal sums.
func QuaternionFromDCM(d DCM) Quaternion {
	c := d.Rot
	var b2 [4]float64
	tr := c[0][0] + c[1][1] + c[2][2]
	b2[0] = (1 + tr) / 4
	b2[1] = (1 + 2*c[0][0] - tr) / 4
	b2[2] = (1 + 2*c[1][1] - tr) / 4
	b2[3] = (1 + 2*c[2][2] - tr) / 4

	imax := 0
	for k := 1; k < 4; k++ {
		if b2[k] > b2[imax] {
			imax = k
		}
	}

	var w, x, y, z float64
	switch imax {
	case 0:
		w = math.Sqrt(b2[0])
		x = (c[1][2] - c[2][1]) / (4 * w)
		y = (c[2][0] - c[0][2]) / (4 * w)
		z = (c[0][1] - c[1][0]) / (4 * w)
	case 1:
		x = math.Sqrt(b2[1])
		w = (c[1][2] - c[2][1]) / (4 * x)
		if w < 0 {
			w = -w
			x = -x
		}
		y = (c[0][1] + c[1][0]) / (4 * x)
		z = (c[2][0] + c[0][2]) / (4 * x)
	case 2:
		y = math.Sqrt(b2[2])
		w = (c[2][0] - c[0][2]) / (4 * y)
		if w < 0 {
			w = -w
			y = -y
		}
		x = (c[0][1] + c[1][0]) / (4 * y)
		z = (c[1][2] + c[2][1]) / (4 * y)
	case 3:
		z = math.Sqrt(b2[3])
		w = (c[0][1] - c[1][0]) / (4 * z)
		if w < 0 {
			w = -w
			z = -z
		}
		x = (c[2][0] + c[0][2]) / (4 * z)
		y = (c[1][2] + c[2][1]) / (4 * z)
	}

	return NewQuaternion(w, x, y, z, d.From, d.To)
}

const epsilonQuat = 2.220446049250313e-16
