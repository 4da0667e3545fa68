// Orrery - High-Precision Ephemeris and Attitude Query Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orrery

package linalg

import (
	"math"
	"testing"
)

func approxEq(t *testing.T, got, want, tol float64, what string) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s = %v, want %v (tol %v)", what, got, want, tol)
	}
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	z := x.Cross(y)
	if z != (Vec3{0, 0, 1}) {
		t.Fatalf("x cross y = %v, want z", z)
	}
	if y.Cross(x) != (Vec3{0, 0, -1}) {
		t.Fatalf("y cross x should be -z")
	}
}

func TestVec3Unit(t *testing.T) {
	v := Vec3{3, 4, 0}
	u := v.Unit()
	approxEq(t, u.Norm(), 1.0, 1e-15, "unit norm")
	approxEq(t, u[0], 0.6, 1e-15, "u[0]")

	zero := Vec3{}
	if zero.Unit() != zero {
		t.Error("unit of zero vector should stay zero")
	}
}

func TestMat3MulIdentity(t *testing.T) {
	m := Mat3{{1, 2, 3}, {4, 5, 6}, {7, 8, 10}}
	if m.Mul(Identity3()) != m {
		t.Error("m * I != m")
	}
	if Identity3().Mul(m) != m {
		t.Error("I * m != m")
	}
}

func TestMat3Det(t *testing.T) {
	approxEq(t, Identity3().Det(), 1.0, 0, "det(I)")
	m := Mat3{{2, 0, 0}, {0, 3, 0}, {0, 0, 4}}
	approxEq(t, m.Det(), 24.0, 0, "det(diag)")
}

func TestMat3TransposeInvolution(t *testing.T) {
	m := Mat3{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}
	if m.Transpose().Transpose() != m {
		t.Error("double transpose should be identity operation")
	}
}

func TestMat6MulVec6(t *testing.T) {
	var m Mat6
	for i := 0; i < 6; i++ {
		m[i][i] = 2
	}
	v := [6]float64{1, 2, 3, 4, 5, 6}
	got := m.MulVec6(v)
	for i := 0; i < 6; i++ {
		approxEq(t, got[i], 2*v[i], 0, "scaled component")
	}
}
