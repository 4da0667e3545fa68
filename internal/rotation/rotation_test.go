// Orrery - High-Precision Ephemeris and Attitude Query Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orrery

package rotation

import (
	"errors"
	"math"
	"testing"

	"github.com/tomtom215/orrery/internal/linalg"
)

func matClose(t *testing.T, got, want linalg.Mat3, tol float64, what string) {
	t.Helper()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(got[i][j]-want[i][j]) > tol {
				t.Fatalf("%s: [%d][%d] = %v, want %v", what, i, j, got[i][j], want[i][j])
			}
		}
	}
}

func TestAxisRotationsAreValid(t *testing.T) {
	angles := []float64{-math.Pi, -1.234, 0, 0.5, math.Pi / 2, 3}
	for _, a := range angles {
		for name, d := range map[string]DCM{
			"R1": R1(a, 1, 2),
			"R2": R2(a, 1, 2),
			"R3": R3(a, 1, 2),
		} {
			if !d.IsValid(UnitTol, DetTol) {
				t.Errorf("%s(%v) failed validity check", name, a)
			}
		}
	}
	if !IdentityDCM(1, 1).IsValid(UnitTol, DetTol) {
		t.Error("identity failed validity check")
	}
}

func TestIsValidRejectsRescaledColumn(t *testing.T) {
	d := R3(0.7, 1, 2)
	for i := 0; i < 3; i++ {
		d.Rot[i][0] *= 1.1
	}
	if d.IsValid(UnitTol, DetTol) {
		t.Fatal("rescaled column should fail validity check")
	}
}

func TestDCMComposition(t *testing.T) {
	a := R3(0.3, 1, 2)
	b := R1(0.4, 2, 3)

	// b then a in vector terms: compose as b * a.
	ba, err := b.Mul(a)
	if err != nil {
		t.Fatalf("Mul: %v", err)
	}
	if ba.From != 1 || ba.To != 3 {
		t.Fatalf("composed frames = %d -> %d, want 1 -> 3", ba.From, ba.To)
	}
	if !ba.IsValid(UnitTol, DetTol) {
		t.Fatal("composed matrix failed validity check")
	}

	// Mismatched chain must fail.
	if _, err := a.Mul(b); !errors.Is(err, ErrFrameMismatch) {
		t.Fatalf("err = %v, want ErrFrameMismatch", err)
	}
}

func TestDCMTransposeIsInverse(t *testing.T) {
	d := R2(1.1, 4, 5)
	prod, err := d.Transpose().Mul(d)
	if err != nil {
		t.Fatalf("Mul: %v", err)
	}
	matClose(t, prod.Rot, linalg.Identity3(), 1e-15, "R^T R")
	if prod.From != 4 || prod.To != 4 {
		t.Fatalf("R^T R frames = %d -> %d, want 4 -> 4", prod.From, prod.To)
	}
}

func TestTransportTheoremDerivative(t *testing.T) {
	// Two time-varying single-axis rotations; the composed derivative
	// must match a central finite difference.
	const h = 1e-6
	build := func(ts float64) DCM {
		a := R3(0.2*ts, 1, 2)
		a.RotDt = R3Dot(0.2 * ts).Scale(0.2)
		a.HasDt = true
		b := R1(0.5*ts, 2, 3)
		b.RotDt = R1Dot(0.5 * ts).Scale(0.5)
		b.HasDt = true
		out, err := b.Mul(a)
		if err != nil {
			t.Fatalf("Mul: %v", err)
		}
		return out
	}

	at := build(10.0)
	if !at.HasDt {
		t.Fatal("composed rotation should carry a derivative")
	}
	plus := build(10.0 + h)
	minus := build(10.0 - h)
	numeric := plus.Rot.Add(minus.Rot.Scale(-1)).Scale(1 / (2 * h))
	matClose(t, at.RotDt, numeric, 1e-6, "transport theorem derivative")
}

func TestQuaternionMatchesDCMComposition(t *testing.T) {
	qa := AboutZ(0.3, 1, 2)
	qb := AboutX(0.4, 2, 3)
	qab, err := qa.Mul(qb)
	if err != nil {
		t.Fatalf("quaternion Mul: %v", err)
	}

	da := R3(0.3, 1, 2)
	db := R1(0.4, 2, 3)
	dab, err := db.Mul(da)
	if err != nil {
		t.Fatalf("DCM Mul: %v", err)
	}

	matClose(t, qab.DCM().Rot, dab.Rot, 1e-14, "quaternion vs matrix composition")
}

func TestQuaternionDCMRoundTrip(t *testing.T) {
	cases := []Quaternion{
		IdentityQuaternion(1, 2),
		AboutX(0.1, 1, 2),
		AboutY(2.7, 1, 2),
		AboutZ(-1.9, 1, 2),
		NewQuaternion(0.4, -0.3, 0.5, 0.7, 1, 2),
		// Near 180 degree rotations exercise the non-scalar branches
		// of the matrix-to-quaternion conversion.
		AboutX(math.Pi-1e-4, 1, 2),
		AboutY(math.Pi-1e-4, 1, 2),
		AboutZ(math.Pi-1e-4, 1, 2),
	}
	for i, q := range cases {
		back := QuaternionFromDCM(q.DCM())
		// q and -q encode the same rotation.
		sign := 1.0
		if q.W*back.W+q.X*back.X+q.Y*back.Y+q.Z*back.Z < 0 {
			sign = -1.0
		}
		for _, d := range []float64{back.W*sign - q.W, back.X*sign - q.X, back.Y*sign - q.Y, back.Z*sign - q.Z} {
			if math.Abs(d) > 1e-12 {
				t.Fatalf("case %d: round trip drifted by %v", i, d)
			}
		}
	}
}

func TestQuaternionConjugate(t *testing.T) {
	q := AboutZ(1.2, 7, 8)
	c := q.Conjugate()
	if c.From != 8 || c.To != 7 {
		t.Fatalf("conjugate frames = %d -> %d, want 8 -> 7", c.From, c.To)
	}
	prod, err := q.Mul(c)
	if err != nil {
		t.Fatalf("Mul: %v", err)
	}
	if math.Abs(prod.W-1) > 1e-15 || math.Abs(prod.X)+math.Abs(prod.Y)+math.Abs(prod.Z) > 1e-15 {
		t.Fatalf("q * conj(q) = %+v, want identity", prod)
	}
}

func TestMRPRoundTrip(t *testing.T) {
	for _, q := range []Quaternion{
		AboutX(0.8, 1, 2),
		AboutZ(-2.2, 1, 2),
		NewQuaternion(0.9, 0.1, -0.2, 0.3, 1, 2),
	} {
		m, err := MRPFromQuaternion(q)
		if err != nil {
			t.Fatalf("MRPFromQuaternion: %v", err)
		}
		back := m.Quaternion()
		matClose(t, back.DCM().Rot, q.DCM().Rot, 1e-13, "MRP round trip")
	}
}

func TestMRPShadowSameAttitude(t *testing.T) {
	q := AboutY(2.9, 1, 2)
	m, err := MRPFromQuaternion(q)
	if err != nil {
		t.Fatal(err)
	}
	matClose(t, m.Shadow().Quaternion().DCM().Rot, q.DCM().Rot, 1e-12, "shadow set attitude")
}

func TestMRPSingularity(t *testing.T) {
	// A rotation of 2*pi has scalar part -1, the MRP singularity.
	q := Quaternion{W: -1, From: 1, To: 2}
	if _, err := MRPFromQuaternion(q); !errors.Is(err, ErrSingularMRP) {
		t.Fatalf("err = %v, want ErrSingularMRP", err)
	}
}

func TestStateDCMBlocks(t *testing.T) {
	d := R3(0.4, 1, 2)
	d.RotDt = R3Dot(0.4)
	d.HasDt = true
	s := d.StateDCM()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if s[i][j] != d.Rot[i][j] || s[i+3][j+3] != d.Rot[i][j] {
				t.Fatal("diagonal blocks should carry the rotation")
			}
			if s[i+3][j] != d.RotDt[i][j] {
				t.Fatal("lower-left block should carry the derivative")
			}
			if s[i][j+3] != 0 {
				t.Fatal("upper-right block should be zero")
			}
		}
	}
}
