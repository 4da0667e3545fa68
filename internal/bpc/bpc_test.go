// Orrery - High-Precision Ephemeris and Attitude Query Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orrery

package bpc

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/tomtom215/orrery/internal/daf"
	"github.com/tomtom215/orrery/internal/rotation"
	"github.com/tomtom215/orrery/internal/testkernels"
)

// spinningBody builds an orientation kernel for frame 3000 relative to
// J2000 with fixed pole angles and a linearly increasing twist.
func spinningBody(order binary.ByteOrder) []byte {
	// One record over [0, 200]: midpoint 100, radius 100. Twist is
	// 0.5 + 0.002*(t-100), encoded as c0 + c1*T1(tnorm).
	coeffs := [][3][]float64{{
		{0.3, 0},   // right ascension
		{-0.2, 0},  // declination
		{0.5, 0.2}, // twist
	}}
	return testkernels.BuildBPC(order, []testkernels.Segment{{
		Name: "TEST SPINNER", Target: 3000, Center: 1, DataType: TypeChebyshevTriplet,
		StartET: 0, EndET: 200,
		Data: testkernels.Type2Data(0, 200, coeffs),
	}})
}

func TestRotationAtEpochComposesEulerAngles(t *testing.T) {
	k, err := Load(spinningBody(binary.LittleEndian))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	dcm, err := k.RotationAtEpoch(3000, 150)
	if err != nil {
		t.Fatalf("RotationAtEpoch: %v", err)
	}
	if dcm.From != 1 || dcm.To != 3000 {
		t.Fatalf("frames = %d -> %d, want 1 -> 3000", dcm.From, dcm.To)
	}
	if !dcm.HasDt {
		t.Fatal("type 2 segment should produce a derivative")
	}
	if !dcm.IsValid(rotation.UnitTol, rotation.DetTol) {
		t.Fatal("decoded rotation failed validity check")
	}

	// tnorm = 0.5, so twist = 0.5 + 0.2*0.5.
	twist := 0.6
	want := rotation.R3(twist, 0, 0).Rot.
		Mul(rotation.R1(-0.2, 0, 0).Rot).
		Mul(rotation.R3(0.3, 0, 0).Rot)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(dcm.Rot[i][j]-want[i][j]) > 1e-14 {
				t.Fatalf("[%d][%d] = %v, want %v", i, j, dcm.Rot[i][j], want[i][j])
			}
		}
	}
}

func TestRotationDerivativeMatchesFiniteDifference(t *testing.T) {
	k, err := Load(spinningBody(binary.LittleEndian))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	const h = 1e-3
	at, err := k.RotationAtEpoch(3000, 120)
	if err != nil {
		t.Fatal(err)
	}
	plus, err := k.RotationAtEpoch(3000, 120+h)
	if err != nil {
		t.Fatal(err)
	}
	minus, err := k.RotationAtEpoch(3000, 120-h)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			numeric := (plus.Rot[i][j] - minus.Rot[i][j]) / (2 * h)
			if math.Abs(at.RotDt[i][j]-numeric) > 1e-8 {
				t.Fatalf("[%d][%d] dt = %v, finite difference %v", i, j, at.RotDt[i][j], numeric)
			}
		}
	}
}

func TestRotationEndiannessEquivalence(t *testing.T) {
	little, err := Load(spinningBody(binary.LittleEndian))
	if err != nil {
		t.Fatal(err)
	}
	big, err := Load(spinningBody(binary.BigEndian))
	if err != nil {
		t.Fatal(err)
	}
	ld, err := little.RotationAtEpoch(3000, 77)
	if err != nil {
		t.Fatal(err)
	}
	bd, err := big.RotationAtEpoch(3000, 77)
	if err != nil {
		t.Fatal(err)
	}
	if ld != bd {
		t.Fatalf("rotations differ across byte orders:\n%+v\n%+v", ld, bd)
	}
}

func TestRotationOutsideWindow(t *testing.T) {
	k, err := Load(spinningBody(binary.LittleEndian))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := k.RotationAtEpoch(3000, 500); !errors.Is(err, daf.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if _, err := k.RotationAtEpoch(9999, 100); !errors.Is(err, daf.ErrNotFound) {
		t.Fatalf("unknown frame: err = %v, want ErrNotFound", err)
	}
}

func TestUnsupportedOrientationType(t *testing.T) {
	buf := testkernels.BuildBPC(binary.LittleEndian, []testkernels.Segment{{
		Name: "TEST TYPE 3", Target: 3001, Center: 1, DataType: 3,
		StartET: 0, EndET: 10,
		Data: []float64{0},
	}})
	k, err := Load(buf)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := k.RotationAtEpoch(3001, 5); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("err = %v, want ErrUnsupportedType", err)
	}
}

func TestLoadRejectsEphemerisKernel(t *testing.T) {
	buf := testkernels.BuildSPK(binary.LittleEndian, []testkernels.Segment{{
		Name: "NOT A PCK", Target: 301, Center: 3, Frame: 1, DataType: 13,
		StartET: 0, EndET: 1,
		Data: []float64{1, 2, 3, 4, 5, 6, 0, 0, 1},
	}})
	if _, err := Load(buf); !errors.Is(err, daf.ErrParse) {
		t.Fatalf("err = %v, want ErrParse", err)
	}
}
