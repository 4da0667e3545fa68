// Orrery - High-Precision Ephemeris and Attitude Query Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orrery

package interp

import (
	"errors"
	"math"
	"testing"
)

func checkClose(t *testing.T, got, want, tol float64, what string) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s = %v, want %v (|diff| = %v)", what, got, want, math.Abs(got-want))
	}
}

// Nodes sampled from f(x) = x^7 + 2x^2 + 5, the unique degree-7
// polynomial fitting four (value, derivative) pairs.
var septicXs = []float64{-1, 0, 3, 5}
var septicYs = []float64{6, 5, 2210, 78180}
var septicYdots = []float64{3, 0, 5115, 109395}

func TestHermiteSepticFit(t *testing.T) {
	val, deriv, err := Hermite(septicXs, septicYs, septicYdots, 2)
	if err != nil {
		t.Fatalf("Hermite: %v", err)
	}
	checkClose(t, val, 141.0, 1e-9, "value at x=2")
	checkClose(t, deriv, 456.0, 1e-9, "derivative at x=2")
}

func TestHermiteReproducesNodes(t *testing.T) {
	for i, x := range septicXs {
		val, deriv, err := Hermite(septicXs, septicYs, septicYdots, x)
		if err != nil {
			t.Fatalf("Hermite at node %d: %v", i, err)
		}
		checkClose(t, val, septicYs[i], 1e-8, "node value")
		checkClose(t, deriv, septicYdots[i], 1e-7, "node derivative")
	}
}

func TestHermiteDuplicateAbscissa(t *testing.T) {
	xs := []float64{0, 1, 1, 2}
	ys := []float64{0, 1, 1, 4}
	yd := []float64{0, 2, 2, 4}
	_, _, err := Hermite(xs, ys, yd, 0.5)
	if !errors.Is(err, ErrDuplicateAbscissa) {
		t.Fatalf("err = %v, want ErrDuplicateAbscissa", err)
	}
}

func TestHermiteWindowSize(t *testing.T) {
	_, _, err := Hermite(nil, nil, nil, 0)
	if !errors.Is(err, ErrWindowSize) {
		t.Fatalf("empty window: err = %v, want ErrWindowSize", err)
	}

	big := make([]float64, MaxSamples+1)
	_, _, err = Hermite(big, big, big, 0)
	if !errors.Is(err, ErrWindowSize) {
		t.Fatalf("oversized window: err = %v, want ErrWindowSize", err)
	}
}

func TestLagrangeQuadratic(t *testing.T) {
	// f(x) = x^2 - 3x + 2 on four nodes.
	f := func(x float64) float64 { return x*x - 3*x + 2 }
	xs := []float64{-2, 0, 1, 4}
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = f(x)
	}

	for _, x := range []float64{-1.5, 0.25, 2, 3.9} {
		val, deriv, err := Lagrange(xs, ys, x)
		if err != nil {
			t.Fatalf("Lagrange(%v): %v", x, err)
		}
		checkClose(t, val, f(x), 1e-12, "value")
		checkClose(t, deriv, 2*x-3, 1e-12, "derivative")
	}
}

func TestLagrangeDuplicateAbscissa(t *testing.T) {
	_, _, err := Lagrange([]float64{1, 1, 2}, []float64{0, 0, 1}, 1.5)
	if !errors.Is(err, ErrDuplicateAbscissa) {
		t.Fatalf("err = %v, want ErrDuplicateAbscissa", err)
	}
}

func TestChebyshevKnownSeries(t *testing.T) {
	// T0 + 2*T1 + 3*T2 evaluated directly: 1 + 2t + 3(2t^2 - 1).
	coeffs := []float64{1, 2, 3}
	radius := 10.0
	for _, tn := range []float64{-1, -0.3, 0, 0.5, 1} {
		val, deriv, err := Chebyshev(tn, coeffs, radius)
		if err != nil {
			t.Fatalf("Chebyshev(%v): %v", tn, err)
		}
		wantVal := 1 + 2*tn + 3*(2*tn*tn-1)
		wantDeriv := (2 + 12*tn) / radius
		checkClose(t, val, wantVal, 1e-14, "value")
		checkClose(t, deriv, wantDeriv, 1e-14, "derivative")
	}
}

func TestChebyshevHighOrderMatchesTrigForm(t *testing.T) {
	// T_n(cos theta) = cos(n theta), T_n'(t) = n sin(n theta)/sin(theta).
	coeffs := []float64{0.5, -1.2, 2.0, 0.7, -0.3, 0.05}
	for _, tn := range []float64{-0.95, -0.4, 0.1, 0.6, 0.875} {
		theta := math.Acos(tn)
		var wantVal, wantDeriv float64
		for n, c := range coeffs {
			wantVal += c * math.Cos(float64(n)*theta)
			if n > 0 {
				wantDeriv += c * float64(n) * math.Sin(float64(n)*theta) / math.Sin(theta)
			}
		}
		val, deriv, err := Chebyshev(tn, coeffs, 1)
		if err != nil {
			t.Fatalf("Chebyshev(%v): %v", tn, err)
		}
		checkClose(t, val, wantVal, 1e-12, "value")
		checkClose(t, deriv, wantDeriv, 1e-11, "derivative")
	}
}

func TestChebyshevValueMatchesFull(t *testing.T) {
	coeffs := []float64{4, -2, 0.5, 1.25, -0.75}
	for _, tn := range []float64{-0.9, -0.1, 0.4, 0.99} {
		full, _, err := Chebyshev(tn, coeffs, 1)
		if err != nil {
			t.Fatalf("Chebyshev: %v", err)
		}
		only, err := ChebyshevValue(tn, coeffs)
		if err != nil {
			t.Fatalf("ChebyshevValue: %v", err)
		}
		checkClose(t, only, full, 1e-14, "value-only evaluation")
	}
}

func TestChebyshevZeroRadius(t *testing.T) {
	_, _, err := Chebyshev(0, []float64{1}, 0)
	if !errors.Is(err, ErrZeroRadius) {
		t.Fatalf("err = %v, want ErrZeroRadius", err)
	}
}

func TestEvaluatorsAreDeterministic(t *testing.T) {
	v1, d1, err := Hermite(septicXs, septicYs, septicYdots, 2.5)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 100; i++ {
		v2, d2, err := Hermite(septicXs, septicYs, septicYdots, 2.5)
		if err != nil {
			t.Fatal(err)
		}
		if v1 != v2 || d1 != d2 {
			t.Fatalf("iteration %d: results drifted: (%v,%v) vs (%v,%v)", i, v1, d1, v2, d2)
		}
	}
}
