// Orrery - High-Precision Ephemeris and Attitude Query Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orrery

// Package interp implements the polynomial evaluators that reconstruct
// continuous state from tabulated segment coefficients: Chebyshev
// series, Hermite divided differences, and Lagrange interpolation.
//
// Every function is a pure, deterministic function of its inputs.
// Results are validated against a reference implementation to near
// machine precision, so the recurrences below must not be "improved"
// with algebraically equivalent but differently-rounded forms.
package interp

import (
	"errors"
	"fmt"
)

// MaxSamples is the widest interpolation window any segment type may
// request. Work arrays are stack-allocated at this bound.
const MaxSamples = 32

// epsilon is the double-precision machine epsilon, used to detect
// degenerate abscissa spacing.
const epsilon = 2.220446049250313e-16

var (
	// ErrZeroRadius reports a Chebyshev record whose interval radius
	// vanishes, which would divide the derivative by zero.
	ErrZeroRadius = errors.New("interp: chebyshev radius is zero")

	// ErrDuplicateAbscissa reports two interpolation nodes closer than
	// machine epsilon.
	ErrDuplicateAbscissa = errors.New("interp: duplicate abscissa")

	// ErrWindowSize reports a window that is empty or wider than
	// MaxSamples.
	ErrWindowSize = errors.New("interp: invalid window size")
)

// Chebyshev evaluates a Chebyshev series and its time derivative at
// normalized abscissa t in [-1, 1] using the Clenshaw recurrence.
// radiusS is the record interval radius in seconds; the derivative is
// returned with respect to unnormalized time.
func Chebyshev(t float64, coeffs []float64, radiusS float64) (val, deriv float64, err error) {
	if radiusS > -epsilon && radiusS < epsilon {
		return 0, 0, ErrZeroRadius
	}
	if len(coeffs) == 0 {
		return 0, 0, fmt.Errorf("%w: no coefficients", ErrWindowSize)
	}

	var w, dw [3]float64
	for j := len(coeffs); j >= 2; j-- {
		w[2], w[1] = w[1], w[0]
		dw[2], dw[1] = dw[1], dw[0]
		w[0] = coeffs[j-1] + 2*t*w[1] - w[2]
		dw[0] = 2*w[1] + 2*t*dw[1] - dw[2]
	}
	val = coeffs[0] + t*w[0] - w[1]
	deriv = (w[0] + t*dw[0] - dw[1]) / radiusS
	return val, deriv, nil
}

// ChebyshevValue evaluates a Chebyshev series at normalized abscissa t
// without forming the derivative, for records that tabulate velocity
// as its own coefficient set.
func ChebyshevValue(t float64, coeffs []float64) (float64, error) {
	if len(coeffs) == 0 {
		return 0, fmt.Errorf("%w: no coefficients", ErrWindowSize)
	}
	var w [3]float64
	for j := len(coeffs); j >= 2; j-- {
		w[2], w[1] = w[1], w[0]
		w[0] = coeffs[j-1] + 2*t*w[1] - w[2]
	}
	return t*w[0] - w[1] + coeffs[0], nil
}

// Hermite interpolates nodes with known function values and first
// derivatives, returning the value and derivative of the unique
// osculating polynomial at x.
//
// The construction is the classical divided-difference table over
// doubled abscissas with the derivative column seeded from ydots.
func Hermite(xs, ys, ydots []float64, x float64) (val, deriv float64, err error) {
	n := len(xs)
	switch {
	case n == 0 || n > MaxSamples:
		return 0, 0, fmt.Errorf("%w: %d nodes", ErrWindowSize, n)
	case len(ys) != n || len(ydots) != n:
		return 0, 0, fmt.Errorf("%w: mismatched node arrays", ErrWindowSize)
	}

	var work [4 * MaxSamples * 2]float64
	for i := 0; i < n; i++ {
		work[2*i] = ys[i]
		work[2*i+1] = ydots[i]
	}

	// First column: linear terms from each interval, with the known
	// derivatives interleaved.
	for i := 1; i < n; i++ {
		c1 := xs[i] - x
		c2 := x - xs[i-1]
		denom := xs[i] - xs[i-1]
		if denom > -epsilon && denom < epsilon {
			return 0, 0, fmt.Errorf("%w: xs[%d]=%v, xs[%d]=%v", ErrDuplicateAbscissa, i-1, xs[i-1], i, xs[i])
		}
		prev := 2*i - 1
		curr := 2 * i
		work[prev+2*n-1] = work[prev]
		work[prev+2*n] = (work[curr] - work[prev-1]) / denom
		temp := work[prev]*(x-xs[i-1]) + work[prev-1]
		work[prev] = (c1*work[prev-1] + c2*work[curr]) / denom
		work[prev-1] = temp
	}

	work[4*n-2] = work[2*n-1]
	work[2*(n-1)] += work[2*n-1] * (x - xs[n-1])

	// Remaining columns of the divided-difference triangle, carrying
	// the derivative table alongside.
	for j := 2; j < 2*n; j++ {
		for i := 1; i < 2*n-j+1; i++ {
			xi := (i + 1) / 2
			xij := (i + j + 1) / 2
			c1 := xs[xij-1] - x
			c2 := x - xs[xi-1]
			denom := xs[xij-1] - xs[xi-1]
			if denom > -epsilon && denom < epsilon {
				return 0, 0, fmt.Errorf("%w: xs[%d]=%v, xs[%d]=%v", ErrDuplicateAbscissa, xi-1, xs[xi-1], xij-1, xs[xij-1])
			}
			work[i+2*n-1] = (c1*work[i+2*n-1] + c2*work[i+2*n] + (work[i] - work[i-1])) / denom
			work[i-1] = (c1*work[i-1] + c2*work[i]) / denom
		}
	}

	return work[0], work[2*n], nil
}

// Lagrange interpolates nodes with known function values, returning
// the value and derivative of the interpolating polynomial at x via
// Neville's scheme with a parallel derivative table.
func Lagrange(xs, ys []float64, x float64) (val, deriv float64, err error) {
	n := len(xs)
	switch {
	case n == 0 || n > MaxSamples:
		return 0, 0, fmt.Errorf("%w: %d nodes", ErrWindowSize, n)
	case len(ys) != n:
		return 0, 0, fmt.Errorf("%w: mismatched node arrays", ErrWindowSize)
	}

	var work, dwork [MaxSamples]float64
	copy(work[:n], ys)

	for j := 1; j < n; j++ {
		for i := 0; i < n-j; i++ {
			xi := xs[i]
			xij := xs[i+j]
			denom := xi - xij
			if denom > -epsilon && denom < epsilon {
				return 0, 0, fmt.Errorf("%w: xs[%d]=%v, xs[%d]=%v", ErrDuplicateAbscissa, i, xi, i+j, xij)
			}
			workI := work[i]
			workIp1 := work[i+1]
			work[i] = ((x-xij)*workI + (xi-x)*workIp1) / denom
			dwork[i] = ((x-xij)*dwork[i]+(xi-x)*dwork[i+1])/denom + (workI-workIp1)/denom
		}
	}

	return work[0], dwork[0], nil
}
