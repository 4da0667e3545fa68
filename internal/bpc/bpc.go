// Orrery - High-Precision Ephemeris and Attitude Query Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orrery

// Package bpc decodes binary orientation kernel segments into
// direction cosine matrices.
//
// A type 2 segment tabulates Chebyshev coefficients for the three
// Euler angles (right ascension, declination, prime meridian twist) of
// a body-fixed frame relative to an inertial frame. Evaluating the
// series and its derivative yields both the rotation and its time
// derivative.
package bpc

import (
	"errors"
	"fmt"

	"github.com/tomtom215/orrery/internal/daf"
	"github.com/tomtom215/orrery/internal/interp"
	"github.com/tomtom215/orrery/internal/rotation"
)

// TypeChebyshevTriplet is the supported orientation segment encoding.
const TypeChebyshevTriplet = 2

// ErrUnsupportedType reports a segment encoding this package cannot
// decode.
var ErrUnsupportedType = errors.New("bpc: unsupported segment type")

// Summary reinterprets a generic DAF summary with the orientation
// integer layout.
type Summary struct {
	daf.Summary
}

// FrameID returns the body-fixed frame id this segment describes.
func (s Summary) FrameID() int { return int(s.Ints[0]) }

// InertialFrameID returns the frame the rotation is relative to.
func (s Summary) InertialFrameID() int { return int(s.Ints[1]) }

// DataType returns the segment encoding type.
func (s Summary) DataType() int { return int(s.Ints[2]) }

// StartIdx returns the one-based DAF address of the first double.
func (s Summary) StartIdx() int { return int(s.Ints[3]) }

// EndIdx returns the one-based DAF address of the last double.
func (s Summary) EndIdx() int { return int(s.Ints[4]) }

// BPC is a loaded orientation kernel.
type BPC struct {
	file *daf.File
}

// Load parses the buffer and verifies it is an orientation kernel.
func Load(bytes []byte) (*BPC, error) {
	f, err := daf.Parse(bytes)
	if err != nil {
		return nil, err
	}
	if f.Kind() != daf.KindPCK {
		return nil, fmt.Errorf("%w: file kind is %v, want PCK", daf.ErrParse, f.Kind())
	}
	return &BPC{file: f}, nil
}

// Summaries returns every segment summary in file order.
func (k *BPC) Summaries() []Summary {
	raw := k.file.Summaries()
	out := make([]Summary, len(raw))
	for i, s := range raw {
		out[i] = Summary{s}
	}
	return out
}

// SummaryAtEpoch returns the segment covering (frame, epoch).
func (k *BPC) SummaryAtEpoch(frameID int, epochET float64) (Summary, error) {
	s, err := k.file.SummaryAtEpoch(frameID, epochET)
	if err != nil {
		return Summary{}, err
	}
	return Summary{s}, nil
}

// RotationAtEpoch evaluates the rotation from the segment's inertial
// frame to the body-fixed frame at the given epoch, including its time
// derivative.
func (k *BPC) RotationAtEpoch(frameID int, epochET float64) (rotation.DCM, error) {
	summary, err := k.SummaryAtEpoch(frameID, epochET)
	if err != nil {
		return rotation.DCM{}, err
	}
	if summary.DataType() != TypeChebyshevTriplet {
		return rotation.DCM{}, fmt.Errorf("bpc: frame %d at %v: %w: type %d",
			frameID, epochET, ErrUnsupportedType, summary.DataType())
	}

	raRad, raDot, decRad, decDot, wRad, wDot, err := k.evalAngles(summary, epochET)
	if err != nil {
		return rotation.DCM{}, fmt.Errorf("bpc: frame %d at %v: %w", frameID, epochET, err)
	}

	inertial := summary.InertialFrameID()
	r3w := rotation.R3(wRad, inertial, frameID)
	r1dec := rotation.R1(decRad, inertial, frameID)
	r3ra := rotation.R3(raRad, inertial, frameID)

	rot := r3w.Rot.Mul(r1dec.Rot).Mul(r3ra.Rot)
	rotDt := rotation.R3Dot(wRad).Scale(wDot).Mul(r1dec.Rot).Mul(r3ra.Rot).
		Add(r3w.Rot.Mul(rotation.R1Dot(decRad).Scale(decDot)).Mul(r3ra.Rot)).
		Add(r3w.Rot.Mul(r1dec.Rot).Mul(rotation.R3Dot(raRad).Scale(raDot)))

	return rotation.DCM{
		Rot:   rot,
		RotDt: rotDt,
		HasDt: true,
		From:  inertial,
		To:    frameID,
	}, nil
}

// evalAngles reads the record covering the epoch and evaluates the
// three angle series and their rates.
func (k *BPC) evalAngles(summary Summary, epochET float64) (ra, raDot, dec, decDot, w, wDot float64, err error) {
	var trailer [4]float64
	if err = k.file.ReadF64s(summary.EndIdx()-3, trailer[:]); err != nil {
		return
	}
	initET, intervalS := trailer[0], trailer[1]
	rsize, numRecords := int(trailer[2]), int(trailer[3])
	if intervalS <= 0 || rsize < 3 || numRecords < 1 {
		err = fmt.Errorf("%w: implausible chebyshev trailer %v", daf.ErrParse, trailer)
		return
	}

	splineIdx := int((epochET-initET)/intervalS) + 1
	if splineIdx > numRecords {
		splineIdx = numRecords
	}
	if splineIdx < 1 {
		splineIdx = 1
	}

	rec := make([]float64, rsize)
	if err = k.file.ReadF64s(summary.StartIdx()+(splineIdx-1)*rsize, rec); err != nil {
		return
	}

	radiusS := intervalS / 2
	tNorm := (epochET - rec[0]) / radiusS
	nCoeffs := (rsize - 2) / 3

	vals := [3]float64{}
	rates := [3]float64{}
	for angle := 0; angle < 3; angle++ {
		coeffs := rec[2+angle*nCoeffs : 2+(angle+1)*nCoeffs]
		vals[angle], rates[angle], err = interp.Chebyshev(tNorm, coeffs, radiusS)
		if err != nil {
			return
		}
	}
	return vals[0], rates[0], vals[1], rates[1], vals[2], rates[2], nil
}
