// Orrery - High-Precision Ephemeris and Attitude Query Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orrery

// Package spk decodes ephemeris kernel segments into interpolated
// position and velocity states.
//
// Supported segment encodings: type 2 (Chebyshev position), type 3
// (Chebyshev position and velocity), type 9 (Lagrange, unequal time
// steps), and type 13 (Hermite, unequal time steps). Each query reads
// only the trailer and the one interpolation window it needs from the
// underlying buffer.
package spk

import (
	"errors"
	"fmt"
	"sort"

	"github.com/tomtom215/orrery/internal/daf"
	"github.com/tomtom215/orrery/internal/interp"
	"github.com/tomtom215/orrery/internal/linalg"
)

// Segment encoding types.
const (
	TypeChebyshevPosition   = 2
	TypeChebyshevPosVel     = 3
	TypeLagrangeUnequalStep = 9
	TypeHermiteUnequalStep  = 13
)

// ErrUnsupportedType reports a segment encoding this package cannot
// decode.
var ErrUnsupportedType = errors.New("spk: unsupported segment type")

// epochTolS is the window edge tolerance for unequal-step segments,
// in seconds.
const epochTolS = 1e-7

// Summary reinterprets a generic DAF summary with the ephemeris
// integer layout.
type Summary struct {
	daf.Summary
}

// TargetID returns the id of the body this segment describes.
func (s Summary) TargetID() int { return int(s.Ints[0]) }

// CenterID returns the id the segment states are relative to.
func (s Summary) CenterID() int { return int(s.Ints[1]) }

// FrameID returns the orientation id the states are expressed in.
func (s Summary) FrameID() int { return int(s.Ints[2]) }

// DataType returns the segment encoding type.
func (s Summary) DataType() int { return int(s.Ints[3]) }

// StartIdx returns the one-based DAF address of the first double.
func (s Summary) StartIdx() int { return int(s.Ints[4]) }

// EndIdx returns the one-based DAF address of the last double.
func (s Summary) EndIdx() int { return int(s.Ints[5]) }

// State is an interpolated relative state in km and km/s.
type State struct {
	Pos      linalg.Vec3
	Vel      linalg.Vec3
	EpochET  float64
	CenterID int
	FrameID  int
}

// SPK is a loaded ephemeris kernel.
type SPK struct {
	file *daf.File
}

// Load parses the buffer and verifies it is an ephemeris kernel.
func Load(bytes []byte) (*SPK, error) {
	f, err := daf.Parse(bytes)
	if err != nil {
		return nil, err
	}
	if f.Kind() != daf.KindSPK {
		return nil, fmt.Errorf("%w: file kind is %v, want SPK", daf.ErrParse, f.Kind())
	}
	return &SPK{file: f}, nil
}

// Summaries returns every segment summary in file order.
func (k *SPK) Summaries() []Summary {
	raw := k.file.Summaries()
	out := make([]Summary, len(raw))
	for i, s := range raw {
		out[i] = Summary{s}
	}
	return out
}

// SummaryAtEpoch returns the segment covering (target, epoch).
func (k *SPK) SummaryAtEpoch(targetID int, epochET float64) (Summary, error) {
	s, err := k.file.SummaryAtEpoch(targetID, epochET)
	if err != nil {
		return Summary{}, err
	}
	return Summary{s}, nil
}

// StateAtEpoch interpolates the state of target relative to its
// segment center at the given epoch.
func (k *SPK) StateAtEpoch(targetID int, epochET float64) (State, error) {
	summary, err := k.SummaryAtEpoch(targetID, epochET)
	if err != nil {
		return State{}, err
	}

	var pos, vel linalg.Vec3
	switch summary.DataType() {
	case TypeChebyshevPosition:
		pos, vel, err = k.evalType2(summary, epochET)
	case TypeChebyshevPosVel:
		pos, vel, err = k.evalType3(summary, epochET)
	case TypeLagrangeUnequalStep:
		pos, vel, err = k.evalUnequalStep(summary, epochET, false)
	case TypeHermiteUnequalStep:
		pos, vel, err = k.evalUnequalStep(summary, epochET, true)
	default:
		err = fmt.Errorf("%w: type %d", ErrUnsupportedType, summary.DataType())
	}
	if err != nil {
		return State{}, fmt.Errorf("spk: target %d at %v: %w", targetID, epochET, err)
	}

	return State{
		Pos:      pos,
		Vel:      vel,
		EpochET:  epochET,
		CenterID: summary.CenterID(),
		FrameID:  summary.FrameID(),
	}, nil
}

// chebyshevRecord locates and reads the interpolation record covering
// the epoch in a type 2 or 3 segment.
func (k *SPK) chebyshevRecord(summary Summary, epochET float64) (rec []float64, radiusS float64, err error) {
	var trailer [4]float64
	if err := k.file.ReadF64s(summary.EndIdx()-3, trailer[:]); err != nil {
		return nil, 0, err
	}
	initET, intervalS := trailer[0], trailer[1]
	rsize, numRecords := int(trailer[2]), int(trailer[3])
	if intervalS <= 0 || rsize < 3 || numRecords < 1 {
		return nil, 0, fmt.Errorf("%w: implausible chebyshev trailer %v", daf.ErrParse, trailer)
	}

	splineIdx := int((epochET-initET)/intervalS) + 1
	if splineIdx > numRecords {
		splineIdx = numRecords
	}
	if splineIdx < 1 {
		splineIdx = 1
	}

	rec = make([]float64, rsize)
	if err := k.file.ReadF64s(summary.StartIdx()+(splineIdx-1)*rsize, rec); err != nil {
		return nil, 0, err
	}
	return rec, intervalS / 2, nil
}

func (k *SPK) evalType2(summary Summary, epochET float64) (pos, vel linalg.Vec3, err error) {
	rec, radiusS, err := k.chebyshevRecord(summary, epochET)
	if err != nil {
		return pos, vel, err
	}
	nCoeffs := (len(rec) - 2) / 3
	tNorm := (epochET - rec[0]) / radiusS
	for axis := 0; axis < 3; axis++ {
		coeffs := rec[2+axis*nCoeffs : 2+(axis+1)*nCoeffs]
		pos[axis], vel[axis], err = interp.Chebyshev(tNorm, coeffs, radiusS)
		if err != nil {
			return pos, vel, err
		}
	}
	return pos, vel, nil
}

func (k *SPK) evalType3(summary Summary, epochET float64) (pos, vel linalg.Vec3, err error) {
	rec, radiusS, err := k.chebyshevRecord(summary, epochET)
	if err != nil {
		return pos, vel, err
	}
	nCoeffs := (len(rec) - 2) / 6
	tNorm := (epochET - rec[0]) / radiusS
	for set := 0; set < 6; set++ {
		coeffs := rec[2+set*nCoeffs : 2+(set+1)*nCoeffs]
		v, err := interp.ChebyshevValue(tNorm, coeffs)
		if err != nil {
			return pos, vel, err
		}
		if set < 3 {
			pos[set] = v
		} else {
			vel[set-3] = v
		}
	}
	return pos, vel, nil
}

// evalUnequalStep handles the discrete-state segment types: records of
// six doubles, a parallel epoch array, an optional epoch directory,
// and a two-double trailer.
func (k *SPK) evalUnequalStep(summary Summary, epochET float64, hermite bool) (pos, vel linalg.Vec3, err error) {
	var trailer [2]float64
	if err := k.file.ReadF64s(summary.EndIdx()-1, trailer[:]); err != nil {
		return pos, vel, err
	}
	numRecords := int(trailer[1])
	// Type 13 stores the window size minus one, type 9 the polynomial
	// degree. Both mean the window holds one more record than that.
	samples := int(trailer[0]) + 1
	if numRecords < 1 || samples < 1 || samples > interp.MaxSamples {
		return pos, vel, fmt.Errorf("%w: implausible discrete-state trailer %v", daf.ErrParse, trailer)
	}

	epochs := make([]float64, numRecords)
	if err := k.file.ReadF64s(summary.StartIdx()+numRecords*6, epochs); err != nil {
		return pos, vel, err
	}
	if epochET < epochs[0]-epochTolS || epochET > epochs[numRecords-1]+epochTolS {
		return pos, vel, fmt.Errorf("%w: epoch %v outside tabulated range [%v, %v]",
			daf.ErrNotFound, epochET, epochs[0], epochs[numRecords-1])
	}

	// Exact tabulated epoch: return the record as-is.
	idx := sort.SearchFloat64s(epochs, epochET)
	if idx < numRecords && epochs[idx] == epochET {
		var st [6]float64
		if err := k.file.ReadF64s(summary.StartIdx()+idx*6, st[:]); err != nil {
			return pos, vel, err
		}
		return linalg.Vec3{st[0], st[1], st[2]}, linalg.Vec3{st[3], st[4], st[5]}, nil
	}

	// Center the window on the insertion point, clamped to the record
	// range. Both edges keep the full sample count when enough records
	// exist.
	firstIdx := idx - samples/2
	if firstIdx < 0 {
		firstIdx = 0
	}
	if firstIdx+samples > numRecords {
		firstIdx = numRecords - samples
		if firstIdx < 0 {
			firstIdx = 0
		}
	}
	count := numRecords - firstIdx
	if count > samples {
		count = samples
	}

	states := make([]float64, count*6)
	if err := k.file.ReadF64s(summary.StartIdx()+firstIdx*6, states); err != nil {
		return pos, vel, err
	}

	var xs [interp.MaxSamples]float64
	var ys, yds [interp.MaxSamples]float64
	copy(xs[:count], epochs[firstIdx:firstIdx+count])

	for axis := 0; axis < 3; axis++ {
		for i := 0; i < count; i++ {
			ys[i] = states[i*6+axis]
			yds[i] = states[i*6+3+axis]
		}
		if hermite {
			pos[axis], vel[axis], err = interp.Hermite(xs[:count], ys[:count], yds[:count], epochET)
		} else {
			pos[axis], _, err = interp.Lagrange(xs[:count], ys[:count], epochET)
			if err == nil {
				vel[axis], _, err = interp.Lagrange(xs[:count], yds[:count], epochET)
			}
		}
		if err != nil {
			return pos, vel, err
		}
	}

	return pos, vel, nil
}
