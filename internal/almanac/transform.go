// Orrery - High-Precision Ephemeris and Attitude Query Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orrery

package almanac

import (
	"fmt"

	"github.com/tomtom215/orrery/internal/frames"
	"github.com/tomtom215/orrery/internal/rotation"
)

// RotateState applies d to s. The velocity picks up the transport
// term when d carries a derivative.
func RotateState(d rotation.DCM, s State) (State, error) {
	if d.From != s.Frame.OrientationID {
		return State{}, fmt.Errorf("%w: state in %d, rotation from %d", rotation.ErrFrameMismatch, s.Frame.OrientationID, d.From)
	}
	out := s
	out.Pos = d.Rot.MulVec(s.Pos)
	out.Vel = d.Rot.MulVec(s.Vel)
	if d.HasDt {
		out.Vel = out.Vel.Add(d.RotDt.MulVec(s.Pos))
	}
	out.Frame = s.Frame.WithOrient(d.To)
	return out, nil
}

// Transform returns the state of target as seen from observer,
// translated and then rotated into the observer's orientation.
// Rotation is applied strictly after the aberration corrected
// translation.
func (a *Almanac) Transform(target, observer frames.Frame, epochET float64, ab Aberration) (State, error) {
	state, err := a.Translate(target, observer, epochET, ab)
	if err != nil {
		return State{}, err
	}
	dcm, err := a.Rotate(target, observer, epochET)
	if err != nil {
		return State{}, err
	}
	return RotateState(dcm, state)
}

// TransformTo rewrites state as seen from the requested frame,
// translating then rotating.
func (a *Almanac) TransformTo(state State, to frames.Frame, ab Aberration) (State, error) {
	translated, err := a.TranslateTo(state, to, ab)
	if err != nil {
		return State{}, err
	}
	dcm, err := a.Rotate(translated.Frame, to, translated.EpochET)
	if err != nil {
		return State{}, err
	}
	return RotateState(dcm, translated)
}

// StateOf returns the state of the object with the given ephemeris id
// as seen from the observer frame.
func (a *Almanac) StateOf(objectID int, observer frames.Frame, epochET float64, ab Aberration) (State, error) {
	return a.Transform(frames.FromEphemJ2000(objectID), observer, epochET, ab)
}
