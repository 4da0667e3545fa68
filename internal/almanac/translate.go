// Orrery - High-Precision Ephemeris and Attitude Query Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orrery

package almanac

import (
	"fmt"

	"github.com/tomtom215/orrery/internal/frames"
	"github.com/tomtom215/orrery/internal/linalg"
)

// State is a Cartesian position and velocity tagged with its frame
// and epoch.
type State struct {
	Pos     linalg.Vec3 // km
	Vel     linalg.Vec3 // km/s
	EpochET float64
	Frame   frames.Frame
}

// ZeroState returns the origin state of f at the given epoch.
func ZeroState(f frames.Frame, epochET float64) State {
	return State{EpochET: epochET, Frame: f}
}

// Add returns s plus other without checking frames.
func (s State) Add(other State) State {
	s.Pos = s.Pos.Add(other.Pos)
	s.Vel = s.Vel.Add(other.Vel)
	return s
}

// TranslateToParent returns the state of source relative to its
// ephemeris parent, resolved from whichever loaded kernel covers the
// epoch.
func (a *Almanac) TranslateToParent(source frames.Frame, epochET float64) (State, error) {
	k, _, err := a.spkSummaryAtEpoch(source.EphemerisID, epochET)
	if err != nil {
		return State{}, err
	}
	st, err := k.StateAtEpoch(source.EphemerisID, epochET)
	if err != nil {
		return State{}, err
	}
	parent := source
	parent.EphemerisID = st.CenterID
	return State{Pos: st.Pos, Vel: st.Vel, EpochET: epochET, Frame: parent}, nil
}

// sumToAncestor accumulates parent hops from f up to ancestorID.
func (a *Almanac) sumToAncestor(f frames.Frame, ancestorID int, epochET float64) (pos, vel linalg.Vec3, err error) {
	cur := f
	for hop := 0; hop <= MaxTreeDepth; hop++ {
		if cur.EphemerisID == ancestorID {
			return pos, vel, nil
		}
		st, err := a.TranslateToParent(cur, epochET)
		if err != nil {
			return linalg.Vec3{}, linalg.Vec3{}, err
		}
		pos = pos.Add(st.Pos)
		vel = vel.Add(st.Vel)
		cur = st.Frame
	}
	return linalg.Vec3{}, linalg.Vec3{}, fmt.Errorf("%w: translation depth exceeded from %s", ErrPath, f)
}

// translateGeometric returns the uncorrected state of from relative
// to to by summing per hop states on both sides of the common
// center.
func (a *Almanac) translateGeometric(from, to frames.Frame, epochET float64) (State, error) {
	if from.EphemOriginMatch(to) {
		return ZeroState(to.WithOrient(from.OrientationID), epochET), nil
	}
	_, _, commonNode, err := a.commonEphemerisPath(from, to, epochET)
	if err != nil {
		return State{}, err
	}
	fwrdPos, fwrdVel, err := a.sumToAncestor(from, commonNode, epochET)
	if err != nil {
		return State{}, err
	}
	bwrdPos, bwrdVel, err := a.sumToAncestor(to, commonNode, epochET)
	if err != nil {
		return State{}, err
	}
	return State{
		Pos:     fwrdPos.Sub(bwrdPos),
		Vel:     fwrdVel.Sub(bwrdVel),
		EpochET: epochET,
		Frame:   to.WithOrient(from.OrientationID),
	}, nil
}

// Translate returns the state of target relative to observer at the
// given epoch, optionally corrected for aberration. The result
// carries observer's center with target's orientation; no rotation is
// applied.
//
// The light time iteration evaluates the target at the epoch the
// observed light left it (reception) or will reach it (transmission),
// holding the observer fixed. Velocity is never corrected; the
// geometric velocity is returned.
func (a *Almanac) Translate(target, observer frames.Frame, epochET float64, ab Aberration) (State, error) {
	if info, err := a.FrameInfo(observer); err == nil {
		observer = info
	}
	if target.ExactMatch(observer) {
		return ZeroState(target, epochET), nil
	}
	if ab == NoAberration {
		return a.translateGeometric(target, observer, epochET)
	}

	rootID, err := a.EphemerisRoot()
	if err != nil {
		return State{}, err
	}
	rootFrame := frames.FromEphemJ2000(rootID)

	tgt, err := a.translateGeometric(target, rootFrame, epochET)
	if err != nil {
		return State{}, err
	}
	obs, err := a.translateGeometric(observer, rootFrame, epochET)
	if err != nil {
		return State{}, err
	}

	relPos := tgt.Pos.Sub(obs.Pos)
	relVel := tgt.Vel.Sub(obs.Vel)
	oneWayLtS := relPos.Norm() / frames.SpeedOfLightKmS

	iterations := 1
	if ab.Converged() {
		iterations = 3
	}
	ltSign := 1.0
	if ab.Transmit() {
		ltSign = -1.0
	}

	for i := 0; i < iterations; i++ {
		epochLt := epochET - ltSign*oneWayLtS
		tgtLt, err := a.translateGeometric(target, rootFrame, epochLt)
		if err != nil {
			return State{}, err
		}
		relPos = tgtLt.Pos.Sub(obs.Pos)
		oneWayLtS = relPos.Norm() / frames.SpeedOfLightKmS
	}

	if ab.Stellar() {
		relPos, err = stellarAberration(relPos, obs.Vel, ab.Transmit())
		if err != nil {
			return State{}, err
		}
	}

	return State{
		Pos:     relPos,
		Vel:     relVel,
		EpochET: epochET,
		Frame:   observer.WithOrient(target.OrientationID),
	}, nil
}

// TranslateTo rewrites state relative to the requested frame,
// translation only.
func (a *Almanac) TranslateTo(state State, to frames.Frame, ab Aberration) (State, error) {
	frameState, err := a.Translate(state.Frame, to, state.EpochET, ab)
	if err != nil {
		return State{}, err
	}
	out := frameState.Add(state)
	return out, nil
}
