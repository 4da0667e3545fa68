// Orrery - High-Precision Ephemeris and Attitude Query Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orrery

package almanac

import (
	"fmt"

	"github.com/tomtom215/orrery/internal/frames"
	"github.com/tomtom215/orrery/internal/linalg"
	"github.com/tomtom215/orrery/internal/rotation"
)

// RotationToParent returns the rotation from source's orientation
// parent into source. Sources are tried in order: the built in J2000
// and ecliptic definitions, loaded orientation kernels, planetary
// records, fixed mounting rotations.
func (a *Almanac) RotationToParent(source frames.Frame, epochET float64) (rotation.DCM, error) {
	switch source.OrientationID {
	case frames.J2000:
		// J2000 is the orientation root, its parent is itself.
		return rotation.IdentityDCM(frames.J2000, frames.J2000), nil
	case frames.ECLIPJ2000:
		return rotation.R1(frames.J2000ToEclipJ2000AngleRad, frames.J2000, frames.ECLIPJ2000), nil
	}

	if k, _, err := a.bpcSummaryAtEpoch(source.OrientationID, epochET); err == nil {
		return k.RotationAtEpoch(source.OrientationID, epochET)
	}

	if a.planetary != nil {
		if rec, err := a.planetary.GetByID(source.OrientationID); err == nil {
			// Nutation and precession angles live on the system
			// record when the body belongs to one.
			system := rec
			if parent, err := a.planetary.GetByID(rec.ParentID); err == nil {
				system = parent
			}
			return rec.RotationToParent(epochET, system), nil
		}
	}

	if a.eulerParam != nil {
		if rec, err := a.eulerParam.GetByID(source.OrientationID); err == nil {
			return rec.Quaternion().DCM(), nil
		}
	}

	return rotation.DCM{}, fmt.Errorf("%w: orientation %d has no loaded source", ErrPath, source.OrientationID)
}

// rotateToAncestor composes parent hops from f up to ancestorID,
// returning the rotation taking vectors expressed in f into the
// ancestor frame.
func (a *Almanac) rotateToAncestor(f frames.Frame, ancestorID int, epochET float64) (rotation.DCM, error) {
	if f.OrientationID == ancestorID {
		return rotation.IdentityDCM(ancestorID, ancestorID), nil
	}
	d, err := a.RotationToParent(f, epochET)
	if err != nil {
		return rotation.DCM{}, err
	}
	acc := d.Transpose()
	for hop := 0; hop < MaxTreeDepth; hop++ {
		if acc.To == ancestorID {
			return acc, nil
		}
		hopDCM, err := a.RotationToParent(frames.FromOrientSSB(acc.To), epochET)
		if err != nil {
			return rotation.DCM{}, err
		}
		acc, err = hopDCM.Transpose().Mul(acc)
		if err != nil {
			return rotation.DCM{}, err
		}
	}
	return rotation.DCM{}, fmt.Errorf("%w: rotation depth exceeded from %s", ErrPath, f)
}

// Rotate returns the DCM taking vectors expressed in from into to at
// the given epoch, composed hop by hop through the nearest common
// orientation ancestor. The derivative is carried only when every hop
// supplies one.
func (a *Almanac) Rotate(from, to frames.Frame, epochET float64) (rotation.DCM, error) {
	if info, err := a.FrameInfo(to); err == nil {
		to = info
	}
	if from.OrientOriginMatch(to) {
		return rotation.IdentityDCM(from.OrientationID, to.OrientationID), nil
	}

	_, _, commonNode, err := a.commonOrientationPath(from, to, epochET)
	if err != nil {
		return rotation.DCM{}, err
	}

	// fwrd rotates from into the ancestor, bwrd rotates to into it.
	fwrd, err := a.rotateToAncestor(from, commonNode, epochET)
	if err != nil {
		return rotation.DCM{}, err
	}
	bwrd, err := a.rotateToAncestor(to, commonNode, epochET)
	if err != nil {
		return rotation.DCM{}, err
	}

	// Composing with an identity endpoint would discard the other
	// side's derivative, so those cases return the lone side directly.
	switch {
	case from.OrientationID == commonNode:
		return bwrd.Transpose(), nil
	case to.OrientationID == commonNode:
		return fwrd, nil
	default:
		return bwrd.Transpose().Mul(fwrd)
	}
}

// AngularVelocityRadS returns the angular velocity of from relative
// to to in rad/s, extracted from the rotation derivative.
func (a *Almanac) AngularVelocityRadS(from, to frames.Frame, epochET float64) (linalg.Vec3, error) {
	dcm, err := a.Rotate(from, to, epochET)
	if err != nil {
		return linalg.Vec3{}, err
	}
	if !dcm.HasDt {
		return linalg.Vec3{}, fmt.Errorf("%w: %s to %s", ErrMissingDerivative, from, to)
	}
	// The skew matrix of omega is RotDt times Rot transposed.
	w := dcm.RotDt.Mul(dcm.Rot.Transpose())
	return linalg.Vec3{w[2][1], w[0][2], w[1][0]}, nil
}
