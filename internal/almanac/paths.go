// Orrery - High-Precision Ephemeris and Attitude Query Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orrery

package almanac

import (
	"errors"
	"fmt"

	"github.com/tomtom215/orrery/internal/frames"
)

// The frame graph is never materialized. Each parent hop is resolved
// on demand from whichever loaded source covers (id, epoch), so the
// same frame pair can resolve through different paths at different
// epochs. Paths live in fixed arrays to keep the query hot path free
// of allocation.

// ephemPathToRoot walks the centers of f up to the ephemeris root.
// The returned path holds the parent centers in hop order; f itself
// is not included.
func (a *Almanac) ephemPathToRoot(f frames.Frame, epochET float64) (int, [MaxTreeDepth]int, error) {
	var path [MaxTreeDepth]int
	root, err := a.EphemerisRoot()
	if err != nil {
		return 0, path, err
	}
	if root == f.EphemerisID {
		return 0, path, nil
	}

	_, sum, err := a.spkSummaryAtEpoch(f.EphemerisID, epochET)
	if err != nil {
		return 0, path, err
	}
	centerID := sum.CenterID()
	path[0] = centerID
	n := 1
	if centerID == root {
		return n, path, nil
	}

	for hop := 0; hop < MaxTreeDepth; hop++ {
		_, sum, err := a.spkSummaryAtEpoch(centerID, epochET)
		if err != nil {
			return 0, path, err
		}
		centerID = sum.CenterID()
		path[n] = centerID
		n++
		if centerID == root {
			return n, path, nil
		}
	}
	return 0, path, fmt.Errorf("%w: ephemeris depth exceeded from %d", ErrPath, f.EphemerisID)
}

// EphemerisPathToRoot returns the chain of centers from f to the
// ephemeris root, starting with f's own center id.
func (a *Almanac) EphemerisPathToRoot(f frames.Frame, epochET float64) ([]int, error) {
	n, path, err := a.ephemPathToRoot(f, epochET)
	if err != nil {
		return nil, err
	}
	out := make([]int, 0, n+1)
	out = append(out, f.EphemerisID)
	out = append(out, path[:n]...)
	return out, nil
}

// commonEphemerisPath returns the nearest center shared by both root
// chains, plus the centers strictly between each frame and that
// ancestor: from side first, then to side, each ordered near to far.
func (a *Almanac) commonEphemerisPath(from, to frames.Frame, epochET float64) (int, [MaxTreeDepth]int, int, error) {
	var common [MaxTreeDepth]int
	if from.EphemOriginMatch(to) {
		return 0, common, from.EphemerisID, nil
	}

	fromLen, fromPath, err := a.ephemPathToRoot(from, epochET)
	if err != nil {
		return 0, common, 0, err
	}
	toLen, toPath, err := a.ephemPathToRoot(to, epochET)
	if err != nil {
		return 0, common, 0, err
	}

	// An endpoint sitting on the other chain is itself the ancestor.
	for i := 0; i < fromLen; i++ {
		if fromPath[i] == to.EphemerisID {
			copy(common[:i], fromPath[:i])
			return i, common, to.EphemerisID, nil
		}
	}
	for i := 0; i < toLen; i++ {
		if toPath[i] == from.EphemerisID {
			copy(common[:i], toPath[:i])
			return i, common, from.EphemerisID, nil
		}
	}

	// Both chains end at the root, so the first from chain entry that
	// also appears in the to chain is the nearest shared center.
	for i := 0; i < fromLen; i++ {
		for j := 0; j < toLen; j++ {
			if fromPath[i] != toPath[j] {
				continue
			}
			if i+j > MaxTreeDepth {
				return 0, common, 0, fmt.Errorf("%w: joined path too deep between %s and %s", ErrPath, from, to)
			}
			copy(common[:i], fromPath[:i])
			copy(common[i:i+j], toPath[:j])
			return i + j, common, fromPath[i], nil
		}
	}
	return 0, common, 0, fmt.Errorf("%w: no common center between %s and %s", ErrPath, from, to)
}

// orientParent resolves one orientation hop: the built-in ecliptic
// rotation first, then orientation kernels, planetary records, and
// fixed mounting rotations.
func (a *Almanac) orientParent(frameID int, epochET float64) (int, error) {
	if frameID == frames.ECLIPJ2000 {
		return frames.J2000, nil
	}
	if _, sum, err := a.bpcSummaryAtEpoch(frameID, epochET); err == nil {
		return sum.InertialFrameID(), nil
	}
	if a.planetary != nil {
		if rec, err := a.planetary.GetByID(frameID); err == nil {
			return rec.ParentID, nil
		}
	}
	if a.eulerParam != nil {
		if rec, err := a.eulerParam.GetByID(frameID); err == nil {
			return rec.FromID, nil
		}
	}
	return 0, fmt.Errorf("%w: orientation %d has no loaded parent", ErrPath, frameID)
}

// orientPathToRoot walks the orientation parents of f up to the
// orientation root. An ecliptic hop inserts the built-in rotation to
// J2000.
func (a *Almanac) orientPathToRoot(f frames.Frame, epochET float64) (int, [MaxTreeDepth]int, error) {
	var path [MaxTreeDepth]int
	root, err := a.OrientationRoot()
	if err != nil {
		return 0, path, err
	}
	if root == f.OrientationID {
		return 0, path, nil
	}

	parentID, err := a.orientParent(f.OrientationID, epochET)
	if err != nil {
		return 0, path, err
	}
	path[0] = parentID
	n := 1
	if parentID == frames.ECLIPJ2000 {
		parentID = frames.J2000
		path[n] = parentID
		n++
	}
	if parentID == root {
		return n, path, nil
	}

	for hop := 0; hop < MaxTreeDepth-1; hop++ {
		parentID, err = a.orientParent(parentID, epochET)
		if err != nil {
			return 0, path, err
		}
		path[n] = parentID
		n++
		if parentID == root {
			return n, path, nil
		}
	}
	return 0, path, fmt.Errorf("%w: orientation depth exceeded from %d", ErrPath, f.OrientationID)
}

// OrientationPathToRoot returns the chain of orientation ids from f
// to the orientation root, starting with f's own orientation id.
func (a *Almanac) OrientationPathToRoot(f frames.Frame, epochET float64) ([]int, error) {
	n, path, err := a.orientPathToRoot(f, epochET)
	if err != nil {
		return nil, err
	}
	out := make([]int, 0, n+1)
	out = append(out, f.OrientationID)
	out = append(out, path[:n]...)
	return out, nil
}

// commonOrientationPath returns the nearest orientation shared by both
// root chains, plus the orientations strictly between each frame and
// that ancestor: from side first, then to side, each ordered near to
// far.
func (a *Almanac) commonOrientationPath(from, to frames.Frame, epochET float64) (int, [MaxTreeDepth]int, int, error) {
	var common [MaxTreeDepth]int
	if from.OrientOriginMatch(to) {
		return 0, common, from.OrientationID, nil
	}

	fromLen, fromPath, err := a.orientPathToRoot(from, epochET)
	if err != nil {
		return 0, common, 0, err
	}
	toLen, toPath, err := a.orientPathToRoot(to, epochET)
	if err != nil {
		return 0, common, 0, err
	}

	for i := 0; i < fromLen; i++ {
		if fromPath[i] == to.OrientationID {
			copy(common[:i], fromPath[:i])
			return i, common, to.OrientationID, nil
		}
	}
	for i := 0; i < toLen; i++ {
		if toPath[i] == from.OrientationID {
			copy(common[:i], toPath[:i])
			return i, common, from.OrientationID, nil
		}
	}

	for i := 0; i < fromLen; i++ {
		for j := 0; j < toLen; j++ {
			if fromPath[i] != toPath[j] {
				continue
			}
			if i+j > MaxTreeDepth {
				return 0, common, 0, fmt.Errorf("%w: joined path too deep between %s and %s", ErrPath, from, to)
			}
			copy(common[:i], fromPath[:i])
			copy(common[i:i+j], toPath[:j])
			return i + j, common, fromPath[i], nil
		}
	}
	return 0, common, 0, fmt.Errorf("%w: no common orientation between %s and %s", ErrPath, from, to)
}

// IsPathErr reports whether err comes from frame graph resolution
// rather than from missing data.
func IsPathErr(err error) bool {
	return errors.Is(err, ErrPath)
}
