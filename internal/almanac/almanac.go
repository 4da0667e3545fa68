// Orrery - High-Precision Ephemeris and Attitude Query Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orrery

// Package almanac aggregates loaded kernels and datasets into an
// immutable query context, and answers translate, rotate, and
// transform queries by resolving the frame graph at the requested
// epoch.
//
// An Almanac is never mutated after construction. Each With method
// returns a fresh context sharing the already loaded kernels, so any
// number of goroutines may query the same context concurrently
// without locking. Kernel slots are fixed at load time: exceeding a
// slot count is a load error, never an eviction.
package almanac

import (
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/tomtom215/orrery/internal/bpc"
	"github.com/tomtom215/orrery/internal/daf"
	"github.com/tomtom215/orrery/internal/dataset"
	"github.com/tomtom215/orrery/internal/frames"
	"github.com/tomtom215/orrery/internal/spk"
)

const (
	// MaxLoadedSPKs bounds the number of simultaneously loaded
	// ephemeris kernels.
	MaxLoadedSPKs = 32
	// MaxLoadedBPCs bounds the number of simultaneously loaded
	// orientation kernels.
	MaxLoadedBPCs = 8
	// MaxTreeDepth bounds the frame graph walk: no translation or
	// rotation may hop through more than this many nodes.
	MaxTreeDepth = 8
)

var (
	// ErrNoEphemerisData reports a translation query against a
	// context with no loaded ephemeris kernels.
	ErrNoEphemerisData = errors.New("almanac: no ephemeris kernels loaded")

	// ErrNoOrientationData reports a rotation query against a context
	// with neither orientation kernels nor planetary data.
	ErrNoOrientationData = errors.New("almanac: no orientation data loaded")

	// ErrCapacity reports an attempt to load past the fixed kernel
	// slot count.
	ErrCapacity = errors.New("almanac: kernel slots exhausted")

	// ErrPath reports a frame graph walk that found no common
	// ancestor or exceeded the depth bound.
	ErrPath = errors.New("almanac: frame path not resolvable")

	// ErrMissingDerivative reports a rotation whose derivative was
	// requested but not supplied by every hop.
	ErrMissingDerivative = errors.New("almanac: rotation carries no derivative")
)

// Almanac is an immutable collection of loaded ephemeris kernels,
// orientation kernels, and native datasets.
type Almanac struct {
	spks   [MaxLoadedSPKs]*spk.SPK
	numSPK int

	bpcs   [MaxLoadedBPCs]*bpc.BPC
	numBPC int

	planetary  *dataset.PlanetarySet
	spacecraft *dataset.SpacecraftSet
	eulerParam *dataset.EulerParameterSet
	locations  *dataset.LocationSet

	log zerolog.Logger
}

// New returns an empty context.
func New() *Almanac {
	return &Almanac{log: zerolog.Nop()}
}

func (a *Almanac) clone() *Almanac {
	c := *a
	return &c
}

// WithLogger returns a copy of the context logging through l.
func (a *Almanac) WithLogger(l zerolog.Logger) *Almanac {
	c := a.clone()
	c.log = l
	return c
}

// WithSPK returns a copy of the context with one more ephemeris
// kernel loaded. The new kernel takes precedence over earlier loads
// wherever coverage overlaps.
func (a *Almanac) WithSPK(k *spk.SPK) (*Almanac, error) {
	if a.numSPK >= MaxLoadedSPKs {
		return nil, fmt.Errorf("%w: %d ephemeris kernels", ErrCapacity, MaxLoadedSPKs)
	}
	c := a.clone()
	c.spks[c.numSPK] = k
	c.numSPK++
	c.log.Debug().Int("slot", c.numSPK-1).Int("segments", len(k.Summaries())).Msg("loaded ephemeris kernel")
	return c, nil
}

// WithBPC returns a copy of the context with one more orientation
// kernel loaded. The new kernel takes precedence over earlier loads
// wherever coverage overlaps.
func (a *Almanac) WithBPC(k *bpc.BPC) (*Almanac, error) {
	if a.numBPC >= MaxLoadedBPCs {
		return nil, fmt.Errorf("%w: %d orientation kernels", ErrCapacity, MaxLoadedBPCs)
	}
	c := a.clone()
	c.bpcs[c.numBPC] = k
	c.numBPC++
	c.log.Debug().Int("slot", c.numBPC-1).Int("segments", len(k.Summaries())).Msg("loaded orientation kernel")
	return c, nil
}

// WithPlanetaryData returns a copy of the context using s for body
// constants and low fidelity orientations.
func (a *Almanac) WithPlanetaryData(s *dataset.PlanetarySet) *Almanac {
	c := a.clone()
	c.planetary = s
	return c
}

// WithSpacecraftData returns a copy of the context using s for
// spacecraft constants.
func (a *Almanac) WithSpacecraftData(s *dataset.SpacecraftSet) *Almanac {
	c := a.clone()
	c.spacecraft = s
	return c
}

// WithEulerParameters returns a copy of the context using s for fixed
// mounting rotations.
func (a *Almanac) WithEulerParameters(s *dataset.EulerParameterSet) *Almanac {
	c := a.clone()
	c.eulerParam = s
	return c
}

// WithLocations returns a copy of the context using s for ground
// locations.
func (a *Almanac) WithLocations(s *dataset.LocationSet) *Almanac {
	c := a.clone()
	c.locations = s
	return c
}

// NumLoadedSPKs returns the number of loaded ephemeris kernels.
func (a *Almanac) NumLoadedSPKs() int { return a.numSPK }

// NumLoadedBPCs returns the number of loaded orientation kernels.
func (a *Almanac) NumLoadedBPCs() int { return a.numBPC }

// SpacecraftData returns the loaded spacecraft constants, or nil.
func (a *Almanac) SpacecraftData() *dataset.SpacecraftSet { return a.spacecraft }

// Locations returns the loaded ground locations, or nil.
func (a *Almanac) Locations() *dataset.LocationSet { return a.locations }

// spkSummaryAtEpoch finds the ephemeris segment covering (targetID,
// epochET), searching kernels most recently loaded first. That order
// is the published tie break when several kernels cover the same
// query.
func (a *Almanac) spkSummaryAtEpoch(targetID int, epochET float64) (*spk.SPK, spk.Summary, error) {
	for i := a.numSPK - 1; i >= 0; i-- {
		sum, err := a.spks[i].SummaryAtEpoch(targetID, epochET)
		if err == nil {
			return a.spks[i], sum, nil
		}
		if !errors.Is(err, daf.ErrNotFound) {
			return nil, spk.Summary{}, err
		}
	}
	return nil, spk.Summary{}, fmt.Errorf("%w: ephemeris %d at %.6f", daf.ErrNotFound, targetID, epochET)
}

// bpcSummaryAtEpoch finds the orientation segment covering (frameID,
// epochET), searching kernels most recently loaded first.
func (a *Almanac) bpcSummaryAtEpoch(frameID int, epochET float64) (*bpc.BPC, bpc.Summary, error) {
	for i := a.numBPC - 1; i >= 0; i-- {
		sum, err := a.bpcs[i].SummaryAtEpoch(frameID, epochET)
		if err == nil {
			return a.bpcs[i], sum, nil
		}
		if !errors.Is(err, daf.ErrNotFound) {
			return nil, bpc.Summary{}, err
		}
	}
	return nil, bpc.Summary{}, fmt.Errorf("%w: orientation %d at %.6f", daf.ErrNotFound, frameID, epochET)
}

// FrameInfo returns f enriched with the gravitational parameter and
// shape from the loaded planetary data. The identifier pair is kept
// as given.
func (a *Almanac) FrameInfo(f frames.Frame) (frames.Frame, error) {
	if a.planetary == nil {
		return f, fmt.Errorf("%w: frame %s", ErrNoOrientationData, f)
	}
	rec, err := a.planetary.GetByID(f.OrientationID)
	if err != nil {
		return f, fmt.Errorf("frame %s: %w", f, err)
	}
	out := f
	if rec.HasMu {
		out = out.WithMu(rec.MuKm3S2)
	}
	if rec.HasShape {
		out = out.WithShape(rec.Shape)
	}
	return out, nil
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// EphemerisRoot returns the common center of all loaded ephemeris
// kernels, normally the solar system barycenter. The root is the
// center with the smallest id magnitude across all segments.
func (a *Almanac) EphemerisRoot() (int, error) {
	if a.numSPK == 0 {
		return 0, ErrNoEphemerisData
	}
	common := math.MaxInt32
	for i := a.numSPK - 1; i >= 0; i-- {
		for _, sum := range a.spks[i].Summaries() {
			if absInt(sum.CenterID()) < absInt(common) {
				common = sum.CenterID()
				if common == frames.SolarSystemBarycenter {
					return common, nil
				}
			}
		}
	}
	return common, nil
}

// OrientationRoot returns the common reference frame of all loaded
// orientation sources, normally J2000. Orientation kernels are
// consulted first, then planetary record parents.
func (a *Almanac) OrientationRoot() (int, error) {
	if a.numBPC == 0 && (a.planetary == nil || a.planetary.Len() == 0) {
		return 0, ErrNoOrientationData
	}
	common := math.MaxInt32
	for i := a.numBPC - 1; i >= 0; i-- {
		for _, sum := range a.bpcs[i].Summaries() {
			if absInt(sum.InertialFrameID()) < absInt(common) {
				common = sum.InertialFrameID()
				if common == frames.J2000 {
					return common, nil
				}
			}
		}
	}
	if a.planetary != nil {
		for _, rec := range a.planetary.Records() {
			if rec.ParentID < common {
				common = rec.ParentID
				if common == frames.J2000 {
					return common, nil
				}
			}
		}
	}
	if common == frames.ECLIPJ2000 {
		// The hop from the ecliptic to J2000 is built in.
		common = frames.J2000
	}
	return common, nil
}
