// Orrery - High-Precision Ephemeris and Attitude Query Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orrery

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/orrery/internal/almanac"
	"github.com/tomtom215/orrery/internal/frames"
	"github.com/tomtom215/orrery/internal/metrics"
	"github.com/tomtom215/orrery/internal/models"
)

// Handler serves the query endpoints against an immutable almanac
// built at startup. The almanac is safe for unsynchronized concurrent
// reads, so handlers need no locking.
type Handler struct {
	engine  *almanac.Almanac
	version string
	started time.Time
}

// NewHandler creates a Handler backed by the given almanac.
func NewHandler(engine *almanac.Almanac, version string) *Handler {
	return &Handler{
		engine:  engine,
		version: version,
		started: time.Now(),
	}
}

// frameFromRef builds an engine frame from a wire reference. An
// omitted orientation means the inertial reference orientation.
func frameFromRef(ref models.FrameRef) frames.Frame {
	orient := ref.OrientationID
	if orient == 0 {
		orient = frames.J2000
	}
	return frames.New(ref.EphemerisID, orient)
}

func refFromFrame(f frames.Frame) models.FrameRef {
	return models.FrameRef{EphemerisID: f.EphemerisID, OrientationID: f.OrientationID}
}

func stateResponse(s almanac.State) models.StateResponse {
	return models.StateResponse{
		PositionKm:  [3]float64(s.Pos),
		VelocityKmS: [3]float64(s.Vel),
		EpochET:     s.EpochET,
		Frame:       refFromFrame(s.Frame),
	}
}

// Health reports liveness and loaded-kernel counts.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	respondOK(w, models.HealthResponse{
		Status:     "ok",
		Version:    h.version,
		SPKsLoaded: h.engine.NumLoadedSPKs(),
		BPCsLoaded: h.engine.NumLoadedBPCs(),
		UptimeS:    int64(time.Since(h.started).Seconds()),
	}, 0)
}

// Translate returns the aberration-corrected position and velocity of
// a target relative to an observer.
func (h *Handler) Translate(w http.ResponseWriter, r *http.Request) {
	var req models.TranslateRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	ab, err := almanac.ParseAberration(req.Aberration)
	if err != nil {
		respondQueryError(w, err)
		return
	}

	start := time.Now()
	state, err := h.engine.Translate(frameFromRef(req.Target), frameFromRef(req.Observer), req.EpochET, ab)
	elapsed := time.Since(start)
	metrics.RecordQuery("translate", elapsed, err)
	if err != nil {
		respondQueryError(w, err)
		return
	}

	respondOK(w, stateResponse(state), elapsed)
}

// Rotate returns the rotation taking vectors from one orientation
// frame to another.
func (h *Handler) Rotate(w http.ResponseWriter, r *http.Request) {
	var req models.RotateRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	start := time.Now()
	d, err := h.engine.Rotate(frameFromRef(req.From), frameFromRef(req.To), req.EpochET)
	elapsed := time.Since(start)
	metrics.RecordQuery("rotate", elapsed, err)
	if err != nil {
		respondQueryError(w, err)
		return
	}

	resp := models.RotationResponse{
		Rotation: [3][3]float64(d.Rot),
		From:     d.From,
		To:       d.To,
		EpochET:  req.EpochET,
	}
	if d.HasDt {
		dt := [3][3]float64(d.RotDt)
		resp.RotationDt = &dt
		if omega, werr := h.engine.AngularVelocityRadS(frameFromRef(req.From), frameFromRef(req.To), req.EpochET); werr == nil {
			w3 := [3]float64(omega)
			resp.AngularVelocityRadS = &w3
		}
	}

	respondOK(w, resp, elapsed)
}

// Transform returns the full state of a target expressed in the
// observer's frame, translation and rotation combined.
func (h *Handler) Transform(w http.ResponseWriter, r *http.Request) {
	var req models.TransformRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	ab, err := almanac.ParseAberration(req.Aberration)
	if err != nil {
		respondQueryError(w, err)
		return
	}

	start := time.Now()
	state, err := h.engine.Transform(frameFromRef(req.Target), frameFromRef(req.Observer), req.EpochET, ab)
	elapsed := time.Since(start)
	metrics.RecordQuery("transform", elapsed, err)
	if err != nil {
		respondQueryError(w, err)
		return
	}

	respondOK(w, stateResponse(state), elapsed)
}

// FrameInfo returns gravity and shape data for a body, looked up by
// its identifier in the loaded planetary dataset.
func (h *Handler) FrameInfo(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "frame id must be an integer", nil)
		return
	}

	f, err := h.engine.FrameInfo(frames.New(id, id))
	if err != nil {
		respondQueryError(w, err)
		return
	}

	resp := models.FrameInfoResponse{
		EphemerisID:   f.EphemerisID,
		OrientationID: f.OrientationID,
	}
	if f.HasMu() {
		mu := f.MuKm3S2
		resp.MuKm3S2 = &mu
	}
	if f.HasShape {
		eq := f.Shape.SemiMajorEquatorialKm
		pol := f.Shape.PolarRadiusKm
		resp.EquatorialRadiusKm = &eq
		resp.PolarRadiusKm = &pol
	}

	respondOK(w, resp, 0)
}
