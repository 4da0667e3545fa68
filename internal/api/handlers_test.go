// Orrery - High-Precision Ephemeris and Attitude Query Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orrery

package api

import (
	"bytes"
	"encoding/binary"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/orrery/internal/almanac"
	"github.com/tomtom215/orrery/internal/dataset"
	"github.com/tomtom215/orrery/internal/frames"
	"github.com/tomtom215/orrery/internal/models"
	"github.com/tomtom215/orrery/internal/spk"
	"github.com/tomtom215/orrery/internal/testkernels"
)

// testEngine builds an almanac around two linearly moving bodies: the
// Earth-Moon barycenter relative to the solar system barycenter, and
// the Moon relative to that barycenter, each one Chebyshev record over
// [0, 1000] seconds.
func testEngine(t *testing.T) *almanac.Almanac {
	t.Helper()

	segs := []testkernels.Segment{
		{
			Name: "EMB", Target: 3, Center: 0, Frame: 1,
			DataType: spk.TypeChebyshevPosition, StartET: 0, EndET: 1000,
			Data: testkernels.Type2Data(0, 1000, [][3][]float64{{
				{1.0e6, 5000},
				{2.0e5, -2500},
				{-1.0e5, 500},
			}}),
		},
		{
			Name: "MOON", Target: 301, Center: 3, Frame: 1,
			DataType: spk.TypeChebyshevPosition, StartET: 0, EndET: 1000,
			Data: testkernels.Type2Data(0, 1000, [][3][]float64{{
				{300000, 1000},
				{40000, 0},
				{-20000, -500},
			}}),
		},
	}

	k, err := spk.Load(testkernels.BuildSPK(binary.LittleEndian, segs))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	a, err := almanac.New().WithSPK(k)
	if err != nil {
		t.Fatalf("WithSPK: %v", err)
	}

	pset, err := dataset.NewPlanetarySet([]dataset.PlanetaryRecord{{
		ObjectID: 399, ParentID: frames.J2000,
		MuKm3S2: 398600.435436096, HasMu: true,
	}})
	if err != nil {
		t.Fatalf("NewPlanetarySet: %v", err)
	}
	return a.WithPlanetaryData(pset)
}

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	handler := NewHandler(testEngine(t), "test")
	router := NewRouter(handler, NewChiMiddleware(&ChiMiddlewareConfig{
		CORSAllowedOrigins: []string{"*"},
		RateLimitDisabled:  true,
	}))
	srv := httptest.NewServer(router.Setup())
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body interface{}) (*http.Response, models.APIResponse) {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })

	var envelope models.APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, envelope
}

func TestHealthEndpoint(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/health")
	if err != nil {
		t.Fatalf("GET health: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing")
	}

	var envelope models.APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Status != "ok" {
		t.Errorf("status = %q, want ok", envelope.Status)
	}
}

func TestTranslateEndpoint(t *testing.T) {
	srv := testServer(t)

	resp, envelope := postJSON(t, srv.URL+"/api/v1/translate", models.TranslateRequest{
		Target:   models.FrameRef{EphemerisID: 301},
		Observer: models.FrameRef{EphemerisID: 3},
		EpochET:  500,
	})

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200: %+v", resp.StatusCode, envelope.Error)
	}

	data, err := json.Marshal(envelope.Data)
	if err != nil {
		t.Fatal(err)
	}
	var state models.StateResponse
	if err := json.Unmarshal(data, &state); err != nil {
		t.Fatalf("unmarshal state: %v", err)
	}

	// At the record midpoint the Chebyshev value is the constant term.
	want := [3]float64{300000, 40000, -20000}
	for i := range want {
		if math.Abs(state.PositionKm[i]-want[i]) > 1e-9 {
			t.Errorf("PositionKm[%d] = %v, want %v", i, state.PositionKm[i], want[i])
		}
	}
	if state.Frame.EphemerisID != 3 {
		t.Errorf("Frame.EphemerisID = %d, want 3", state.Frame.EphemerisID)
	}
}

func TestTranslateValidationError(t *testing.T) {
	srv := testServer(t)

	resp, envelope := postJSON(t, srv.URL+"/api/v1/translate", models.TranslateRequest{
		Observer: models.FrameRef{EphemerisID: 3},
		EpochET:  500,
	})

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if envelope.Error == nil || envelope.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("error = %+v, want VALIDATION_ERROR", envelope.Error)
	}
}

func TestTranslateBadAberration(t *testing.T) {
	srv := testServer(t)

	resp, envelope := postJSON(t, srv.URL+"/api/v1/translate", models.TranslateRequest{
		Target:     models.FrameRef{EphemerisID: 301},
		Observer:   models.FrameRef{EphemerisID: 3},
		EpochET:    500,
		Aberration: "WARP",
	})

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if envelope.Error == nil {
		t.Fatal("expected error payload")
	}
}

func TestTranslateEpochOutOfRange(t *testing.T) {
	srv := testServer(t)

	resp, envelope := postJSON(t, srv.URL+"/api/v1/translate", models.TranslateRequest{
		Target:   models.FrameRef{EphemerisID: 301},
		Observer: models.FrameRef{EphemerisID: 3},
		EpochET:  5000,
	})

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	if envelope.Error == nil || envelope.Error.Code != "EPOCH_OUT_OF_RANGE" {
		t.Fatalf("error = %+v, want EPOCH_OUT_OF_RANGE", envelope.Error)
	}
}

func TestRotateBuiltinFrames(t *testing.T) {
	srv := testServer(t)

	resp, envelope := postJSON(t, srv.URL+"/api/v1/rotate", models.RotateRequest{
		From:    models.FrameRef{EphemerisID: 0, OrientationID: 1},
		To:      models.FrameRef{EphemerisID: 0, OrientationID: 17},
		EpochET: 500,
	})

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200: %+v", resp.StatusCode, envelope.Error)
	}

	data, err := json.Marshal(envelope.Data)
	if err != nil {
		t.Fatal(err)
	}
	var rot models.RotationResponse
	if err := json.Unmarshal(data, &rot); err != nil {
		t.Fatalf("unmarshal rotation: %v", err)
	}

	// Obliquity rotation about X leaves the x axis fixed.
	if math.Abs(rot.Rotation[0][0]-1) > 1e-12 {
		t.Errorf("Rotation[0][0] = %v, want 1", rot.Rotation[0][0])
	}
	wantCos := math.Cos(0.40909280422232897)
	if math.Abs(rot.Rotation[1][1]-wantCos) > 1e-12 {
		t.Errorf("Rotation[1][1] = %v, want %v", rot.Rotation[1][1], wantCos)
	}
}

func TestFrameInfoEndpoint(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/frames/399")
	if err != nil {
		t.Fatalf("GET frames: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var envelope models.APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	data, err := json.Marshal(envelope.Data)
	if err != nil {
		t.Fatal(err)
	}
	var info models.FrameInfoResponse
	if err := json.Unmarshal(data, &info); err != nil {
		t.Fatalf("unmarshal frame info: %v", err)
	}

	if info.MuKm3S2 == nil || math.Abs(*info.MuKm3S2-398600.435436096) > 1e-6 {
		t.Errorf("MuKm3S2 = %v, want 398600.435436096", info.MuKm3S2)
	}
}

func TestFrameInfoNotFound(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/frames/12345")
	if err != nil {
		t.Fatalf("GET frames: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestMalformedBody(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Post(srv.URL+"/api/v1/translate", "application/json", bytes.NewReader([]byte("{nope")))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}
