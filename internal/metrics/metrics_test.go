// Orrery - High-Precision Ephemeris and Attitude Query Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orrery

package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/orrery/internal/almanac"
	"github.com/tomtom215/orrery/internal/daf"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{almanac.ErrNoEphemerisData, "no_ephemeris_data"},
		{almanac.ErrNoOrientationData, "no_orientation_data"},
		{almanac.ErrCapacity, "capacity"},
		{almanac.ErrPath, "path"},
		{almanac.ErrMissingDerivative, "missing_derivative"},
		{almanac.ErrAberration, "aberration"},
		{daf.ErrNotFound, "not_found"},
		{daf.ErrParse, "parse"},
		{fmt.Errorf("wrapped: %w", almanac.ErrPath), "path"},
		{errors.New("disk on fire"), "internal"},
	}

	for _, tt := range tests {
		if got := classifyError(tt.err); got != tt.want {
			t.Errorf("classifyError(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestRecordQuery(t *testing.T) {
	before := testutil.ToFloat64(QueriesTotal.WithLabelValues("translate"))
	errBefore := testutil.ToFloat64(QueryErrors.WithLabelValues("translate", "path"))

	RecordQuery("translate", 50*time.Microsecond, nil)
	RecordQuery("translate", 80*time.Microsecond, almanac.ErrPath)

	if got := testutil.ToFloat64(QueriesTotal.WithLabelValues("translate")); got != before+2 {
		t.Errorf("QueriesTotal = %v, want %v", got, before+2)
	}
	if got := testutil.ToFloat64(QueryErrors.WithLabelValues("translate", "path")); got != errBefore+1 {
		t.Errorf("QueryErrors = %v, want %v", got, errBefore+1)
	}
}

func TestSetKernelsLoaded(t *testing.T) {
	SetKernelsLoaded(3, 1)

	if got := testutil.ToFloat64(KernelsLoaded.WithLabelValues("spk")); got != 3 {
		t.Errorf("spk gauge = %v, want 3", got)
	}
	if got := testutil.ToFloat64(KernelsLoaded.WithLabelValues("bpc")); got != 1 {
		t.Errorf("bpc gauge = %v, want 1", got)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	base := testutil.ToFloat64(APIActiveRequests)

	TrackActiveRequest(true)
	TrackActiveRequest(true)
	TrackActiveRequest(false)

	if got := testutil.ToFloat64(APIActiveRequests); got != base+1 {
		t.Errorf("APIActiveRequests = %v, want %v", got, base+1)
	}
}
