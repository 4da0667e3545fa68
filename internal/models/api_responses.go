// Orrery - High-Precision Ephemeris and Attitude Query Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orrery

// Package models defines the wire types for Orrery's HTTP API.
package models

import "time"

// APIResponse is the standard response envelope for all API endpoints.
//
// Example success response:
//
//	{
//	  "status": "ok",
//	  "data": {"position_km": [...], "velocity_km_s": [...]},
//	  "metadata": {"timestamp": "2026-08-30T12:00:00Z", "query_time_us": 42}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {"code": "VALIDATION_ERROR", "message": "TargetID is required"},
//	  "metadata": {"timestamp": "2026-08-30T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeUS int64     `json:"query_time_us,omitempty"`
}

// APIError represents an error response with structured error details.
//
// Common error codes:
//   - VALIDATION_ERROR: invalid input parameters
//   - NO_EPHEMERIS_DATA: no loaded kernel covers the query
//   - NO_ORIENTATION_DATA: no orientation source covers the query
//   - EPOCH_OUT_OF_RANGE: epoch outside loaded kernel coverage
//   - FRAME_NOT_FOUND: unknown frame or object identifier
//   - QUERY_ERROR: any other engine failure
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
