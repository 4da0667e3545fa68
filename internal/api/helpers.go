// Orrery - High-Precision Ephemeris and Attitude Query Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orrery

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/orrery/internal/almanac"
	"github.com/tomtom215/orrery/internal/daf"
	"github.com/tomtom215/orrery/internal/dataset"
	"github.com/tomtom215/orrery/internal/logging"
	"github.com/tomtom215/orrery/internal/models"
	"github.com/tomtom215/orrery/internal/validation"
)

// respondJSON sends a JSON response with proper headers
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondOK sends a success envelope around data.
func respondOK(w http.ResponseWriter, data interface{}, elapsed time.Duration) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "ok",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeUS: elapsed.Microseconds(),
		},
	})
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		logging.Error().Str("code", code).Err(err).Msg("API error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Data:   nil,
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
		},
	})
}

// decodeRequest parses the JSON body into v and validates it. Returns
// false after writing an error response when the request is unusable.
func decodeRequest(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "PARSE_ERROR", "request body is not valid JSON", nil)
		return false
	}
	if verr := validation.ValidateStruct(v); verr != nil {
		apiErr := verr.ToAPIError()
		respondJSON(w, http.StatusBadRequest, &models.APIResponse{
			Status:   "error",
			Metadata: models.Metadata{Timestamp: time.Now().UTC()},
			Error: &models.APIError{
				Code:    apiErr.Code,
				Message: apiErr.Message,
				Details: apiErr.Details,
			},
		})
		return false
	}
	return true
}

// respondQueryError maps engine errors to HTTP status codes and API
// error codes.
func respondQueryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, almanac.ErrNoEphemerisData):
		respondError(w, http.StatusNotFound, "NO_EPHEMERIS_DATA", err.Error(), nil)
	case errors.Is(err, almanac.ErrNoOrientationData):
		respondError(w, http.StatusNotFound, "NO_ORIENTATION_DATA", err.Error(), nil)
	case errors.Is(err, almanac.ErrAberration):
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
	case errors.Is(err, almanac.ErrPath):
		respondError(w, http.StatusUnprocessableEntity, "FRAME_PATH_ERROR", err.Error(), nil)
	case errors.Is(err, almanac.ErrMissingDerivative):
		respondError(w, http.StatusUnprocessableEntity, "MISSING_DERIVATIVE", err.Error(), nil)
	case errors.Is(err, daf.ErrNotFound):
		respondError(w, http.StatusNotFound, "EPOCH_OUT_OF_RANGE", err.Error(), nil)
	case errors.Is(err, dataset.ErrNotFound):
		respondError(w, http.StatusNotFound, "FRAME_NOT_FOUND", err.Error(), nil)
	default:
		respondError(w, http.StatusInternalServerError, "QUERY_ERROR", "query failed", err)
	}
}
