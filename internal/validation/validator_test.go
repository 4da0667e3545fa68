// Orrery - High-Precision Ephemeris and Attitude Query Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orrery

package validation

import (
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
	if v1 == nil {
		t.Error("GetValidator() should not return nil")
	}
}

type queryRequest struct {
	TargetID   int     `validate:"required"`
	ObserverID int     `validate:"required"`
	EpochET    float64 `validate:"gte=-10000000000,lte=10000000000"`
	Aberration string  `validate:"omitempty,aberration"`
}

func TestValidateStruct_Valid(t *testing.T) {
	tests := []struct {
		name  string
		input queryRequest
	}{
		{
			name:  "geometric query",
			input: queryRequest{TargetID: 301, ObserverID: 399, EpochET: 0},
		},
		{
			name:  "corrected query",
			input: queryRequest{TargetID: 301, ObserverID: 399, EpochET: 86400, Aberration: "CN+S"},
		},
		{
			name:  "lowercase correction name",
			input: queryRequest{TargetID: 499, ObserverID: 399, EpochET: -86400, Aberration: "lt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateStruct(&tt.input); err != nil {
				t.Errorf("ValidateStruct() = %v, want nil", err)
			}
		})
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		input     queryRequest
		wantField string
		wantTag   string
	}{
		{
			name:      "missing target",
			input:     queryRequest{ObserverID: 399},
			wantField: "TargetID",
			wantTag:   "required",
		},
		{
			name:      "unknown correction name",
			input:     queryRequest{TargetID: 301, ObserverID: 399, Aberration: "WARP"},
			wantField: "Aberration",
			wantTag:   "aberration",
		},
		{
			name:      "epoch out of range",
			input:     queryRequest{TargetID: 301, ObserverID: 399, EpochET: 1e12},
			wantField: "EpochET",
			wantTag:   "lte",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.input)
			if err == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}

			errs := err.Errors()
			if len(errs) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(errs), err)
			}
			if errs[0].Field() != tt.wantField {
				t.Errorf("Field() = %q, want %q", errs[0].Field(), tt.wantField)
			}
			if errs[0].Tag() != tt.wantTag {
				t.Errorf("Tag() = %q, want %q", errs[0].Tag(), tt.wantTag)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	req := queryRequest{Aberration: "WARP"}
	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("expected validation errors")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if apiErr.Message == "" {
		t.Error("Message should not be empty")
	}
	if !strings.Contains(apiErr.Message, "required") &&
		!strings.Contains(apiErr.Message, "aberration") {
		t.Errorf("Message %q should mention the failing validations", apiErr.Message)
	}
	if apiErr.Details == nil {
		t.Error("Details should not be nil for multiple errors")
	}
}

func TestValidateStruct_MultipleErrors(t *testing.T) {
	req := queryRequest{}
	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("expected validation errors")
	}
	if len(err.Errors()) != 2 {
		t.Errorf("got %d errors, want 2 (TargetID, ObserverID)", len(err.Errors()))
	}
}
