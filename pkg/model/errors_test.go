package model

import (
	"errors"
	"fmt"
	"testing"
)

func TestAPIError_Error(t *testing.T) {
	err := &APIError{Code: ErrNotFound, Message: "process 'P7' not found"}
	want := "NOT_FOUND: process 'P7' not found"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("run", "run_abc")
	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Message != "run 'run_abc' not found" {
		t.Errorf("Message = %q, want %q", err.Message, "run 'run_abc' not found")
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("Invalid process",
		FieldError{Field: "arrival", Message: "must be >= 0"},
		FieldError{Field: "burst", Message: "must be > 0"},
	)
	if err.Code != ErrValidation {
		t.Errorf("Code = %q, want %q", err.Code, ErrValidation)
	}
	if len(err.Details) != 2 {
		t.Errorf("Details length = %d, want 2", len(err.Details))
	}
}

func TestAPIError_ErrorWithDetails(t *testing.T) {
	err := NewValidationError("invalid process", FieldError{Field: "burst", Message: "must be > 0"})
	want := "VALIDATION_ERROR: invalid process (burst must be > 0)"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("remove: %w", NewNotFoundError("process", "P9"))
	if got := CodeOf(wrapped); got != ErrNotFound {
		t.Errorf("CodeOf(wrapped) = %q, want %q", got, ErrNotFound)
	}
	if got := CodeOf(errors.New("plain")); got != "" {
		t.Errorf("CodeOf(plain) = %q, want empty", got)
	}
}

func TestInvalidTransitionError(t *testing.T) {
	err := &InvalidTransitionError{From: RunStateCompleted, To: RunStateRunning}
	want := "simulation cannot move from COMPLETED to RUNNING"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestProcessSpec_Validate(t *testing.T) {
	tests := []struct {
		spec   ProcessSpec
		errors int
	}{
		{ProcessSpec{Arrival: 0, Burst: 1}, 0},
		{ProcessSpec{Arrival: 5, Burst: 3}, 0},
		{ProcessSpec{Arrival: 0, Burst: 0}, 1},
		{ProcessSpec{Arrival: -1, Burst: 2}, 1},
		{ProcessSpec{Arrival: -1, Burst: -4}, 2},
		{ProcessSpec{Arrival: MaxTime, Burst: MaxTime}, 0},
		{ProcessSpec{Arrival: MaxTime + 1, Burst: 1}, 1},
		{ProcessSpec{Arrival: 2_000_000_000, Burst: MaxTime + 1}, 2},
	}
	for _, tt := range tests {
		if got := len(tt.spec.Validate()); got != tt.errors {
			t.Errorf("%+v.Validate() returned %d errors, want %d", tt.spec, got, tt.errors)
		}
	}
}

func TestValidateSpecs(t *testing.T) {
	specs := []ProcessSpec{{Arrival: 0, Burst: 2}, {Arrival: MaxTime + 1, Burst: 1}}
	errs := ValidateSpecs(specs)
	if len(errs) != 1 || errs[0].Field != "processes[1].arrival" {
		t.Errorf("ValidateSpecs = %+v, want one error on processes[1].arrival", errs)
	}

	tooMany := make([]ProcessSpec, MaxProcesses+1)
	for i := range tooMany {
		tooMany[i] = ProcessSpec{Burst: 1}
	}
	errs = ValidateSpecs(tooMany)
	if len(errs) != 1 || errs[0].Field != "processes" {
		t.Errorf("ValidateSpecs(%d specs) = %+v, want a count error", len(tooMany), errs)
	}
}
