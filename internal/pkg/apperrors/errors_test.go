package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestAppErrorError(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		expected string
	}{
		{
			name: "With Code",
			appError: &AppError{
				Code:    "TEST_CODE",
				Message: "This is a test error",
			},
			expected: "[TEST_CODE] This is a test error",
		},
		{
			name: "Without Code",
			appError: &AppError{
				Message: "This is a test error without code",
			},
			expected: "This is a test error without code",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.appError.Error()
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestValidationErrorError(t *testing.T) {
	tests := []struct {
		name     string
		valError *ValidationError
		expected string
	}{
		{
			name: "With Field",
			valError: &ValidationError{
				Field:   "monthlyRent",
				Message: "must be positive",
			},
			expected: "validation failed for field 'monthlyRent': must be positive",
		},
		{
			name: "Without Field",
			valError: &ValidationError{
				Message: "must be positive",
			},
			expected: "validation failed: must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.valError.Error()
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("serialNumber", "must be positive")

	if !errors.Is(err, ErrValidation) {
		t.Errorf("expected error to match ErrValidation, got %v", err)
	}

	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected a *ValidationError in the chain, got %v", err)
	}
	if valErr.Field != "serialNumber" {
		t.Errorf("expected field %q, got %q", "serialNumber", valErr.Field)
	}
	if valErr.Message != "must be positive" {
		t.Errorf("expected message %q, got %q", "must be positive", valErr.Message)
	}
}

func TestImportErrorError(t *testing.T) {
	importErr := &ImportError{
		Line:    3,
		Data:    "bad,Broken,Addr,999,Model,2023-01-15,300",
		Message: "Serial Number must be a valid positive number.",
	}

	expected := "line 3: Serial Number must be a valid positive number."
	if result := importErr.Error(); result != expected {
		t.Errorf("expected %q, got %q", expected, result)
	}
}

func TestWrappedSentinels(t *testing.T) {
	err := fmt.Errorf("%w: serial 101", ErrDuplicateSerial)

	if !errors.Is(err, ErrDuplicateSerial) {
		t.Errorf("expected error to match ErrDuplicateSerial, got %v", err)
	}
	if errors.Is(err, ErrAlreadyExists) {
		t.Errorf("did not expect error to match ErrAlreadyExists, got %v", err)
	}
}

func TestWrapDatabaseError(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapDatabaseError(cause, "query customers")

	if !errors.Is(err, ErrDatabase) {
		t.Errorf("expected error to match ErrDatabase, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected error to match the original cause, got %v", err)
	}

	var appErr *AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected an *AppError in the chain, got %v", err)
	}
	if appErr.Code != "DB_ERROR" {
		t.Errorf("expected code %q, got %q", "DB_ERROR", appErr.Code)
	}
}
