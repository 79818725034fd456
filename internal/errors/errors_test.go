package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestAppError_WithError(t *testing.T) {
	baseErr := errors.New("original error")
	appErr := ErrTokenExchange.WithError(baseErr)

	if appErr.Err != baseErr {
		t.Errorf("Expected underlying error to be %v, got %v", baseErr, appErr.Err)
	}

	if appErr.Type != TypeAuth {
		t.Errorf("Expected type %s, got %s", TypeAuth, appErr.Type)
	}
}

func TestAppError_WithContext(t *testing.T) {
	appErr := ErrSubmissionFailed.WithContext("status", 422).WithContext("response_body", `{"message":"Validation Failed"}`)

	if appErr.Context["status"] != 422 {
		t.Errorf("Expected status context 422, got %v", appErr.Context["status"])
	}

	if ErrSubmissionFailed.Context != nil {
		t.Error("Expected sentinel context to stay untouched")
	}
}

func TestAppError_Error_Format(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		contains []string
	}{
		{
			name: "Simple error without underlying error",
			err:  ErrStateMismatch,
			contains: []string{
				"AUTH",
				"OAuth state does not match",
			},
		},
		{
			name: "Error with underlying error",
			err:  ErrGenerationFailed.WithError(errors.New("deadline exceeded")),
			contains: []string{
				"GENERATION",
				"draft generation failed",
				"deadline exceeded",
			},
		},
		{
			name: "Error with response body context",
			err: ErrSubmissionFailed.WithError(errors.New("422 Unprocessable Entity")).
				WithContext("response_body", "Validation Failed"),
			contains: []string{
				"SUBMISSION",
				"issue creation failed",
				"Validation Failed",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, c := range tt.contains {
				if !strings.Contains(msg, c) {
					t.Errorf("Expected %q to contain %q", msg, c)
				}
			}
		})
	}
}

func TestAppError_Is(t *testing.T) {
	t.Run("derived errors match their sentinel", func(t *testing.T) {
		err := fmt.Errorf("wrapped: %w", ErrMalformedReference.WithContext("repo_url", "https://github.com/acme"))

		if !errors.Is(err, ErrMalformedReference) {
			t.Error("Expected derived error to match ErrMalformedReference")
		}
		if errors.Is(err, ErrUnknownRepository) {
			t.Error("Expected derived error not to match a different sentinel")
		}
	})

	t.Run("ad-hoc errors only match themselves", func(t *testing.T) {
		a := NewAppError(TypeInternal, "a", nil)
		b := NewAppError(TypeInternal, "a", nil)

		if errors.Is(a, b) {
			t.Error("Expected unrelated ad-hoc errors not to match")
		}
	})
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"auth sentinel", ErrUnauthenticated, TypeAuth},
		{"wrapped upload error", fmt.Errorf("ctx: %w", ErrFileTooLarge), TypeUpload},
		{"plain error", errors.New("boom"), TypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TypeOf(tt.err); got != tt.want {
				t.Errorf("TypeOf() = %s, want %s", got, tt.want)
			}
		})
	}

	if IsType(nil, TypeInternal) {
		t.Error("Expected nil error to carry no type")
	}
}
