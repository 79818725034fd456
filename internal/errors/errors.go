package errors

import (
	"errors"
	"fmt"
)

// ErrorType defines the category of the error
type ErrorType string

const (
	TypeGeneration    ErrorType = "GENERATION"
	TypeValidation    ErrorType = "VALIDATION"
	TypeAuth          ErrorType = "AUTH"
	TypeSubmission    ErrorType = "SUBMISSION"
	TypeUpload        ErrorType = "UPLOAD"
	TypeConfiguration ErrorType = "CONFIGURATION"
	TypeInternal      ErrorType = "INTERNAL"
)

// AppError represents a domain-level error with a type and an underlying error
type AppError struct {
	Type       ErrorType
	Message    string
	Context    map[string]interface{}
	Err        error
	Suggestion string
	// ID is the translation key used by the HTTP and CLI layers.
	ID string
}

func (e *AppError) Error() string {
	var msg string
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	} else {
		msg = fmt.Sprintf("%s: %s", e.Type, e.Message)
	}

	if e.Context != nil {
		if body, ok := e.Context["response_body"].(string); ok && body != "" {
			msg += fmt.Sprintf(" - %s", body)
		}
	}

	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches two AppErrors derived from the same sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.ID != "" && e.ID == t.ID && e.Type == t.Type
}

// WithError creates a new AppError with an underlying error
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        err,
		Suggestion: e.Suggestion,
		ID:         e.ID,
	}
}

// WithContext creates a new AppError with additional context
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	ctx := make(map[string]interface{})
	for k, v := range e.Context {
		ctx[k] = v
	}
	ctx[key] = value
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    ctx,
		Err:        e.Err,
		Suggestion: e.Suggestion,
		ID:         e.ID,
	}
}

func (e *AppError) WithSuggestion(suggestion string) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        e.Err,
		Suggestion: suggestion,
		ID:         e.ID,
	}
}

// NewAppError creates a new AppError
func NewAppError(t ErrorType, msg string, err error) *AppError {
	return &AppError{
		Type:    t,
		Message: msg,
		Err:     err,
	}
}

func newSentinel(t ErrorType, id, msg string) *AppError {
	return &AppError{Type: t, Message: msg, ID: id}
}

// TypeOf returns the type of the outermost AppError in the chain, or
// TypeInternal when err carries none.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return TypeInternal
}

// IsType reports whether err carries an AppError of type t.
func IsType(err error, t ErrorType) bool {
	return err != nil && TypeOf(err) == t
}

// Generation errors
var (
	ErrGenerationFailed = newSentinel(TypeGeneration, "error.generation_failed", "draft generation failed").
				WithSuggestion("Try again or check the AI provider configuration")

	ErrIncompleteDraft = newSentinel(TypeGeneration, "error.incomplete_draft", "generated draft is missing required fields")

	ErrBackendNotConfigured = newSentinel(TypeGeneration, "error.backend_not_configured", "AI backend is not configured").
				WithSuggestion("Set ai.provider and ai.api_key in the configuration")
)

// Validation errors
var (
	ErrMalformedReference = newSentinel(TypeValidation, "error.malformed_reference", "repository reference is not in the expected 'owner/repo' format")

	ErrUnknownRepository = newSentinel(TypeValidation, "error.unknown_repository", "repository is not in the reference list")

	ErrUnknownAssignee = newSentinel(TypeValidation, "error.unknown_assignee", "assignee is not in the reference list")

	ErrInvalidRequest = newSentinel(TypeValidation, "error.invalid_request", "invalid request body")
)

// Auth errors
var (
	ErrStateMismatch = newSentinel(TypeAuth, "error.state_mismatch", "OAuth state does not match the issued value")

	ErrTokenExchange = newSentinel(TypeAuth, "error.token_exchange", "failed to exchange authorization code")

	ErrMissingAccessToken = newSentinel(TypeAuth, "error.missing_access_token", "host returned no access token")

	ErrProfileFetch = newSentinel(TypeAuth, "error.profile_fetch", "failed to fetch the authenticated user profile")

	ErrUnauthenticated = newSentinel(TypeAuth, "error.unauthenticated", "not authenticated")
)

// Submission errors
var (
	ErrSubmissionFailed = newSentinel(TypeSubmission, "error.submission_failed", "issue creation failed")
)

// Upload errors
var (
	ErrFileTooLarge = newSentinel(TypeUpload, "error.file_too_large", "file exceeds the upload size limit")

	ErrUpload = newSentinel(TypeUpload, "error.upload_failed", "file upload failed")

	ErrStorageNotConfigured = newSentinel(TypeUpload, "error.storage_not_configured", "blob storage is not configured").
				WithSuggestion("Set storage.bucket in the configuration")
)

// Configuration errors
var (
	ErrSigningKeyMissing = newSentinel(TypeConfiguration, "error.signing_key_missing", "session signing key is not configured").
				WithSuggestion("Set ISSUEMATE_SESSION_SIGNING_KEY to a long random value")

	ErrPlaceholderConfig = newSentinel(TypeConfiguration, "error.placeholder_config", "configuration still contains placeholder values").
				WithSuggestion("Update cli.token, cli.owner and cli.repo in the configuration file")

	ErrConfigMissing = newSentinel(TypeConfiguration, "error.config_missing", "required configuration is missing")
)
