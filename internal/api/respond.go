package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	domainErrors "github.com/thomas-vilte/issuemate/internal/errors"
	"github.com/thomas-vilte/issuemate/internal/i18n"
	"github.com/thomas-vilte/issuemate/internal/logger"
)

const maxJSONBody = 1 << 20

// errorResponse is the body of every non-2xx answer.
type errorResponse struct {
	Detail     string `json:"detail"`
	Code       string `json:"code"`
	Type       string `json:"type"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	if err := dec.Decode(v); err != nil {
		return domainErrors.ErrInvalidRequest.WithError(err)
	}
	return nil
}

// statusFor maps an error type to its HTTP status.
func statusFor(err error) int {
	switch domainErrors.TypeOf(err) {
	case domainErrors.TypeAuth:
		return http.StatusUnauthorized
	case domainErrors.TypeValidation:
		if errors.Is(err, domainErrors.ErrInvalidRequest) {
			return http.StatusUnprocessableEntity
		}
		return http.StatusBadRequest
	case domainErrors.TypeGeneration:
		if errors.Is(err, domainErrors.ErrBackendNotConfigured) {
			return http.StatusServiceUnavailable
		}
		return http.StatusBadRequest
	case domainErrors.TypeConfiguration:
		return http.StatusServiceUnavailable
	case domainErrors.TypeSubmission, domainErrors.TypeUpload:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// localizer picks the translations matching the request's Accept-Language.
func localizer(r *http.Request, tr *i18n.Translations) *i18n.Translations {
	if tr == nil {
		return nil
	}
	return tr.ForLanguage(tr.MatchLanguage(r.Header.Get("Accept-Language")))
}

func localizedError(r *http.Request, tr *i18n.Translations, err error) string {
	if loc := localizer(r, tr); loc != nil {
		return loc.ErrorMessage(err)
	}
	return err.Error()
}

func writeError(w http.ResponseWriter, r *http.Request, tr *i18n.Translations, err error) {
	status := statusFor(err)

	resp := errorResponse{
		Detail: localizedError(r, tr, err),
		Code:   "error.internal",
		Type:   string(domainErrors.TypeOf(err)),
	}
	var appErr *domainErrors.AppError
	if errors.As(err, &appErr) {
		if appErr.ID != "" {
			resp.Code = appErr.ID
		}
		resp.Suggestion = appErr.Suggestion
	}

	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error("request failed", "error", err, "status", status)
	} else {
		log.Warn("request rejected", "error", err, "status", status)
	}

	writeJSON(w, status, resp)
}

func requireField(name, value string) error {
	if value == "" {
		return domainErrors.ErrInvalidRequest.WithError(fmt.Errorf("%s is required", name))
	}
	return nil
}
