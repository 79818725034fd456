package i18n

import (
	"errors"

	domainErrors "github.com/thomas-vilte/issuemate/internal/errors"
)

const bytesPerMB = 1024 * 1024

// ErrorMessage localizes err through its AppError ID. Errors without a known
// ID fall back to the generic internal message.
func (t *Translations) ErrorMessage(err error) string {
	var appErr *domainErrors.AppError
	if !errors.As(err, &appErr) || appErr.ID == "" || !t.HasMessage(appErr.ID) {
		return t.GetMessage("error.internal", 0, nil)
	}
	return t.GetMessage(appErr.ID, 0, errorTemplateData(appErr))
}

// ErrorSuggestion localizes the suggestion line of err, or "" when it has none.
func (t *Translations) ErrorSuggestion(err error) string {
	var appErr *domainErrors.AppError
	if !errors.As(err, &appErr) || appErr.Suggestion == "" {
		return ""
	}
	return t.GetMessage("error_suggestion", 0, map[string]interface{}{
		"Suggestion": appErr.Suggestion,
	})
}

func errorTemplateData(appErr *domainErrors.AppError) map[string]interface{} {
	data := map[string]interface{}{}
	for _, key := range []string{"repo_url", "assignee", "field"} {
		if v, ok := appErr.Context[key]; ok {
			data["Value"] = v
			break
		}
	}
	if limit, ok := appErr.Context["limit"].(int64); ok {
		data["Limit"] = limit / bytesPerMB
	}
	return data
}
