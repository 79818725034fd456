package i18n

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainErrors "github.com/thomas-vilte/issuemate/internal/errors"
)

func TestErrorMessage(t *testing.T) {
	trans, err := NewTranslations("en")
	require.NoError(t, err)

	t.Run("Should fill the offending value", func(t *testing.T) {
		e := domainErrors.ErrUnknownRepository.WithContext("repo_url", "https://github.com/acme/x")
		assert.Equal(t,
			"The repository https://github.com/acme/x is not in the list of known repositories",
			trans.ErrorMessage(e))
	})

	t.Run("Should render the upload limit in megabytes", func(t *testing.T) {
		e := domainErrors.ErrFileTooLarge.WithContext("limit", int64(10*1024*1024))
		assert.Equal(t, "The file exceeds the 10 MB upload limit", trans.ErrorMessage(e))
	})

	t.Run("Should fall back for untyped errors", func(t *testing.T) {
		assert.Equal(t, "Unexpected error", trans.ErrorMessage(errors.New("boom")))
	})

	t.Run("Should localize per language", func(t *testing.T) {
		es := trans.ForLanguage("es")
		assert.NotEqual(t, trans.ErrorMessage(domainErrors.ErrStateMismatch), es.ErrorMessage(domainErrors.ErrStateMismatch))
	})
}

func TestErrorSuggestion(t *testing.T) {
	trans, err := NewTranslations("en")
	require.NoError(t, err)

	assert.Empty(t, trans.ErrorSuggestion(errors.New("x")))
	assert.Equal(t, "Suggestion: retry later",
		trans.ErrorSuggestion(domainErrors.ErrUpload.WithSuggestion("retry later")))
}
