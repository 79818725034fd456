package reference

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/issuemate/internal/config"
	"github.com/thomas-vilte/issuemate/internal/i18n"
	"github.com/thomas-vilte/issuemate/internal/models"
	"github.com/thomas-vilte/issuemate/internal/reference"
	"github.com/urfave/cli/v3"
)

func runList(t *testing.T, provider DataProvider) (string, error) {
	color.NoColor = true
	trans, err := i18n.NewTranslations("en")
	require.NoError(t, err)

	var out bytes.Buffer
	cmd := NewReferenceCommandFactory(provider).CreateCommand(trans, &config.Config{})
	app := &cli.Command{
		Name:      "test",
		Writer:    &out,
		ErrWriter: &out,
		Commands:  []*cli.Command{cmd},
	}
	err = app.Run(context.Background(), []string{"test", "reference", "list"})
	return out.String(), err
}

func TestReferenceList(t *testing.T) {
	t.Run("should print both lists", func(t *testing.T) {
		data := reference.New(
			[]models.Repository{{URL: "https://github.com/acme/widgets", Description: "Widget store"}},
			[]models.Assignee{
				{DisplayName: "Ana Diaz", GitHubUsername: "anadiaz"},
				{DisplayName: "Bob", GitHubUsername: "bob"},
			},
		)

		out, err := runList(t, func(*config.Config) (*reference.Data, error) { return data, nil })

		require.NoError(t, err)
		assert.Contains(t, out, "Repositories")
		assert.Contains(t, out, "1 entry")
		assert.Contains(t, out, "https://github.com/acme/widgets")
		assert.Contains(t, out, "Widget store")
		assert.Contains(t, out, "Assignees")
		assert.Contains(t, out, "2 entries")
		assert.Contains(t, out, "anadiaz")
		assert.Contains(t, out, "Ana Diaz")
	})

	t.Run("should handle empty lists", func(t *testing.T) {
		out, err := runList(t, func(*config.Config) (*reference.Data, error) {
			return reference.New(nil, nil), nil
		})

		require.NoError(t, err)
		assert.Contains(t, out, "0 entries")
	})

	t.Run("should return load errors", func(t *testing.T) {
		_, err := runList(t, func(*config.Config) (*reference.Data, error) {
			return nil, errors.New("error reading repos.json")
		})

		assert.EqualError(t, err, "error reading repos.json")
	})
}
