package reference

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainErrors "github.com/thomas-vilte/issuemate/internal/errors"
	"github.com/thomas-vilte/issuemate/internal/models"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func sampleData() *Data {
	return New(
		[]models.Repository{
			{URL: "https://github.com/acme/widgets", Description: "Widget service"},
			{URL: "https://git.example.com/acme/gadgets", Description: "Internal gadgets"},
		},
		[]models.Assignee{
			{DisplayName: "Ana Díaz", GitHubUsername: "anadiaz"},
		},
	)
}

func TestLoad(t *testing.T) {
	t.Run("should load JSON lists", func(t *testing.T) {
		dir := t.TempDir()
		repos := writeFile(t, dir, "repos.json", `[{"url":"https://github.com/acme/widgets","description":"Widgets"}]`)
		users := writeFile(t, dir, "assignees.json", `[{"displayName":"Ana","githubUsername":"anadiaz"}]`)

		data, err := Load(repos, users)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://github.com/acme/widgets"}, data.RepositoryURLs())
		assert.Equal(t, []string{"anadiaz"}, data.AssigneeUsernames())
	})

	t.Run("should load YAML lists", func(t *testing.T) {
		dir := t.TempDir()
		repos := writeFile(t, dir, "repos.yaml", "- url: https://github.com/acme/widgets\n  description: Widgets\n")
		users := writeFile(t, dir, "assignees.yml", "- displayName: Ana\n  githubUsername: anadiaz\n")

		data, err := Load(repos, users)

		require.NoError(t, err)
		assert.Len(t, data.Repositories(), 1)
		assert.Equal(t, "Ana", data.Assignees()[0].DisplayName)
	})

	t.Run("should accept empty paths", func(t *testing.T) {
		data, err := Load("", "")

		require.NoError(t, err)
		assert.Empty(t, data.Repositories())
		assert.Empty(t, data.Assignees())
	})

	t.Run("should fail on malformed content", func(t *testing.T) {
		dir := t.TempDir()
		repos := writeFile(t, dir, "repos.json", `{not json`)

		_, err := Load(repos, "")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "repositories")
	})

	t.Run("should fail on missing file", func(t *testing.T) {
		_, err := Load("", filepath.Join(t.TempDir(), "missing.json"))

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "assignees")
	})
}

func TestData_IsImmutable(t *testing.T) {
	data := sampleData()

	repos := data.Repositories()
	repos[0].URL = "https://github.com/evil/repo"

	assert.Equal(t, "https://github.com/acme/widgets", data.Repositories()[0].URL)
	assert.False(t, data.HasRepository("https://github.com/evil/repo"))
}

func TestData_Context(t *testing.T) {
	data := sampleData()

	assert.Equal(t,
		"- https://github.com/acme/widgets: Widget service\n- https://git.example.com/acme/gadgets: Internal gadgets",
		data.RepositoryContext())
	assert.Equal(t, "- Ana Díaz (anadiaz)", data.AssigneeContext())
}

func TestData_ValidateDraft(t *testing.T) {
	data := sampleData()
	known := "AnaDiaz"
	unknown := "mallory"

	tests := []struct {
		name    string
		draft   models.IssueDraft
		wantErr error
	}{
		{
			name:  "known repository without assignee",
			draft: models.IssueDraft{RepoURL: "https://github.com/acme/widgets/", Title: "t"},
		},
		{
			name:  "known repository and assignee ignoring case",
			draft: models.IssueDraft{RepoURL: "https://github.com/acme/widgets", AssigneeUsername: &known, Title: "t"},
		},
		{
			name:  "missing repository is left to completeness checks",
			draft: models.IssueDraft{Title: "t"},
		},
		{
			name:    "unknown repository",
			draft:   models.IssueDraft{RepoURL: "https://github.com/acme/other", Title: "t"},
			wantErr: domainErrors.ErrUnknownRepository,
		},
		{
			name:    "unknown assignee",
			draft:   models.IssueDraft{RepoURL: "https://github.com/acme/widgets", AssigneeUsername: &unknown, Title: "t"},
			wantErr: domainErrors.ErrUnknownAssignee,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := data.ValidateDraft(tt.draft)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr))
			assert.True(t, domainErrors.IsType(err, domainErrors.TypeValidation))
		})
	}

	t.Run("empty lists disable validation", func(t *testing.T) {
		err := New(nil, nil).ValidateDraft(models.IssueDraft{RepoURL: "https://github.com/x/y", AssigneeUsername: &unknown})
		assert.NoError(t, err)
	})
}
