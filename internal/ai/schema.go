package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/thomas-vilte/issuemate/internal/models"
	"github.com/thomas-vilte/issuemate/internal/regex"
)

// DraftSchema restricts the draft fields to known values. Empty lists leave
// the corresponding field unconstrained.
type DraftSchema struct {
	RepositoryURLs    []string
	AssigneeUsernames []string
}

// JSONSchema renders the draft shape as a JSON Schema document for backends
// that accept raw schemas.
func (s DraftSchema) JSONSchema() map[string]any {
	repo := map[string]any{
		"type":        "string",
		"description": "URL of the target repository, taken from the repository list",
	}
	if len(s.RepositoryURLs) > 0 {
		repo["enum"] = toAnySlice(s.RepositoryURLs)
	}

	assignee := map[string]any{
		"type":        []string{"string", "null"},
		"description": "GitHub username of the assignee, or null when nobody fits",
	}
	if len(s.AssigneeUsernames) > 0 {
		values := toAnySlice(s.AssigneeUsernames)
		assignee["enum"] = append(values, nil)
	}

	return map[string]any{
		"type":     "object",
		"required": []string{"repo_url", "assignee_username", "title", "body"},
		"properties": map[string]any{
			"repo_url":          repo,
			"assignee_username": assignee,
			"title": map[string]any{
				"type":        "string",
				"description": "Short imperative title of the issue",
			},
			"body": map[string]any{
				"type":        "string",
				"description": "Body of the issue in markdown format",
			},
		},
		"additionalProperties": false,
	}
}

func toAnySlice(values []string) []any {
	out := make([]any, 0, len(values)+1)
	for _, v := range values {
		out = append(out, v)
	}
	return out
}

// ParseDraft decodes model output into a normalized draft. Markdown fences
// around the JSON are tolerated.
func ParseDraft(text string) (*models.IssueDraft, error) {
	content := StripCodeFence(text)
	if content == "" {
		return nil, fmt.Errorf("empty response from AI")
	}

	var draft models.IssueDraft
	if err := json.Unmarshal([]byte(content), &draft); err != nil {
		return nil, fmt.Errorf("error parsing AI response: %w", err)
	}

	normalized := draft.Normalize()
	return &normalized, nil
}

// StripCodeFence removes a surrounding ``` block if the model added one.
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if m := regex.MarkdownJSONBlock.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return text
}
