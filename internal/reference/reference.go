// Package reference holds the read-only repository and assignee lists used to
// ground draft generation and validate drafts before submission.
package reference

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/thomas-vilte/issuemate/internal/errors"
	"github.com/thomas-vilte/issuemate/internal/models"
	"gopkg.in/yaml.v3"
)

// Data is built once at startup and never mutated afterwards, so it is safe
// for concurrent readers without locking.
type Data struct {
	repositories []models.Repository
	assignees    []models.Assignee
	repoIndex    map[string]struct{}
	userIndex    map[string]struct{}
}

// New copies the given lists into an immutable Data value.
func New(repos []models.Repository, assignees []models.Assignee) *Data {
	d := &Data{
		repositories: append([]models.Repository(nil), repos...),
		assignees:    append([]models.Assignee(nil), assignees...),
		repoIndex:    make(map[string]struct{}, len(repos)),
		userIndex:    make(map[string]struct{}, len(assignees)),
	}
	for _, r := range d.repositories {
		d.repoIndex[normalizeURL(r.URL)] = struct{}{}
	}
	for _, a := range d.assignees {
		d.userIndex[strings.ToLower(a.GitHubUsername)] = struct{}{}
	}
	return d
}

// Load reads both lists. Files ending in .yaml or .yml are parsed as YAML,
// anything else as JSON. An empty path yields an empty list.
func Load(reposPath, assigneesPath string) (*Data, error) {
	var repos []models.Repository
	if err := loadList(reposPath, &repos); err != nil {
		return nil, fmt.Errorf("error loading repositories: %w", err)
	}

	var assignees []models.Assignee
	if err := loadList(assigneesPath, &assignees); err != nil {
		return nil, fmt.Errorf("error loading assignees: %w", err)
	}

	return New(repos, assignees), nil
}

func loadList(path string, out interface{}) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, out)
	default:
		err = json.Unmarshal(data, out)
	}
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", path, err)
	}
	return nil
}

// Repositories returns a copy of the repository list.
func (d *Data) Repositories() []models.Repository {
	return append([]models.Repository(nil), d.repositories...)
}

// Assignees returns a copy of the assignee list.
func (d *Data) Assignees() []models.Assignee {
	return append([]models.Assignee(nil), d.assignees...)
}

// RepositoryURLs lists the repository URLs in load order.
func (d *Data) RepositoryURLs() []string {
	urls := make([]string, 0, len(d.repositories))
	for _, r := range d.repositories {
		urls = append(urls, r.URL)
	}
	return urls
}

// AssigneeUsernames lists the assignee usernames in load order.
func (d *Data) AssigneeUsernames() []string {
	names := make([]string, 0, len(d.assignees))
	for _, a := range d.assignees {
		names = append(names, a.GitHubUsername)
	}
	return names
}

func (d *Data) HasRepository(url string) bool {
	_, ok := d.repoIndex[normalizeURL(url)]
	return ok
}

func (d *Data) HasAssignee(username string) bool {
	_, ok := d.userIndex[strings.ToLower(strings.TrimSpace(username))]
	return ok
}

// RepositoryContext renders the repository list as prompt context.
func (d *Data) RepositoryContext() string {
	var sb strings.Builder
	for i, r := range d.repositories {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "- %s: %s", r.URL, r.Description)
	}
	return sb.String()
}

// AssigneeContext renders the assignee list as prompt context.
func (d *Data) AssigneeContext() string {
	var sb strings.Builder
	for i, a := range d.assignees {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "- %s (%s)", a.DisplayName, a.GitHubUsername)
	}
	return sb.String()
}

// ValidateDraft checks the draft's repository and assignee against the lists.
// An empty list disables the corresponding check.
func (d *Data) ValidateDraft(draft models.IssueDraft) error {
	if draft.RepoURL != "" && len(d.repositories) > 0 && !d.HasRepository(draft.RepoURL) {
		return errors.ErrUnknownRepository.WithContext("repo_url", draft.RepoURL)
	}
	if a := draft.Assignee(); a != "" && len(d.assignees) > 0 && !d.HasAssignee(a) {
		return errors.ErrUnknownAssignee.WithContext("assignee", a)
	}
	return nil
}

func normalizeURL(u string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(u)), "/")
}
