package models

// Repository is a valid target repository offered as generation context.
type Repository struct {
	URL         string `json:"url" yaml:"url"`
	Description string `json:"description" yaml:"description"`
}

// Assignee is a known person that can be assigned to an issue.
type Assignee struct {
	DisplayName    string `json:"displayName" yaml:"displayName"`
	GitHubUsername string `json:"githubUsername" yaml:"githubUsername"`
}
