package models

import "strings"

// IssueDraft is the structured draft of an issue before submission.
type IssueDraft struct {
	RepoURL          string  `json:"repo_url"`
	AssigneeUsername *string `json:"assignee_username"`
	Title            string  `json:"title"`
	Body             string  `json:"body"`
}

// Assignee returns the trimmed assignee username, or "" when none is set.
func (d IssueDraft) Assignee() string {
	if d.AssigneeUsername == nil {
		return ""
	}
	return strings.TrimSpace(*d.AssigneeUsername)
}

// IsComplete reports whether the fields required for submission are present.
func (d IssueDraft) IsComplete() bool {
	return strings.TrimSpace(d.Title) != "" && strings.TrimSpace(d.RepoURL) != ""
}

// Normalize trims the draft and collapses an empty assignee to nil.
func (d IssueDraft) Normalize() IssueDraft {
	out := IssueDraft{
		RepoURL: strings.TrimSpace(d.RepoURL),
		Title:   strings.TrimSpace(d.Title),
		Body:    d.Body,
	}
	if a := d.Assignee(); a != "" {
		out.AssigneeUsername = &a
	}
	return out
}

// InitialRequest is the body for creating the first draft.
type InitialRequest struct {
	UserRequest string `json:"user_request"`
}

// RefineRequest is the body for refining an existing draft. The client sends
// the current draft back on every call.
type RefineRequest struct {
	OriginalRequest     string     `json:"original_request"`
	CurrentDraft        IssueDraft `json:"current_draft"`
	ModificationRequest string     `json:"modification_request"`
}

// IssueCreationResponse is the typed outcome of an issue submission.
type IssueCreationResponse struct {
	Status       bool    `json:"status"`
	IssueURL     *string `json:"issue_url"`
	ErrorMessage *string `json:"error_message"`
	// Err keeps the typed failure for callers; it never reaches the wire.
	Err error `json:"-"`
}
