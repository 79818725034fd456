package vcs

import (
	"context"

	"github.com/thomas-vilte/issuemate/internal/models"
)

// IssueSubmitter creates an issue from a draft on the host named by the
// draft's repository URL.
type IssueSubmitter interface {
	// Submit never returns a transport error: every failure is reported
	// through the response's Status and ErrorMessage.
	Submit(ctx context.Context, draft models.IssueDraft, hostToken string) *models.IssueCreationResponse
}
