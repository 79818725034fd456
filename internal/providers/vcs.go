package providers

import (
	"net/http"
	"time"

	"github.com/thomas-vilte/issuemate/internal/config"
	"github.com/thomas-vilte/issuemate/internal/vcs"
	"github.com/thomas-vilte/issuemate/internal/vcs/github"
)

const fallbackTimeout = 30 * time.Second

// NewHTTPClient returns the outbound client shared by the host integrations.
func NewHTTPClient(cfg *config.Config) *http.Client {
	timeout := cfg.Server.OutboundTimeout
	if timeout <= 0 {
		timeout = fallbackTimeout
	}
	return &http.Client{Timeout: timeout}
}

// NewIssueSubmitter creates the IssueSubmitter for the configured code host.
func NewIssueSubmitter(cfg *config.Config) vcs.IssueSubmitter {
	return github.NewSubmitter(NewHTTPClient(cfg))
}
