package github

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v80/github"
	domainErrors "github.com/thomas-vilte/issuemate/internal/errors"
	"github.com/thomas-vilte/issuemate/internal/logger"
	"github.com/thomas-vilte/issuemate/internal/models"
	"github.com/thomas-vilte/issuemate/internal/vcs"
	"golang.org/x/oauth2"
)

var _ vcs.IssueSubmitter = (*Submitter)(nil)

type IssuesService interface {
	Create(ctx context.Context, owner, repo string, issue *github.IssueRequest) (*github.Issue, *github.Response, error)
}

type UsersService interface {
	Get(ctx context.Context, user string) (*github.User, *github.Response, error)
}

// IssuePayload is the issue creation body. Labels are always sent, assignees
// only when present.
type IssuePayload struct {
	Title     string
	Body      string
	Assignees []string
	Labels    []string
}

// CreatedIssue is the part of the host's answer callers need.
type CreatedIssue struct {
	Number int
	URL    string
}

// NewClient builds a go-github client for host authenticated with token.
// httpClient supplies timeouts and transport; it is never mutated.
func NewClient(httpClient *http.Client, host, token string) (*github.Client, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	base := httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	authed := &http.Client{
		Timeout:       httpClient.Timeout,
		CheckRedirect: httpClient.CheckRedirect,
		Jar:           httpClient.Jar,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			Base:   base,
		},
	}

	client := github.NewClient(authed)
	if !IsPublicHost(host) {
		baseURL, err := url.Parse(APIBaseURL(host))
		if err != nil {
			return nil, fmt.Errorf("error parsing API base URL for %s: %w", host, err)
		}
		client.BaseURL = baseURL
	}
	return client, nil
}

type servicesFactory func(target RepoTarget, token string) (IssuesService, error)

// Submitter creates issues on the host named by the draft's repository URL.
// It performs exactly one request per submission and never retries.
type Submitter struct {
	newIssues servicesFactory
}

func NewSubmitter(httpClient *http.Client) *Submitter {
	return &Submitter{
		newIssues: func(target RepoTarget, token string) (IssuesService, error) {
			client, err := NewClient(httpClient, target.Host, token)
			if err != nil {
				return nil, err
			}
			return client.Issues, nil
		},
	}
}

// NewSubmitterWithServices injects the issues service, for tests.
func NewSubmitterWithServices(issues IssuesService) *Submitter {
	return &Submitter{
		newIssues: func(RepoTarget, string) (IssuesService, error) {
			return issues, nil
		},
	}
}

// Submit creates the issue described by draft. Failures come back as a
// typed result, never as an error.
func (s *Submitter) Submit(ctx context.Context, draft models.IssueDraft, hostToken string) *models.IssueCreationResponse {
	draft = draft.Normalize()

	target, err := ParseRepoReference(draft.RepoURL)
	if err != nil {
		return failure(err, err.Error())
	}

	payload := IssuePayload{
		Title: draft.Title,
		Body:  draft.Body,
	}
	if a := draft.Assignee(); a != "" {
		payload.Assignees = []string{a}
	}

	issue, err := s.Create(ctx, target, payload, hostToken)
	if err != nil {
		msg := err.Error()
		var appErr *domainErrors.AppError
		if errors.As(err, &appErr) {
			if body, ok := appErr.Context["response_body"].(string); ok && body != "" {
				msg = body
			}
		}
		return failure(err, msg)
	}

	return &models.IssueCreationResponse{
		Status:   true,
		IssueURL: &issue.URL,
	}
}

func failure(err error, msg string) *models.IssueCreationResponse {
	return &models.IssueCreationResponse{
		Status:       false,
		ErrorMessage: &msg,
		Err:          err,
	}
}

// Create sends one issue creation request to target's host.
func (s *Submitter) Create(ctx context.Context, target RepoTarget, payload IssuePayload, token string) (*CreatedIssue, error) {
	log := logger.FromContext(ctx)

	log.Info("creating github issue",
		"host", target.Host,
		"owner", target.Owner,
		"repo", target.Name,
		"labels_count", len(payload.Labels),
		"assignees_count", len(payload.Assignees))

	issues, err := s.newIssues(target, token)
	if err != nil {
		return nil, domainErrors.ErrSubmissionFailed.WithError(err)
	}

	labels := payload.Labels
	if labels == nil {
		labels = []string{}
	}

	issueRequest := &github.IssueRequest{
		Title:  github.Ptr(payload.Title),
		Body:   github.Ptr(payload.Body),
		Labels: &labels,
	}
	if len(payload.Assignees) > 0 {
		assignees := append([]string(nil), payload.Assignees...)
		issueRequest.Assignees = &assignees
	}

	ghIssue, resp, err := issues.Create(ctx, target.Owner, target.Name, issueRequest)
	if err != nil {
		appErr := domainErrors.ErrSubmissionFailed.
			WithError(err).
			WithContext("repo", target.String())
		if resp != nil && resp.Response != nil {
			appErr = appErr.WithContext("status_code", resp.StatusCode)
			if body := readBody(resp.Response); body != "" {
				appErr = appErr.WithContext("response_body", body)
			}
			if resp.StatusCode == http.StatusUnauthorized {
				appErr = appErr.WithSuggestion("Log in again, the host token is no longer valid")
			}
		}
		log.Error("failed to create github issue",
			"error", err,
			"owner", target.Owner,
			"repo", target.Name)
		return nil, appErr
	}

	created := &CreatedIssue{
		Number: ghIssue.GetNumber(),
		URL:    ghIssue.GetHTMLURL(),
	}

	log.Info("github issue created successfully",
		"issue_number", created.Number,
		"issue_url", created.URL)

	return created, nil
}

// readBody returns the raw error body; go-github leaves it readable after
// decoding the error.
func readBody(resp *http.Response) string {
	if resp == nil || resp.Body == nil {
		return ""
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// FetchProfile returns the authenticated user behind token.
func FetchProfile(ctx context.Context, users UsersService) (*models.UserProfile, error) {
	user, resp, err := users.Get(ctx, "")
	if err != nil {
		appErr := domainErrors.ErrProfileFetch.WithError(err)
		if resp != nil && resp.Response != nil {
			appErr = appErr.WithContext("status_code", resp.StatusCode)
		}
		return nil, appErr
	}

	if user.GetLogin() == "" {
		return nil, domainErrors.ErrProfileFetch.WithContext("reason", "authenticated user has no login")
	}

	return &models.UserProfile{
		ID:        user.GetID(),
		Login:     user.GetLogin(),
		AvatarURL: user.GetAvatarURL(),
		Name:      user.GetName(),
		Email:     user.GetEmail(),
	}, nil
}
