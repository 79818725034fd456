package github

import (
	"context"
	"net/http"

	"github.com/google/go-github/v80/github"
	"github.com/stretchr/testify/mock"
)

var (
	_ IssuesService = (*MockIssuesService)(nil)
	_ UsersService  = (*MockUsersService)(nil)
)

// MockIssuesService stands in for the host's issues API. It is exported so
// command tests can drive a Submitter without a network.
type MockIssuesService struct {
	mock.Mock
}

func (m *MockIssuesService) Create(ctx context.Context, owner, repo string, issue *github.IssueRequest) (*github.Issue, *github.Response, error) {
	args := m.Called(ctx, owner, repo, issue)
	created, _ := args.Get(0).(*github.Issue)
	resp, _ := args.Get(1).(*github.Response)
	return created, resp, args.Error(2)
}

// ExpectCreated registers a successful creation in owner/repo answered with
// the given issue number and URL.
func (m *MockIssuesService) ExpectCreated(owner, repo string, number int, htmlURL string) *mock.Call {
	return m.On("Create", mock.Anything, owner, repo, mock.Anything).Return(&github.Issue{
		Number:  github.Ptr(number),
		HTMLURL: github.Ptr(htmlURL),
	}, &github.Response{Response: &http.Response{StatusCode: http.StatusCreated}}, nil)
}

// ExpectRejected registers a creation in owner/repo refused with status.
func (m *MockIssuesService) ExpectRejected(owner, repo string, status int, err error) *mock.Call {
	return m.On("Create", mock.Anything, owner, repo, mock.Anything).
		Return(nil, &github.Response{Response: &http.Response{StatusCode: status}}, err)
}

type MockUsersService struct {
	mock.Mock
}

func (m *MockUsersService) Get(ctx context.Context, user string) (*github.User, *github.Response, error) {
	args := m.Called(ctx, user)
	u, _ := args.Get(0).(*github.User)
	resp, _ := args.Get(1).(*github.Response)
	return u, resp, args.Error(2)
}
