package draft

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/thomas-vilte/issuemate/internal/models"
)

type MockDraftGenerator struct {
	mock.Mock
}

func (m *MockDraftGenerator) Generate(ctx context.Context, userText string) (*models.IssueDraft, error) {
	args := m.Called(ctx, userText)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.IssueDraft), args.Error(1)
}

type MockDraftRefiner struct {
	mock.Mock
}

func (m *MockDraftRefiner) Refine(ctx context.Context, originalText string, current models.IssueDraft, modification string) (*models.IssueDraft, error) {
	args := m.Called(ctx, originalText, current, modification)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.IssueDraft), args.Error(1)
}

type MockDraftValidator struct {
	mock.Mock
}

func (m *MockDraftValidator) ValidateDraft(draft models.IssueDraft) error {
	args := m.Called(draft)
	return args.Error(0)
}

type MockIssueSubmitter struct {
	mock.Mock
}

func (m *MockIssueSubmitter) Submit(ctx context.Context, draft models.IssueDraft, hostToken string) *models.IssueCreationResponse {
	args := m.Called(ctx, draft, hostToken)
	return args.Get(0).(*models.IssueCreationResponse)
}
