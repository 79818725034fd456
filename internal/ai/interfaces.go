package ai

import (
	"context"

	"github.com/thomas-vilte/issuemate/internal/models"
)

// Operation names a draft call for logging and usage attribution.
type Operation string

const (
	OperationGenerate Operation = "generate-draft"
	OperationRefine   Operation = "refine-draft"
)

// DraftRequest is one constrained generation call.
type DraftRequest struct {
	Operation Operation
	// Instructions is the fixed system-level guidance for the model.
	Instructions string
	// Prompt carries the rendered reference context and user input.
	Prompt string
	Schema DraftSchema
}

// DraftBackend produces a structured IssueDraft from a prompt. Implementations
// must constrain the model output to the draft shape described by req.Schema.
type DraftBackend interface {
	GenerateDraft(ctx context.Context, req DraftRequest) (*models.IssueDraft, *models.TokenUsage, error)

	// GetModelName returns the name of the current model (e.g.: "gemini-2.5-flash")
	GetModelName() string

	// GetProviderName returns the name of the provider (e.g.: "gemini", "anthropic")
	GetProviderName() string
}
