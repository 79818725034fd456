// Package drafts turns free text into issue drafts and applies natural
// language edits to existing drafts.
package drafts

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/thomas-vilte/issuemate/internal/ai"
	domainErrors "github.com/thomas-vilte/issuemate/internal/errors"
	"github.com/thomas-vilte/issuemate/internal/logger"
	"github.com/thomas-vilte/issuemate/internal/models"
	"github.com/thomas-vilte/issuemate/internal/reference"
)

type base struct {
	backend ai.DraftBackend
	ref     *reference.Data
	lang    string
}

func newBase(backend ai.DraftBackend, ref *reference.Data, lang string) base {
	if ref == nil {
		ref = reference.New(nil, nil)
	}
	return base{backend: backend, ref: ref, lang: lang}
}

func (b *base) schema() ai.DraftSchema {
	return ai.DraftSchema{
		RepositoryURLs:    b.ref.RepositoryURLs(),
		AssigneeUsernames: b.ref.AssigneeUsernames(),
	}
}

func (b *base) promptData() ai.PromptData {
	return ai.PromptData{
		Repositories: b.ref.RepositoryContext(),
		Assignees:    b.ref.AssigneeContext(),
	}
}

// call runs one backend request and enforces completeness. A sparse draft is
// only accepted when the user gave no text to extract from. A repository or
// assignee outside the reference lists is a generation failure, since not
// every backend can enforce the enums.
func (b *base) call(ctx context.Context, req ai.DraftRequest, source string) (*models.IssueDraft, error) {
	draft, usage, err := b.backend.GenerateDraft(ctx, req)
	if err != nil {
		if domainErrors.TypeOf(err) == domainErrors.TypeInternal {
			return nil, domainErrors.ErrGenerationFailed.WithError(err)
		}
		return nil, err
	}
	if draft == nil {
		return nil, domainErrors.ErrGenerationFailed.WithContext("reason", "backend returned no draft")
	}

	normalized := draft.Normalize()
	if strings.TrimSpace(source) != "" && !normalized.IsComplete() {
		return nil, domainErrors.ErrIncompleteDraft.
			WithContext("has_title", normalized.Title != "").
			WithContext("has_repo_url", normalized.RepoURL != "")
	}

	if err := b.ref.ValidateDraft(normalized); err != nil {
		return nil, domainErrors.ErrGenerationFailed.
			WithError(err).
			WithContext("reason", "draft names an unknown repository or assignee")
	}

	if usage != nil {
		logger.Debug(ctx, "draft usage",
			"operation", string(req.Operation),
			"total_tokens", usage.TotalTokens)
	}
	return &normalized, nil
}

// Generator creates the first draft from a free-text request.
type Generator struct {
	base
}

// NewGenerator captures the reference data used for every generated draft.
func NewGenerator(backend ai.DraftBackend, ref *reference.Data, lang string) *Generator {
	return &Generator{newBase(backend, ref, lang)}
}

func (g *Generator) Generate(ctx context.Context, userText string) (*models.IssueDraft, error) {
	ctx = logger.With(ctx, "operation", string(ai.OperationGenerate))
	logger.Info(ctx, "generating issue draft", "input_length", len(userText))

	data := g.promptData()
	data.UserRequest = userText
	prompt, err := ai.BuildDraftPrompt(data)
	if err != nil {
		return nil, domainErrors.ErrGenerationFailed.WithError(err)
	}

	draft, err := g.call(ctx, ai.DraftRequest{
		Operation:    ai.OperationGenerate,
		Instructions: ai.GetDraftInstructions(g.lang),
		Prompt:       prompt,
		Schema:       g.schema(),
	}, userText)
	if err != nil {
		logger.Error(ctx, "draft generation failed", err)
		return nil, err
	}

	logger.Info(ctx, "issue draft generated",
		"repo_url", draft.RepoURL,
		"has_assignee", draft.AssigneeUsername != nil)
	return draft, nil
}

// Refiner applies a modification request to an existing draft. The current
// draft comes from the caller on every call and nothing is stored between calls.
type Refiner struct {
	base
}

func NewRefiner(backend ai.DraftBackend, ref *reference.Data, lang string) *Refiner {
	return &Refiner{newBase(backend, ref, lang)}
}

// Refine returns a new draft; current is never modified. The backend output
// is taken as is, with no diffing against current.
func (r *Refiner) Refine(ctx context.Context, originalText string, current models.IssueDraft, modification string) (*models.IssueDraft, error) {
	ctx = logger.With(ctx, "operation", string(ai.OperationRefine))
	logger.Info(ctx, "refining issue draft", "modification_length", len(modification))

	currentJSON, err := json.Marshal(current)
	if err != nil {
		return nil, domainErrors.ErrGenerationFailed.WithError(fmt.Errorf("error encoding current draft: %w", err))
	}

	data := r.promptData()
	data.UserRequest = originalText
	data.CurrentDraft = string(currentJSON)
	data.ModificationText = modification
	prompt, err := ai.BuildRefinePrompt(data)
	if err != nil {
		return nil, domainErrors.ErrGenerationFailed.WithError(err)
	}

	draft, err := r.call(ctx, ai.DraftRequest{
		Operation:    ai.OperationRefine,
		Instructions: ai.GetRefineInstructions(r.lang),
		Prompt:       prompt,
		Schema:       r.schema(),
	}, originalText)
	if err != nil {
		logger.Error(ctx, "draft refinement failed", err)
		return nil, err
	}

	logger.Info(ctx, "issue draft refined", "title_changed", draft.Title != current.Title)
	return draft, nil
}
