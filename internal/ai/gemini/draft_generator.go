package gemini

import (
	"context"
	"net/http"
	"strings"

	"github.com/thomas-vilte/issuemate/internal/ai"
	"github.com/thomas-vilte/issuemate/internal/config"
	domainErrors "github.com/thomas-vilte/issuemate/internal/errors"
	"github.com/thomas-vilte/issuemate/internal/logger"
	"github.com/thomas-vilte/issuemate/internal/models"
	"google.golang.org/genai"
)

const DefaultModel = string(config.ModelGeminiV25Flash)

type generateFunc func(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

// GeminiDraftGenerator implements ai.DraftBackend on the Gemini API using a
// response schema so the model can only emit the draft shape.
type GeminiDraftGenerator struct {
	model       string
	temperature float32
	generateFn  generateFunc
}

var _ ai.DraftBackend = (*GeminiDraftGenerator)(nil)

func NewGeminiDraftGenerator(ctx context.Context, cfg *config.Config) (*GeminiDraftGenerator, error) {
	if cfg.AI.APIKey == "" {
		return nil, domainErrors.ErrBackendNotConfigured.WithContext("provider", "gemini")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     cfg.AI.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.Server.OutboundTimeout},
	})
	if err != nil {
		errMsg := strings.ToLower(err.Error())
		if strings.Contains(errMsg, "api key") ||
			strings.Contains(errMsg, "unauthorized") {
			return nil, domainErrors.ErrBackendNotConfigured.WithError(err)
		}
		return nil, domainErrors.NewAppError(domainErrors.TypeConfiguration, "error creating AI client", err)
	}

	model := cfg.AI.Model
	if model == "" {
		model = DefaultModel
	}

	return &GeminiDraftGenerator{
		model:       model,
		temperature: cfg.AI.Temperature,
		generateFn:  client.Models.GenerateContent,
	}, nil
}

// getDraftSchema mirrors models.IssueDraft. Known repositories and assignees
// become enums so the model cannot invent them.
func getDraftSchema(s ai.DraftSchema) *genai.Schema {
	repo := &genai.Schema{
		Type:        genai.TypeString,
		Description: "URL of the target repository, taken from the repository list",
	}
	if len(s.RepositoryURLs) > 0 {
		repo.Enum = append([]string(nil), s.RepositoryURLs...)
	}

	assignee := &genai.Schema{
		Type:        genai.TypeString,
		Nullable:    boolPtr(true),
		Description: "GitHub username of the assignee, or null when nobody fits",
	}
	if len(s.AssigneeUsernames) > 0 {
		assignee.Enum = append([]string(nil), s.AssigneeUsernames...)
	}

	return &genai.Schema{
		Type:             genai.TypeObject,
		Required:         []string{"repo_url", "title", "body"},
		PropertyOrdering: []string{"repo_url", "assignee_username", "title", "body"},
		Properties: map[string]*genai.Schema{
			"repo_url":          repo,
			"assignee_username": assignee,
			"title": {
				Type:        genai.TypeString,
				Description: "Short imperative title of the issue",
			},
			"body": {
				Type:        genai.TypeString,
				Description: "Body of the issue in markdown format",
			},
		},
	}
}

// GenerateDraft runs one schema-constrained generation call.
func (s *GeminiDraftGenerator) GenerateDraft(ctx context.Context, req ai.DraftRequest) (*models.IssueDraft, *models.TokenUsage, error) {
	log := logger.FromContext(ctx)

	genConfig := GetGenerateConfig(s.temperature, req.Instructions, getDraftSchema(req.Schema))

	resp, err := s.generateFn(ctx, s.model, genai.Text(req.Prompt), genConfig)
	if err != nil {
		log.Error("gemini API call failed",
			"error", err,
			"model", s.model)
		return nil, nil, classifyError(err)
	}

	responseText := formatResponse(resp)
	if responseText == "" {
		log.Error("empty response from gemini AI after format")
		return nil, nil, domainErrors.ErrGenerationFailed.WithContext("reason", "empty response")
	}

	log.Debug("gemini response received",
		"response_length", len(responseText))

	draft, err := ai.ParseDraft(responseText)
	if err != nil {
		log.Error("failed to parse draft response",
			"error", err)
		return nil, nil, domainErrors.ErrGenerationFailed.WithError(err)
	}

	return draft, extractUsage(resp), nil
}

func (s *GeminiDraftGenerator) GetModelName() string {
	return s.model
}

func (s *GeminiDraftGenerator) GetProviderName() string {
	return "gemini"
}
