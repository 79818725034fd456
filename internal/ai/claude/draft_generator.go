// Package claude implements the draft backend on the Anthropic Messages API.
package claude

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/thomas-vilte/issuemate/internal/ai"
	"github.com/thomas-vilte/issuemate/internal/config"
	domainErrors "github.com/thomas-vilte/issuemate/internal/errors"
	"github.com/thomas-vilte/issuemate/internal/logger"
	"github.com/thomas-vilte/issuemate/internal/models"
)

const DefaultModel = string(config.ModelClaudeSonnet45)

type messageCreator interface {
	New(ctx context.Context, body anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// ClaudeDraftGenerator implements ai.DraftBackend. The draft schema travels in
// the system prompt and the reply is decoded strictly.
type ClaudeDraftGenerator struct {
	messages    messageCreator
	model       anthropic.Model
	temperature float64
}

var _ ai.DraftBackend = (*ClaudeDraftGenerator)(nil)

func NewClaudeDraftGenerator(cfg *config.Config) (*ClaudeDraftGenerator, error) {
	if cfg.AI.APIKey == "" {
		return nil, domainErrors.ErrBackendNotConfigured.WithContext("provider", "anthropic")
	}

	client := anthropic.NewClient(
		option.WithAPIKey(cfg.AI.APIKey),
		option.WithHTTPClient(&http.Client{Timeout: cfg.Server.OutboundTimeout}),
		option.WithMaxRetries(0),
	)

	model := cfg.AI.Model
	if model == "" {
		model = DefaultModel
	}

	return &ClaudeDraftGenerator{
		messages:    &client.Messages,
		model:       anthropic.Model(model),
		temperature: float64(cfg.AI.Temperature),
	}, nil
}

func buildSystemPrompt(req ai.DraftRequest) (string, error) {
	schema, err := json.MarshalIndent(req.Schema.JSONSchema(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("error encoding draft schema: %w", err)
	}
	return fmt.Sprintf("%s\n\n# JSON Schema (MANDATORY)\n%s\n\nReturn valid JSON only, no markdown fencing or explanation.", req.Instructions, schema), nil
}

// GenerateDraft sends one message and decodes the JSON reply.
func (c *ClaudeDraftGenerator) GenerateDraft(ctx context.Context, req ai.DraftRequest) (*models.IssueDraft, *models.TokenUsage, error) {
	log := logger.FromContext(ctx)

	system, err := buildSystemPrompt(req)
	if err != nil {
		return nil, nil, domainErrors.ErrGenerationFailed.WithError(err)
	}

	msg, err := c.messages.New(ctx, anthropic.MessageNewParams{
		Model:       c.model,
		MaxTokens:   4096,
		Temperature: anthropic.Float(c.temperature),
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	})
	if err != nil {
		log.Error("anthropic API call failed",
			"error", err,
			"model", string(c.model))
		return nil, nil, classifyError(err)
	}

	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	if text == "" {
		return nil, nil, domainErrors.ErrGenerationFailed.WithContext("reason", "no text content in API response")
	}

	draft, err := ai.ParseDraft(text)
	if err != nil {
		log.Error("failed to parse draft response",
			"error", err)
		return nil, nil, domainErrors.ErrGenerationFailed.WithError(err)
	}

	usage := &models.TokenUsage{
		InputTokens:  int(msg.Usage.InputTokens),
		OutputTokens: int(msg.Usage.OutputTokens),
		TotalTokens:  int(msg.Usage.InputTokens + msg.Usage.OutputTokens),
	}
	return draft, usage, nil
}

func classifyError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusTooManyRequests:
			return domainErrors.ErrGenerationFailed.
				WithError(err).
				WithSuggestion("Anthropic rate limit reached, wait a moment and try again")
		case http.StatusUnauthorized, http.StatusForbidden:
			return domainErrors.ErrGenerationFailed.
				WithError(err).
				WithSuggestion("Check that ai.api_key holds a valid Anthropic API key")
		}
	}
	return domainErrors.ErrGenerationFailed.WithError(err)
}

func (c *ClaudeDraftGenerator) GetModelName() string {
	return string(c.model)
}

func (c *ClaudeDraftGenerator) GetProviderName() string {
	return "anthropic"
}
