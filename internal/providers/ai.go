package providers

import (
	"context"
	"fmt"

	"github.com/thomas-vilte/issuemate/internal/ai"
	"github.com/thomas-vilte/issuemate/internal/ai/claude"
	"github.com/thomas-vilte/issuemate/internal/ai/gemini"
	"github.com/thomas-vilte/issuemate/internal/config"
	domainErrors "github.com/thomas-vilte/issuemate/internal/errors"
	"github.com/thomas-vilte/issuemate/internal/logger"
)

// NewDraftBackend creates the DraftBackend for the configured provider,
// wrapped with usage tracking.
func NewDraftBackend(ctx context.Context, cfg *config.Config) (ai.DraftBackend, error) {
	if cfg.AI.Provider == "" {
		return nil, domainErrors.ErrBackendNotConfigured
	}

	var backend ai.DraftBackend
	switch cfg.AI.Provider {
	case config.AIGemini:
		gen, err := gemini.NewGeminiDraftGenerator(ctx, cfg)
		if err != nil {
			return nil, err
		}
		backend = gen
	case config.AIAnthropic:
		gen, err := claude.NewClaudeDraftGenerator(cfg)
		if err != nil {
			return nil, err
		}
		backend = gen
	default:
		return nil, domainErrors.ErrBackendNotConfigured.
			WithError(fmt.Errorf("AI provider '%s' not supported", cfg.AI.Provider))
	}

	if !cfg.AI.IsKnownModel() {
		logger.FromContext(ctx).Warn("unknown model for provider, passing it through",
			"provider", string(cfg.AI.Provider),
			"model", cfg.AI.ResolvedModel())
	}

	return ai.NewUsageTrackingBackend(backend), nil
}
