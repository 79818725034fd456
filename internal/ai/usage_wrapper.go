package ai

import (
	"context"
	"time"

	"github.com/thomas-vilte/issuemate/internal/logger"
	"github.com/thomas-vilte/issuemate/internal/models"
)

// UsageTrackingBackend decorates a DraftBackend with timing and token usage
// logging. It never retries and never caches.
type UsageTrackingBackend struct {
	backend DraftBackend
	now     func() time.Time
}

var _ DraftBackend = (*UsageTrackingBackend)(nil)

func NewUsageTrackingBackend(backend DraftBackend) *UsageTrackingBackend {
	return &UsageTrackingBackend{
		backend: backend,
		now:     time.Now,
	}
}

func (w *UsageTrackingBackend) GenerateDraft(ctx context.Context, req DraftRequest) (*models.IssueDraft, *models.TokenUsage, error) {
	startTime := w.now()
	log := logger.FromContext(ctx).With(
		"operation", string(req.Operation),
		"provider", w.backend.GetProviderName(),
		"model", w.backend.GetModelName())

	log.Debug("calling draft backend", "prompt_length", len(req.Prompt))

	draft, usage, err := w.backend.GenerateDraft(ctx, req)
	duration := w.now().Sub(startTime).Milliseconds()
	if err != nil {
		log.Error("draft backend call failed",
			"error", err,
			"duration_ms", duration)
		return nil, nil, err
	}

	if usage == nil {
		usage = &models.TokenUsage{}
	}
	usage.Model = w.backend.GetModelName()
	usage.DurationMs = duration

	log.Info("draft backend call completed",
		"input_tokens", usage.InputTokens,
		"output_tokens", usage.OutputTokens,
		"total_tokens", usage.TotalTokens,
		"duration_ms", usage.DurationMs)

	return draft, usage, nil
}

func (w *UsageTrackingBackend) GetModelName() string {
	return w.backend.GetModelName()
}

func (w *UsageTrackingBackend) GetProviderName() string {
	return w.backend.GetProviderName()
}
