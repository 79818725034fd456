package gemini

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	domainErrors "github.com/thomas-vilte/issuemate/internal/errors"
	"google.golang.org/genai"
)

func TestExtractUsage(t *testing.T) {
	t.Run("nil response", func(t *testing.T) {
		assert.Nil(t, extractUsage(nil))
	})

	t.Run("nil UsageMetadata", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{}
		assert.Nil(t, extractUsage(resp))
	})

	t.Run("valid UsageMetadata", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
				PromptTokenCount:     10,
				CandidatesTokenCount: 20,
				TotalTokenCount:      30,
			},
		}
		usage := extractUsage(resp)
		assert.NotNil(t, usage)
		assert.Equal(t, 10, usage.InputTokens)
		assert.Equal(t, 20, usage.OutputTokens)
		assert.Equal(t, 30, usage.TotalTokens)
	})
}

func TestGetGenerateConfig(t *testing.T) {
	t.Run("plain config", func(t *testing.T) {
		cfg := GetGenerateConfig(0.3, "", nil)
		assert.NotNil(t, cfg)
		assert.Equal(t, float32(0.3), *cfg.Temperature)
		assert.Empty(t, cfg.ResponseMIMEType)
		assert.Nil(t, cfg.SystemInstruction)
	})

	t.Run("schema switches to json", func(t *testing.T) {
		schema := &genai.Schema{Type: genai.TypeObject}
		cfg := GetGenerateConfig(0.2, "be precise", schema)
		assert.Equal(t, "application/json", cfg.ResponseMIMEType)
		assert.Same(t, schema, cfg.ResponseSchema)
		assert.Equal(t, "be precise", cfg.SystemInstruction.Parts[0].Text)
	})
}

func TestFormatResponse(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "thinking...", Thought: true},
				{Text: `{"title":`},
				{Text: `"x"}`},
			}},
		}},
	}

	assert.Equal(t, `{"title":"x"}`, formatResponse(resp))
	assert.Empty(t, formatResponse(nil))
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		suggestion string
	}{
		{"quota", errors.New("Error 429: RESOURCE EXHAUSTED"), "quota"},
		{"api key", errors.New("API key not valid"), "ai.api_key"},
		{"other", errors.New("connection reset"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyError(tt.err)

			assert.ErrorIs(t, err, domainErrors.ErrGenerationFailed)
			assert.ErrorIs(t, err, tt.err)
			var appErr *domainErrors.AppError
			assert.True(t, errors.As(err, &appErr))
			if tt.suggestion != "" {
				assert.Contains(t, appErr.Suggestion, tt.suggestion)
			}
		})
	}
}
