package claude

import (
	"context"
	"errors"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/issuemate/internal/ai"
	"github.com/thomas-vilte/issuemate/internal/config"
	domainErrors "github.com/thomas-vilte/issuemate/internal/errors"
)

type fakeMessages struct {
	params anthropic.MessageNewParams
	reply  *anthropic.Message
	err    error
}

func (f *fakeMessages) New(_ context.Context, body anthropic.MessageNewParams, _ ...option.RequestOption) (*anthropic.Message, error) {
	f.params = body
	return f.reply, f.err
}

func replyWith(text string) *anthropic.Message {
	return &anthropic.Message{
		Content: []anthropic.ContentBlockUnion{{Type: "text", Text: text}},
		Usage:   anthropic.Usage{InputTokens: 80, OutputTokens: 20},
	}
}

func TestNewClaudeDraftGenerator(t *testing.T) {
	t.Run("requires an API key", func(t *testing.T) {
		_, err := NewClaudeDraftGenerator(&config.Config{})
		assert.ErrorIs(t, err, domainErrors.ErrBackendNotConfigured)
	})

	t.Run("defaults the model", func(t *testing.T) {
		gen, err := NewClaudeDraftGenerator(&config.Config{AI: config.AIConfig{APIKey: "sk-test"}})
		require.NoError(t, err)
		assert.Equal(t, DefaultModel, gen.GetModelName())
		assert.Equal(t, "anthropic", gen.GetProviderName())
	})
}

func TestGenerateDraft(t *testing.T) {
	req := ai.DraftRequest{
		Operation:    ai.OperationRefine,
		Instructions: "apply the change",
		Prompt:       "make the title shorter",
		Schema:       ai.DraftSchema{AssigneeUsernames: []string{"anadiaz"}},
	}

	t.Run("embeds the schema and decodes the reply", func(t *testing.T) {
		fake := &fakeMessages{reply: replyWith("```json\n{\"repo_url\":\"https://github.com/acme/widgets\",\"assignee_username\":\"anadiaz\",\"title\":\"Fix login\",\"body\":\"b\"}\n```")}
		gen := &ClaudeDraftGenerator{messages: fake, model: "claude-test", temperature: 0.3}

		draft, usage, err := gen.GenerateDraft(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, "Fix login", draft.Title)
		assert.Equal(t, "anadiaz", draft.Assignee())
		assert.Equal(t, 100, usage.TotalTokens)
		require.Len(t, fake.params.System, 1)
		assert.Contains(t, fake.params.System[0].Text, "apply the change")
		assert.Contains(t, fake.params.System[0].Text, `"anadiaz"`)
	})

	t.Run("wraps API errors", func(t *testing.T) {
		gen := &ClaudeDraftGenerator{messages: &fakeMessages{err: errors.New("connection refused")}, model: "claude-test"}

		_, _, err := gen.GenerateDraft(context.Background(), req)

		assert.ErrorIs(t, err, domainErrors.ErrGenerationFailed)
	})

	t.Run("fails without text content", func(t *testing.T) {
		gen := &ClaudeDraftGenerator{messages: &fakeMessages{reply: &anthropic.Message{}}, model: "claude-test"}

		_, _, err := gen.GenerateDraft(context.Background(), req)

		assert.ErrorIs(t, err, domainErrors.ErrGenerationFailed)
	})
}
