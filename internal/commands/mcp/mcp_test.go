package mcp

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/issuemate/internal/config"
	domainErrors "github.com/thomas-vilte/issuemate/internal/errors"
	"github.com/thomas-vilte/issuemate/internal/i18n"
	"github.com/urfave/cli/v3"
)

type fakeStdioServer struct {
	input string
}

func (f *fakeStdioServer) ServeStdio(_ context.Context, in io.Reader, out io.Writer) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return err
	}
	f.input = string(data)
	_, err = io.WriteString(out, `{"jsonrpc":"2.0","id":1,"result":{}}`)
	return err
}

func runMCP(t *testing.T, cfg *config.Config, provider ServerProvider, input string) (string, string, error) {
	trans, err := i18n.NewTranslations("en")
	require.NoError(t, err)

	var out, errOut bytes.Buffer
	app := &cli.Command{
		Name:      "test",
		Reader:    strings.NewReader(input),
		Writer:    &out,
		ErrWriter: &errOut,
		Commands:  []*cli.Command{NewMCPCommandFactory(provider).CreateCommand(trans, cfg)},
	}
	err = app.Run(context.Background(), []string{"test", "mcp"})
	return out.String(), errOut.String(), err
}

func TestMCPCommand(t *testing.T) {
	t.Run("should wire stdin and stdout to the server", func(t *testing.T) {
		fake := &fakeStdioServer{}
		cfg := &config.Config{AI: config.AIConfig{Provider: config.AIGemini, APIKey: "k"}}

		out, errOut, err := runMCP(t, cfg, func(context.Context, *config.Config, *i18n.Translations) (StdioServer, error) {
			return fake, nil
		}, `{"jsonrpc":"2.0","id":1,"method":"ping"}`)

		require.NoError(t, err)
		assert.Equal(t, `{"jsonrpc":"2.0","id":1,"method":"ping"}`, fake.input)
		assert.Equal(t, `{"jsonrpc":"2.0","id":1,"result":{}}`, out)
		assert.Empty(t, errOut)
	})

	t.Run("should keep stdout clean on configuration errors", func(t *testing.T) {
		called := false
		out, errOut, err := runMCP(t, &config.Config{}, func(context.Context, *config.Config, *i18n.Translations) (StdioServer, error) {
			called = true
			return &fakeStdioServer{}, nil
		}, "")

		assert.ErrorIs(t, err, domainErrors.ErrBackendNotConfigured)
		assert.False(t, called)
		assert.Empty(t, out)
		assert.NotEmpty(t, errOut)
	})
}
