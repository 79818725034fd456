package mcp

import (
	"context"
	"io"

	"github.com/thomas-vilte/issuemate/internal/config"
	"github.com/thomas-vilte/issuemate/internal/i18n"
	"github.com/thomas-vilte/issuemate/internal/ui"
	"github.com/urfave/cli/v3"
)

// StdioServer serves MCP over a reader/writer pair until ctx ends or in closes.
type StdioServer interface {
	ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error
}

type ServerProvider func(ctx context.Context, cfg *config.Config, t *i18n.Translations) (StdioServer, error)

type MCPCommandFactory struct {
	serverProvider ServerProvider
}

func NewMCPCommandFactory(serverProvider ServerProvider) *MCPCommandFactory {
	return &MCPCommandFactory{serverProvider: serverProvider}
}

func (f *MCPCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:   "mcp",
		Usage:  t.GetMessage("mcp_command_description", 0, nil),
		Action: f.mcpAction(t, cfg),
	}
}

func (f *MCPCommandFactory) mcpAction(t *i18n.Translations, cfg *config.Config) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		// stdout carries the protocol, so diagnostics go to ErrWriter only.
		if err := cfg.ValidateAI(); err != nil {
			ui.HandleAppError(cmd.Root().ErrWriter, err, t)
			return err
		}

		srv, err := f.serverProvider(ctx, cfg, t)
		if err != nil {
			ui.HandleAppError(cmd.Root().ErrWriter, err, t)
			return err
		}

		return srv.ServeStdio(ctx, cmd.Root().Reader, cmd.Root().Writer)
	}
}
