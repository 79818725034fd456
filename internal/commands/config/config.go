package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/thomas-vilte/issuemate/internal/commands/completion_helper"
	"github.com/thomas-vilte/issuemate/internal/config"
	"github.com/thomas-vilte/issuemate/internal/i18n"
	"github.com/thomas-vilte/issuemate/internal/ui"
	"github.com/urfave/cli/v3"
)

type ConfigCommandFactory struct{}

func NewConfigCommandFactory() *ConfigCommandFactory {
	return &ConfigCommandFactory{}
}

func (c *ConfigCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: t.GetMessage("config_command_description", 0, nil),
		Commands: []*cli.Command{
			c.newInitCommand(t, cfg),
			c.newShowCommand(t, cfg),
		},
	}
}

func (c *ConfigCommandFactory) newInitCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: t.GetMessage("config_init_command_description", 0, nil),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "path",
				Usage: t.GetMessage("flag_path", 0, nil),
			},
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   t.GetMessage("flag_force", 0, nil),
			},
		},
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action:        initConfigAction(cfg, t),
	}
}

func initConfigAction(cfg *config.Config, t *i18n.Translations) cli.ActionFunc {
	return func(_ context.Context, cmd *cli.Command) error {
		path, err := targetPath(cmd, cfg)
		if err != nil {
			return err
		}

		if cmd.Bool("force") {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("error removing existing config: %w", err)
			}
		}

		if err := config.WriteTemplate(path); err != nil {
			return err
		}

		w := cmd.Root().Writer
		ui.PrintSuccess(w, t.GetMessage("config_created", 0, map[string]interface{}{
			"Path": path,
		}))
		ui.PrintInfo(w, t.GetMessage("config_created_hint", 0, nil))
		return nil
	}
}

func targetPath(cmd *cli.Command, cfg *config.Config) (string, error) {
	if p := cmd.String("path"); p != "" {
		return p, nil
	}
	if cfg.PathFile != "" {
		return cfg.PathFile, nil
	}
	return config.DefaultPath()
}

func (c *ConfigCommandFactory) newShowCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: t.GetMessage("config_show_command_description", 0, nil),
		Action: func(_ context.Context, cmd *cli.Command) error {
			w := cmd.Root().Writer
			ui.PrintSectionBanner(w, cfg.PathFile)
			for _, kv := range showEntries(cfg) {
				ui.PrintKeyValue(w, kv[0], kv[1])
			}
			return nil
		},
	}
}

func showEntries(cfg *config.Config) [][2]string {
	return [][2]string{
		{"server.addr", cfg.Server.Addr},
		{"server.frontend_url", cfg.Server.FrontendURL},
		{"server.allowed_origins", strings.Join(cfg.Server.AllowedOrigins, ", ")},
		{"server.timeout", cfg.Server.OutboundTimeout.String()},
		{"ai.provider", string(cfg.AI.Provider)},
		{"ai.model", cfg.AI.Model},
		{"ai.api_key", mask(cfg.AI.APIKey)},
		{"github.host", cfg.GitHub.Host},
		{"github.client_id", cfg.GitHub.ClientID},
		{"github.client_secret", mask(cfg.GitHub.ClientSecret)},
		{"session.signing_key", mask(cfg.Session.SigningKey)},
		{"session.ttl", cfg.Session.TTL.String()},
		{"reference.repositories_file", cfg.Reference.RepositoriesFile},
		{"reference.assignees_file", cfg.Reference.AssigneesFile},
		{"storage.bucket", cfg.Storage.Bucket},
		{"cli.token", mask(cfg.CLI.Token)},
		{"cli.owner", cfg.CLI.Owner},
		{"cli.repo", cfg.CLI.Repo},
		{"language", cfg.Language},
	}
}

// mask keeps the last four characters of secrets longer than eight.
func mask(secret string) string {
	switch {
	case secret == "":
		return ""
	case len(secret) <= 8:
		return "****"
	default:
		return "****" + secret[len(secret)-4:]
	}
}
