package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/thomas-vilte/issuemate/internal/commands/config"
	"github.com/thomas-vilte/issuemate/internal/commands/draft"
	"github.com/thomas-vilte/issuemate/internal/commands/issues"
	mcpcmd "github.com/thomas-vilte/issuemate/internal/commands/mcp"
	"github.com/thomas-vilte/issuemate/internal/commands/reference"
	"github.com/thomas-vilte/issuemate/internal/commands/registry"
	"github.com/thomas-vilte/issuemate/internal/commands/serve"
	cfg "github.com/thomas-vilte/issuemate/internal/config"
	"github.com/thomas-vilte/issuemate/internal/i18n"
	"github.com/thomas-vilte/issuemate/internal/logger"
	"github.com/thomas-vilte/issuemate/internal/mcp"
	"github.com/thomas-vilte/issuemate/internal/providers"
	"github.com/thomas-vilte/issuemate/internal/vcs/github"
	"github.com/thomas-vilte/issuemate/internal/version"
	"github.com/urfave/cli/v3"
)

func main() {
	app, err := initializeApp(os.Args)
	if err != nil {
		log.Fatalf("Error starting issuemate: %v", err)
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func initializeApp(args []string) (*cli.Command, error) {
	cfgApp, err := cfg.LoadConfig(configPathFromArgs(args))
	if err != nil {
		return nil, err
	}

	translations, err := i18n.NewTranslations(cfgApp.Language)
	if err != nil {
		return nil, err
	}

	registerCommand := registry.NewRegistry(cfgApp, translations)

	factories := []registry.CommandFactory{
		serve.NewServeCommandFactory(newHandler),
		draft.NewDraftCommandFactory(newDraftServices),
		issues.NewIssuesCommandFactory(newIssueCreator),
		reference.NewReferenceCommandFactory(providers.NewReference),
		mcpcmd.NewMCPCommandFactory(newMCPServer),
		config.NewConfigCommandFactory(),
	}
	for _, factory := range factories {
		if err := registerCommand.Register(factory); err != nil {
			return nil, err
		}
	}

	return &cli.Command{
		Name:                  "issuemate",
		Usage:                 translations.GetMessage("app_description", 0, nil),
		Version:               version.Version,
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   translations.GetMessage("flag_config", 0, nil),
				Sources: cli.EnvVars(cfg.EnvPrefix + "_CONFIG"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			format := logger.FormatPretty
			if cmd.Args().First() == "serve" {
				format = logger.FormatJSON
			}
			l := logger.Initialize(format, cfgApp.LogLevel)
			return logger.WithLogger(ctx, l), nil
		},
		Commands: registerCommand.Commands(),
	}, nil
}

// configPathFromArgs finds --config before the app runs, since every command
// is built from the loaded configuration.
func configPathFromArgs(args []string) string {
	for i := 1; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			return os.Getenv(cfg.EnvPrefix + "_CONFIG")
		case arg == "--config" || arg == "-config" || arg == "-c":
			if i+1 < len(args) {
				return args[i+1]
			}
		case strings.HasPrefix(arg, "--config="):
			return strings.TrimPrefix(arg, "--config=")
		case strings.HasPrefix(arg, "-c="):
			return strings.TrimPrefix(arg, "-c=")
		}
	}
	return os.Getenv(cfg.EnvPrefix + "_CONFIG")
}

func newHandler(ctx context.Context, c *cfg.Config, t *i18n.Translations) (http.Handler, func() error, error) {
	srv, release, err := providers.NewAPIServer(ctx, c, t)
	if err != nil {
		return nil, nil, err
	}
	return srv.Router(), release, nil
}

func newDraftServices(ctx context.Context, c *cfg.Config) (*draft.Services, error) {
	drafting, err := providers.NewDrafting(ctx, c)
	if err != nil {
		return nil, err
	}
	return &draft.Services{
		Generator: drafting.Generator,
		Refiner:   drafting.Refiner,
		Validator: drafting.Reference,
		Submitter: providers.NewIssueSubmitter(c),
	}, nil
}

func newIssueCreator(c *cfg.Config) issues.IssueCreator {
	return github.NewSubmitter(providers.NewHTTPClient(c))
}

func newMCPServer(ctx context.Context, c *cfg.Config, t *i18n.Translations) (mcpcmd.StdioServer, error) {
	drafting, err := providers.NewDrafting(ctx, c)
	if err != nil {
		return nil, err
	}
	return mcp.NewServer(drafting.Generator, drafting.Refiner, drafting.Reference, t, version.FullVersion()), nil
}
