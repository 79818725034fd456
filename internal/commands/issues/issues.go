package issues

import (
	"context"
	"strings"

	"github.com/thomas-vilte/issuemate/internal/commands/completion_helper"
	"github.com/thomas-vilte/issuemate/internal/config"
	"github.com/thomas-vilte/issuemate/internal/i18n"
	"github.com/thomas-vilte/issuemate/internal/ui"
	"github.com/thomas-vilte/issuemate/internal/vcs/github"
	"github.com/urfave/cli/v3"
)

// IssueCreator sends one issue creation request.
type IssueCreator interface {
	Create(ctx context.Context, target github.RepoTarget, payload github.IssuePayload, token string) (*github.CreatedIssue, error)
}

type IssueCreatorProvider func(cfg *config.Config) IssueCreator

// IssuesCommandFactory is the factory to create the issue command.
type IssuesCommandFactory struct {
	creatorProvider IssueCreatorProvider
}

func NewIssuesCommandFactory(creatorProvider IssueCreatorProvider) *IssuesCommandFactory {
	return &IssuesCommandFactory{creatorProvider: creatorProvider}
}

// CreateCommand creates the issue command with its subcommands.
func (f *IssuesCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:    "issue",
		Aliases: []string{"i"},
		Usage:   t.GetMessage("issue_command_description", 0, nil),
		Commands: []*cli.Command{
			f.newCreateCommand(t, cfg),
		},
	}
}

func (f *IssuesCommandFactory) newCreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:          "create",
		Aliases:       []string{"c"},
		Usage:         t.GetMessage("issue_create_command_description", 0, nil),
		Flags:         createFlags(t),
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action:        f.createAction(t, cfg),
	}
}

func createFlags(t *i18n.Translations) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "title",
			Aliases:  []string{"t"},
			Usage:    t.GetMessage("flag_title", 0, nil),
			Required: true,
		},
		&cli.StringFlag{
			Name:    "body",
			Aliases: []string{"b"},
			Usage:   t.GetMessage("flag_body", 0, nil),
		},
		&cli.StringFlag{
			Name:    "assignee",
			Aliases: []string{"a"},
			Usage:   t.GetMessage("flag_assignee", 0, nil),
		},
		&cli.StringSliceFlag{
			Name:    "label",
			Aliases: []string{"l"},
			Usage:   t.GetMessage("flag_label", 0, nil),
		},
	}
}

func (f *IssuesCommandFactory) createAction(t *i18n.Translations, cfg *config.Config) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		errOut := cmd.Root().ErrWriter

		if err := cfg.ValidateCLI(); err != nil {
			ui.HandleAppError(errOut, err, t)
			return err
		}

		target, err := github.ParseRepoReference(cfg.CLIRepositoryURL())
		if err != nil {
			ui.HandleAppError(errOut, err, t)
			return err
		}

		payload := github.IssuePayload{
			Title:  strings.TrimSpace(cmd.String("title")),
			Body:   cmd.String("body"),
			Labels: cmd.StringSlice("label"),
		}
		if a := strings.TrimSpace(cmd.String("assignee")); a != "" {
			payload.Assignees = []string{a}
		}

		var created *github.CreatedIssue
		err = ui.WithSpinner(errOut, t.GetMessage("issue_submitting", 0, nil), func() error {
			created, err = f.creatorProvider(cfg).Create(ctx, target, payload, cfg.CLI.Token)
			return err
		})
		if err != nil {
			ui.HandleAppError(errOut, err, t)
			return err
		}

		ui.PrintSuccess(cmd.Root().Writer, t.GetMessage("issue_created", 0, map[string]interface{}{
			"URL": created.URL,
		}))
		return nil
	}
}
