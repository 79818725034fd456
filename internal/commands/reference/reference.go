package reference

import (
	"context"
	"fmt"

	"github.com/thomas-vilte/issuemate/internal/config"
	"github.com/thomas-vilte/issuemate/internal/i18n"
	"github.com/thomas-vilte/issuemate/internal/reference"
	"github.com/thomas-vilte/issuemate/internal/ui"
	"github.com/urfave/cli/v3"
)

type DataProvider func(cfg *config.Config) (*reference.Data, error)

type ReferenceCommandFactory struct {
	dataProvider DataProvider
}

func NewReferenceCommandFactory(dataProvider DataProvider) *ReferenceCommandFactory {
	return &ReferenceCommandFactory{dataProvider: dataProvider}
}

func (f *ReferenceCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:    "reference",
		Aliases: []string{"ref"},
		Usage:   t.GetMessage("reference_command_description", 0, nil),
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   t.GetMessage("reference_list_command_description", 0, nil),
				Action:  f.listAction(t, cfg),
			},
		},
	}
}

func (f *ReferenceCommandFactory) listAction(t *i18n.Translations, cfg *config.Config) cli.ActionFunc {
	return func(_ context.Context, cmd *cli.Command) error {
		data, err := f.dataProvider(cfg)
		if err != nil {
			ui.HandleAppError(cmd.Root().ErrWriter, err, t)
			return err
		}

		w := cmd.Root().Writer

		repos := data.Repositories()
		printHeading(cmd, t, "reference_repositories", len(repos))
		table := ui.Table(w, []string{
			t.GetMessage("header_url", 0, nil),
			t.GetMessage("header_description", 0, nil),
		})
		for _, r := range repos {
			_ = table.Append([]string{r.URL, r.Description})
		}
		if err := table.Render(); err != nil {
			return fmt.Errorf("error rendering repositories: %w", err)
		}

		assignees := data.Assignees()
		printHeading(cmd, t, "reference_assignees", len(assignees))
		table = ui.Table(w, []string{
			t.GetMessage("header_display_name", 0, nil),
			t.GetMessage("header_username", 0, nil),
		})
		for _, a := range assignees {
			_ = table.Append([]string{a.DisplayName, a.GitHubUsername})
		}
		if err := table.Render(); err != nil {
			return fmt.Errorf("error rendering assignees: %w", err)
		}
		return nil
	}
}

func printHeading(cmd *cli.Command, t *i18n.Translations, titleID string, count int) {
	w := cmd.Root().Writer
	ui.PrintSectionBanner(w, t.GetMessage(titleID, 0, nil))
	ui.PrintInfo(w, t.GetMessage("reference_count", count, map[string]interface{}{
		"Count": count,
	}))
}
