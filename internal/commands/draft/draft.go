package draft

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/thomas-vilte/issuemate/internal/commands/completion_helper"
	"github.com/thomas-vilte/issuemate/internal/config"
	domainErrors "github.com/thomas-vilte/issuemate/internal/errors"
	"github.com/thomas-vilte/issuemate/internal/i18n"
	"github.com/thomas-vilte/issuemate/internal/models"
	"github.com/thomas-vilte/issuemate/internal/ui"
	"github.com/thomas-vilte/issuemate/internal/vcs"
	"github.com/urfave/cli/v3"
)

type DraftGenerator interface {
	Generate(ctx context.Context, userText string) (*models.IssueDraft, error)
}

type DraftRefiner interface {
	Refine(ctx context.Context, originalText string, current models.IssueDraft, modification string) (*models.IssueDraft, error)
}

type DraftValidator interface {
	ValidateDraft(draft models.IssueDraft) error
}

// Services is everything one interactive session needs.
type Services struct {
	Generator DraftGenerator
	Refiner   DraftRefiner
	Validator DraftValidator
	Submitter vcs.IssueSubmitter
}

type ServicesProvider func(ctx context.Context, cfg *config.Config) (*Services, error)

type DraftCommandFactory struct {
	servicesProvider ServicesProvider
}

func NewDraftCommandFactory(servicesProvider ServicesProvider) *DraftCommandFactory {
	return &DraftCommandFactory{servicesProvider: servicesProvider}
}

func (f *DraftCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:    "draft",
		Aliases: []string{"d"},
		Usage:   t.GetMessage("draft_command_description", 0, nil),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "text",
				Usage: t.GetMessage("flag_text", 0, nil),
			},
		},
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action:        f.draftAction(t, cfg),
	}
}

type action int

const (
	actionRefine action = iota
	actionSubmit
	actionQuit
)

func parseAction(line string) action {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "submit", "s", "enviar":
		return actionSubmit
	case "quit", "q", "exit", "salir":
		return actionQuit
	default:
		return actionRefine
	}
}

func (f *DraftCommandFactory) draftAction(t *i18n.Translations, cfg *config.Config) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		out := cmd.Root().Writer
		errOut := cmd.Root().ErrWriter

		if err := cfg.ValidateCLIToken(); err != nil {
			ui.HandleAppError(errOut, err, t)
			return err
		}

		services, err := f.servicesProvider(ctx, cfg)
		if err != nil {
			ui.HandleAppError(errOut, err, t)
			return err
		}

		in := bufio.NewReader(cmd.Root().Reader)

		userText := strings.TrimSpace(cmd.String("text"))
		if userText == "" {
			_, _ = fmt.Fprintln(out, t.GetMessage("draft_prompt_request", 0, nil))
			userText, err = readLine(in)
			if err != nil || userText == "" {
				ui.PrintWarning(out, t.GetMessage("operation_cancelled", 0, nil))
				return nil
			}
		}

		var current *models.IssueDraft
		err = ui.WithSpinner(errOut, t.GetMessage("draft_generating", 0, nil), func() error {
			current, err = services.Generator.Generate(ctx, userText)
			return err
		})
		if err != nil {
			ui.HandleAppError(errOut, err, t)
			return err
		}

		for {
			ui.PrintDraft(out, current, t)
			_, _ = fmt.Fprintln(out, t.GetMessage("draft_next_action", 0, nil))

			line, err := readLine(in)
			if err != nil {
				ui.PrintWarning(out, t.GetMessage("operation_cancelled", 0, nil))
				return nil
			}
			if line == "" {
				continue
			}

			switch parseAction(line) {
			case actionQuit:
				ui.PrintWarning(out, t.GetMessage("operation_cancelled", 0, nil))
				return nil
			case actionSubmit:
				return submit(ctx, cmd, t, cfg, services, *current)
			}

			var refined *models.IssueDraft
			err = ui.WithSpinner(errOut, t.GetMessage("draft_refining", 0, nil), func() error {
				refined, err = services.Refiner.Refine(ctx, userText, *current, line)
				return err
			})
			if err != nil {
				// A failed refinement keeps the previous draft.
				ui.HandleAppError(errOut, err, t)
				continue
			}
			current = refined
		}
	}
}

func submit(ctx context.Context, cmd *cli.Command, t *i18n.Translations, cfg *config.Config, services *Services, draft models.IssueDraft) error {
	out := cmd.Root().Writer
	errOut := cmd.Root().ErrWriter

	draft = draft.Normalize()
	if !draft.IsComplete() {
		ui.HandleAppError(errOut, domainErrors.ErrIncompleteDraft, t)
		return domainErrors.ErrIncompleteDraft
	}
	if services.Validator != nil {
		if err := services.Validator.ValidateDraft(draft); err != nil {
			ui.HandleAppError(errOut, err, t)
			return err
		}
	}

	var result *models.IssueCreationResponse
	_ = ui.WithSpinner(errOut, t.GetMessage("issue_submitting", 0, nil), func() error {
		result = services.Submitter.Submit(ctx, draft, cfg.CLI.Token)
		return nil
	})

	if !result.Status {
		msg := ""
		if result.ErrorMessage != nil {
			msg = *result.ErrorMessage
		}
		ui.PrintError(errOut, t.GetMessage("issue_creation_failed", 0, map[string]interface{}{
			"Error": msg,
		}))
		if result.Err != nil {
			return result.Err
		}
		return errors.New(msg)
	}

	ui.PrintSuccess(out, t.GetMessage("issue_created", 0, map[string]interface{}{
		"URL": *result.IssueURL,
	}))
	return nil
}

// readLine returns the next trimmed line. A final line without newline is
// still returned; io.EOF only comes back once nothing is left.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}
